package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-journal/internal/models"
)

func register(t *testing.T, s *AuthService, email string) *AuthResponse {
	t.Helper()
	resp, err := s.Register(&RegisterRequest{
		Email: email, Password: "Secret123", FirstName: "Ada", LastName: "Lovelace",
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	first := register(t, f.auth, "First@Example.com")
	assert.Equal(t, "first@example.com", first.User.Email)
	assert.Equal(t, models.RoleAdmin, first.User.Role)
	assert.NotEmpty(t, first.Tokens.AccessToken)
	assert.NotEmpty(t, first.Tokens.RefreshToken)
	assert.Equal(t, 900, first.Tokens.ExpiresIn)

	second := register(t, f.auth, "second@example.com")
	assert.Equal(t, models.RoleUser, second.User.Role)

	login, err := f.auth.Login(&LoginRequest{Email: "FIRST@example.com", Password: "Secret123"})
	require.NoError(t, err)
	claims, err := f.auth.ValidateToken(login.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = f.auth.Login(&LoginRequest{Email: "first@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(&LoginRequest{Email: "nobody@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	register(t, f.auth, "taken@example.com")

	_, err := f.auth.Register(&RegisterRequest{Email: "taken@example.com", Password: "Secret123", FirstName: "a", LastName: "b"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	for _, pw := range []string{"short1A", "alllowercase1", "NoDigitsHere"} {
		_, err := f.auth.Register(&RegisterRequest{Email: "new@example.com", Password: pw, FirstName: "a", LastName: "b"})
		assert.ErrorIs(t, err, ErrWeakPassword, pw)
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newFixture(t)
	resp := register(t, f.auth, "refresh@example.com")

	pair, err := f.auth.RefreshToken(resp.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// access tokens are signed with a different secret
	_, err = f.auth.RefreshToken(resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.auth.ValidateToken(resp.Tokens.RefreshToken)
	assert.Error(t, err)
}

func TestAuthService_ProfileAndPassword(t *testing.T) {
	f := newFixture(t)
	a := register(t, f.auth, "a@example.com")
	register(t, f.auth, "b@example.com")

	_, err := f.auth.UpdateProfile(a.User.ID, &UpdateProfileRequest{Email: "b@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	u, err := f.auth.UpdateProfile(a.User.ID, &UpdateProfileRequest{FirstName: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", u.FirstName)
	assert.Equal(t, "Lovelace", u.LastName)

	err = f.auth.ChangePassword(a.User.ID, &ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "another1"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, f.auth.ChangePassword(a.User.ID, &ChangePasswordRequest{CurrentPassword: "Secret123", NewPassword: "another1"}))
	_, err = f.auth.Login(&LoginRequest{Email: "a@example.com", Password: "another1"})
	assert.NoError(t, err)
}
