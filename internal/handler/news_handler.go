package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trade-journal/internal/middleware"
	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/internal/service"
	"github.com/trade-journal/pkg/response"
	"github.com/trade-journal/pkg/tradecalc"
)

// NewsHandler handles economic calendar API requests
type NewsHandler struct {
	newsService *service.NewsService
}

// NewNewsHandler creates a new NewsHandler
func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
	}
}

// parseDay parses a YYYY-MM-DD query value. endOfDay moves the instant to the
// last nanosecond of that day so the bound is inclusive.
func parseDay(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(tradecalc.DateLayout, value)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// GetCalendar lists upcoming economic events
// GET /api/v1/news/calendar?date_from=&date_to=&currencies=USD,EUR&impact=High
func (h *NewsHandler) GetCalendar(c *gin.Context) {
	from, err := parseDay(c.Query("date_from"), false)
	if err != nil {
		response.BadRequest(c, "invalid date_from (YYYY-MM-DD)")
		return
	}
	to, err := parseDay(c.Query("date_to"), true)
	if err != nil {
		response.BadRequest(c, "invalid date_to (YYYY-MM-DD)")
		return
	}

	var currencies []string
	if raw := c.Query("currencies"); raw != "" {
		currencies = strings.Split(raw, ",")
	}

	events, err := h.newsService.Calendar(service.CalendarQuery{
		From:       from,
		To:         to,
		Currencies: currencies,
		Impact:     c.Query("impact"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidImpact) || errors.Is(err, service.ErrInvalidDateRange) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "failed to get economic calendar")
		return
	}

	response.Success(c, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// Refresh pulls fresh events from the providers right away
// POST /api/v1/news/refresh
func (h *NewsHandler) Refresh(c *gin.Context) {
	result, err := h.newsService.Refresh(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to refresh economic calendar")
		return
	}
	response.Success(c, result)
}

// RegisterRoutes registers news routes
func (h *NewsHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	news := rg.Group("/news")
	news.Use(authMiddleware)
	{
		news.GET("/calendar", h.GetCalendar)
		news.POST("/refresh", middleware.RequireRole(models.RoleAdmin), h.Refresh)
	}
}
