package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/trade-journal/internal/logging"
	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/internal/repository"
	"github.com/trade-journal/pkg/tradecalc"
)

var (
	ErrTradeNotFound    = errors.New("trade not found")
	ErrDuplicateTrade   = errors.New("trade already exists")
	ErrMissingSymbol    = errors.New("symbol is required")
	ErrInvalidDate      = errors.New("invalid date format (YYYY-MM-DD)")
	ErrInvalidSession   = errors.New("session must be asian, london, newyork or overlap")
	ErrInvalidPrice     = errors.New("prices and lot size must be greater than 0")
	ErrInvalidMonth     = errors.New("invalid month format (YYYY-MM)")
	ErrInvalidCSV       = errors.New("invalid csv file")
	ErrExitBeforeEntry  = errors.New("exit must not be before entry")
	ErrInvalidDirection = tradecalc.ErrInvalidDirection
	ErrInvalidTime      = tradecalc.ErrInvalidClock
)

// Invalidator drops cached analytics for a user
type Invalidator interface {
	Invalidate(ctx context.Context, userID uint)
}

// TradeService manages a user's trade journal
type TradeService struct {
	tradeRepo   *repository.TradeRepository
	capital     *CapitalService
	invalidator Invalidator
	now         func() time.Time
}

// NewTradeService creates a new TradeService. invalidator may be nil.
func NewTradeService(
	tradeRepo *repository.TradeRepository,
	capital *CapitalService,
	invalidator Invalidator,
) *TradeService {
	return &TradeService{
		tradeRepo:   tradeRepo,
		capital:     capital,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// CreateTradeRequest represents a new journal entry
type CreateTradeRequest struct {
	Symbol     string   `json:"symbol" binding:"required,max=20"`
	Direction  string   `json:"direction" binding:"required"`
	EntryDate  string   `json:"entry_date" binding:"required"`
	EntryTime  string   `json:"entry_time" binding:"required"`
	EntryPrice float64  `json:"entry_price" binding:"required"`
	LotSize    float64  `json:"lot_size" binding:"required"`
	ExitDate   string   `json:"exit_date" binding:"required"`
	ExitTime   string   `json:"exit_time" binding:"required"`
	ExitPrice  float64  `json:"exit_price" binding:"required"`
	TakeProfit *float64 `json:"tp"`
	StopLoss   *float64 `json:"sl"`
	Setup      string   `json:"setup" binding:"max=100"`
	Notes      string   `json:"notes"`
	Screenshot string   `json:"screenshot" binding:"max=500"`
	Session    string   `json:"session"`
}

// UpdateTradeRequest is a partial update. Nil fields are left unchanged.
type UpdateTradeRequest struct {
	Symbol     *string  `json:"symbol"`
	Direction  *string  `json:"direction"`
	EntryDate  *string  `json:"entry_date"`
	EntryTime  *string  `json:"entry_time"`
	EntryPrice *float64 `json:"entry_price"`
	LotSize    *float64 `json:"lot_size"`
	ExitDate   *string  `json:"exit_date"`
	ExitTime   *string  `json:"exit_time"`
	ExitPrice  *float64 `json:"exit_price"`
	TakeProfit *float64 `json:"tp"`
	StopLoss   *float64 `json:"sl"`
	Setup      *string  `json:"setup"`
	Notes      *string  `json:"notes"`
	Screenshot *string  `json:"screenshot"`
	Session    *string  `json:"session"`
}

// ImportError describes a CSV row that could not be imported
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a CSV import
type ImportResult struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

func (r *CreateTradeRequest) toModel(userID uint, source models.ImportSource) (*models.Trade, error) {
	direction, err := tradecalc.ParseDirection(r.Direction)
	if err != nil {
		return nil, err
	}
	return &models.Trade{
		UserID:       userID,
		Symbol:       tradecalc.FormatSymbol(r.Symbol),
		Direction:    direction,
		EntryDate:    strings.TrimSpace(r.EntryDate),
		EntryTime:    strings.TrimSpace(r.EntryTime),
		EntryPrice:   r.EntryPrice,
		LotSize:      tradecalc.Round2(r.LotSize),
		ExitDate:     strings.TrimSpace(r.ExitDate),
		ExitTime:     strings.TrimSpace(r.ExitTime),
		ExitPrice:    r.ExitPrice,
		TakeProfit:   r.TakeProfit,
		StopLoss:     r.StopLoss,
		Setup:        strings.TrimSpace(r.Setup),
		Notes:        r.Notes,
		Screenshot:   strings.TrimSpace(r.Screenshot),
		Session:      tradecalc.Session(strings.ToLower(strings.TrimSpace(r.Session))),
		ImportSource: source,
	}, nil
}

// validateTrade checks the raw fields of a trade before derivation
func validateTrade(t *models.Trade) error {
	if t.Symbol == "" {
		return ErrMissingSymbol
	}
	if _, err := tradecalc.ParseDirection(string(t.Direction)); err != nil {
		return err
	}
	if t.EntryPrice <= 0 || t.ExitPrice <= 0 || t.LotSize <= 0 {
		return ErrInvalidPrice
	}

	entryDay, err := time.Parse(tradecalc.DateLayout, t.EntryDate)
	if err != nil {
		return ErrInvalidDate
	}
	exitDay, err := time.Parse(tradecalc.DateLayout, t.ExitDate)
	if err != nil {
		return ErrInvalidDate
	}
	entryMin, err := tradecalc.ParseClock(t.EntryTime)
	if err != nil {
		return ErrInvalidTime
	}
	exitMin, err := tradecalc.ParseClock(t.ExitTime)
	if err != nil {
		return ErrInvalidTime
	}
	entry := entryDay.Add(time.Duration(entryMin) * time.Minute)
	exit := exitDay.Add(time.Duration(exitMin) * time.Minute)
	if exit.Before(entry) {
		return ErrExitBeforeEntry
	}

	if t.Session != "" && !tradecalc.IsValidSession(t.Session) {
		return ErrInvalidSession
	}
	return nil
}

// derive recomputes pips, P/L and P/L percent. The percent is measured
// against the balance without this trade. A missing session is detected
// from the entry time.
func (s *TradeService) derive(t *models.Trade) error {
	reference, err := s.capital.CurrentBalance(t.UserID, t.ID)
	if err != nil {
		return err
	}
	result, err := tradecalc.Evaluate(t.CalcInput(), reference)
	if err != nil {
		return ErrInvalidTime
	}
	t.Pips = result.Pips
	t.ProfitLoss = result.ProfitLoss
	t.ProfitLossPercent = result.ProfitLossPercent
	if t.Session == "" {
		t.Session = result.Session
	}
	return nil
}

func (s *TradeService) invalidate(ctx context.Context, userID uint) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, userID)
	}
}

func (s *TradeService) insert(t *models.Trade) error {
	if err := validateTrade(t); err != nil {
		return err
	}
	exists, err := s.tradeRepo.Exists(t.UserID, t.Symbol, t.EntryDate, t.EntryTime, t.EntryPrice)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateTrade
	}
	if err := s.derive(t); err != nil {
		return err
	}
	if err := s.tradeRepo.Create(t); err != nil {
		if errors.Is(err, repository.ErrDuplicateTrade) {
			return ErrDuplicateTrade
		}
		return err
	}
	return nil
}

// Create journals a new trade
func (s *TradeService) Create(ctx context.Context, userID uint, req *CreateTradeRequest) (*models.Trade, error) {
	trade, err := req.toModel(userID, models.ImportManual)
	if err != nil {
		return nil, err
	}
	if err := s.insert(trade); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return trade, nil
}

// Get retrieves one of the user's trades
func (s *TradeService) Get(userID, id uint) (*models.Trade, error) {
	trade, err := s.tradeRepo.GetByIDAndUserID(id, userID)
	if errors.Is(err, repository.ErrTradeNotFound) {
		return nil, ErrTradeNotFound
	}
	return trade, err
}

// List retrieves a page of the user's trades
func (s *TradeService) List(userID uint, filter repository.TradeFilter, page, pageSize int) ([]models.Trade, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.tradeRepo.ListPaginated(userID, filter, page, pageSize)
}

// Update applies a partial update and recomputes the derived fields
func (s *TradeService) Update(ctx context.Context, userID, id uint, req *UpdateTradeRequest) (*models.Trade, error) {
	trade, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}

	if req.Symbol != nil {
		trade.Symbol = tradecalc.FormatSymbol(*req.Symbol)
	}
	if req.Direction != nil {
		direction, err := tradecalc.ParseDirection(*req.Direction)
		if err != nil {
			return nil, err
		}
		trade.Direction = direction
	}
	setString(&trade.EntryDate, req.EntryDate)
	setString(&trade.EntryTime, req.EntryTime)
	setString(&trade.ExitDate, req.ExitDate)
	setString(&trade.ExitTime, req.ExitTime)
	setString(&trade.Setup, req.Setup)
	setString(&trade.Screenshot, req.Screenshot)
	if req.Notes != nil {
		trade.Notes = *req.Notes
	}
	if req.EntryPrice != nil {
		trade.EntryPrice = *req.EntryPrice
	}
	if req.LotSize != nil {
		trade.LotSize = tradecalc.Round2(*req.LotSize)
	}
	if req.ExitPrice != nil {
		trade.ExitPrice = *req.ExitPrice
	}
	if req.TakeProfit != nil {
		trade.TakeProfit = req.TakeProfit
	}
	if req.StopLoss != nil {
		trade.StopLoss = req.StopLoss
	}
	if req.Session != nil {
		trade.Session = tradecalc.Session(strings.ToLower(strings.TrimSpace(*req.Session)))
	} else if req.EntryTime != nil {
		// the stored label came from the old entry time
		trade.Session = ""
	}

	if err := validateTrade(trade); err != nil {
		return nil, err
	}
	if err := s.derive(trade); err != nil {
		return nil, err
	}
	if err := s.tradeRepo.Update(trade); err != nil {
		if errors.Is(err, repository.ErrDuplicateTrade) {
			return nil, ErrDuplicateTrade
		}
		return nil, err
	}

	s.invalidate(ctx, userID)
	return trade, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// Delete removes one of the user's trades
func (s *TradeService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.tradeRepo.DeleteByIDAndUserID(id, userID); err != nil {
		if errors.Is(err, repository.ErrTradeNotFound) {
			return ErrTradeNotFound
		}
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// Calendar builds the P/L heatmap for month (YYYY-MM). An empty month is the
// current month in the journal timezone.
func (s *TradeService) Calendar(userID uint, month string) (tradecalc.Calendar, error) {
	if month == "" {
		month = s.now().In(s.capital.Location()).Format("2006-01")
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return tradecalc.Calendar{}, ErrInvalidMonth
	}
	from, to := tradecalc.MonthRange(start.Year(), start.Month(), time.UTC)

	trades, err := s.tradeRepo.ListAll(userID, repository.TradeFilter{
		StartDate: from.Format(tradecalc.DateLayout),
		EndDate:   to.AddDate(0, 0, -1).Format(tradecalc.DateLayout),
	})
	if err != nil {
		return tradecalc.Calendar{}, err
	}
	return tradecalc.BuildCalendar(models.ClosedTrades(trades), start.Year(), start.Month()), nil
}

// ImportCSV journals every valid, non-duplicate row of a CSV file. Row
// numbers in the result count the header as row 1.
func (s *TradeService) ImportCSV(ctx context.Context, userID uint, r io.Reader) (*ImportResult, error) {
	var rows []*models.TradeCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	result := &ImportResult{Errors: []ImportError{}}
	for i, row := range rows {
		rowNum := i + 2
		trade, err := s.fromCSV(userID, row)
		if err == nil {
			err = s.insert(trade)
		}
		switch {
		case err == nil:
			result.Imported++
		case errors.Is(err, ErrDuplicateTrade):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, ImportError{Row: rowNum, Message: err.Error()})
		}
	}

	if result.Imported > 0 {
		s.invalidate(ctx, userID)
	}
	logging.LogInfo("csv import for user %d: imported=%d skipped=%d failed=%d",
		userID, result.Imported, result.Skipped, len(result.Errors))
	return result, nil
}

func (s *TradeService) fromCSV(userID uint, row *models.TradeCSV) (*models.Trade, error) {
	entry, lot, exit, err := row.Prices()
	if err != nil {
		return nil, err
	}
	tp, sl, err := row.Levels()
	if err != nil {
		return nil, err
	}
	req := &CreateTradeRequest{
		Symbol:     row.Symbol,
		Direction:  row.Direction,
		EntryDate:  row.EntryDate,
		EntryTime:  row.EntryTime,
		EntryPrice: entry,
		LotSize:    lot,
		ExitDate:   row.ExitDate,
		ExitTime:   row.ExitTime,
		ExitPrice:  exit,
		TakeProfit: tp,
		StopLoss:   sl,
		Setup:      row.Setup,
		Notes:      row.Notes,
		Session:    row.Session,
	}
	return req.toModel(userID, models.ImportCSV)
}

// ExportCSV writes the user's whole journal as CSV in chronological order
func (s *TradeService) ExportCSV(userID uint, w io.Writer) error {
	trades, err := s.tradeRepo.ListAll(userID, repository.TradeFilter{})
	if err != nil {
		return err
	}
	rows := make([]*models.TradeCSV, len(trades))
	for i := range trades {
		row := trades[i].ToCSV()
		rows[i] = &row
	}
	return gocsv.Marshal(rows, w)
}
