package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/trade-journal/internal/models"
	"github.com/trade-journal/pkg/tradecalc"
)

// Analysis is the offline report for a CSV journal
type Analysis struct {
	Summary   tradecalc.AnalyticsSummary `json:"summary"`
	Equity    []tradecalc.EquityPoint    `json:"equity_curve"`
	BySymbol  []tradecalc.BreakdownRow   `json:"by_symbol"`
	BySession []tradecalc.BreakdownRow   `json:"by_session"`
	Skipped   []string                   `json:"skipped,omitempty"`
}

// analyzeCSV evaluates every row of an exported journal. Rows that cannot be
// evaluated are reported and left out.
func analyzeCSV(r io.Reader, balance float64, now time.Time) (*Analysis, error) {
	var rows []*models.TradeCSV
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	out := &Analysis{}
	closed := make([]tradecalc.ClosedTrade, 0, len(rows))
	for i, row := range rows {
		dir, err := tradecalc.ParseDirection(row.Direction)
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		day, err := time.Parse(tradecalc.DateLayout, row.EntryDate)
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Sprintf("row %d: invalid entry_date %q", i+2, row.EntryDate))
			continue
		}
		entry, lot, exit, err := row.Prices()
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		result, err := tradecalc.Evaluate(tradecalc.Trade{
			Symbol:     row.Symbol,
			Direction:  dir,
			EntryPrice: entry,
			ExitPrice:  exit,
			LotSize:    lot,
			EntryTime:  row.EntryTime,
		}, balance)
		if err != nil {
			out.Skipped = append(out.Skipped, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}

		session := tradecalc.Session(row.Session)
		if !tradecalc.IsValidSession(session) {
			session = result.Session
		}
		closed = append(closed, tradecalc.ClosedTrade{
			Symbol:     tradecalc.FormatSymbol(row.Symbol),
			Session:    session,
			EntryDate:  day,
			LotSize:    lot,
			ProfitLoss: result.ProfitLoss,
		})
	}

	out.Summary = tradecalc.Summarize(closed)
	out.Equity = tradecalc.EquityCurve(closed, balance, now)
	out.BySymbol = tradecalc.BreakdownBy(closed, tradecalc.BySymbol)
	out.BySession = tradecalc.BreakdownBy(closed, tradecalc.BySession)
	return out, nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		file    string
		balance float64
	)
	cmd := &cobra.Command{
		Use:     "analyze",
		Short:   "Summarize a CSV journal export",
		Example: `  tradecalc analyze --file trades.csv --balance 10000`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer f.Close()

			report, err := analyzeCSV(f, balance, time.Now())
			if err != nil {
				return err
			}
			return emit(cmd, report, func(w io.Writer) { writeReport(w, report) })
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "trades.csv", "CSV journal export")
	cmd.Flags().Float64Var(&balance, "balance", 0, "initial balance")
	return cmd
}

func writeReport(w io.Writer, a *Analysis) {
	s := a.Summary
	line(w, "trades:        %d (%d won, %d lost, %d flat)", s.TotalTrades, s.WinningTrades, s.LosingTrades, s.BreakEvenTrades)
	line(w, "net profit:    %.2f", s.TotalNetProfit)
	line(w, "win rate:      %.1f%%", s.WinRate)
	line(w, "profit factor: %.2f", s.ProfitFactor)
	line(w, "expectancy:    %.2f", s.Expectancy)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nDATE\tBALANCE\tDAY P/L\tTRADES")
	for _, p := range a.Equity {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%d\n", p.Date, p.Balance, p.DailyProfit, p.Trades)
	}
	writeBreakdown(tw, "SYMBOL", a.BySymbol)
	writeBreakdown(tw, "SESSION", a.BySession)
	tw.Flush()

	for _, msg := range a.Skipped {
		line(w, "skipped %s", msg)
	}
}

func writeBreakdown(w io.Writer, title string, rows []tradecalc.BreakdownRow) {
	fmt.Fprintf(w, "\n%s\tTRADES\tP/L\tWIN RATE\n", title)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.1f%%\n", r.Key, r.TotalTrades, r.TotalPnl, r.WinRate)
	}
}
