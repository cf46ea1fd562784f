package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trade-journal/pkg/tradecalc"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInstrumentCmd(t *testing.T) {
	out, err := run(t, "instrument", "usdjpy")
	require.NoError(t, err)
	assert.Equal(t, "USDJPY: forex, pip size 0.01\n", out)

	out, err = run(t, "instrument", "XAUUSD", "--json")
	require.NoError(t, err)
	var inst tradecalc.Instrument
	require.NoError(t, json.Unmarshal([]byte(out), &inst))
	assert.Equal(t, tradecalc.ClassGold, inst.Class)
}

func TestPipsCmd(t *testing.T) {
	out, err := run(t, "pips", "EURUSD", "1.1000", "1.1050", "--lot", "1", "--balance", "10000", "--time", "14:30", "--json")
	require.NoError(t, err)
	var result tradecalc.TradeResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 50.0, result.Pips)
	assert.Equal(t, 500.0, result.ProfitLoss)
	assert.Equal(t, 5.0, result.ProfitLossPercent)
	assert.Equal(t, tradecalc.SessionAsian, result.Session)

	_, err = run(t, "pips", "EURUSD", "1.1", "abc")
	assert.Error(t, err)
	_, err = run(t, "pips", "EURUSD", "1.1", "1.2", "-d", "sideways")
	assert.ErrorIs(t, err, tradecalc.ErrInvalidDirection)
}

func TestLotSizeCmd(t *testing.T) {
	out, err := run(t, "lot-size", "--balance", "10000", "--risk", "1", "--entry", "1.1000", "--sl", "1.0950", "--tp", "1.1100")
	require.NoError(t, err)
	assert.Contains(t, out, "lot size:     0.20")
	assert.Contains(t, out, "reward:risk:  1:2.00")

	_, err = run(t, "lot-size", "--balance", "10000", "--entry", "1.1", "--sl", "1.1")
	assert.ErrorIs(t, err, tradecalc.ErrZeroRiskDistance)
}

func TestSessionCmd(t *testing.T) {
	out, err := run(t, "session", "16:00")
	require.NoError(t, err)
	assert.Equal(t, "london\n", out)

	_, err = run(t, "session", "24:00")
	assert.ErrorIs(t, err, tradecalc.ErrInvalidClock)

	out, err = run(t, "session")
	require.NoError(t, err)
	assert.Contains(t, out, "Sydney")
	assert.Contains(t, out, "journal session:")
}

func TestLimitsCmd(t *testing.T) {
	out, err := run(t, "limits", "--balance", "9700", "--peak", "10500", "--today", "-800", "--json")
	require.NoError(t, err)
	var got struct {
		DailyLoss   tradecalc.RiskLimitStatus `json:"daily_loss"`
		MaxDrawdown tradecalc.RiskLimitStatus `json:"max_drawdown"`
		RiskStatus  tradecalc.RiskStatus      `json:"risk_status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, tradecalc.LimitDanger, got.DailyLoss.Status)
	assert.Equal(t, tradecalc.LimitWarning, got.MaxDrawdown.Status)
	assert.Equal(t, tradecalc.RiskOptimal, got.RiskStatus)
}

const sampleJournal = `symbol,direction,entry_date,entry_time,entry_price,lot_size,exit_date,exit_time,exit_price,tp,sl,setup,notes,session
EURUSD,long,2024-01-10,14:30,1.1000,1,2024-01-10,18:00,1.1050,,,,,
GBPUSD,short,2024-01-11,16:00,1.2700,1,2024-01-11,18:00,1.2720,,,,,overlap
XAUUSD,up,2024-01-12,10:00,2000,1,2024-01-12,11:00,2010,,,,,
`

func TestAnalyzeCSV(t *testing.T) {
	now := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	report, err := analyzeCSV(strings.NewReader(sampleJournal), 10000, now)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.TotalTrades)
	assert.InDelta(t, 300.0, report.Summary.TotalNetProfit, 1e-9)
	assert.InDelta(t, 2.5, report.Summary.ProfitFactor, 1e-9)
	require.Len(t, report.Equity, 3)
	assert.InDelta(t, 10300.0, report.Equity[2].Balance, 1e-9)
	require.Len(t, report.BySession, 2)
	assert.Equal(t, "asian", report.BySession[0].Key)
	assert.Equal(t, "overlap", report.BySession[1].Key)
	require.Len(t, report.Skipped, 1)
	assert.Contains(t, report.Skipped[0], "row 4")
}

func TestAnalyzeCSVBadNumberSkipsRow(t *testing.T) {
	journal := sampleJournal + "USDJPY,long,2024-01-13,03:00,abc,1,2024-01-13,04:00,150,,,,,\n"
	report, err := analyzeCSV(strings.NewReader(journal), 10000, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.TotalTrades)
	require.Len(t, report.Skipped, 2)
	assert.Contains(t, report.Skipped[1], "row 5")
	assert.Contains(t, report.Skipped[1], "entry_price")
}

func TestAnalyzeCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleJournal), 0o600))

	out, err := run(t, "analyze", "--file", path, "--balance", "10000")
	require.NoError(t, err)
	assert.Contains(t, out, "trades:        2 (1 won, 1 lost, 0 flat)")
	assert.Contains(t, out, "EURUSD")
	assert.Contains(t, out, "skipped row 4")

	_, err = run(t, "analyze", "--file", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
