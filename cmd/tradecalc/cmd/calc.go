package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/trade-journal/pkg/tradecalc"
)

func newInstrumentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instrument <symbol>",
		Short: "Show the class and pip size of a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := tradecalc.Classify(args[0])
			return emit(cmd, inst, func(w io.Writer) {
				line(w, "%s: %s, pip size %g", inst.Symbol, inst.Class, inst.PipSize)
			})
		},
	}
}

func newPipsCmd() *cobra.Command {
	var (
		direction string
		lot       float64
		balance   float64
		entryTime string
	)
	cmd := &cobra.Command{
		Use:   "pips <symbol> <entry> <exit>",
		Short: "Compute pips, P/L and session for a trade",
		Example: `  tradecalc pips EURUSD 1.1000 1.1050 --direction long --lot 1
  tradecalc pips XAUUSD 2000 1995 -d short --lot 0.5 --balance 10000 --time 21:30`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := parsePrice(args[1])
			if err != nil {
				return err
			}
			exit, err := parsePrice(args[2])
			if err != nil {
				return err
			}
			dir, err := tradecalc.ParseDirection(direction)
			if err != nil {
				return err
			}

			result, err := tradecalc.Evaluate(tradecalc.Trade{
				Symbol:     args[0],
				Direction:  dir,
				EntryPrice: entry,
				ExitPrice:  exit,
				LotSize:    lot,
				EntryTime:  entryTime,
			}, balance)
			if err != nil {
				return err
			}
			return emit(cmd, result, func(w io.Writer) {
				line(w, "pips:     %.1f", result.Pips)
				line(w, "p/l:      %.2f", result.ProfitLoss)
				line(w, "p/l %%:    %.2f", result.ProfitLossPercent)
				line(w, "session:  %s", result.Session)
			})
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", "long", "long or short")
	cmd.Flags().Float64Var(&lot, "lot", 1, "lot size")
	cmd.Flags().Float64Var(&balance, "balance", 0, "reference balance for P/L percent")
	cmd.Flags().StringVar(&entryTime, "time", "12:00", "entry time HH:mm (UTC+7)")
	return cmd
}

func newLotSizeCmd() *cobra.Command {
	var in tradecalc.RiskInput
	var takeProfit float64
	cmd := &cobra.Command{
		Use:     "lot-size",
		Short:   "Size a position from balance, risk percent and stop distance",
		Example: `  tradecalc lot-size --balance 10000 --risk 1 --entry 1.1000 --sl 1.0950 --symbol EURUSD`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := tradecalc.CalculateLotSize(in)
			if err != nil {
				return err
			}
			out := struct {
				tradecalc.RiskResult
				RewardRisk float64 `json:"reward_risk,omitempty"`
			}{RiskResult: result}
			if takeProfit > 0 {
				out.RewardRisk = tradecalc.Round2(tradecalc.RewardRisk(in.EntryPrice, in.StopLoss, takeProfit))
			}
			return emit(cmd, out, func(w io.Writer) {
				line(w, "risk amount:  %.2f", result.RiskAmount)
				line(w, "pips at risk: %.1f", result.PipsAtRisk)
				line(w, "lot size:     %.2f", result.LotSize)
				if out.RewardRisk > 0 {
					line(w, "reward:risk:  1:%.2f", out.RewardRisk)
				}
			})
		},
	}
	cmd.Flags().Float64Var(&in.AccountBalance, "balance", 0, "account balance")
	cmd.Flags().Float64Var(&in.RiskPercent, "risk", tradecalc.DefaultRiskPerTradePercent, "risk per trade in percent")
	cmd.Flags().Float64Var(&in.EntryPrice, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&in.StopLoss, "sl", 0, "stop loss price")
	cmd.Flags().Float64Var(&takeProfit, "tp", 0, "optional take profit price")
	cmd.Flags().StringVar(&in.Symbol, "symbol", "EURUSD", "instrument symbol")
	return cmd
}

func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session [HH:mm]",
		Short: "Show the journal session for a clock time, or the live market sessions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				s, err := tradecalc.DetectSession(args[0])
				if err != nil {
					return err
				}
				return emit(cmd, map[string]tradecalc.Session{"session": s}, func(w io.Writer) {
					line(w, "%s", s)
				})
			}

			now := time.Now()
			markets := tradecalc.MarketSessionStatuses(now)
			journal := tradecalc.CurrentSession(now)
			return emit(cmd, map[string]interface{}{"markets": markets, "journal_session": journal}, func(w io.Writer) {
				for _, m := range markets {
					state := "closed"
					if m.IsOpen {
						state = "open"
					}
					line(w, "%-9s %s-%s UTC  %s", m.Name, m.OpenTime, m.CloseTime, state)
				}
				line(w, "journal session: %s", journal)
			})
		},
	}
}

func newLimitsCmd() *cobra.Command {
	var (
		balance, peak, today  float64
		dailyPct, drawdownPct float64
		dailyTarget           float64
	)
	cmd := &cobra.Command{
		Use:     "limits",
		Short:   "Check daily loss, max drawdown and daily cap",
		Example: `  tradecalc limits --balance 9700 --peak 10500 --today -800`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if peak == 0 {
				peak = balance
			}
			daily := tradecalc.DailyLossLimit(balance, today, dailyPct)
			dd := tradecalc.MaxDrawdown(peak, balance, drawdownPct)
			ddPct := tradecalc.DrawdownPercent(peak, balance)
			capStatus := tradecalc.DailyCap(today, dailyTarget)

			out := map[string]interface{}{
				"daily_loss":       daily,
				"max_drawdown":     dd,
				"daily_cap":        capStatus,
				"drawdown_percent": ddPct,
				"risk_status":      tradecalc.RiskStatusFor(ddPct),
			}
			return emit(cmd, out, func(w io.Writer) {
				line(w, "daily loss:   %s (%.1f%% of %.2f used)", daily.Status, daily.PercentUsed, daily.AmountMax)
				line(w, "max drawdown: %s (%.1f%% of %.2f used)", dd.Status, dd.PercentUsed, dd.AmountMax)
				line(w, "daily cap:    %.1f%% of %.2f, %.2f to go", capStatus.ProgressPercent, capStatus.DailyTarget, capStatus.Remaining)
				line(w, "risk status:  %s (drawdown %.2f%%)", tradecalc.RiskStatusFor(ddPct), ddPct)
			})
		},
	}
	cmd.Flags().Float64Var(&balance, "balance", 0, "current balance")
	cmd.Flags().Float64Var(&peak, "peak", 0, "peak balance (defaults to --balance)")
	cmd.Flags().Float64Var(&today, "today", 0, "today's net P/L")
	cmd.Flags().Float64Var(&dailyPct, "daily-limit", tradecalc.DefaultDailyLossLimitPercent, "daily loss limit in percent")
	cmd.Flags().Float64Var(&drawdownPct, "max-drawdown", tradecalc.DefaultMaxDrawdownPercent, "max drawdown in percent")
	cmd.Flags().Float64Var(&dailyTarget, "daily-target", tradecalc.DefaultDailyCapTarget, "daily profit target")
	return cmd
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	return v, nil
}
