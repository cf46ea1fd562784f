package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the tradecalc command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tradecalc",
		Short: "Offline trading journal calculator",
		Long: `tradecalc runs the journal's calculation engine from the command line.

It provides tools for:
  - Instrument classification and pip sizes
  - Pips and P/L for a single trade
  - Risk-based lot sizing
  - Journal session lookup
  - Daily loss, drawdown and daily cap checks
  - Performance analysis of an exported CSV journal`,
		SilenceUsage: true,
	}
	root.PersistentFlags().Bool("json", false, "print results as JSON")

	root.AddCommand(
		newInstrumentCmd(),
		newPipsCmd(),
		newLotSizeCmd(),
		newSessionCmd(),
		newLimitsCmd(),
		newAnalyzeCmd(),
	)
	return root
}

// Execute runs the root command against os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints v as JSON when --json is set and through text otherwise
func emit(cmd *cobra.Command, v interface{}, text func(w io.Writer)) error {
	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), v)
	}
	text(cmd.OutOrStdout())
	return nil
}

func line(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format+"\n", a...)
}
