package main

import (
	"os"

	"github.com/trade-journal/cmd/tradecalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
