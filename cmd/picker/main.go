// Package main implements picker, an offline hostel shortlist tool that works
// on exported sheet files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "picker",
		Short:         "Offline hostel shortlist tool",
		Long:          "picker parses CSV or XLSX hostel exports and ranks them against a traveller profile, printing JSON.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newShortlistCmd(), newParseCmd())
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
