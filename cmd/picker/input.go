package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"hostel_picker/internal/adapters/sheets"
	"hostel_picker/internal/domain"
	"hostel_picker/internal/table"
)

// inputFlags select where the table comes from. Exactly one source is set.
type inputFlags struct {
	csv   string
	xlsx  string
	sheet string
	url   string
}

func (in *inputFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.csv, "csv", "", "Path to a CSV export")
	cmd.Flags().StringVar(&in.xlsx, "xlsx", "", "Path to an XLSX workbook")
	cmd.Flags().StringVar(&in.sheet, "sheet", "", "Worksheet name inside --xlsx (default: first sheet)")
	cmd.Flags().StringVar(&in.url, "url", "", "Published CSV export URL to fetch")
	cmd.MarkFlagsMutuallyExclusive("csv", "xlsx", "url")
	cmd.MarkFlagsOneRequired("csv", "xlsx", "url")
}

func (in *inputFlags) load(ctx context.Context) ([]domain.Record, error) {
	switch {
	case in.xlsx != "":
		f, err := os.Open(in.xlsx)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %s: %w", in.xlsx, err)
		}
		defer f.Close()
		return table.ParseXLSX(f, in.sheet)
	case in.url != "":
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		text, err := sheets.New(5).FetchCSV(ctx, in.url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", in.url, err)
		}
		return table.Parse(text), nil
	default:
		b, err := os.ReadFile(in.csv)
		if err != nil {
			return nil, fmt.Errorf("failed to read csv file %s: %w", in.csv, err)
		}
		return table.Parse(string(b)), nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
