package main

import (
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Print the records parsed from an export",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := in.load(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
	in.bind(cmd)
	return cmd
}
