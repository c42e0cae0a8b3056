// Package main provides the CLI entry point for bomconv.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bomconv",
		Short: "Convert BOM spreadsheets and tables into a normalized parts list",
		Long: `bomconv extracts a bill of materials (reference designators, part numbers,
manufacturers) from xlsx, xls, csv, txt and pdf files and merges it by part.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newConvertCmd(), newSheetsCmd(), newServeCmd())
	return rootCmd
}
