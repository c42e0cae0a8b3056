package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ukaji3/bomconv-go/pkg/bomconv"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/output"
)

func newSheetsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sheets [input]",
		Short: "List the sheets of a file with their used range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			sheets, err := bomconv.Sheets(args[0], data)
			if err != nil {
				return err
			}

			if asJSON {
				jsonData, err := output.ToJSON(sheets, true)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SHEET\tRANGE\tROWS")
			for _, s := range sheets {
				rng := s.Range
				if rng == "" {
					rng = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\n", s.Name, rng, s.Rows)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
