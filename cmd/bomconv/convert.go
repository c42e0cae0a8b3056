package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/bomconv-go/internal/logging"
	"github.com/ukaji3/bomconv-go/pkg/bomconv"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/output"
)

type convertFlags struct {
	outputPath string
	format     string
	pretty     bool
	keepParens bool
	sheets     []string
	cellRange  string
	verbose    bool
}

func newConvertCmd() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Extract the BOM of a file",
		Long: `convert reads an xlsx, xlsm, xls, csv, txt or pdf file and writes the merged BOM.

The json format writes the full report (combined and per-sheet results with warnings);
csv and xlsx write the combined BOM lines and print warnings to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flags.format, "format", "json", "Output format: json, csv, xlsx")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&flags.keepParens, "keep-parens", false, "Keep parenthesized references such as (R1)")
	cmd.Flags().StringArrayVar(&flags.sheets, "sheet", nil, "Sheet to process (repeatable, default: all sheets)")
	cmd.Flags().StringVar(&flags.cellRange, "range", "", "Restrict every sheet to a cell range, e.g. A1:D200")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log per-sheet diagnostics to stderr")

	return cmd
}

func runConvert(cmd *cobra.Command, inputPath string, flags convertFlags) error {
	format, err := output.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	if format == output.FormatXLSX && flags.outputPath == "" {
		return errors.New("xlsx output requires --output")
	}

	data, err := readInput(inputPath)
	if err != nil {
		return err
	}

	opts := bomconv.DefaultOptions()
	opts.KeepParentheses = flags.keepParens
	opts.Sheets = flags.sheets
	opts.Range = flags.cellRange
	if flags.verbose {
		logger, err := logging.New("debug", "console")
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		opts.Logger = logger
	}

	report, err := bomconv.Convert(cmd.Context(), inputPath, data, opts)
	if err != nil {
		if report != nil {
			printSourceErrors(cmd.ErrOrStderr(), report)
		}
		return fmt.Errorf("conversion failed: %w", err)
	}
	if opts.Logger != nil {
		opts.Logger.Debug("report ready", zap.String("id", report.ID))
	}

	var buf bytes.Buffer
	if format == output.FormatJSON {
		jsonData, err := output.ToJSON(report, flags.pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		buf.Write(jsonData)
		buf.WriteByte('\n')
	} else {
		if err := output.WriteLines(&buf, format, report.Combined.Data, flags.pretty); err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		for _, w := range report.Combined.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
		}
		printSourceErrors(cmd.ErrOrStderr(), report)
	}

	if flags.outputPath != "" {
		if err := os.WriteFile(flags.outputPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func readInput(inputPath string) ([]byte, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", inputPath)
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// printSourceErrors lists the sources that could not be processed, by name.
func printSourceErrors(w io.Writer, report *models.Report) {
	names := make([]string, 0, len(report.Individual))
	for name, res := range report.Individual {
		if res.Error != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "sheet %q: %s\n", name, report.Individual[name].Error)
	}
}
