package bomconv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ukaji3/bomconv-go/pkg/bomconv/core"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/parser"
)

// Convert extracts a BOM from the file contents data. name selects the format by its
// extension and becomes the source name of single-grid formats.
//
// Sources fail independently: a workbook sheet without a header is reported in
// Report.Individual while the other sheets continue. When the combined result holds no
// lines, Convert returns ErrNoValidData together with the report so callers can show
// per-source errors. A single-source upload returns that source's *SourceError instead.
func Convert(ctx context.Context, name string, data []byte, opts Options) (*models.Report, error) {
	log := opts.logger()

	format, err := parser.DetectFormat(name)
	if err != nil {
		return nil, err
	}
	area, err := opts.area()
	if err != nil {
		return nil, err
	}

	var selection []string
	if format.IsWorkbook() {
		selection = opts.Sheets
	}
	sources, err := parser.Read(format, data, name, selection)
	if err != nil {
		return nil, NewSourceError(filepath.Base(name), StageRead, err)
	}

	report := &models.Report{
		ID:         uuid.NewString(),
		FileName:   filepath.Base(name),
		Individual: make(map[string]models.SourceResult),
	}
	log = log.With(zap.String("conversion_id", report.ID), zap.String("file", report.FileName))

	missing := missingSheets(sources, selection)
	var failures []error
	for _, sheet := range missing {
		failures = append(failures, NewSourceError(sheet, StageSheet, ErrSheetNotFound))
		report.Individual[sheet] = models.SourceResult{Error: ErrSheetNotFound.Error()}
		log.Warn("sheet not found", zap.String("sheet", sheet))
	}

	multi := len(sources) > 1
	var (
		entries  []models.Entry
		warnings []models.Warning
	)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		grid, firstRow := src.Grid, 1
		if area != nil {
			grid, firstRow = grid.Crop(*area), area.R1
		}

		ext, err := core.ProcessAt(grid, firstRow, src.Cancelled, opts.KeepParentheses)
		if err != nil {
			failures = append(failures, NewSourceError(src.Name, StageHeader, err))
			report.Individual[src.Name] = models.SourceResult{Error: err.Error()}
			log.Info("source skipped", zap.String("source", src.Name), zap.Error(err))
			continue
		}

		lines, dups := core.Aggregate(ext.Entries)
		report.Individual[src.Name] = models.SourceResult{
			Data:     lines,
			Warnings: models.Messages(append(append([]models.Warning{}, ext.Warnings...), dups...)),
		}
		log.Debug("source processed",
			zap.String("source", src.Name),
			zap.Int("header_row", ext.HeaderRow+firstRow),
			zap.Int("entries", len(ext.Entries)),
			zap.Int("lines", len(lines)),
			zap.Int("warnings", len(ext.Warnings)+len(dups)),
		)

		entries = append(entries, ext.Entries...)
		for _, w := range ext.Warnings {
			if multi {
				w.Message = fmt.Sprintf("[%s] %s", src.Name, w.Message)
			}
			warnings = append(warnings, w)
		}
	}

	lines, dups := core.Aggregate(entries)
	warnings = append(warnings, dups...)
	models.SortByKind(warnings)
	report.Combined = models.SourceResult{
		Data:     lines,
		Warnings: models.Messages(warnings),
	}
	report.WarningCounts = make(map[models.WarningKind]int)
	for _, w := range warnings {
		report.WarningCounts[w.Kind]++
	}
	if !format.IsWorkbook() {
		report.Individual = map[string]models.SourceResult{}
	}

	if len(lines) == 0 {
		if len(failures) == 1 && len(sources)+len(missing) == 1 {
			return nil, failures[0]
		}
		log.Info("no valid data", zap.Int("sources", len(sources)), zap.Int("failures", len(failures)))
		return report, ErrNoValidData
	}

	log.Info("conversion finished",
		zap.Int("sources", len(sources)),
		zap.Int("failures", len(failures)),
		zap.Int("lines", len(lines)),
		zap.Int("warnings", len(report.Combined.Warnings)),
	)
	return report, nil
}

// Sheets lists the sources of a file with their used range and row count.
func Sheets(name string, data []byte) ([]models.SheetInfo, error) {
	format, err := parser.DetectFormat(name)
	if err != nil {
		return nil, err
	}
	sources, err := parser.Read(format, data, name, nil)
	if err != nil {
		return nil, NewSourceError(filepath.Base(name), StageRead, err)
	}
	return parser.Inspect(sources), nil
}

func missingSheets(sources []models.Source, selection []string) []string {
	if len(selection) == 0 {
		return nil
	}
	found := make(map[string]bool, len(sources))
	for _, src := range sources {
		found[src.Name] = true
	}

	var missing []string
	seen := make(map[string]bool, len(selection))
	for _, name := range selection {
		if found[name] || seen[name] {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	return missing
}
