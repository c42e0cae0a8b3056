package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ukaji3/bomconv-go/internal/logging"
	"github.com/ukaji3/bomconv-go/internal/metrics"
	"github.com/ukaji3/bomconv-go/pkg/bomconv"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/output"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/parser"
)

// ErrConversionPanicked is reported when a decoder panics on an uploaded file.
var ErrConversionPanicked = errors.New("internal error while converting file")

// upload is a parsed multipart upload.
type upload struct {
	name   string
	format parser.Format
	data   []byte
}

// readUpload parses the multipart form and reads the "file" field.
// On failure it has already written the error response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return nil, false
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if header.Filename == "" || name == "." {
		writeError(w, http.StatusBadRequest, "no file selected")
		return nil, false
	}

	format, err := parser.DetectFormat(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return nil, false
	}

	return &upload{name: name, format: format, data: data}, true
}

// handleProcess converts an uploaded file.
//
// Form fields:
//   - file: the BOM file (.xlsx, .xlsm, .xls, .csv, .txt, .pdf)
//   - remove_parentheses: "true" (default) or "false"
//   - sheets: JSON array of sheet names, required for workbooks
//   - range: optional cell range such as "A1:D200"
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := logging.FromContext(r.Context())

	up, ok := s.readUpload(w, r)
	if !ok {
		s.metrics.ObserveConversion("", metrics.OutcomeBadInput, time.Since(start))
		return
	}
	format := string(up.format)

	opts, err := s.processOptions(r, up.format)
	if err != nil {
		s.metrics.ObserveConversion(format, metrics.OutcomeBadInput, time.Since(start))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts.Logger = logger

	if err := s.limiter.Acquire(r.Context()); err != nil {
		s.metrics.ObserveConversion(format, metrics.OutcomeRejected, time.Since(start))
		writeError(w, http.StatusTooManyRequests, ErrTooManyConversions.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	type result struct {
		report *models.Report
		err    error
	}
	done := make(chan result, 1)
	s.metrics.ActiveConversions.Inc()
	go func() {
		defer s.limiter.Release()
		defer s.metrics.ActiveConversions.Dec()
		// Recoverer only covers the request goroutine.
		defer func() {
			if p := recover(); p != nil {
				logger.Error("conversion panicked",
					zap.String("file", up.name),
					zap.Any("panic", p),
					zap.Stack("stack"),
				)
				done <- result{err: ErrConversionPanicked}
			}
		}()
		report, err := s.convert(ctx, up.name, up.data, opts)
		done <- result{report: report, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res = result{err: ctx.Err()}
	}

	if res.err != nil {
		status, outcome := classify(res.err)
		s.metrics.ObserveConversion(format, outcome, time.Since(start))
		logger.Info("conversion failed", zap.String("file", up.name), zap.Int("status", status), zap.Error(res.err))

		resp := errorResponse{Error: res.err.Error()}
		if res.report != nil && len(res.report.Individual) > 0 {
			resp.Individual = res.report.Individual
		}
		writeJSON(w, status, resp)
		return
	}

	s.metrics.ObserveConversion(format, metrics.OutcomeOK, time.Since(start))
	s.metrics.LinesTotal.Add(float64(len(res.report.Combined.Data)))
	for kind, n := range res.report.WarningCounts {
		s.metrics.WarningsTotal.WithLabelValues(string(kind)).Add(float64(n))
	}
	writeJSON(w, http.StatusOK, res.report)
}

// processOptions reads the conversion options from the parsed form.
func (s *Server) processOptions(r *http.Request, format parser.Format) (bomconv.Options, error) {
	opts := bomconv.DefaultOptions()
	opts.KeepParentheses = s.cfg.Extract.KeepParentheses

	if v := strings.TrimSpace(r.FormValue("remove_parentheses")); v != "" {
		remove, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid remove_parentheses value %q", v)
		}
		opts.KeepParentheses = !remove
	}

	if v := strings.TrimSpace(r.FormValue("sheets")); v != "" {
		if err := json.Unmarshal([]byte(v), &opts.Sheets); err != nil {
			return opts, errors.New("invalid sheets format: expected a JSON array of sheet names")
		}
	}
	if format.IsWorkbook() && len(opts.Sheets) == 0 {
		return opts, errors.New("no sheets selected")
	}

	opts.Range = strings.TrimSpace(r.FormValue("range"))
	return opts, nil
}

// classify maps a conversion error to an HTTP status and a metrics outcome.
func classify(err error) (int, string) {
	var srcErr *bomconv.SourceError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, metrics.OutcomeTimeout
	case errors.Is(err, bomconv.ErrHeaderNotFound):
		return http.StatusUnprocessableEntity, metrics.OutcomeHeader
	case errors.Is(err, bomconv.ErrNoValidData):
		return http.StatusUnprocessableEntity, metrics.OutcomeNoData
	case errors.Is(err, bomconv.ErrUnsupportedFormat),
		errors.Is(err, bomconv.ErrInvalidRange),
		errors.Is(err, bomconv.ErrSheetNotFound):
		return http.StatusBadRequest, metrics.OutcomeBadInput
	case errors.As(err, &srcErr) && srcErr.Stage == bomconv.StageRead:
		return http.StatusBadRequest, metrics.OutcomeBadInput
	default:
		return http.StatusInternalServerError, metrics.OutcomeError
	}
}

// handleSheets lists the sheets of an uploaded file for a sheet picker.
func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	sheets, err := bomconv.Sheets(up.name, up.data)
	if err != nil {
		status, _ := classify(err)
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"file_name": up.name,
		"workbook":  up.format.IsWorkbook(),
		"sheets":    sheets,
	})
}

// handleExport turns posted BOM lines into a CSV or XLSX download.
// The body is a JSON array of {"ref","part","mfg"} objects.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := output.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	var lines []models.BomLine
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: expected a JSON array of BOM lines")
		return
	}

	var buf bytes.Buffer
	if err := output.WriteLines(&buf, format, lines, false); err != nil {
		logging.FromContext(r.Context()).Error("export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := exportName(r.URL.Query().Get("filename"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// exportName builds a download file name, defaulting to a timestamped one.
func exportName(requested string, format output.Format) string {
	base := strings.TrimSuffix(filepath.Base(strings.TrimSpace(requested)), filepath.Ext(requested))
	base = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r == '/' || r < ' ' {
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." {
		base = "bom_" + time.Now().Format("20060102_150405")
	}
	return base + format.Extension()
}

// handleHealth reports liveness and limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"active_conversions": s.limiter.Active(),
		"max_concurrent":     s.limiter.Max(),
	})
}
