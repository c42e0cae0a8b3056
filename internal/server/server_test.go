package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ukaji3/bomconv-go/internal/config"
	"github.com/ukaji3/bomconv-go/pkg/bomconv"
	"github.com/ukaji3/bomconv-go/pkg/bomconv/models"
)

const sampleCSV = "Ref,Part Number,Maker\nR1-R3,RC0603,Yageo\nC1 (C2),GRM155,\n"

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	for _, m := range mutate {
		m(cfg)
	}
	return New(cfg, zaptest.NewLogger(t), nil)
}

func uploadRequest(t *testing.T, path, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func workbookFile(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "BOM"))
	require.NoError(t, f.SetSheetRow("BOM", "A1", &[]any{"部品番号", "型番", "メーカー"}))
	require.NoError(t, f.SetSheetRow("BOM", "A2", &[]any{"R1, R2", "RC0603", "Yageo"}))
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "memo"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","active_conversions":0,"max_concurrent":4}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestProcessCSV(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/api/process", "bom.csv", []byte(sampleCSV), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "bom.csv", report.FileName)
	assert.Equal(t, []models.BomLine{
		{Ref: "R1, R2, R3", Part: "RC0603", Mfg: "Yageo"},
		{Ref: "C1, C2", Part: "GRM155", Mfg: "Murata"},
	}, report.Combined.Data)
	assert.Empty(t, report.Individual)
}

func TestProcessKeepParentheses(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/api/process", "bom.csv", []byte(sampleCSV),
		map[string]string{"remove_parentheses": "false"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "C1, (C2)", report.Combined.Data[1].Ref)

	rec = serve(s, uploadRequest(t, "/api/process", "bom.csv", []byte(sampleCSV),
		map[string]string{"remove_parentheses": "maybe"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessWorkbook(t *testing.T) {
	s := newTestServer(t)
	data := workbookFile(t)

	rec := serve(s, uploadRequest(t, "/api/process", "board.xlsx", data, nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no sheets selected", decodeError(t, rec))

	rec = serve(s, uploadRequest(t, "/api/process", "board.xlsx", data,
		map[string]string{"sheets": `["BOM", "Notes", "Gone"]`}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, []models.BomLine{{Ref: "R1, R2", Part: "RC0603", Mfg: "Yageo"}}, report.Combined.Data)
	assert.Len(t, report.Individual, 3)
	assert.NotEmpty(t, report.Individual["Notes"].Error)
	assert.Equal(t, "sheet not found", report.Individual["Gone"].Error)

	rec = serve(s, uploadRequest(t, "/api/process", "board.xlsx", data,
		map[string]string{"sheets": `BOM`}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		fields   map[string]string
		status   int
	}{
		{"no file", "", "", nil, http.StatusBadRequest},
		{"unsupported format", "bom.docx", "x", nil, http.StatusBadRequest},
		{"no header", "bom.csv", "foo,bar\n1,2\n", nil, http.StatusUnprocessableEntity},
		{"header only", "bom.csv", "Ref,Part\n", nil, http.StatusUnprocessableEntity},
		{"bad range", "bom.csv", sampleCSV, map[string]string{"range": "A1"}, http.StatusBadRequest},
		{"broken workbook", "bom.xlsx", "not a zip", map[string]string{"sheets": `["BOM"]`}, http.StatusBadRequest},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, uploadRequest(t, "/api/process", tt.filename, []byte(tt.content), tt.fields))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeError(t, rec))
		})
	}
}

func TestProcessTooLarge(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Upload.MaxFileSize = 64 })
	content := strings.Repeat("R1,RC0603\n", 100)

	rec := serve(s, uploadRequest(t, "/api/process", "bom.csv", []byte(content), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessLimiterSaturated(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Upload.MaxConcurrent = 1
		c.Upload.MaxWait = 0
	})
	require.NoError(t, s.limiter.Acquire(context.Background()))
	defer s.limiter.Release()

	rec := serve(s, uploadRequest(t, "/api/process", "bom.csv", []byte(sampleCSV), nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ErrTooManyConversions.Error(), decodeError(t, rec))
}

func TestProcessTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Upload.Timeout = time.Nanosecond
	// The conversion goroutine may outlive the request.
	s := New(cfg, zap.NewNop(), nil)

	rec := serve(s, uploadRequest(t, "/api/process", "bom.csv", []byte(sampleCSV), nil))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestProcessConverterPanic(t *testing.T) {
	s := newTestServer(t)
	s.convert = func(context.Context, string, []byte, bomconv.Options) (*models.Report, error) {
		panic("malformed xref table")
	}

	rec := serve(s, uploadRequest(t, "/api/process", "bom.pdf", []byte("%PDF-1.4"), nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrConversionPanicked.Error(), decodeError(t, rec))
	assert.Eventually(t, func() bool { return s.limiter.Active() == 0 }, time.Second, 10*time.Millisecond)

	s.convert = bomconv.Convert
	rec = serve(s, uploadRequest(t, "/api/process", "bom.csv", []byte(sampleCSV), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSheets(t *testing.T) {
	s := newTestServer(t)
	rec := serve(s, uploadRequest(t, "/api/sheets", "board.xlsx", workbookFile(t), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		FileName string             `json:"file_name"`
		Workbook bool               `json:"workbook"`
		Sheets   []models.SheetInfo `json:"sheets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "board.xlsx", resp.FileName)
	assert.True(t, resp.Workbook)
	assert.Equal(t, []models.SheetInfo{
		{Name: "BOM", Range: "A1:C2", Rows: 2},
		{Name: "Notes", Range: "A1:A1", Rows: 1},
	}, resp.Sheets)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	body := `[{"ref":"R1, R2","part":"RC0603","mfg":"Yageo"}]`

	req := httptest.NewRequest(http.MethodPost, "/api/export?format=csv&filename=board.csv", strings.NewReader(body))
	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="board.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "\xEF\xBB\xBF部品番号,部品型番,メーカー\n\"R1, R2\",RC0603,Yageo\n", rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/export?format=xlsx", strings.NewReader(body))
	rec = serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	value, err := f.GetCellValue("BOM", "B2")
	require.NoError(t, err)
	assert.Equal(t, "RC0603", value)
}

func TestExportErrors(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/api/export?format=pdf", strings.NewReader("[]")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/api/export?format=csv", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "board.csv", exportName("board.xlsx", "csv"))
	assert.Equal(t, "evil.xlsx", exportName(`../../evil".txt`, "xlsx"))
	assert.True(t, strings.HasPrefix(exportName("", "csv"), "bom_"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	serve(s, uploadRequest(t, "/api/process", "bom.csv", []byte(sampleCSV), nil))
	serve(s, uploadRequest(t, "/api/process", "bom.csv", []byte("foo\n"), nil))

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `bomconv_conversions_total{format="csv",outcome="ok"} 1`)
	assert.Contains(t, text, `bomconv_conversions_total{format="csv",outcome="header_not_found"} 1`)
	assert.Contains(t, text, "bomconv_bom_lines_total 2")
}
