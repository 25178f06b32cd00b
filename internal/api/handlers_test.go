package api

import (
	"bytes"
	"compress/zlib"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/jobb/pkg/types"
)

func TestHandleliste(t *testing.T) {
	tests := []struct {
		name       string
		strict     bool
		target     string
		body       any
		wantStatus int
		wantItems  []string
		wantDetail string
	}{
		{
			name:       "components only",
			target:     "/pid/handleliste",
			body:       map[string]any{"components": []string{"pipe", "valve", "pump", "flange"}},
			wantStatus: http.StatusOK,
			wantItems:  []string{"Pipe Item", "Valve Item", "Pump Item", "Flange Item"},
		},
		{
			name:   "lines with default brand",
			target: "/pid/handleliste",
			body: map[string]any{
				"components": []string{"pipe", "valve"},
				"lines":      []map[string]any{{"start": 0, "end": 1, "size": "1/4", "bulkhead": true}},
			},
			wantStatus: http.StatusOK,
			wantItems:  []string{"Pipe Item", "Parker Coupling", "Parker Bulkhead", "Valve Item"},
		},
		{
			name:   "query brand",
			target: "/pid/handleliste?brand=swagelok",
			body: map[string]any{
				"components": []string{"pipe", "valve"},
				"lines":      []map[string]any{{"start": 0, "end": 1}},
			},
			wantStatus: http.StatusOK,
			wantItems:  []string{"Pipe Item", "Swagelok Coupling", "Valve Item"},
		},
		{
			name:   "body brand wins over query",
			target: "/pid/handleliste?brand=swagelok",
			body: map[string]any{
				"components": []string{"pipe", "valve"},
				"lines":      []map[string]any{{"start": 0, "end": 1, "tee": true}},
				"brand":      "hylok",
			},
			wantStatus: http.StatusOK,
			wantItems:  []string{"Pipe Item", "Hy-Lok Coupling", "Hy-Lok Tee", "Valve Item"},
		},
		{
			name:       "unknown component",
			target:     "/pid/handleliste",
			body:       map[string]any{"components": []string{"pipe", "unknown"}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "unknown component: unknown",
		},
		{
			name:       "unknown body brand",
			target:     "/pid/handleliste",
			body:       map[string]any{"components": []string{"pipe"}, "brand": "acme"},
			wantStatus: http.StatusBadRequest,
			wantDetail: "unknown brand",
		},
		{
			name:       "unknown query brand",
			target:     "/pid/handleliste?brand=acme",
			body:       map[string]any{"components": []string{"pipe"}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "unknown brand",
		},
		{
			name:   "line index out of range",
			target: "/pid/handleliste",
			body: map[string]any{
				"components": []string{"pipe", "valve"},
				"lines":      []map[string]any{{"start": 0, "end": 5}},
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid component index",
		},
		{
			name:   "negative line index",
			target: "/pid/handleliste",
			body: map[string]any{
				"components": []string{"pipe", "valve"},
				"lines":      []map[string]any{{"start": -1, "end": 1}},
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid component index",
		},
		{
			name:       "empty components",
			target:     "/pid/handleliste",
			body:       map[string]any{"components": []string{}},
			wantStatus: http.StatusOK,
			wantItems:  []string{},
		},
		{
			name:       "missing components",
			target:     "/pid/handleliste",
			body:       map[string]any{"lines": []map[string]any{}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "field is required",
		},
		{
			name:       "malformed body",
			target:     "/pid/handleliste",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid request",
		},
		{
			name:       "permissive transition",
			target:     "/pid/handleliste",
			body:       map[string]any{"components": []string{"pump", "pipe"}},
			wantStatus: http.StatusOK,
			wantItems:  []string{"Pump Item", "Pipe Item"},
		},
		{
			name:       "strict transition",
			strict:     true,
			target:     "/pid/handleliste",
			body:       map[string]any{"components": []string{"pump", "pipe"}},
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid transition",
		},
		{
			name:   "strict transition on line",
			strict: true,
			target: "/pid/handleliste",
			body: map[string]any{
				"components": []string{"pump", "pipe"},
				"lines":      []map[string]any{{"start": 0, "end": 1}},
			},
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid transition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupTestServer(t, Config{StrictTransitions: tt.strict})
			rec := do(t, s, http.MethodPost, tt.target, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantItems, decode[types.HandlelisteResponse](t, rec).Items)
				return
			}
			detail := decode[ErrorResponse](t, rec).Detail
			assert.NotEmpty(t, detail)
			if tt.wantDetail != "" {
				assert.Contains(t, detail, tt.wantDetail)
			}
		})
	}
}

func TestHandlelisteServerBrand(t *testing.T) {
	s, _ := setupTestServer(t, Config{Brand: types.BrandSwagelok})
	rec := do(t, s, http.MethodPost, "/pid/handleliste", map[string]any{
		"components": []string{"valve", "pump"},
		"lines":      []map[string]any{{"start": 0, "end": 1}},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Valve Item", "Swagelok Adapter", "Pump Item"}, decode[types.HandlelisteResponse](t, rec).Items)
}

func TestHandlelisteMetrics(t *testing.T) {
	s, m := setupTestServer(t, Config{})
	do(t, s, http.MethodPost, "/pid/handleliste", map[string]any{"components": []string{"pipe"}})
	do(t, s, http.MethodPost, "/pid/handleliste", map[string]any{"components": []string{"boiler"}})

	assert.Equal(t, 1, testutil.CollectAndCount(m.HandlelisteItems))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HandlelisteErrors.WithLabelValues("component")))
}

func TestFittingEndpoints(t *testing.T) {
	s, m := setupTestServer(t, Config{})

	rec := do(t, s, http.MethodGet, "/fittings/"+types.DefaultFittingCode, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Check valve", decode[types.Fitting](t, rec).Description)

	rec = do(t, s, http.MethodGet, "/fittings/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Fitting not found", decode[ErrorResponse](t, rec).Detail)

	newFit := map[string]any{
		"code":              "1A-TEST-5-SS",
		"description":       "Dummy",
		"series":            "1A",
		"configuration":     "TEST",
		"cracking_pressure": "5 psi",
		"material":          "stainless steel",
	}
	rec = do(t, s, http.MethodPost, "/fittings/", newFit)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "1A-TEST-5-SS", decode[types.Fitting](t, rec).Code)

	rec = do(t, s, http.MethodGet, "/fittings/1A-TEST-5-SS", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[types.Fitting](t, rec)
	assert.Equal(t, "TEST", fetched.Configuration)
	assert.Equal(t, "5 psi", types.Deref(fetched.CrackingPressure))

	newFit["description"] = "Updated"
	rec = do(t, s, http.MethodPost, "/fittings", newFit)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Updated", decode[types.Fitting](t, rec).Description)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FittingWritesTotal.WithLabelValues("success")))
}

func TestCreateFittingInvalid(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing code", map[string]any{"description": "d", "series": "s", "configuration": "c"}},
		{"missing description", map[string]any{"code": "X", "series": "s", "configuration": "c"}},
		{"malformed", "[1,2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupTestServer(t, Config{})
			rec := do(t, s, http.MethodPost, "/fittings/", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Detail)
		})
	}
}

func TestListFittings(t *testing.T) {
	s, _ := setupTestServer(t, Config{})
	for _, code := range []string{"B-1", "A-1", "C-1"} {
		rec := do(t, s, http.MethodPost, "/fittings", map[string]any{
			"code": code, "description": "d", "series": "X", "configuration": "c",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	codes := func(fs []types.Fitting) []string {
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = f.Code
		}
		return out
	}

	rec := do(t, s, http.MethodGet, "/fittings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"4A-C4L-25-SS", "A-1", "B-1", "C-1"}, codes(decode[[]types.Fitting](t, rec)))

	rec = do(t, s, http.MethodGet, "/fittings?series=X&limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"B-1", "C-1"}, codes(decode[[]types.Fitting](t, rec)))

	rec = do(t, s, http.MethodGet, "/fittings?material=brass", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = do(t, s, http.MethodGet, "/fittings?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/fittings?offset=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func samplePDF(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte("BT (" + text + ") Tj ET"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var pdf bytes.Buffer
	pdf.WriteString("%PDF-1.4\n1 0 obj\n<< /Filter /FlateDecode >>\nstream\n")
	pdf.Write(buf.Bytes())
	pdf.WriteString("\nendstream\nendobj\n%%EOF\n")
	return pdf.Bytes()
}

func TestReadPDF(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "doc.pdf")
	require.NoError(t, os.WriteFile(path, samplePDF(t, "Hello PDF"), 0o644))

	outside := filepath.Join(t.TempDir(), "other.pdf")
	require.NoError(t, os.WriteFile(outside, samplePDF(t, "secret"), 0o644))

	tests := []struct {
		name       string
		root       string
		path       string
		wantStatus int
		wantText   string
		wantDetail string
	}{
		{"reads file", "", path, http.StatusOK, "Hello PDF", ""},
		{"inside root", root, path, http.StatusOK, "Hello PDF", ""},
		{"missing file", "", filepath.Join(root, "missing.pdf"), http.StatusNotFound, "", "File not found"},
		{"directory", "", root, http.StatusNotFound, "", "File not found"},
		{"outside root", root, outside, http.StatusForbidden, "", "Access denied"},
		{"traversal", root, filepath.Join(root, "..", filepath.Base(filepath.Dir(outside)), "other.pdf"), http.StatusForbidden, "", "Access denied"},
		{"no path", "", "", http.StatusBadRequest, "", "path is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupTestServer(t, Config{PDFRoot: tt.root})
			rec := do(t, s, http.MethodGet, "/pdf/read?path="+url.QueryEscape(tt.path), nil)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantText, decode[TextResponse](t, rec).Text)
				return
			}
			assert.Equal(t, tt.wantDetail, decode[ErrorResponse](t, rec).Detail)
		})
	}
}

func TestExtractPDF(t *testing.T) {
	s, _ := setupTestServer(t, Config{})
	rec := do(t, s, http.MethodPost, "/pdf/extract", samplePDF(t, "Uploaded"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Uploaded", decode[TextResponse](t, rec).Text)
}

func TestJSONBodyTooLarge(t *testing.T) {
	components := make([]string, 64)
	for i := range components {
		components[i] = "pipe"
	}
	tests := []struct {
		name   string
		target string
		body   any
	}{
		{"handleliste", "/pid/handleliste", map[string]any{"components": components}},
		{"fitting", "/fittings/", map[string]any{
			"code": "X", "description": strings.Repeat("d", 512), "series": "s", "configuration": "c",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupTestServer(t, Config{MaxBodyBytes: 128})
			rec := do(t, s, http.MethodPost, tt.target, tt.body)

			require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
			assert.Contains(t, decode[ErrorResponse](t, rec).Detail, "request body too large")
		})
	}
}

func TestExtractPDFTooLarge(t *testing.T) {
	s, _ := setupTestServer(t, Config{MaxUploadBytes: 16})
	rec := do(t, s, http.MethodPost, "/pdf/extract", strings.Repeat("x", 64))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
