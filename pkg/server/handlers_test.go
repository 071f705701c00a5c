package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicktill/heartbridge/pkg/config"
	"github.com/nicktill/heartbridge/pkg/export"
	"github.com/nicktill/heartbridge/pkg/ingest"
	"github.com/nicktill/heartbridge/pkg/ledger"
)

const stepsPayload = `{
	"type": "Steps",
	"dates": ["2021-04-10 09:20:10", "2021-04-10 13:14:00", "2021-04-10 23:10:59"],
	"values": ["34", "50", "10"]
}`

func newTestRouter(t *testing.T) (*mux.Router, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Directory:       dir,
		Format:          export.FormatJSON,
		Host:            config.DefaultHost,
		Port:            config.DefaultPort,
		LogLevel:        config.DefaultLogLevel,
		LedgerRetention: config.DefaultRetention,
	}

	l, err := InitializeLedger(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	pipeline, err := InitializePipeline(cfg, l)
	require.NoError(t, err)

	router := mux.NewRouter()
	SetupRoutes(router, ingest.NewHandler(pipeline), pipeline, l)
	return router, dir
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRoutes_IngestAtRootAndV1(t *testing.T) {
	router, dir := newTestRouter(t)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	for _, path := range []string{"/", "/v1/ingest"} {
		rr := serve(router, http.MethodPost, path, stepsPayload)
		require.Equal(t, http.StatusOK, rr.Code, path)

		var resp ingest.IngestResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, filepath.Join(resolved, "steps-Apr10-2021.json"), resp.Path)
	}
}

func TestRoutes_GetRootNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := serve(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleHealth(t *testing.T) {
	router, dir := newTestRouter(t)

	rr := serve(router, http.MethodGet, "/v1/health", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, Version, resp.Version)
	assert.Equal(t, dir, resp.Directory)
	assert.Equal(t, "json", resp.Format)
	require.NotNil(t, resp.Ledger)
	assert.Equal(t, uint64(0), resp.Ledger.TotalExports)
}

func TestHandleExports(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := serve(router, http.MethodGet, "/v1/exports", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"exports":[],"count":0}`, rr.Body.String())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/v1/ingest", stepsPayload).Code)
	}

	rr = serve(router, http.MethodGet, "/v1/exports?limit=2", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Exports []ledger.Entry `json:"exports"`
		Count   int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "steps", resp.Exports[0].Slug)
	assert.Equal(t, 3, resp.Exports[0].Count)

	rr = serve(router, http.MethodGet, "/v1/exports?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
