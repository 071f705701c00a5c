package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicktill/heartbridge/pkg/config"
	"github.com/nicktill/heartbridge/pkg/export"
	"github.com/nicktill/heartbridge/pkg/health"
	"github.com/nicktill/heartbridge/pkg/ingest"
)

func newTestApp(t *testing.T, args ...string) (*app, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "exports")

	cfg, err := config.Load(append([]string{
		"--env-file", "",
		"--directory", dir,
		"--ledger-path", filepath.Join(t.TempDir(), "ledger"),
	}, args...))
	require.NoError(t, err)

	a, err := newApp(cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a, dir
}

func post(t *testing.T, a *app, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// TestE2E_ValidDataIsExported posts the typical heart rate payload in every
// format and reads the file back.
func TestE2E_ValidDataIsExported(t *testing.T) {
	for _, format := range export.Formats {
		t.Run(string(format), func(t *testing.T) {
			a, dir := newTestApp(t, "--format", string(format))

			w := post(t, a, "/", map[string]any{
				"type":   "Heart Rate",
				"dates":  []string{"2019-12-16 08:24:36", "2019-12-16 09:32:17", "2019-12-16 14:53:35", "2019-12-16 16:13:35", "2019-12-16 19:23:28", "2019-12-16 23:56:25"},
				"values": []string{"74", "83", "89", "157", "95", "80"},
			})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			file := filepath.Join(dir, "heart-rate-Dec16-2019."+format.Extension())
			_, err := os.Stat(file)
			require.NoError(t, err)

			readings, err := export.ReadFile(file, health.KindHeartRate)
			require.NoError(t, err)
			require.Len(t, readings, 6)
			assert.Equal(t, 157.0, readings[3].Value())
		})
	}
}

func TestE2E_LegacyPayloadWarns(t *testing.T) {
	a, dir := newTestApp(t)

	w := post(t, a, "/v1/ingest", map[string]any{
		"hrDates":  []string{"2019-12-16 08:24:36", "2019-12-16 09:32:17"},
		"hrValues": []string{"74", "83"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ingest.IngestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, health.LegacySlug, resp.Type)
	assert.Equal(t, []string{health.LegacyDeprecationNotice}, resp.Warnings)

	_, err := os.Stat(filepath.Join(dir, "heart-rate-legacy-Dec16-2019.csv"))
	assert.NoError(t, err)
}

func TestE2E_LegacyDayFirstCompat(t *testing.T) {
	payload := map[string]any{
		"hrDates":  []string{"16-12-2019 08:24:36"},
		"hrValues": []string{"74"},
	}

	strict, _ := newTestApp(t)
	assert.Equal(t, http.StatusBadRequest, post(t, strict, "/", payload).Code)

	lenient, _ := newTestApp(t, "--legacy-day-first")
	assert.Equal(t, http.StatusOK, post(t, lenient, "/", payload).Code)
}

func TestE2E_ErrorStatuses(t *testing.T) {
	a, _ := newTestApp(t)

	w := post(t, a, "/", map[string]any{
		"hrDates":  []string{"2019-12-16 08:24:36", "2019-12-16 14:53:35"},
		"hrValues": []string{"74"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = post(t, a, "/", map[string]any{"dates": []string{}, "values": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, a, "/", map[string]any{"type": "Steps", "dates": []string{}, "values": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty batch has no date range")
}

func TestE2E_ResubmissionIsRecorded(t *testing.T) {
	a, _ := newTestApp(t)
	payload := map[string]any{
		"type":   "Flights Climbed",
		"dates":  []string{"2021-04-05 09:21:00", "2021-04-05 09:21:00", "2021-04-05 11:20:38"},
		"values": []string{"1", "1", "2"},
	}

	require.Equal(t, http.StatusOK, post(t, a, "/", payload).Code)
	require.Equal(t, http.StatusOK, post(t, a, "/", payload).Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/exports", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}
