package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, http.StatusUnprocessableEntity, errors.New("Invalid data passed"))

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Unprocessable Entity", resp.Error)
	assert.Equal(t, "Invalid data passed", resp.Message)
}

func TestRespondCategorizedError(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondCategorizedError(rr, http.StatusBadRequest, "loading", "Issues occured while processing data")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t,
		`{"error":"Bad Request","kind":"loading","message":"Issues occured while processing data"}`,
		rr.Body.String())

	rr = httptest.NewRecorder()
	RespondErrorString(rr, http.StatusBadRequest, "Invalid JSON")
	assert.NotContains(t, rr.Body.String(), `"kind"`)
}
