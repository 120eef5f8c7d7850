package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]int{"count": 9})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":9}`, rec.Body.String())
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "Not found", "Route /nope not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Not found", body["error"])
	assert.Equal(t, "Route /nope not found", body["message"])
}

func TestNamedErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		errTag string
	}{
		{"validation", func(w http.ResponseWriter) { ValidationError(w, "m") }, http.StatusBadRequest, ErrValidation},
		{"authentication", func(w http.ResponseWriter) { AuthenticationError(w, "m") }, http.StatusUnauthorized, ErrAuthentication},
		{"authorization", func(w http.ResponseWriter) { AuthorizationError(w, "m") }, http.StatusForbidden, ErrAuthorization},
		{"not found", func(w http.ResponseWriter) { NotFoundError(w, "m") }, http.StatusNotFound, ErrNotFound},
		{"rate limit", func(w http.ResponseWriter) { RateLimitError(w, "m") }, http.StatusTooManyRequests, ErrRateLimit},
		{"cloud provider", func(w http.ResponseWriter) { CloudProviderError(w, "m") }, http.StatusBadGateway, ErrCloudProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.errTag, decodeBody(t, rec)["error"])
		})
	}
}

func TestInternalError_HidesMessageInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalError(rec, errors.New("pg: connection refused"), true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, ErrInternal, body["error"])
	assert.NotContains(t, body["message"], "connection refused")
}

func TestInternalError_ShowsMessageInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalError(rec, errors.New("pg: connection refused"), false)

	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "connection refused")
}

func TestWritePaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	WritePaginated(rec, http.StatusOK, []string{"a", "b"}, "b", true)

	var body PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "b", body.NextCursor)
	assert.True(t, body.HasMore)
}
