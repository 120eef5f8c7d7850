package response

import (
	"encoding/json"
	"net/http"
)

// Error names used in the {error, message} envelope.
const (
	ErrValidation     = "Validation Error"
	ErrAuthentication = "Authentication Error"
	ErrAuthorization  = "Authorization Error"
	ErrNotFound       = "Not Found"
	ErrRateLimit      = "Rate Limit Error"
	ErrCloudProvider  = "Cloud Provider Error"
	ErrInternal       = "Internal Server Error"
)

// ErrorBody is the JSON error envelope shared by both services.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes the {error, message} envelope with the given status.
func WriteError(w http.ResponseWriter, status int, name, message string) {
	WriteJSON(w, status, ErrorBody{Error: name, Message: message})
}

func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrValidation, message)
}

func AuthenticationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, ErrAuthentication, message)
}

func AuthorizationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, ErrAuthorization, message)
}

func NotFoundError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrNotFound, message)
}

func RateLimitError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, ErrRateLimit, message)
}

func CloudProviderError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, ErrCloudProvider, message)
}

// InternalError writes a 500. In production the underlying message is
// replaced with a generic string.
func InternalError(w http.ResponseWriter, err error, production bool) {
	msg := "an unexpected error occurred"
	if !production && err != nil {
		msg = err.Error()
	}
	WriteError(w, http.StatusInternalServerError, ErrInternal, msg)
}

// PaginatedResponse wraps a list with pagination metadata.
type PaginatedResponse struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// WritePaginated writes a paginated JSON response.
func WritePaginated(w http.ResponseWriter, status int, items any, nextCursor string, hasMore bool) {
	WriteJSON(w, status, PaginatedResponse{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	})
}
