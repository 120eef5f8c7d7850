package handler

import (
	"errors"
	"net/http"

	"github.com/reachskumar/ai-ops-guardian-angel/internal/api/response"
	"github.com/reachskumar/ai-ops-guardian-angel/internal/core"
)

// writeServiceError maps core errors onto the shared error envelope.
func writeServiceError(w http.ResponseWriter, err error, production bool) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		response.NotFoundError(w, err.Error())
	case errors.Is(err, core.ErrInvalidTransition):
		response.ValidationError(w, err.Error())
	default:
		response.InternalError(w, err, production)
	}
}
