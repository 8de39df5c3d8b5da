package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/flowmotion/flowmotion/pkg/errors"
	"github.com/flowmotion/flowmotion/pkg/store"
)

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes. Unrecognized errors
// become 500s with the raw message suppressed.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if stderrors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Code:    string(errors.ErrCodeSceneNotFound),
			Message: "scene not found",
		})
		return
	}

	code := errors.GetCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("internal error", "error", err)
		writeJSON(w, status, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: "internal error",
		})
		return
	}

	writeJSON(w, status, ErrorResponse{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidScene,
		errors.ErrCodeInvalidGrid,
		errors.ErrCodeInvalidTimeline,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidID,
		errors.ErrCodeUnknownNode,
		errors.ErrCodeUnknownContainer,
		errors.ErrCodeUnknownConnection:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeSceneNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
