package response

import (
	"encoding/json"
	"net/http"

	"github.com/carbonmarket/carbon-marketplace/internal/errors"
)

// ErrorResponse is the wire error envelope. Success responses carry the
// resource itself, errors carry {message, detail}; clients fall back to a
// generic message when both fields are empty.
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, err error) {
	if appErr, ok := errors.IsAppError(err); ok {
		WriteJSON(w, appErr.StatusCode, ErrorResponse{
			Message: appErr.Message,
			Detail:  appErr.Detail,
		})

		return
	}

	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Message: "An unexpected error occurred",
	})
}
