package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/logger"
)

// Response is the envelope of every JSON reply
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Detailer is implemented by errors that carry structured data for the client
type Detailer interface {
	Details() interface{}
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK sends a successful envelope
func OK(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, Response{Success: true, Message: message, Data: data})
}

// BadRequest sends a 400 with a fixed message
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, Response{Success: false, Error: message})
}

// Error maps err to a status code and sends it. Server errors are logged and
// their text is not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	body := Response{Success: false, Error: err.Error()}

	var d Detailer
	if errors.As(err, &d) {
		body.Data = d.Details()
	}

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		body.Error = "Internal server error"
		body.Data = nil
	}
	JSON(w, status, body)
}
