// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/menuhub/internal/app/system/apperr"
	"github.com/dalemusser/menuhub/internal/app/system/requestlog"
	"go.uber.org/zap"
)

// Body is the JSON shape of every error response.
type Body struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorLogger writes error responses and logs them. Server errors are
// logged at error level with the underlying cause; client errors at debug.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// Write maps err to a status and JSON body. Errors that are not
// *apperr.Error are reported as a generic 500.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	body := Body{Error: apperr.PublicMessage(err)}
	if ae, ok := asAppErr(err); ok && len(ae.Details) > 0 {
		body.Details = ae.Details
	}

	fields := []zap.Field{
		zap.String("request_id", requestlog.RequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		e.Log.Error("request failed", fields...)
	} else {
		e.Log.Debug("request rejected", fields...)
	}

	WriteJSON(w, status, body)
}

// LogServerError wraps err as a store failure with msg and writes it.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.Write(w, r, apperr.Store(msg, err))
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func asAppErr(err error) (*apperr.Error, bool) {
	var ae *apperr.Error
	ok := stderrors.As(err, &ae)
	return ae, ok
}
