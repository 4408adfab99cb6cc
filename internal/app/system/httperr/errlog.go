// internal/app/system/httperr/errlog.go
package httperr

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs server-side error logging with the client-facing
// envelope. Handlers log the real error with context and surface only a
// short public message.
//
// It is constructed once at startup in bootstrap and shared by all feature
// handlers.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger bound to the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs err with request context and writes an "unavailable"
// envelope with publicMsg. Use for store/dependency failures where the
// client may manually retry.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, publicMsg string) {
	e.log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	Unavailable(w, publicMsg)
}

// LogValidation logs a validation failure at debug level and writes a
// validation envelope. The message is surfaced verbatim to the caller.
func (e *ErrorLogger) LogValidation(w http.ResponseWriter, r *http.Request, message string) {
	e.log.Debug("validation failed",
		zap.String("message", message),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	Validation(w, message)
}
