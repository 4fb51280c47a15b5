package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the JSON body written for failed requests. Stack and
// internal messages are only populated outside production.
type ErrorResponse struct {
	Kind    string                 `json:"kind"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Handler translates errors into HTTP responses.
type Handler struct {
	logger     *zap.Logger
	production bool
}

// NewHandler creates an error handler. In production mode internal error
// messages are suppressed from responses.
func NewHandler(logger *zap.Logger, production bool) *Handler {
	return &Handler{logger: logger, production: production}
}

// Handle writes the response for err, mapping its kind to a status code.
// Unknown errors become 500s.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	appErr := AsAppError(err)
	if appErr == nil {
		appErr = NewInternalError("internal server error").WithCause(err)
	}

	status := appErr.HTTPStatus()
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("kind", string(appErr.Kind)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Warn("request failed", fields...)
	}

	resp := ErrorResponse{Kind: string(appErr.Kind)}
	if !h.production {
		resp.Message = appErr.Error()
		resp.Details = appErr.Details
	} else if appErr.IsClientFault() {
		resp.Message = appErr.Message
		resp.Details = appErr.Details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		h.logger.Error("failed to encode error response", zap.Error(encErr))
	}
}

// HandleStatus writes a bare error response with an explicit status code,
// for failures that have no error value (unknown routes and the like).
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := ErrorResponse{Kind: string(kindForStatus(status)), Message: message}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", zap.Error(err))
	}
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusMethodNotAllowed:
		return KindValidation
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}
