package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/logger"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/requestid"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/validator"
)

// ErrorMapper translates a domain error into an HTTPError.
type ErrorMapper func(err error) (HTTPError, bool)

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	Status   int
	Detail   ErrorDetail
	LogLevel slog.Level
}

// Classify maps err to a status and error detail. Mappers are consulted after
// bind, validation and HTTPError handling, in order.
func Classify(err error, mappers ...ErrorMapper) ErrorInfo {
	info := ErrorInfo{
		Status: http.StatusInternalServerError,
		Detail: ErrorDetail{
			Code:    ErrInternalServerError.Key,
			Message: http.StatusText(http.StatusInternalServerError),
		},
	}

	var httpErr HTTPError
	switch {
	case isBindError(err):
		info.Status = http.StatusBadRequest
		info.Detail = ErrorDetail{Code: ErrBadRequest.Key, Message: err.Error()}
	case validator.IsValidationError(err):
		info.Status = http.StatusUnprocessableEntity
		info.Detail = ErrorDetail{
			Code:    "validation_error",
			Message: "request validation failed",
			Details: validator.ExtractValidationErrors(err).Fields(),
		}
	case errors.As(err, &httpErr):
		info.Status = httpErr.Code
		info.Detail = ErrorDetail{Code: httpErr.Key, Message: http.StatusText(httpErr.Code)}
	default:
		for _, m := range mappers {
			if mapped, ok := m(err); ok {
				info.Status = mapped.Code
				info.Detail = ErrorDetail{Code: mapped.Key, Message: http.StatusText(mapped.Code)}
				break
			}
		}
	}

	info.LogLevel = slog.LevelWarn
	if info.Status >= http.StatusInternalServerError {
		info.LogLevel = slog.LevelError
	}
	return info
}

// NewErrorHandler renders errors as the JSON envelope and logs them: 4xx at
// warn level and 5xx at error level.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("http"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := Classify(err, mappers...)

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", info.Status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		if writeErr := WriteJSON(ctx.ResponseWriter(), info.Status, JSONResponse{Error: &info.Detail}); writeErr != nil {
			log.ErrorContext(r.Context(), "failed to write error response",
				logger.Error(writeErr),
				logger.Event("render_error"),
			)
		}
	}
}
