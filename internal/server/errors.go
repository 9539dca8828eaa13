package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quotedesk/internal/artifact"
	"github.com/smallbiznis/quotedesk/internal/quotation/domain"
	"github.com/smallbiznis/quotedesk/internal/render"
	"github.com/smallbiznis/quotedesk/internal/share"
	"github.com/smallbiznis/quotedesk/internal/storeclient"
	"github.com/smallbiznis/quotedesk/internal/workspace"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrNotFound       = errors.New("not_found")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: vErr.Message,
			Errors:  []ValidationError{{Field: vErr.Field, Code: "required", Message: vErr.Message}},
		}
	}

	if rErr, ok := storeclient.AsRemoteError(err); ok {
		if rErr.Status == http.StatusNotFound {
			return http.StatusNotFound, errorPayload{Type: "not_found", Message: rErr.Message}
		}
		return http.StatusBadGateway, errorPayload{Type: "store_error", Message: rErr.Message}
	}

	if code, ok := requestErrorCode(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  []ValidationError{{Code: code, Message: validationMessage(code)}},
		}
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "not found"}
	case errors.Is(err, workspace.ErrSaveInProgress):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: "a save is already in progress"}
	case errors.Is(err, render.ErrSurfaceBlocked):
		return http.StatusConflict, errorPayload{Type: "surface_blocked", Message: "print surface could not be opened"}
	case errors.Is(err, artifact.ErrSinkUnavailable):
		return http.StatusServiceUnavailable, errorPayload{Type: "service_unavailable", Message: "document archive unavailable"}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

// requestErrorCode reports whether err is a caller mistake and its code.
func requestErrorCode(err error) (string, bool) {
	for _, target := range []error{
		ErrInvalidRequest,
		domain.ErrUnknownField,
		domain.ErrInvalidValue,
		domain.ErrItemIndex,
		domain.ErrInvalidID,
		domain.ErrInvalidVariant,
		render.ErrUnknownFormat,
		workspace.ErrInvalidPage,
		workspace.ErrInvalidSession,
		share.ErrMissingContact,
	} {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}
	return "", false
}

func validationMessage(code string) string {
	switch code {
	case ErrInvalidRequest.Error():
		return "invalid request"
	case domain.ErrItemIndex.Error():
		return "item index out of range"
	case share.ErrMissingContact.Error():
		return "contact number is required to share"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog returns the error type and code recorded on the request log.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 && payload.Errors[0].Code != "" {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}
