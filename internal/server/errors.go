package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/speaklab/speaklab/internal/api2d"
	apikeydomain "github.com/speaklab/speaklab/internal/apikey/domain"
	authdomain "github.com/speaklab/speaklab/internal/auth/domain"
	notificationdomain "github.com/speaklab/speaklab/internal/notification/domain"
	pagedomain "github.com/speaklab/speaklab/internal/page/domain"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
	"gorm.io/gorm"
)

const apiKeyPagePath = "/api-key"

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type     string            `json:"type"`
	Message  string            `json:"message"`
	Redirect string            `json:"redirect,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, apikeydomain.ErrNoKey):
		return http.StatusForbidden, errorPayload{
			Type:     "no_key",
			Message:  "no API key is linked to this account",
			Redirect: apiKeyPagePath,
		}
	case errors.Is(err, apikeydomain.ErrKeyExpired):
		return http.StatusForbidden, errorPayload{
			Type:     "key_expired",
			Message:  "your API key has expired",
			Redirect: apiKeyPagePath,
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, policydomain.ErrPolicyExists),
		errors.Is(err, pagedomain.ErrPageExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, apikeydomain.ErrDuplicateOwner):
		return http.StatusConflict, errorPayload{
			Type:    "duplicate_owner",
			Message: "this account already has a key",
		}
	case errors.Is(err, apikeydomain.ErrDuplicateKey):
		return http.StatusConflict, errorPayload{
			Type:    "duplicate_key",
			Message: "this key is already linked to another account",
		}
	case errors.Is(err, api2d.ErrKeyNotFound):
		return http.StatusBadRequest, errorPayload{
			Type:    "key_not_found",
			Message: "the key does not exist on the remote service",
		}
	case errors.Is(err, api2d.ErrAmbiguousKey):
		return http.StatusBadRequest, errorPayload{
			Type:    "ambiguous_key",
			Message: "the key matched more than one remote entry",
		}
	case errors.Is(err, api2d.ErrKeyDisabled):
		return http.StatusBadRequest, errorPayload{
			Type:    "key_disabled",
			Message: "the key is disabled on the remote service",
		}
	case errors.Is(err, api2d.ErrKeyMismatch):
		return http.StatusBadRequest, errorPayload{
			Type:    "key_mismatch",
			Message: "the key did not match the remote entry",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, api2d.ErrRemoteUnavailable),
		errors.Is(err, policydomain.ErrNoPolicyConfigured):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable, please try again later",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, apikeydomain.ErrInvalidKey),
		errors.Is(err, policydomain.ErrInvalidPolicy),
		errors.Is(err, pagedomain.ErrInvalidPage),
		errors.Is(err, notificationdomain.ErrInvalidNotification):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, policydomain.ErrPolicyNotFound),
		errors.Is(err, pagedomain.ErrPageNotFound),
		errors.Is(err, notificationdomain.ErrNotificationNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	return strings.TrimPrefix(code, "invalid_")
}

// classifyErrorForLog buckets handler errors for request logging.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= 500 {
		return "server_error", payload.Type
	}
	return "client_error", payload.Type
}
