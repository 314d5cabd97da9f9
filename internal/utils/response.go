package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/josiaO/SmartDalaliTZ/internal/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// RespondErrorWithCode aborts the request with a JSON error body. devErr, if
// given, is logged alongside the public message.
func RespondErrorWithCode(c *gin.Context, status int, code, message string, details any, devErrs ...error) {
	fields := logrus.Fields{
		"status": status,
		"path":   c.FullPath(),
	}
	if len(devErrs) > 0 && devErrs[0] != nil {
		fields["error"] = devErrs[0].Error()
	}
	if status >= http.StatusInternalServerError {
		logger.Log.WithFields(fields).Error(message)
	} else {
		logger.Log.WithFields(fields).Debug(message)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

// RespondError maps err onto a response. AppErrors keep their status and
// code; anything else is a 500.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(c, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
		return
	}
	RespondErrorWithCode(c, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
}

// RespondBindError reports a failed ShouldBind call, listing the offending
// fields when the failure came from validation tags.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[lowerFirst(fe.Field())] = describeTag(fe)
		}
		RespondErrorWithCode(c, http.StatusBadRequest, ErrCodeValidation, "Request validation failed", details, err)
		return
	}
	RespondErrorWithCode(c, http.StatusBadRequest, ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
