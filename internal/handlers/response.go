package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/mroshb/sweatcheck/internal/middleware"
	"github.com/mroshb/sweatcheck/internal/services"
	"github.com/mroshb/sweatcheck/pkg/errors"
	"github.com/mroshb/sweatcheck/pkg/logger"
)

var statusByCode = map[string]int{
	errors.ErrCodeValidation:        http.StatusBadRequest,
	errors.ErrCodeInvalidTarget:     http.StatusBadRequest,
	errors.ErrCodeUnauthorized:      http.StatusUnauthorized,
	errors.ErrCodeForbidden:         http.StatusForbidden,
	errors.ErrCodeNotFound:          http.StatusNotFound,
	errors.ErrCodeAlreadyExists:     http.StatusConflict,
	errors.ErrCodeInvalidState:      http.StatusConflict,
	errors.ErrCodeAlreadyFriends:    http.StatusConflict,
	errors.ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
}

// StatusForCode maps an error code to an HTTP status. Unknown codes are 500.
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON. Faults get a generic body and are logged.
func respondError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok || !errors.IsBusiness(err) && appErr.Code != errors.ErrCodeRateLimitExceeded {
		requestID, _ := c.Get(middleware.ContextReqID)
		logger.Error("Request failed", "path", c.FullPath(), "request_id", requestID, "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": errors.ErrCodeInternalError})
		return
	}
	c.JSON(StatusForCode(appErr.Code), gin.H{"error": appErr.Message, "code": appErr.Code})
}

// respondOutcome writes the result of a mutating operation.
func respondOutcome(c *gin.Context, out services.Outcome, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if !out.OK {
		c.JSON(StatusForCode(out.Code), out)
		return
	}
	c.JSON(http.StatusOK, out)
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": FormatValidationError(err), "code": errors.ErrCodeValidation})
}

// FormatValidationError turns binding errors into one readable sentence list.
func FormatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body."
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fieldErrorMessage(fe))
	}
	return strings.Join(messages, "; ")
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a link", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func fieldName(field string) string {
	names := map[string]string{
		"Nick":        "Nick",
		"Email":       "Email",
		"Password":    "Password",
		"OldPassword": "Current password",
		"NewPassword": "New password",
		"Message":     "Message",
		"Role":        "Role",
		"Title":       "Title",
		"Fatigue":     "Fatigue",
		"Calories":    "Calories",
		"VideoURL":    "Video link",
	}
	if name, ok := names[field]; ok {
		return name
	}
	return field
}

// currentUser reads the authenticated user id. Routes behind RequireAuth always have one.
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated", "code": errors.ErrCodeUnauthorized})
	}
	return userID, ok
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name, "code": errors.ErrCodeValidation})
		return 0, false
	}
	return uint(id), true
}
