package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/carecompanion/internal/api/shared"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/facade"
)

// MapErrorToStatusCode maps facade errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch facade.KindOf(err) {
	case facade.KindNone:
		return http.StatusOK
	case facade.KindInvalidCredentials, facade.KindNotSignedIn:
		return http.StatusUnauthorized
	case facade.KindNotCaretaker, facade.KindNotAuthorized:
		return http.StatusForbidden
	case facade.KindPatientNotFound, facade.KindNotFound:
		return http.StatusNotFound
	case facade.KindEmailExists, facade.KindAlreadyLinked, facade.KindSessionComplete:
		return http.StatusConflict
	case facade.KindInvalidInput:
		return http.StatusBadRequest
	case facade.KindCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-friendly message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch facade.KindOf(err) {
	case facade.KindInvalidCredentials:
		return "Invalid credentials"
	case facade.KindNotSignedIn:
		return "Not signed in"
	case facade.KindEmailExists:
		return "Email already exists"
	case facade.KindPatientNotFound:
		return "Patient not found"
	case facade.KindNotCaretaker:
		return "Only caretakers can do this"
	case facade.KindAlreadyLinked:
		return "Patient already has a caretaker"
	case facade.KindNotAuthorized:
		return "You are not authorized to access this patient's records"
	case facade.KindNotFound:
		return "Not found"
	case facade.KindSessionComplete:
		return "Game session already complete"
	case facade.KindInvalidInput:
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return fmt.Sprintf("Invalid %s: %s", ve.Field, ve.Message)
		}
		return SanitizeValidationError(err)
	case facade.KindCanceled:
		return "Request canceled"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status, kind and safe message for err and logs
// the redacted error.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), string(facade.KindOf(err)), userMessage, err)
}

// SanitizeValidationError turns validator output into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "latitude", "longitude":
		return "out of range"
	default:
		return "validation failed"
	}
}

// badRequest reports a request body or query that could not be parsed.
func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Invalid request format"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msg = SanitizeValidationError(err)
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, string(facade.KindInvalidInput), msg, err)
}
