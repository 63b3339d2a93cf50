package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

var (
	MalformedBodyError  = NewSimple(400, "Malformed request body")
	InternalServerError = NewSimple(500, "Internal server error")

	DocumentNotFoundError   = NewSimple(404, "Document not found")
	VersionNotFoundError    = NewSimple(404, "Version not found for this document")
	BiddingNotFoundError    = NewSimple(404, "Bidding not found")
	BiddingDocNotFoundError = NewSimple(404, "Document not found for this bidding")
	NewsNotFoundError       = NewSimple(404, "News not found")
	ServiceNotFoundError    = NewSimple(404, "Service not found")
	ProjectNotFoundError    = NewSimple(404, "Project not found")
	CategoryNotFoundError   = NewSimple(404, "Category not found")
	AreaNotFoundError       = NewSimple(404, "Area not found")

	FormJSONRequiredError = NewSimple(400, "Multipart requests must carry a 'json_payload' form field")
	MissingFileError      = NewSimple(400, "Missing 'file' form field")
	MissingFileNameError  = NewSimple(400, "Uploaded file has no name")
	InvalidMediaTypeError = NewSimple(415, "Unsupported media type")

	VersioningNotAllowedError = NewSimple(400, "This document type does not allow new versions")
	CategoryInUseError        = NewSimple(409, "Category still has documents and cannot be deleted")
	AreaInUseError            = NewSimple(409, "Area still has categories and cannot be deleted")
	DuplicateSlugError        = NewSimple(409, "Slug is already in use")
	DuplicateBiddingError     = NewSimple(409, "A bidding with this number already exists")
	DuplicateVersionError     = NewSimple(409, "Another version was created concurrently, try again")

	/*
	 * Used for authentication/authorization
	 */
	InvalidAuthTokenError = NewSimple(401, "Missing or invalid authorization token")
	UnauthorizedError     = NewSimple(401, "Unauthorized")
)

// FromValidationError maps field errors to a 400. Anything else, like an
// InvalidValidationError, is a programming error and becomes a 500.
func FromValidationError(err error) ErrorResponse {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return InternalServerError
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "oneof":
			problems[field] = append(problems[field], "Value must be one of: "+fe.Param())
		case "nospaces":
			problems[field] = append(problems[field], "Value must not contain whitespaces")
		case "nodupes":
			problems[field] = append(problems[field], "Values must not repeat")
		case "slug":
			problems[field] = append(problems[field], "Value must be a lowercase slug (a-z, 0-9 and '-')")
		case "brl":
			problems[field] = append(problems[field], "Value must be a BRL amount, like 'R$ 1.234,56'")
		case "dateonly":
			problems[field] = append(problems[field], "Value must be a date, like '2024-03-15' or '15/03/2024'")
		case "datetime":
			problems[field] = append(problems[field], "Value must be a RFC 3339 timestamp, like '2024-03-15T10:00:00-03:00'")
		case "gt":
			problems[field] = append(problems[field], "Value must be greater than "+fe.Param())
		case "cnpj":
			problems[field] = append(problems[field], "Value must be a valid CNPJ")
		case "url":
			problems[field] = append(problems[field], "Value must be a valid URL")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewBadRequestError(msg string) *APIError {
	return NewSimple(http.StatusBadRequest, msg)
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewInvalidFieldValueError(field, value string) *APIError {
	return NewSimple(http.StatusBadRequest, "Field '%s' has an unrecognized value: '%s'", field, value)
}

// NewStateConflictError is returned when a transition is attempted from a
// state that does not allow it. The current state is always named.
func NewStateConflictError(current, target string) *APIError {
	return NewSimple(http.StatusBadRequest, "Cannot move from %s to %s, current status is %s", current, target, current)
}

func NewCapabilityError(capability string) *APIError {
	return NewSimple(http.StatusForbidden, "Missing capability: %s", capability)
}

func NewFileTooLargeError(maxBytes int64) *APIError {
	return NewSimple(http.StatusRequestEntityTooLarge, "File is too large, max: %d bytes", maxBytes)
}

func NewInvalidFileExtError(ext string) *APIError {
	return NewSimple(http.StatusBadRequest, "File extension '%s' is not allowed", ext)
}
