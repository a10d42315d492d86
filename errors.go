package bloglist

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-bloglist/middleware/jwtware"
)

const (
	TextCodeValidation       = "VALIDATION_FAILED"
	TextCodeDuplicate        = "DUPLICATE_RESOURCE"
	TextCodeMalformedID      = "MALFORMED_ID"
	TextCodeMalformedBody    = "MALFORMED_BODY"
	TextCodeTokenMissing     = jwtware.TextCodeTokenMissing
	TextCodeTokenInvalid     = "TOKEN_INVALID"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeIdentityNotFound = "IDENTITY_NOT_FOUND"
	TextCodeOwnershipDenied  = "OWNERSHIP_DENIED"
	TextCodeInvalidLogin     = "INVALID_CREDENTIALS"
	TextCodeNotFound         = "NOT_FOUND"
	TextCodeUnrouted         = "UNROUTED"
)

// ErrMalformedID is returned when a path identifier is not a valid id
var ErrMalformedID = goerrors.New("malformatted id", goerrors.CategoryBadInput).
	WithTextCode(TextCodeMalformedID).
	WithCode(goerrors.CodeBadRequest)

// ErrMalformedBody is returned when the request body can not be decoded
var ErrMalformedBody = goerrors.New("malformatted request body", goerrors.CategoryBadInput).
	WithTextCode(TextCodeMalformedBody).
	WithCode(goerrors.CodeBadRequest)

// ErrUsernameTaken is returned when registering an existing username
var ErrUsernameTaken = goerrors.New("username must be unique", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicate).
	WithCode(goerrors.CodeBadRequest)

// ErrJWTMustBeProvided is the create/delete handler error when no token was sent
var ErrJWTMustBeProvided = goerrors.New("jwt must be provided", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMissingOrInvalid is returned when a token was sent but no identity was resolved
var ErrTokenMissingOrInvalid = goerrors.New("token missing or invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenInvalid signature mismatch, wrong algorithm or malformed payload
var ErrTokenInvalid = goerrors.New("invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired the token exp claim is in the past
var ErrTokenExpired = goerrors.New("token expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrIdentityNotFound the token subject no longer resolves to a user
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryAuth).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrOwnershipDenied the requester does not own the resource
var ErrOwnershipDenied = goerrors.New("Unauthorized", goerrors.CategoryAuth).
	WithTextCode(TextCodeOwnershipDenied).
	WithCode(goerrors.CodeUnauthorized)

// ErrMismatchedHashAndPassword login failed
var ErrMismatchedHashAndPassword = goerrors.New("invalid username or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidLogin).
	WithCode(goerrors.CodeUnauthorized)

// ErrRecordNotFound storage lookup failed
var ErrRecordNotFound = goerrors.New("record not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrBlogNotFound explicit blog lookup failed
var ErrBlogNotFound = goerrors.New("blog not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrUnknownEndpoint no route matched
var ErrUnknownEndpoint = goerrors.New("unknown endpoint", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUnrouted).
	WithCode(goerrors.CodeNotFound)

// ErrNoEmptyString can not hash empty passwords
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeValidation).
	WithCode(goerrors.CodeBadRequest)

// NewValidationError returns a field validation failure carrying message
func NewValidationError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(TextCodeValidation).
		WithCode(goerrors.CodeBadRequest)
}

// TextCodeOf returns the text code of a go-errors value, or "" for other errors
func TextCodeOf(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr != nil {
		return richErr.TextCode
	}
	return ""
}

// IsNotFound reports whether err is a storage or lookup miss
func IsNotFound(err error) bool {
	return TextCodeOf(err) == TextCodeNotFound
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if TextCodeOf(err) == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// isUniqueViolation matches the unique index failure reported by SQLite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
