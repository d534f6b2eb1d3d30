package model

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorCode represents API error codes
type ErrorCode int

const (
	// Authentication errors (1xxx)
	ErrCodeUnauthorized ErrorCode = 1001
	ErrCodeTokenExpired ErrorCode = 1002
	ErrCodeTokenInvalid ErrorCode = 1003

	// Authorization errors (2xxx)
	ErrCodeForbidden ErrorCode = 2001

	// Resource errors (3xxx)
	ErrCodeNotFound      ErrorCode = 3001
	ErrCodeAlreadyExists ErrorCode = 3002
	ErrCodePartialUpdate ErrorCode = 3004

	// Validation errors (4xxx)
	ErrCodeValidation   ErrorCode = 4001
	ErrCodeInvalidInput ErrorCode = 4002

	// Internal errors (5xxx)
	ErrCodeInternal ErrorCode = 5001
	ErrCodeDatabase ErrorCode = 5002
)

const errorTypeBase = "https://clubhouse.forgo.software/errors/"

// ProblemDetails represents RFC 9457 Problem Details for HTTP APIs.
// Message mirrors Detail so every response body carries a "message" field.
type ProblemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Message  string       `json:"message"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
	// Extension fields
	Code ErrorCode `json:"code,omitempty"`
}

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

// WriteJSON writes the problem details as JSON response
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	if p.Message == "" {
		p.Message = p.Detail
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Common error constructors

func newProblem(slug, title string, status int, detail string, code ErrorCode) *ProblemDetails {
	return &ProblemDetails{
		Type:    errorTypeBase + slug,
		Title:   title,
		Status:  status,
		Detail:  detail,
		Message: detail,
		Code:    code,
	}
}

func NewUnauthorizedError(detail string) *ProblemDetails {
	return newProblem("unauthorized", "Unauthorized", http.StatusUnauthorized, detail, ErrCodeUnauthorized)
}

func NewForbiddenError(detail string) *ProblemDetails {
	return newProblem("forbidden", "Forbidden", http.StatusForbidden, detail, ErrCodeForbidden)
}

// NewNotFoundError takes a full sentence, e.g. "Club 'club:x' not found".
func NewNotFoundError(detail string) *ProblemDetails {
	return newProblem("not-found", "Not Found", http.StatusNotFound, detail, ErrCodeNotFound)
}

// NewDuplicateError reports a unique name collision. The clubs API has always
// answered these with 406 and clients depend on it.
func NewDuplicateError(detail string) *ProblemDetails {
	return newProblem("duplicate", "Not Acceptable", http.StatusNotAcceptable, detail, ErrCodeAlreadyExists)
}

func NewValidationError(errors []FieldError) *ProblemDetails {
	detail := "One or more fields failed validation"
	if len(errors) > 0 {
		detail = fmt.Sprintf("%s: %s", errors[0].Field, errors[0].Message)
		if len(errors) > 1 {
			detail = fmt.Sprintf("%s (and %d more errors)", detail, len(errors)-1)
		}
	}
	p := newProblem("validation", "Validation Error", http.StatusBadRequest, detail, ErrCodeValidation)
	p.Errors = errors
	return p
}

// NewPartialUpdateError reports a membership write that reached only one side.
func NewPartialUpdateError(detail string) *ProblemDetails {
	return newProblem("partial-update", "Partial Update", http.StatusBadRequest, detail, ErrCodePartialUpdate)
}

func NewStorageError(detail string) *ProblemDetails {
	return newProblem("storage", "Storage Error", http.StatusBadRequest, detail, ErrCodeDatabase)
}

func NewInternalError(detail string) *ProblemDetails {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return newProblem("internal", "Internal Server Error", http.StatusInternalServerError, detail, ErrCodeInternal)
}

func NewBadRequestError(detail string) *ProblemDetails {
	return newProblem("bad-request", "Bad Request", http.StatusBadRequest, detail, ErrCodeInvalidInput)
}

func NewRateLimitError(retryAfter int) *ProblemDetails {
	return newProblem("rate-limited", "Too Many Requests", http.StatusTooManyRequests,
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds", retryAfter), 0)
}
