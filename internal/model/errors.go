package model

import "errors"

var (
	// Storage
	ErrReportNotFound = errors.New("report not found")
	ErrStorage        = errors.New("report storage failure")

	// Input and records
	ErrInvalidInput  = errors.New("invalid input data")
	ErrInvalidReport = errors.New("invalid report record")

	// Generation
	ErrAIGenerationFailed = errors.New("ai text generation failed")
	ErrEmptyResponse      = errors.New("ai returned an empty response")
	ErrUnknownProvider    = errors.New("unknown ai provider")
	ErrNoProvider         = errors.New("no ai provider configured")
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in ErrorResponse.Code.
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeInternal    = "INTERNAL_ERROR"
)
