package services

import (
	"fmt"

	"github.com/sjafferali/meditrack/internal/types"
)

// Error types surfaced to the API layer. Handlers map Code/Type straight
// onto the JSON error envelope.
const (
	ErrTypeNotFound   = "not_found"
	ErrTypeValidation = "validation"
	ErrTypeBusiness   = "business"
)

func notFoundError(what string) *types.CustomError {
	return &types.CustomError{
		Code:    404,
		Message: what + " not found",
		Type:    ErrTypeNotFound,
	}
}

func validationError(message string) *types.CustomError {
	return &types.CustomError{
		Code:    400,
		Message: message,
		Type:    ErrTypeValidation,
	}
}

func businessError(message string) *types.CustomError {
	return &types.CustomError{
		Code:    400,
		Message: message,
		Type:    ErrTypeBusiness,
	}
}

// doseLimitError echoes the cap back to the caller so clients can show it
// without a second lookup.
func doseLimitError(maxDoses int, day string) *types.CustomError {
	if day == "" {
		return businessError(fmt.Sprintf("Maximum doses (%d) taken today", maxDoses))
	}
	return businessError(fmt.Sprintf("Maximum doses (%d) taken for %s", maxDoses, day))
}
