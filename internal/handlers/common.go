// common.go
//
// Shared request parsing and error mapping for the API handlers.

package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sjafferali/meditrack/internal/types"
	"github.com/sjafferali/meditrack/internal/utils"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// parseID extracts a positive integer path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid " + name + " parameter",
			Type:    "validation",
		}
	}
	return uint(id), nil
}

// parseSkipLimit extracts pagination query parameters with sane bounds.
func parseSkipLimit(c *fiber.Ctx) (int, int) {
	skip := c.QueryInt("skip", 0)
	if skip < 0 {
		skip = 0
	}
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return skip, limit
}

// parseTimezoneOffset reads the optional timezone_offset query parameter,
// minutes in the JavaScript getTimezoneOffset convention. nil means the
// caller did not send one.
func parseTimezoneOffset(c *fiber.Ctx) *int {
	raw := c.Query("timezone_offset")
	if raw == "" {
		return nil
	}
	offset, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &offset
}

// parsePersonID reads the optional person_id query parameter.
func parsePersonID(c *fiber.Ctx) *uint {
	raw := c.Query("person_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	u := uint(id)
	return &u
}

// parseDateQuery reads the optional date query parameter (YYYY-MM-DD).
// nil means the caller did not send one.
func parseDateQuery(c *fiber.Ctx) (*time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, invalidDateError()
	}
	return &date, nil
}

// parseDateParam extracts a YYYY-MM-DD path parameter.
func parseDateParam(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Params(name)
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid date format. Use YYYY-MM-DD",
			Type:    "validation",
		}
	}
	return date, nil
}

// invalidDateError is the uniform response for a malformed date value.
func invalidDateError() *types.CustomError {
	return &types.CustomError{
		Code:    fiber.StatusBadRequest,
		Message: "Invalid date format. Use YYYY-MM-DD",
		Type:    "validation",
	}
}

// invalidBodyError is the uniform response for an unparseable request body.
func invalidBodyError() *types.CustomError {
	return &types.CustomError{
		Code:    fiber.StatusBadRequest,
		Message: "Invalid request body",
		Type:    "validation",
	}
}

// serviceError maps a service error onto the JSON error envelope, falling
// back to a 500 for anything that is not a CustomError.
func serviceError(c *fiber.Ctx, err error) error {
	var ce *types.CustomError
	if errors.As(err, &ce) {
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "internal")
}
