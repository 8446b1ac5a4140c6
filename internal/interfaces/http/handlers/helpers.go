package handlers

import (
	"strconv"

	"netreq/internal/shared/errors"
)

// parseQueryID parses a numeric ID from a query string value.
func parseQueryID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid id parameter")
	}
	return uint(id), nil
}
