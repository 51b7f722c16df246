// Package service holds the business rules of the marketplace. Every operation
// receives the caller's identity explicitly and returns *models.AppError values.
package service

import (
	"strings"

	"skyhub/internal/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Flags reports whether a named feature flag is on for a user.
type Flags interface {
	Enabled(name string, userID uint) bool
}

type noFlags struct{}

func (noFlags) Enabled(string, uint) bool { return false }

// PageOffset converts 1-indexed page/size into a limit and an offset.
// page < 1 becomes 1, size < 1 becomes DefaultPageSize and size is capped at MaxPageSize.
func PageOffset(page, size int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return size, (page - 1) * size
}

func requireCaller(callerID uint) error {
	if callerID == 0 {
		return models.NewUnauthenticatedError("Authentication required")
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
