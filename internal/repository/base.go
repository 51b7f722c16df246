// Package repository implements the data access layer for the marketplace.
package repository

import (
	"errors"
	"strings"

	"skyhub/internal/database"
	"skyhub/internal/models"

	"gorm.io/gorm"
)

// readDB prefers the read replica when one is configured.
func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// lookupError turns a single-record lookup failure into a NotFound or Internal AppError.
func lookupError(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// writeError maps a unique violation on the users table to the matching duplicate
// kind; other unique violations become validation errors.
func writeError(err error) error {
	if !database.IsUniqueViolation(err) {
		return models.NewInternalError(err)
	}
	constraint := strings.ToLower(database.ViolatedConstraint(err))
	switch {
	case strings.Contains(constraint, "email"):
		return models.NewDuplicateEmailError()
	case strings.Contains(constraint, "username"):
		return models.NewDuplicateUsernameError()
	case strings.Contains(constraint, "legacy_id"):
		return models.NewValidationError("legacy_id is already assigned to another drone")
	}
	return models.NewValidationError("record already exists")
}

// pageBounds clamps limit/offset to sane values.
func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
