package gormdb

import (
	"context"
	"errors"
	"strings"

	pkgerrors "agentxrp-backend/pkg/errors"

	"gorm.io/gorm"
)

// Driver messages for unique violations, for drivers or wrappers that
// bypass gorm's error translation.
var uniqueViolationMessages = []string{
	"UNIQUE constraint failed", // sqlite
	"duplicate key value",      // postgres
	"Duplicate entry",          // mysql
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, m := range uniqueViolationMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// maxIDAttempts bounds how often a random primary key is redrawn after a
// collision before the insert is reported as a storage failure.
const maxIDAttempts = 3

// insertIsolated runs one insert as a nested transaction. Inside Execute gorm
// issues it as a savepoint, so a failed insert leaves the outer transaction
// usable for the follow-up existence check.
func insertIsolated(ctx context.Context, db *gorm.DB, value any) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(value).Error
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// translate tags a raw gorm error. Not-found and unique errors are
// handled by callers that know which resource was involved.
func translate(operation string, err error) error {
	if err == nil {
		return nil
	}
	if pkgerrors.IsAppError(err) {
		return err
	}
	return pkgerrors.NewDatabaseError(operation, err)
}
