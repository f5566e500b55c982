package db

import (
	"strings"

	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
)

// IsUniqueViolation reports whether err came from a unique constraint on
// either supported driver. When constraintName is provided it must appear in
// the violated constraint or the message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	dump := pkgerrors.Dump(err)
	msg := err.Error()
	unique := dump.UniqueViolation() ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !unique {
		return false
	}
	if constraintName == "" {
		return true
	}
	return dump.PGConstraint == constraintName || strings.Contains(msg, constraintName)
}
