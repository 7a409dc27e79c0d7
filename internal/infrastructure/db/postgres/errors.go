package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == codeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == codeForeignKeyViolation
}

// isRetryable reports whether the transaction can be safely re-run from the start.
func isRetryable(err error) bool {
	switch pqCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}
