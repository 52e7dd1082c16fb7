package tickets

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Error kinds. Callers test them with errors.Is; every returned error
// wraps exactly one of ErrValidation, ErrNotFound, or ErrStoreUnavailable.
var (
	// ErrValidation covers empty required fields and invalid enum values.
	ErrValidation = errors.New("validation error")

	ErrInvalidStatus   = newKind(ErrValidation, "invalid status")
	ErrInvalidPriority = newKind(ErrValidation, "invalid priority")
	ErrInvalidAuthor   = newKind(ErrValidation, "invalid author")

	// ErrNotFound means the referenced ticket does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable means the database could not be used: locked
	// past the retry budget, missing, corrupt, or not permitted.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// kindError is a named sub-kind that still matches its parent kind.
type kindError struct {
	parent error
	msg    string
}

func newKind(parent error, msg string) error { return &kindError{parent: parent, msg: msg} }

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.parent }

// isBusy reports whether err is SQLite lock contention worth retrying.
func isBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

// isUnavailable reports whether err means the file itself is unusable.
func isUnavailable(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN,
		sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_PERM,
		sqlite3.SQLITE_READONLY, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_FULL:
		return true
	}
	return false
}
