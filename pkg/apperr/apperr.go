package apperr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Kind classifies an error so handlers can pick a status code and callers
// can decide whether a retry makes sense.
type Kind int

const (
	KindUnknown Kind = iota
	KindInsufficientStock
	KindInvalidTransactionData
	KindNotFound
	KindConstraintViolation
	KindStoreUnavailable
)

// Error carries a Kind alongside the message. It wraps the underlying
// store error when there is one.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func InsufficientStock(message string) *Error {
	return &Error{Kind: KindInsufficientStock, Message: message}
}

func InvalidTransactionData(message string) *Error {
	return &Error{Kind: KindInvalidTransactionData, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func ConstraintViolation(message string) *Error {
	return &Error{Kind: KindConstraintViolation, Message: message}
}

func StoreUnavailable(message string, err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: message, Err: err}
}

// KindOf returns the Kind of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf maps an error to the HTTP status a handler should respond with.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindInsufficientStock, KindInvalidTransactionData:
		return 400
	case KindNotFound:
		return 404
	case KindConstraintViolation:
		return 409
	case KindStoreUnavailable:
		return 503
	default:
		return 500
	}
}

// Retryable reports whether the operation may succeed if the caller retries.
func Retryable(err error) bool {
	return KindOf(err) == KindStoreUnavailable
}

// Postgres error codes the store surfaces during ledger operations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgLockNotAvailable    = "55P03"
	pgQueryCanceled       = "57014"
	pgDeadlockDetected    = "40P01"
)

// FromDB translates a raw store error into the taxonomy. notFoundMessage is
// used when the error is a missing-record error.
func FromDB(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err // already classified
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(notFoundMessage)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return &Error{Kind: KindConstraintViolation, Message: pgErr.Detail, Err: err}
		case pgLockNotAvailable, pgQueryCanceled, pgDeadlockDetected:
			return StoreUnavailable("store busy, retry the operation", err)
		}
	}

	return err
}
