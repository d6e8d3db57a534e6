package service

import (
	"errors"
	"fmt"

	"erp-pdv-api/pkg/validator"

	"gorm.io/gorm"
)

// Error kinds. Every error returned by a service either wraps one of these or
// is an unexpected failure of the database or another collaborator.
var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidRequest    = errors.New("invalid_request")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrConflict          = errors.New("conflict")
)

// DomainError carries a human readable message and one of the error kinds.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }

func (e *DomainError) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return &DomainError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func validationError(errs []*validator.ErrorResponse) error {
	return newError(ErrInvalidRequest, "validation failed: %s", errs[0].String())
}

// notFoundOr converts gorm's record-not-found into ErrNotFound and passes any
// other error through.
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(ErrNotFound, format, args...)
	}
	return err
}

// duplicateOr converts unique index violations into ErrInvalidRequest.
func duplicateOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return newError(ErrInvalidRequest, format, args...)
	}
	return err
}
