package errors

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

var ErrUnknownCategory = NewValidationError("Category does not match any configured category")

// MissingRateError guards currency-dependent aggregation: conversion never
// runs against an absent rate entry.
type MissingRateError struct {
	Currency string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no exchange rate for currency %s", e.Currency)
}

func NewMissingRateError(currency string) error {
	return &MissingRateError{Currency: currency}
}

func IsMissingRateError(err error) bool {
	var missingRateError *MissingRateError
	ok := errors.As(err, &missingRateError)
	return ok
}
