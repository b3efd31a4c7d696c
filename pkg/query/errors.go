package query

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedComparisonKind = errors.New("unsupported comparison kind")
	ErrMalformedCondition        = errors.New("malformed condition")
	ErrInvalidRule               = errors.New("invalid filter rule")
)

// UnsupportedComparisonError is returned when a condition uses a primitive
// other than $eq or $iLike.
type UnsupportedComparisonError struct {
	Column string
	Kind   string
}

func (e *UnsupportedComparisonError) Error() string {
	return fmt.Sprintf("expected %q or %q for column %q, got %q", KindEq, KindILike, e.Column, e.Kind)
}

func (e *UnsupportedComparisonError) Unwrap() error {
	return ErrUnsupportedComparisonKind
}
