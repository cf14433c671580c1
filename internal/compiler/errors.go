package compiler

import (
	"errors"
	"fmt"

	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/numenc"
	"github.com/roach88/condex/internal/rawquery"
)

// ErrorCode categorizes compile errors.
type ErrorCode string

const (
	// ErrCodeUnknownField indicates the condition names a field absent from
	// the registry.
	ErrCodeUnknownField ErrorCode = "UNKNOWN_FIELD"

	// ErrCodeUnsupportedOperator indicates the (data type, operator) pair
	// has no translation.
	ErrCodeUnsupportedOperator ErrorCode = "UNSUPPORTED_OPERATOR"

	// ErrCodeEncodingDomain indicates a numeric or date value outside the
	// encodable domain.
	ErrCodeEncodingDomain ErrorCode = "ENCODING_DOMAIN"

	// ErrCodeMalformedRawQuery indicates raw passthrough text that the
	// native grammar rejects.
	ErrCodeMalformedRawQuery ErrorCode = "MALFORMED_RAW_QUERY"

	// ErrCodeInvalidValue indicates a value of the wrong shape for its
	// operator, e.g. a text range without exactly two terms.
	ErrCodeInvalidValue ErrorCode = "INVALID_VALUE"

	// ErrCodeStructural indicates the tree itself is unusable.
	ErrCodeStructural ErrorCode = "STRUCTURAL"
)

// ErrUnsupported is returned by a Dialect for comparisons it cannot encode.
var ErrUnsupported = errors.New("not supported by dialect")

// CompileError is a failure attributed to one leaf, or to the tree for
// ErrCodeStructural.
type CompileError struct {
	Code ErrorCode

	// Field, Operator and Value identify the offending leaf.
	Field    string
	Operator condition.Operator
	Value    string

	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Field != "" || e.Operator != "" {
		return fmt.Sprintf("%s: %s (field=%s, operator=%s, value=%q)", e.Code, e.Message, e.Field, e.Operator, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsUnknownField reports whether err is an UNKNOWN_FIELD error.
func IsUnknownField(err error) bool { return hasCode(err, ErrCodeUnknownField) }

// IsUnsupportedOperator reports whether err is an UNSUPPORTED_OPERATOR error.
func IsUnsupportedOperator(err error) bool { return hasCode(err, ErrCodeUnsupportedOperator) }

// IsEncodingDomain reports whether err is an ENCODING_DOMAIN error.
func IsEncodingDomain(err error) bool { return hasCode(err, ErrCodeEncodingDomain) }

// IsMalformedRawQuery reports whether err is a MALFORMED_RAW_QUERY error.
func IsMalformedRawQuery(err error) bool { return hasCode(err, ErrCodeMalformedRawQuery) }

// IsInvalidValue reports whether err is an INVALID_VALUE error.
func IsInvalidValue(err error) bool { return hasCode(err, ErrCodeInvalidValue) }

// IsStructural reports whether err is a STRUCTURAL error.
func IsStructural(err error) bool { return hasCode(err, ErrCodeStructural) }

func invalidValue(format string, args ...any) *CompileError {
	return &CompileError{Code: ErrCodeInvalidValue, Message: fmt.Sprintf(format, args...)}
}

func unsupported(dt field.DataType, op condition.Operator) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedOperator,
		Message: fmt.Sprintf("operator %s is not defined for %s fields", op, dt),
	}
}

// leafError attributes err to leaf, classifying causes that do not carry a
// code of their own.
func leafError(leaf condition.Condition, err error) *CompileError {
	out := &CompileError{}
	var ce *CompileError
	if errors.As(err, &ce) {
		*out = *ce
	} else {
		out.Code = classify(err)
		out.Message = err.Error()
		out.Err = err
	}
	out.Field = leaf.Field
	out.Operator = leaf.Operator
	out.Value = leaf.Value
	return out
}

func classify(err error) ErrorCode {
	var (
		nf *field.NotFoundError
		de *numenc.DomainError
		se *rawquery.SyntaxError
	)
	switch {
	case errors.As(err, &nf):
		return ErrCodeUnknownField
	case errors.As(err, &de):
		return ErrCodeEncodingDomain
	case errors.As(err, &se):
		return ErrCodeMalformedRawQuery
	case errors.Is(err, ErrUnsupported):
		return ErrCodeUnsupportedOperator
	default:
		return ErrCodeInvalidValue
	}
}

func structural(err error) *CompileError {
	return &CompileError{Code: ErrCodeStructural, Message: err.Error(), Err: err}
}
