package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeNotFound            Code = "NOT_FOUND"
	CodeConstraintViolation Code = "CONSTRAINT_VIOLATION"
	CodeInvalidEntity       Code = "INVALID_ENTITY"
	CodeInvalidQuantity     Code = "INVALID_QUANTITY"
	CodeInsufficientFunds   Code = "INSUFFICIENT_FUNDS"
	CodeInvalidState        Code = "INVALID_STATE"
	CodeStoreUnavailable    Code = "STORE_UNAVAILABLE"
	CodeInternal            Code = "INTERNAL_ERROR"
)

type Metadata struct {
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeNotFound: {
		Retryable:      false,
		PublicMessage:  "record not found",
		DetailsAllowed: false,
	},
	CodeConstraintViolation: {
		Retryable:      false,
		PublicMessage:  "constraint violated",
		DetailsAllowed: true,
	},
	CodeInvalidEntity: {
		Retryable:      false,
		PublicMessage:  "entity validation failed",
		DetailsAllowed: true,
	},
	CodeInvalidQuantity: {
		Retryable:      false,
		PublicMessage:  "invalid order quantity",
		DetailsAllowed: true,
	},
	CodeInsufficientFunds: {
		Retryable:      false,
		PublicMessage:  "insufficient credit",
		DetailsAllowed: true,
	},
	CodeInvalidState: {
		Retryable:      false,
		PublicMessage:  "state transition disallowed",
		DetailsAllowed: true,
	},
	CodeStoreUnavailable: {
		Retryable:      true,
		PublicMessage:  "store unavailable",
		DetailsAllowed: true,
	},
	CodeInternal: {
		Retryable:      true,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
