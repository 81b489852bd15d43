// Package fault holds the error codes shared by the service layer.
// Controllers switch on Of(err) to pick a status code; anything without a
// code is treated as an infrastructure failure.
package fault

import "errors"

type Code string

const (
	CodeInsufficientInventory Code = "INSUFFICIENT_INVENTORY"
	CodeInvalidQuantity       Code = "INVALID_QUANTITY"
	CodeInvalidState          Code = "INVALID_STATE"
	CodeUnauthorized          Code = "UNAUTHORIZED"
	CodeNotFound              Code = "NOT_FOUND"
	CodeEmptyCart             Code = "EMPTY_CART"
)

type codedError struct{ code Code }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() Code    { return e.code }

func New(c Code) error { return codedError{code: c} }

// Of extracts the code, or "" for uncoded errors.
func Of(err error) Code {
	var ce interface{ Code() Code }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
