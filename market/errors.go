package market

import "fmt"

// ErrorKind buckets failures so callers can tell a retry-later condition
// (state) apart from an impossible request (validation, authorization) or a
// failed value movement (transfer).
type ErrorKind uint8

const (
	KindValidation ErrorKind = iota + 1
	KindAuthorization
	KindState
	KindTransfer
)

// String prints the kind as lower-case text for events and API responses.
// Example payload: KindState.String()
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// Error is the single error type every entrypoint returns. Code is a short
// stable identifier; the message is for humans only.
type Error struct {
	Kind ErrorKind
	Code string
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Is matches on kind+code so errors.Is works against the sentinels below
// even when the message carries call-specific detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func newErr(kind ErrorKind, code, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, msg: fmt.Sprintf(format, args...)}
}

func validationErr(code, format string, args ...interface{}) *Error {
	return newErr(KindValidation, code, format, args...)
}

func authErr(code, format string, args ...interface{}) *Error {
	return newErr(KindAuthorization, code, format, args...)
}

func stateErr(code, format string, args ...interface{}) *Error {
	return newErr(KindState, code, format, args...)
}

func transferErr(code, format string, args ...interface{}) *Error {
	return newErr(KindTransfer, code, format, args...)
}

// Sentinels for errors.Is checks. Entrypoints return richer messages built
// with the same kind+code.
var (
	ErrBadPrice      = &Error{Kind: KindValidation, Code: "bad_price", msg: "price must be positive"}
	ErrBadAmount     = &Error{Kind: KindValidation, Code: "bad_amount", msg: "invalid amount"}
	ErrBadAddress    = &Error{Kind: KindValidation, Code: "bad_address", msg: "invalid address"}
	ErrPriceOverflow = &Error{Kind: KindValidation, Code: "price_overflow", msg: "curve price overflows the numeric domain"}

	ErrNotOwner  = &Error{Kind: KindAuthorization, Code: "not_owner", msg: "caller does not own the asset"}
	ErrNotSeller = &Error{Kind: KindAuthorization, Code: "not_seller", msg: "caller is not the listing seller"}
	ErrNotAdmin  = &Error{Kind: KindAuthorization, Code: "not_admin", msg: "caller is not the admin"}

	ErrAlreadyListed       = &Error{Kind: KindState, Code: "already_listed", msg: "asset already has an active listing"}
	ErrNotListed           = &Error{Kind: KindState, Code: "not_listed", msg: "asset has no active listing"}
	ErrMaxSupplyReached    = &Error{Kind: KindState, Code: "max_supply", msg: "maximum supply reached"}
	ErrInsufficientPool    = &Error{Kind: KindState, Code: "pool_insufficient", msg: "minting pool balance below the current price"}
	ErrInsufficientPayment = &Error{Kind: KindState, Code: "payment_insufficient", msg: "payment below the listing price"}
	ErrReentrantCall       = &Error{Kind: KindState, Code: "reentrant_call", msg: "entrypoint re-entered during an outbound transfer"}

	ErrTransferFailed = &Error{Kind: KindTransfer, Code: "transfer_failed", msg: "outbound value transfer failed"}
)
