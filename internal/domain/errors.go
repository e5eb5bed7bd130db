package domain

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine failures.
type ErrorCode string

const (
	// ErrCodeNotFound: lookup or removal target missing. Recoverable.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeOrderNotReady: issuance attempted before the order was placed.
	ErrCodeOrderNotReady ErrorCode = "ORDER_NOT_READY"

	// ErrCodeInvalidState: internal consistency violation. Unreachable through
	// the engine; treat as a programming error.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"

	// ErrCodeQueueFull: the counter already serves the maximum number of customers.
	ErrCodeQueueFull ErrorCode = "QUEUE_FULL"

	// ErrCodeOrderClaimed: another waiting customer is already bound to the order.
	ErrCodeOrderClaimed ErrorCode = "ORDER_CLAIMED"
)

// Error is the structured failure returned by every component.
// No operation leaves partial state behind when it returns an Error.
type Error struct {
	Code    ErrorCode
	Message string

	// Subject is the order ID, customer ID, or scan code involved.
	Subject string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Subject)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFound creates an Error for a missing order, customer, or code.
func NewNotFound(what, subject string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: what + " not found", Subject: subject}
}

// NewOrderNotReady creates an Error for an order that cannot be issued yet.
func NewOrderNotReady(orderID string, status OrderStatus) *Error {
	return &Error{
		Code:    ErrCodeOrderNotReady,
		Message: fmt.Sprintf("order is %s, not ready", status),
		Subject: orderID,
	}
}

// NewInvalidState creates an Error for a forbidden transition.
func NewInvalidState(orderID, message string) *Error {
	return &Error{Code: ErrCodeInvalidState, Message: message, Subject: orderID}
}

// NewQueueFull creates an Error for a customer that cannot join the queue.
func NewQueueFull(limit int) *Error {
	return &Error{Code: ErrCodeQueueFull, Message: fmt.Sprintf("queue is at capacity (%d)", limit)}
}

// NewOrderClaimed creates an Error for an order that already has a waiting customer.
func NewOrderClaimed(orderID, customerID string) *Error {
	return &Error{
		Code:    ErrCodeOrderClaimed,
		Message: "order already claimed by " + customerID,
		Subject: orderID,
	}
}

// CodeOf returns the ErrorCode of err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsOrderNotReady reports whether err is an ORDER_NOT_READY error.
func IsOrderNotReady(err error) bool {
	return CodeOf(err) == ErrCodeOrderNotReady
}

// IsInvalidState reports whether err is an INVALID_STATE error.
func IsInvalidState(err error) bool {
	return CodeOf(err) == ErrCodeInvalidState
}

// IsQueueFull reports whether err is a QUEUE_FULL error.
func IsQueueFull(err error) bool {
	return CodeOf(err) == ErrCodeQueueFull
}

// IsOrderClaimed reports whether err is an ORDER_CLAIMED error.
func IsOrderClaimed(err error) bool {
	return CodeOf(err) == ErrCodeOrderClaimed
}
