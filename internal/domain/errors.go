package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found or is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the request carries no resolved shopper identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput indicates a malformed quantity or identifier.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOutOfStock indicates the requested quantity exceeds the stock record's availability.
	ErrOutOfStock = errors.New("out of stock")
	// ErrEmptyCart indicates checkout was attempted on a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCartMismatch indicates the cart does not belong to the requesting shopper.
	ErrCartMismatch = errors.New("cart does not belong to shopper")
	// ErrAlreadyProcessed indicates a completion event whose transaction reference
	// was materialized before. Callers treat it as success.
	ErrAlreadyProcessed = errors.New("transaction already processed")
)
