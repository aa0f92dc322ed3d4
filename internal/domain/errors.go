package domain

import "errors"

var (
	// ErrDeserialization marks an inbound payload that can never be decoded; it is dropped, not retried.
	ErrDeserialization = errors.New("malformed work item")
	// ErrInvalidItem marks a decoded item that violates order invariants.
	ErrInvalidItem = errors.New("invalid work item")
	// ErrConflict is returned when the task id is already taken by another order.
	ErrConflict = errors.New("task id already exists")
	ErrStorage  = errors.New("storage failure")
	// ErrUpstreamRate means the exchange rate could not be obtained.
	ErrUpstreamRate = errors.New("exchange rate unavailable")
	ErrNotFound     = errors.New("not found")
	// ErrAlreadyPriced is returned when another worker stored the delivery cost first.
	ErrAlreadyPriced = errors.New("order already priced")
)
