package services

import "errors"

// Sentinel errors for the order lifecycle and stock pool. None of these are
// fatal: validation errors re-prompt the user, precondition errors are
// reported to the caller without mutating anything, and ErrStockExhausted
// leaves the order pending so the operator can restock and retry.
var (
	// Validation — malformed input, nothing mutated.
	ErrBadFormat      = errors.New("payment must be TXNID|SENDER|AMOUNT")
	ErrAmountNotInt   = errors.New("amount must be a whole number")
	ErrAmountMismatch = errors.New("submitted amount does not match order price")

	// Precondition — wrong state for the operation, nothing mutated.
	ErrNotAwaitingPayment = errors.New("order is not awaiting payment")
	ErrAlreadyDecided     = errors.New("order is no longer pending approval")

	// Not found.
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")

	// Resource exhausted — order stays pending for retry after restock.
	ErrStockExhausted = errors.New("no unused stock for product")
)
