package payments

import (
	"context"
	"fmt"
)

const (
	defaultDeclinedMessage = "Your card was declined"
	providerFailureMessage = "An error occurred during payment"
)

// ChargeRequest asks the provider to take AmountCents from the card behind Token.
type ChargeRequest struct {
	Token       string
	AmountCents int64
	Currency    string
	Description string
}

// Charge is a confirmed payment.
type Charge struct {
	ID      string
	Details string
}

// Charger creates a single charge. Implementations never retry.
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

// Error is a failed charge. Message is safe to show to the payer.
type Error struct {
	Declined bool
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment failed: %s: %v", e.Message, e.Err)
	}
	return "payment failed: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Kind labels the failure for metrics.
func (e *Error) Kind() string {
	if e.Declined {
		return "declined"
	}
	return "provider"
}

// Declined builds a card-declined error, falling back to a generic message.
func Declined(message string, err error) *Error {
	if message == "" {
		message = defaultDeclinedMessage
	}
	return &Error{Declined: true, Message: message, Err: err}
}

// ProviderFailure builds an error for anything other than a declined card.
func ProviderFailure(err error) *Error {
	return &Error{Message: providerFailureMessage, Err: err}
}
