package payments

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDeclinedDefaultsMessage(t *testing.T) {
	err := Declined("", nil)
	assert.True(t, err.Declined)
	assert.Equal(t, "Your card was declined", err.Message)
	assert.Equal(t, "declined", err.Kind())

	err = Declined("Insufficient funds", nil)
	assert.Equal(t, "Insufficient funds", err.Message)
}

func TestProviderFailureWrapsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := ProviderFailure(cause)
	assert.False(t, err.Declined)
	assert.Equal(t, "An error occurred during payment", err.Message)
	assert.Equal(t, "provider", err.Kind())
	assert.True(t, errors.Is(err, cause))
}

func TestStripeTranslate(t *testing.T) {
	s := NewStripeCharger("sk_test", zap.NewNop())

	cardErr := &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card has expired."}
	var payErr *Error
	require.True(t, errors.As(s.translate(cardErr), &payErr))
	assert.True(t, payErr.Declined)
	assert.Equal(t, "Your card has expired.", payErr.Message)

	apiErr := &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "internal"}
	require.True(t, errors.As(s.translate(apiErr), &payErr))
	assert.False(t, payErr.Declined)
	assert.Equal(t, "An error occurred during payment", payErr.Message)
}
