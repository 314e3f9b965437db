package payments

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/charge"
	"go.uber.org/zap"
)

// StripeCharger charges cards through the Stripe Charges API.
type StripeCharger struct {
	client charge.Client
	logger *zap.Logger
}

// NewStripeCharger creates a charger authenticated with secretKey.
func NewStripeCharger(secretKey string, logger *zap.Logger) *StripeCharger {
	return &StripeCharger{
		client: charge.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		logger: logger,
	}
}

func (s *StripeCharger) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(req.AmountCents),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	if err := params.SetSource(req.Token); err != nil {
		return nil, ProviderFailure(err)
	}

	ch, err := s.client.New(params)
	if err != nil {
		return nil, s.translate(err)
	}

	details, err := json.Marshal(ch)
	if err != nil {
		details = []byte(ch.ID)
	}
	return &Charge{ID: ch.ID, Details: string(details)}, nil
}

func (s *StripeCharger) translate(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		return Declined(stripeErr.Msg, err)
	}
	s.logger.Error("stripe charge failed", zap.Error(err))
	return ProviderFailure(err)
}
