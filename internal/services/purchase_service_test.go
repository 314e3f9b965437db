package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixing-service/internal/payments"
	"mixing-service/internal/testsupport"
)

func TestPurchaseAddsCredits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, f.db, "alice", false)
	testsupport.SetCredit(t, f.db, user.ID, 1)

	purchase, err := f.purchases.Purchase(ctx, user, PurchaseRequest{Token: "tok_visa", Credits: 3, AmountCents: 3 * testPriceCents})
	require.NoError(t, err)
	assert.Equal(t, uint(3), purchase.Credits)
	assert.Equal(t, `{"id":"ch_test"}`, purchase.ChargeDetails)
	assert.Equal(t, uint(4), testsupport.Credit(t, f.db, user.ID))

	require.Equal(t, 1, f.charger.callCount())
	assert.Equal(t, int64(3000), f.charger.calls[0].AmountCents)
	assert.Equal(t, "usd", f.charger.calls[0].Currency)

	mine, err := f.purchases.ListPurchases(ctx, &user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestPurchaseValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, f.db, "alice", false)

	tests := []struct {
		name string
		req  PurchaseRequest
	}{
		{"missing token", PurchaseRequest{Credits: 1, AmountCents: testPriceCents}},
		{"zero credits", PurchaseRequest{Token: "tok", Credits: 0, AmountCents: 0}},
		{"amount mismatch", PurchaseRequest{Token: "tok", Credits: 2, AmountCents: testPriceCents}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.purchases.Purchase(ctx, user, tt.req)
			var invalidErr *ValidationError
			assert.True(t, errors.As(err, &invalidErr))
		})
	}
	assert.Zero(t, f.charger.callCount())
	assert.Zero(t, testsupport.Credit(t, f.db, user.ID))
}

func TestPurchaseDeclined(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, f.db, "alice", false)
	f.charger.err = payments.Declined("Your card has insufficient funds.", nil)

	_, err := f.purchases.Purchase(ctx, user, PurchaseRequest{Token: "tok", Credits: 1, AmountCents: testPriceCents})
	var invalidErr *ValidationError
	require.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, "Your card has insufficient funds.", invalidErr.Message)

	f.charger.err = payments.ProviderFailure(errors.New("timeout"))
	_, err = f.purchases.Purchase(ctx, user, PurchaseRequest{Token: "tok", Credits: 1, AmountCents: testPriceCents})
	require.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, "An error occurred during payment", invalidErr.Message)

	assert.Equal(t, 2, f.charger.callCount())
	assert.Zero(t, testsupport.Credit(t, f.db, user.ID))
	all, err := f.purchases.ListPurchases(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGrantCredits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testsupport.CreateUser(t, f.db, "alice", false)

	purchase, err := f.purchases.GrantCredits(ctx, user.ID, 5, "launch bonus")
	require.NoError(t, err)
	assert.Zero(t, purchase.AmountCents)
	assert.Equal(t, uint(5), testsupport.Credit(t, f.db, user.ID))
	assert.Zero(t, f.charger.callCount())

	_, err = f.purchases.GrantCredits(ctx, uuid.New(), 5, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
