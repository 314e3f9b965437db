package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mixing-service/internal/metrics"
	"mixing-service/internal/models"
	"mixing-service/internal/payments"
	"mixing-service/internal/repository"
)

// PurchaseRequest is a client request to buy credits with a card token.
type PurchaseRequest struct {
	Token       string
	Credits     uint
	AmountCents int64
}

// PurchaseService charges cards for track credits and records the result.
type PurchaseService struct {
	db         *gorm.DB
	ledger     *LedgerService
	charger    payments.Charger
	priceCents int64
	currency   string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewPurchaseService(db *gorm.DB, ledger *LedgerService, charger payments.Charger, priceCents int64, currency string, logger *zap.Logger, m *metrics.Metrics) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		db:         db,
		ledger:     ledger,
		charger:    charger,
		priceCents: priceCents,
		currency:   currency,
		logger:     logger,
		metrics:    m,
	}
}

// PriceCents is the price of a single credit in the smallest currency unit.
func (s *PurchaseService) PriceCents() int64 { return s.priceCents }

func (s *PurchaseService) Currency() string { return s.currency }

// Purchase charges the card once and, on success, records the purchase and
// adds the credits. A failed charge changes nothing.
func (s *PurchaseService) Purchase(ctx context.Context, user *models.User, req PurchaseRequest) (*models.Purchase, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, invalid("Missing payment token")
	}
	if req.Credits < 1 {
		return nil, invalid("Number of credits must be at least 1")
	}
	if req.AmountCents != int64(req.Credits)*s.priceCents {
		return nil, invalid("Amount does not match the price of the requested credits")
	}

	charge, err := s.charger.Charge(ctx, payments.ChargeRequest{
		Token:       token,
		AmountCents: req.AmountCents,
		Currency:    s.currency,
		Description: fmt.Sprintf("%d track credits for %s", req.Credits, user.Username),
	})
	if err != nil {
		var payErr *payments.Error
		if errors.As(err, &payErr) {
			s.metrics.IncPaymentFailure(payErr.Kind())
			s.logger.Warn("payment failed",
				zap.String("user_id", user.ID.String()),
				zap.String("kind", payErr.Kind()),
				zap.Error(err))
			return nil, &ValidationError{Message: payErr.Message, Err: err}
		}
		s.metrics.IncPaymentFailure("provider")
		return nil, errors.Wrap(err, "charge card")
	}

	purchase := &models.Purchase{
		UserID:        user.ID,
		Credits:       req.Credits,
		AmountCents:   req.AmountCents,
		ChargeDetails: charge.Details,
	}
	if err := s.ledger.RecordPurchase(ctx, purchase); err != nil {
		s.logger.Error("charge captured but purchase not recorded",
			zap.String("user_id", user.ID.String()),
			zap.String("charge_id", charge.ID),
			zap.Uint("credits", req.Credits),
			zap.Error(err))
		return nil, err
	}
	s.logger.Info("credits purchased",
		zap.String("user_id", user.ID.String()),
		zap.Uint("credits", req.Credits),
		zap.String("charge_id", charge.ID))
	return purchase, nil
}

// GrantCredits records a zero-amount purchase, used for manual top-ups.
func (s *PurchaseService) GrantCredits(ctx context.Context, userID uuid.UUID, credits uint, note string) (*models.Purchase, error) {
	if _, err := repository.NewUserRepository(s.db.WithContext(ctx)).GetUser(userID); err != nil {
		return nil, notFound(err)
	}
	purchase := &models.Purchase{UserID: userID, Credits: credits, ChargeDetails: "granted: " + note}
	if err := s.ledger.RecordPurchase(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// ListPurchases returns purchases newest first, for one user or all when userID is nil.
func (s *PurchaseService) ListPurchases(ctx context.Context, userID *uuid.UUID) ([]models.Purchase, error) {
	return repository.NewPurchaseRepository(s.db.WithContext(ctx)).ListPurchases(userID)
}
