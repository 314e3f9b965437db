package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mixing-service/internal/services"
)

type PurchaseHandler struct {
	purchases *services.PurchaseService
	ledger    *services.LedgerService
	publicKey string
	logger    *zap.Logger
}

func NewPurchaseHandler(purchases *services.PurchaseService, ledger *services.LedgerService, publicKey string, logger *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, ledger: ledger, publicKey: publicKey, logger: logger}
}

type purchaseRequest struct {
	StripeToken string `json:"stripe_token"`
	Credits     uint   `json:"credits"`
	Amount      int64  `json:"amount"`
}

// PurchaseOverview is the data a client needs to render the purchase form.
type PurchaseOverview struct {
	PriceCents      int64              `json:"price_cents"`
	Currency        string             `json:"currency"`
	StripePublicKey string             `json:"stripe_public_key"`
	TrackCredit     uint               `json:"track_credit"`
	Purchases       []PurchaseResponse `json:"purchases"`
}

// GetProfile returns the caller's account and credit balance
// @Summary Get own profile
// @Tags purchases
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} ProfileResponse
// @Router /api/profile [get]
func (h *PurchaseHandler) GetProfile(c *fiber.Ctx) error {
	user := currentUser(c)
	balance, err := h.ledger.Balance(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(ProfileResponse{
		User:        user.ID,
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		TrackCredit: balance,
		PurchaseURL: purchaseURL,
	})
}

// ListPurchases returns the price list and the caller's purchases
// @Summary Purchase overview
// @Tags purchases
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} PurchaseOverview
// @Router /api/purchases [get]
func (h *PurchaseHandler) ListPurchases(c *fiber.Ctx) error {
	user := currentUser(c)
	purchases, err := h.purchases.ListPurchases(c.UserContext(), &user.ID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	balance, err := h.ledger.Balance(c.UserContext(), user.ID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(PurchaseOverview{
		PriceCents:      h.purchases.PriceCents(),
		Currency:        h.purchases.Currency(),
		StripePublicKey: h.publicKey,
		TrackCredit:     balance,
		Purchases:       newPurchaseResponses(purchases),
	})
}

// CreatePurchase buys track credits
// @Summary Buy track credits
// @Description Charges the card token once. The amount in cents must equal credits times the credit price.
// @Tags purchases
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param purchase body purchaseRequest true "Purchase"
// @Success 201 {object} PurchaseResponse
// @Failure 400 {object} map[string]interface{} "Invalid request or payment failed"
// @Router /api/purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *fiber.Ctx) error {
	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	purchase, err := h.purchases.Purchase(c.UserContext(), currentUser(c), services.PurchaseRequest{
		Token:       req.StripeToken,
		Credits:     req.Credits,
		AmountCents: req.Amount,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newPurchaseResponse(purchase))
}
