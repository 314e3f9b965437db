package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixing-service/internal/models"
)

// PurchaseRepository provides methods to interact with the Purchase model in the database.
type PurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new PurchaseRepository instance with the provided GORM database connection.
func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// CreatePurchase inserts a Purchase.
func (r *PurchaseRepository) CreatePurchase(purchase *models.Purchase) error {
	return r.db.Create(purchase).Error
}

// ListPurchases retrieves purchases newest first, optionally for one user.
func (r *PurchaseRepository) ListPurchases(userID *uuid.UUID) ([]models.Purchase, error) {
	var purchases []models.Purchase
	q := r.db.Order("created_at DESC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	err := q.Find(&purchases).Error
	return purchases, err
}
