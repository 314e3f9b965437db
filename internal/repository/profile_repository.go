package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mixing-service/internal/models"
)

// ProfileRepository holds the track credit balances. Every balance change is
// a relative UPDATE so concurrent requests never lose an adjustment.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository instance with the provided GORM database connection.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// EnsureProfile creates a zero balance for userID unless one exists.
func (r *ProfileRepository) EnsureProfile(userID uuid.UUID) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserProfile{UserID: userID}).Error
}

// GetProfile returns the profile of userID, creating it when missing.
func (r *ProfileRepository) GetProfile(userID uuid.UUID) (*models.UserProfile, error) {
	if err := r.EnsureProfile(userID); err != nil {
		return nil, err
	}
	var profile models.UserProfile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	return &profile, err
}

// AddCredit increments the balance by delta.
func (r *ProfileRepository) AddCredit(userID uuid.UUID, delta uint) error {
	if delta == 0 {
		return nil
	}
	res := r.db.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("track_credit", gorm.Expr("track_credit + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConsumeCredit decrements the balance by one, guarded by track_credit > 0.
// It returns ErrNoCredit when the guard rejects the update.
func (r *ProfileRepository) ConsumeCredit(userID uuid.UUID) error {
	res := r.db.Model(&models.UserProfile{}).
		Where("user_id = ? AND track_credit > 0", userID).
		UpdateColumn("track_credit", gorm.Expr("track_credit - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoCredit
	}
	return nil
}
