package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an API identity. Staff users manage every project.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	FirstName string    `json:"first_name" gorm:"size:150"`
	LastName  string    `json:"last_name" gorm:"size:150"`
	Email     string    `json:"email" gorm:"size:254"`
	IsStaff   bool      `json:"is_staff" gorm:"not null"`
	TokenHash string    `json:"-" gorm:"size:64;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName returns "First Last (username)" when both names are known,
// otherwise the username.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return fmt.Sprintf("%s %s (%s)", u.FirstName, u.LastName, u.Username)
	}
	return u.Username
}

// UserProfile holds the track credit balance of a user.
type UserProfile struct {
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	TrackCredit uint      `json:"track_credit" gorm:"not null;check:chk_user_profiles_track_credit,track_credit >= 0"`
}

// Purchase records a credit purchase. Rows are never updated.
type Purchase struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Credits       uint      `json:"credits" gorm:"not null;check:chk_purchases_credits,credits >= 1"`
	AmountCents   int64     `json:"amount_cents" gorm:"not null"`
	ChargeDetails string    `json:"-" gorm:"type:text"`
	CreatedAt     time.Time `json:"created" gorm:"autoCreateTime;index"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Purchase) BeforeUpdate(tx *gorm.DB) error {
	return fmt.Errorf("purchase %s is immutable", p.ID)
}
