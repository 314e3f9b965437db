package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Track is an audio file uploaded by the project owner to be mixed.
// Creating or deleting a track moves one credit on the owner's balance.
type Track struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `json:"group" gorm:"type:uuid;not null;index"`
	FileKey   string    `json:"-" gorm:"size:255;not null;uniqueIndex"`
	FileName  string    `json:"-" gorm:"size:255;not null"`
	FileSize  int64     `json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Group *Group `json:"-" gorm:"foreignKey:GroupID"`
}

func (t *Track) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// File returns the metadata representation of the uploaded file.
func (t *Track) File() *FileMeta {
	return NewFileMeta(t.FileKey, t.FileName, t.FileSize)
}
