package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a note left on a project by its owner or a staff member.
type Comment struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID      uuid.UUID `json:"project" gorm:"type:uuid;not null;index"`
	AuthorID       uuid.UUID `json:"-" gorm:"type:uuid;not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	AttachmentKey  string    `json:"-" gorm:"size:255"`
	AttachmentName string    `json:"-" gorm:"size:255"`
	AttachmentSize int64     `json:"-"`
	CreatedAt      time.Time `json:"created" gorm:"autoCreateTime;index"`

	Author *User `json:"-" gorm:"foreignKey:AuthorID"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Attachment returns the attachment metadata, or nil when there is none.
func (c *Comment) Attachment() *FileMeta {
	return NewFileMeta(c.AttachmentKey, c.AttachmentName, c.AttachmentSize)
}

// FinalFile is a mixed result uploaded by staff for the project owner.
type FinalFile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `json:"project" gorm:"type:uuid;not null;index"`
	Title     string    `json:"title" gorm:"size:100"`
	FileKey   string    `json:"-" gorm:"size:255;not null;uniqueIndex"`
	FileName  string    `json:"-" gorm:"size:255;not null"`
	FileSize  int64     `json:"-"`
	CreatedAt time.Time `json:"created" gorm:"autoCreateTime"`
}

func (f *FinalFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// DisplayName is the title, or the file name when no title was given.
func (f *FinalFile) DisplayName() string {
	if f.Title != "" {
		return f.Title
	}
	return f.FileName
}

// File returns the metadata of the delivered file.
func (f *FinalFile) File() *FileMeta {
	return NewFileMeta(f.FileKey, f.FileName, f.FileSize)
}
