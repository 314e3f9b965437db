package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Song is a subdivision of a Project.
type Song struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `json:"project" gorm:"type:uuid;not null;index"`
	Title     string    `json:"title" gorm:"size:100;not null"`

	Project *Project `json:"-" gorm:"foreignKey:ProjectID"`
	Groups  []Group  `json:"-" gorm:"foreignKey:SongID"`
}

func (s *Song) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Group is a subdivision of a Song holding its tracks.
type Group struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	SongID uuid.UUID `json:"song" gorm:"type:uuid;not null;index"`
	Title  string    `json:"title" gorm:"size:100;not null"`

	Song   *Song   `json:"-" gorm:"foreignKey:SongID"`
	Tracks []Track `json:"-" gorm:"foreignKey:GroupID"`
}

// TableName avoids the GROUPS keyword.
func (Group) TableName() string {
	return "track_groups"
}

func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
