package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectStatus is the lifecycle state of a mixing project.
type ProjectStatus uint

const (
	StatusFilesPending ProjectStatus = iota + 1
	StatusInProgress
	StatusComplete
	StatusRevisionFilesPending
	StatusRevisionInProgress
	StatusRevisionComplete
)

const (
	// DefaultPriority marks a project that is not in the staff queue.
	DefaultPriority = 10
	// QueuedPriority is assigned when work starts on a project left at DefaultPriority.
	QueuedPriority = 9
	MinPriority    = 0
	MaxPriority    = 10
)

var statusLabels = map[ProjectStatus]string{
	StatusFilesPending:         "Waiting for files",
	StatusInProgress:           "In progress",
	StatusComplete:             "Mixing complete",
	StatusRevisionFilesPending: "Waiting for revision files",
	StatusRevisionInProgress:   "Revision in progress",
	StatusRevisionComplete:     "Revision complete",
}

// Valid reports whether s is one of the six known statuses.
func (s ProjectStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s ProjectStatus) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// Waiting reports whether the project accepts uploads in this status.
func (s ProjectStatus) Waiting() bool {
	return s == StatusFilesPending || s == StatusRevisionFilesPending
}

// InProgress reports whether staff is currently working on the project.
func (s ProjectStatus) InProgress() bool {
	return s == StatusInProgress || s == StatusRevisionInProgress
}

// Done reports whether mixing (or the revision) is complete.
func (s ProjectStatus) Done() bool {
	return s == StatusComplete || s == StatusRevisionComplete
}

// SubmitTarget returns the status a submit moves to, and false when
// submitting from s is a no-op.
func (s ProjectStatus) SubmitTarget() (ProjectStatus, bool) {
	switch s {
	case StatusFilesPending:
		return StatusInProgress, true
	case StatusRevisionFilesPending:
		return StatusRevisionInProgress, true
	}
	return s, false
}

// DeriveState returns the active flag and priority a project must carry in
// the given status, starting from its current priority.
func DeriveState(status ProjectStatus, currentPriority int) (active bool, priority int) {
	switch {
	case status.Waiting():
		return true, DefaultPriority
	case status.InProgress():
		if currentPriority == DefaultPriority {
			return false, QueuedPriority
		}
		return false, currentPriority
	default:
		return false, DefaultPriority
	}
}

// Project is a mixing job owned by a user and the container for its songs.
type Project struct {
	ID        uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string        `json:"title" gorm:"size:100;not null"`
	OwnerID   uuid.UUID     `json:"owner_id" gorm:"type:uuid;not null;index"`
	Status    ProjectStatus `json:"status" gorm:"not null;index"`
	Active    bool          `json:"active" gorm:"not null"`
	Priority  int           `json:"priority" gorm:"not null;check:chk_projects_priority,priority >= 0 AND priority <= 10"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Owner *User  `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Songs []Song `json:"songs,omitempty" gorm:"foreignKey:ProjectID"`
}

// NewProject returns a project in the initial FILES_PENDING state.
func NewProject(title string, ownerID uuid.UUID) *Project {
	p := &Project{Title: title, OwnerID: ownerID, Priority: DefaultPriority}
	p.ApplyStatus(StatusFilesPending)
	return p
}

// ApplyStatus sets status and the derived active/priority fields in memory.
func (p *Project) ApplyStatus(status ProjectStatus) {
	p.Status = status
	p.Active, p.Priority = DeriveState(status, p.Priority)
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
