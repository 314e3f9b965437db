package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixing-service/internal/models"
)

// ProjectRepository provides methods to interact with the Project model in the database.
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository instance with the provided GORM database connection.
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// QueueFilter narrows the staff work queue.
type QueueFilter struct {
	Status models.ProjectStatus // zero means any status
	Search string               // matches title or owner username
}

// CreateProject creates a new Project in the database.
func (r *ProjectRepository) CreateProject(project *models.Project) error {
	return r.db.Omit("Owner", "Songs").Create(project).Error
}

// GetProject retrieves a Project by its ID from the database.
func (r *ProjectRepository) GetProject(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Owner").First(&project, "id = ?", id).Error
	return &project, err
}

// GetOwnedProject retrieves a Project only if it belongs to ownerID.
func (r *ProjectRepository) GetOwnedProject(id, ownerID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Owner").First(&project, "id = ? AND owner_id = ?", id, ownerID).Error
	return &project, err
}

// GetProjectForSong walks Song -> Project.
func (r *ProjectRepository) GetProjectForSong(songID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Joins("JOIN songs ON songs.project_id = projects.id").
		Where("songs.id = ?", songID).
		First(&project).Error
	return &project, err
}

// GetProjectForGroup walks Group -> Song -> Project.
func (r *ProjectRepository) GetProjectForGroup(groupID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Joins("JOIN songs ON songs.project_id = projects.id").
		Joins("JOIN track_groups ON track_groups.song_id = songs.id").
		Where("track_groups.id = ?", groupID).
		First(&project).Error
	return &project, err
}

// ListProjectsByOwner retrieves the projects of one user, newest first.
func (r *ProjectRepository) ListProjectsByOwner(ownerID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// ListQueue retrieves projects for staff ordered by priority, then newest first.
func (r *ProjectRepository) ListQueue(filter QueueFilter) ([]models.Project, error) {
	var projects []models.Project
	q := r.db.Model(&models.Project{}).Preload("Owner")
	if filter.Status != 0 {
		q = q.Where("projects.status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN users ON users.id = projects.owner_id").
			Where("LOWER(projects.title) LIKE ? OR LOWER(users.username) LIKE ?", like, like)
	}
	err := q.Order("projects.priority ASC").Order("projects.created_at DESC").Find(&projects).Error
	return projects, err
}

// SetStatus stores status and the derived active/priority fields in one UPDATE.
// The in-progress priority bump reads the current column value, so no prior
// read of the row is needed.
func (r *ProjectRepository) SetStatus(id uuid.UUID, status models.ProjectStatus) (bool, error) {
	res := r.db.Model(&models.Project{}).Where("id = ?", id).Updates(statusColumns(status))
	return res.RowsAffected == 1, res.Error
}

// TransitionStatus moves the project from one status to another only if it
// is still in the from status. It reports whether the row changed.
func (r *ProjectRepository) TransitionStatus(id uuid.UUID, from, to models.ProjectStatus) (bool, error) {
	res := r.db.Model(&models.Project{}).
		Where("id = ? AND status = ?", id, from).
		Updates(statusColumns(to))
	return res.RowsAffected == 1, res.Error
}

// SetPriority stores priority and re-applies the status derivation in one UPDATE.
func (r *ProjectRepository) SetPriority(id uuid.UUID, priority int) (bool, error) {
	_, inProgressPriority := models.DeriveState(models.StatusInProgress, priority)
	inProgress := []models.ProjectStatus{models.StatusInProgress, models.StatusRevisionInProgress}
	expr := gorm.Expr(
		"CASE WHEN status IN ? THEN CAST(? AS INTEGER) ELSE CAST(? AS INTEGER) END",
		inProgress, inProgressPriority, models.DefaultPriority,
	)
	res := r.db.Model(&models.Project{}).Where("id = ?", id).Update("priority", expr)
	return res.RowsAffected == 1, res.Error
}

func statusColumns(status models.ProjectStatus) map[string]interface{} {
	switch {
	case status.Waiting():
		return map[string]interface{}{
			"status":   status,
			"active":   true,
			"priority": models.DefaultPriority,
		}
	case status.InProgress():
		return map[string]interface{}{
			"status": status,
			"active": false,
			"priority": gorm.Expr("CASE WHEN priority = ? THEN CAST(? AS INTEGER) ELSE priority END",
				models.DefaultPriority, models.QueuedPriority),
		}
	default:
		return map[string]interface{}{
			"status":   status,
			"active":   false,
			"priority": models.DefaultPriority,
		}
	}
}

// DeleteProject deletes a Project and all rows below it. It returns the
// number of tracks removed so the caller can refund them.
func (r *ProjectRepository) DeleteProject(id uuid.UUID) (int64, error) {
	tracks := r.db.Where("group_id IN (?)", groupIDsOfProject(r.db, id)).Delete(&models.Track{})
	if tracks.Error != nil {
		return 0, tracks.Error
	}
	if err := r.db.Where("song_id IN (?)", songIDsOfProject(r.db, id)).Delete(&models.Group{}).Error; err != nil {
		return 0, err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.Song{}).Error; err != nil {
		return 0, err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return 0, err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.FinalFile{}).Error; err != nil {
		return 0, err
	}
	res := r.db.Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return tracks.RowsAffected, nil
}

func songIDsOfProject(db *gorm.DB, projectID uuid.UUID) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).Model(&models.Song{}).Select("id").Where("project_id = ?", projectID)
}

func groupIDsOfProject(db *gorm.DB, projectID uuid.UUID) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).Model(&models.Group{}).Select("id").Where("song_id IN (?)", songIDsOfProject(db, projectID))
}
