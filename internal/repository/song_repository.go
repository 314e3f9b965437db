package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixing-service/internal/models"
)

// SongRepository provides methods to interact with songs and their groups.
type SongRepository struct {
	db *gorm.DB
}

// NewSongRepository creates a new SongRepository instance with the provided GORM database connection.
func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{db: db}
}

// CreateSong creates a new Song in the database.
func (r *SongRepository) CreateSong(song *models.Song) error {
	return r.db.Omit("Project", "Groups").Create(song).Error
}

// GetOwnedSong retrieves a Song whose project belongs to ownerID.
func (r *SongRepository) GetOwnedSong(id, ownerID uuid.UUID) (*models.Song, error) {
	var song models.Song
	err := r.db.
		Joins("JOIN projects ON projects.id = songs.project_id").
		Where("songs.id = ? AND projects.owner_id = ?", id, ownerID).
		First(&song).Error
	return &song, err
}

// ListOwnedSongs retrieves the songs of every project owned by ownerID,
// optionally restricted to one project.
func (r *SongRepository) ListOwnedSongs(ownerID uuid.UUID, projectID *uuid.UUID) ([]models.Song, error) {
	var songs []models.Song
	q := r.db.
		Joins("JOIN projects ON projects.id = songs.project_id").
		Where("projects.owner_id = ?", ownerID)
	if projectID != nil {
		q = q.Where("songs.project_id = ?", *projectID)
	}
	err := q.Order("songs.title").Find(&songs).Error
	return songs, err
}

// ListSongsByProject retrieves all songs of a project.
func (r *SongRepository) ListSongsByProject(projectID uuid.UUID) ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Where("project_id = ?", projectID).Order("title").Find(&songs).Error
	return songs, err
}

// UpdateSongTitle renames a song.
func (r *SongRepository) UpdateSongTitle(id uuid.UUID, title string) error {
	return r.db.Model(&models.Song{}).Where("id = ?", id).Update("title", title).Error
}

// DeleteSong deletes a Song with its groups and tracks and returns the
// number of tracks removed.
func (r *SongRepository) DeleteSong(id uuid.UUID) (int64, error) {
	groupIDs := r.db.Session(&gorm.Session{NewDB: true}).Model(&models.Group{}).Select("id").Where("song_id = ?", id)
	tracks := r.db.Where("group_id IN (?)", groupIDs).Delete(&models.Track{})
	if tracks.Error != nil {
		return 0, tracks.Error
	}
	if err := r.db.Where("song_id = ?", id).Delete(&models.Group{}).Error; err != nil {
		return 0, err
	}
	res := r.db.Delete(&models.Song{}, "id = ?", id)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return tracks.RowsAffected, nil
}

// CreateGroup creates a new Group in the database.
func (r *SongRepository) CreateGroup(group *models.Group) error {
	return r.db.Omit("Song", "Tracks").Create(group).Error
}

// GetOwnedGroup retrieves a Group whose project belongs to ownerID.
func (r *SongRepository) GetOwnedGroup(id, ownerID uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := r.db.
		Joins("JOIN songs ON songs.id = track_groups.song_id").
		Joins("JOIN projects ON projects.id = songs.project_id").
		Where("track_groups.id = ? AND projects.owner_id = ?", id, ownerID).
		First(&group).Error
	return &group, err
}

// ListOwnedGroups retrieves groups of projects owned by ownerID,
// optionally restricted to one song.
func (r *SongRepository) ListOwnedGroups(ownerID uuid.UUID, songID *uuid.UUID) ([]models.Group, error) {
	var groups []models.Group
	q := r.db.
		Joins("JOIN songs ON songs.id = track_groups.song_id").
		Joins("JOIN projects ON projects.id = songs.project_id").
		Where("projects.owner_id = ?", ownerID)
	if songID != nil {
		q = q.Where("track_groups.song_id = ?", *songID)
	}
	err := q.Order("track_groups.title").Find(&groups).Error
	return groups, err
}

// ListGroupsByProject retrieves all groups below a project.
func (r *SongRepository) ListGroupsByProject(projectID uuid.UUID) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.
		Joins("JOIN songs ON songs.id = track_groups.song_id").
		Where("songs.project_id = ?", projectID).
		Order("track_groups.title").
		Find(&groups).Error
	return groups, err
}

// UpdateGroupTitle renames a group.
func (r *SongRepository) UpdateGroupTitle(id uuid.UUID, title string) error {
	return r.db.Model(&models.Group{}).Where("id = ?", id).Update("title", title).Error
}

// DeleteGroup deletes a Group with its tracks and returns the number of tracks removed.
func (r *SongRepository) DeleteGroup(id uuid.UUID) (int64, error) {
	tracks := r.db.Where("group_id = ?", id).Delete(&models.Track{})
	if tracks.Error != nil {
		return 0, tracks.Error
	}
	res := r.db.Delete(&models.Group{}, "id = ?", id)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return tracks.RowsAffected, nil
}
