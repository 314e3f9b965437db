package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixing-service/internal/models"
)

// TrackRepository provides methods to interact with the Track model in the database.
type TrackRepository struct {
	db *gorm.DB
}

// NewTrackRepository creates a new TrackRepository instance with the provided GORM database connection.
func NewTrackRepository(db *gorm.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// CreateTrack inserts a Track row.
func (r *TrackRepository) CreateTrack(track *models.Track) error {
	return r.db.Omit("Group").Create(track).Error
}

// GetOwnedTrack retrieves a Track whose project belongs to ownerID.
func (r *TrackRepository) GetOwnedTrack(id, ownerID uuid.UUID) (*models.Track, error) {
	var track models.Track
	err := r.db.
		Joins("JOIN track_groups ON track_groups.id = tracks.group_id").
		Joins("JOIN songs ON songs.id = track_groups.song_id").
		Joins("JOIN projects ON projects.id = songs.project_id").
		Where("tracks.id = ? AND projects.owner_id = ?", id, ownerID).
		First(&track).Error
	return &track, err
}

// ListOwnedTracks retrieves tracks of projects owned by ownerID, optionally
// restricted to one group.
func (r *TrackRepository) ListOwnedTracks(ownerID uuid.UUID, groupID *uuid.UUID) ([]models.Track, error) {
	var tracks []models.Track
	q := r.db.
		Joins("JOIN track_groups ON track_groups.id = tracks.group_id").
		Joins("JOIN songs ON songs.id = track_groups.song_id").
		Joins("JOIN projects ON projects.id = songs.project_id").
		Where("projects.owner_id = ?", ownerID)
	if groupID != nil {
		q = q.Where("tracks.group_id = ?", *groupID)
	}
	err := q.Order("tracks.created_at").Find(&tracks).Error
	return tracks, err
}

// ListTracksByProject retrieves all tracks below a project with their group and song loaded.
func (r *TrackRepository) ListTracksByProject(projectID uuid.UUID) ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.
		Preload("Group.Song").
		Joins("JOIN track_groups ON track_groups.id = tracks.group_id").
		Joins("JOIN songs ON songs.id = track_groups.song_id").
		Where("songs.project_id = ?", projectID).
		Order("tracks.created_at").
		Find(&tracks).Error
	return tracks, err
}

// ListTrackKeys returns the file keys of tracks selected by the condition.
func (r *TrackRepository) ListTrackKeys(query string, args ...interface{}) ([]string, error) {
	var keys []string
	err := r.db.Model(&models.Track{}).Where(query, args...).Pluck("file_key", &keys).Error
	return keys, err
}

// DeleteTrack deletes a Track row. It returns gorm.ErrRecordNotFound when
// no row was removed so a concurrent delete cannot refund twice.
func (r *TrackRepository) DeleteTrack(id uuid.UUID) error {
	res := r.db.Delete(&models.Track{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountTracks returns the number of track rows.
func (r *TrackRepository) CountTracks() (int64, error) {
	var n int64
	err := r.db.Model(&models.Track{}).Count(&n).Error
	return n, err
}
