package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mixing-service/internal/metrics"
	"mixing-service/internal/models"
	"mixing-service/internal/repository"
)

// SongService manages the songs of a project and the track groups of a song.
// Every change requires the caller to own an active project.
type SongService struct {
	db      *gorm.DB
	files   *FileService
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewSongService(db *gorm.DB, files *FileService, logger *zap.Logger, m *metrics.Metrics) *SongService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SongService{db: db, files: files, logger: logger, metrics: m}
}

func (s *SongService) CreateSong(ctx context.Context, caller *models.User, projectID uuid.UUID, title string) (*models.Song, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if _, err := admitProject(db, projectID, caller); err != nil {
		return nil, err
	}
	song := &models.Song{ProjectID: projectID, Title: title}
	if err := repository.NewSongRepository(db).CreateSong(song); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *SongService) GetSong(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Song, error) {
	song, err := repository.NewSongRepository(s.db.WithContext(ctx)).GetOwnedSong(id, caller.ID)
	return song, notFound(err)
}

func (s *SongService) ListSongs(ctx context.Context, caller *models.User, projectID *uuid.UUID) ([]models.Song, error) {
	return repository.NewSongRepository(s.db.WithContext(ctx)).ListOwnedSongs(caller.ID, projectID)
}

func (s *SongService) RenameSong(ctx context.Context, caller *models.User, id uuid.UUID, title string) (*models.Song, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	songs := repository.NewSongRepository(db)
	song, err := songs.GetOwnedSong(id, caller.ID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.requireActiveProject(db, song.ProjectID); err != nil {
		return nil, err
	}
	if err := songs.UpdateSongTitle(id, title); err != nil {
		return nil, err
	}
	song.Title = title
	return song, nil
}

// DeleteSong removes a song with its groups and tracks and refunds the tracks.
func (s *SongService) DeleteSong(ctx context.Context, caller *models.User, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	song, err := repository.NewSongRepository(db).GetOwnedSong(id, caller.ID)
	if err != nil {
		return notFound(err)
	}
	if err := s.requireActiveProject(db, song.ProjectID); err != nil {
		return err
	}

	return s.cascade(ctx, caller.ID, func(tx *gorm.DB) ([]string, int64, error) {
		groupIDs := tx.Session(&gorm.Session{NewDB: true}).Model(&models.Group{}).Select("id").Where("song_id = ?", id)
		keys, err := repository.NewTrackRepository(tx).ListTrackKeys("group_id IN (?)", groupIDs)
		if err != nil {
			return nil, 0, err
		}
		n, err := repository.NewSongRepository(tx).DeleteSong(id)
		return keys, n, err
	})
}

func (s *SongService) CreateGroup(ctx context.Context, caller *models.User, songID uuid.UUID, title string) (*models.Group, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	project, err := repository.NewProjectRepository(db).GetProjectForSong(songID)
	switch {
	case repository.IsNotFound(err):
		return nil, ErrNotOwner
	case err != nil:
		return nil, err
	}
	if err := admit(project, caller); err != nil {
		return nil, err
	}
	group := &models.Group{SongID: songID, Title: title}
	if err := repository.NewSongRepository(db).CreateGroup(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *SongService) GetGroup(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Group, error) {
	group, err := repository.NewSongRepository(s.db.WithContext(ctx)).GetOwnedGroup(id, caller.ID)
	return group, notFound(err)
}

func (s *SongService) ListGroups(ctx context.Context, caller *models.User, songID *uuid.UUID) ([]models.Group, error) {
	return repository.NewSongRepository(s.db.WithContext(ctx)).ListOwnedGroups(caller.ID, songID)
}

func (s *SongService) RenameGroup(ctx context.Context, caller *models.User, id uuid.UUID, title string) (*models.Group, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	songs := repository.NewSongRepository(db)
	group, err := songs.GetOwnedGroup(id, caller.ID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.requireActiveGroup(db, id); err != nil {
		return nil, err
	}
	if err := songs.UpdateGroupTitle(id, title); err != nil {
		return nil, err
	}
	group.Title = title
	return group, nil
}

// DeleteGroup removes a group with its tracks and refunds the tracks.
func (s *SongService) DeleteGroup(ctx context.Context, caller *models.User, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	if _, err := repository.NewSongRepository(db).GetOwnedGroup(id, caller.ID); err != nil {
		return notFound(err)
	}
	if err := s.requireActiveGroup(db, id); err != nil {
		return err
	}
	return s.cascade(ctx, caller.ID, func(tx *gorm.DB) ([]string, int64, error) {
		keys, err := repository.NewTrackRepository(tx).ListTrackKeys("group_id = ?", id)
		if err != nil {
			return nil, 0, err
		}
		n, err := repository.NewSongRepository(tx).DeleteGroup(id)
		return keys, n, err
	})
}

// cascade runs del in a transaction, refunds the deleted tracks to ownerID
// and then removes their files.
func (s *SongService) cascade(ctx context.Context, ownerID uuid.UUID, del func(tx *gorm.DB) ([]string, int64, error)) error {
	var keys []string
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if keys, deleted, err = del(tx); err != nil {
			return notFound(err)
		}
		return refund(tx, ownerID, deleted)
	})
	if err != nil {
		return err
	}
	s.files.Remove(ctx, keys...)
	s.metrics.AddCreditsRefunded(deleted)
	if deleted > 0 {
		s.logger.Info("tracks refunded", zap.String("owner_id", ownerID.String()), zap.Int64("credits", deleted))
	}
	return nil
}

func (s *SongService) requireActiveProject(db *gorm.DB, projectID uuid.UUID) error {
	project, err := repository.NewProjectRepository(db).GetProject(projectID)
	if err != nil {
		return notFound(err)
	}
	return requireActive(project)
}

func (s *SongService) requireActiveGroup(db *gorm.DB, groupID uuid.UUID) error {
	project, err := repository.NewProjectRepository(db).GetProjectForGroup(groupID)
	if err != nil {
		return notFound(err)
	}
	return requireActive(project)
}
