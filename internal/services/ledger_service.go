package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mixing-service/internal/metrics"
	"mixing-service/internal/models"
	"mixing-service/internal/repository"
)

// LedgerService owns every change to a user's track credit balance. A track
// costs one credit, deleting it refunds one and a purchase adds its credits.
type LedgerService struct {
	db      *gorm.DB
	files   *FileService
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(db *gorm.DB, files *FileService, logger *zap.Logger, m *metrics.Metrics) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{db: db, files: files, logger: logger, metrics: m}
}

// Balance returns the credit balance of userID.
func (s *LedgerService) Balance(ctx context.Context, userID uuid.UUID) (uint, error) {
	profile, err := repository.NewProfileRepository(s.db.WithContext(ctx)).GetProfile(userID)
	if err != nil {
		return 0, err
	}
	return profile.TrackCredit, nil
}

// CreateTrack stores an uploaded file as a track of groupID and charges one
// credit to the project owner. The file is written before the transaction;
// the debit and the row commit together, and the file is removed again when
// they do not.
func (s *LedgerService) CreateTrack(ctx context.Context, caller *models.User, groupID uuid.UUID, upload Upload) (*models.Track, error) {
	db := s.db.WithContext(ctx)

	project, err := repository.NewProjectRepository(db).GetProjectForGroup(groupID)
	switch {
	case repository.IsNotFound(err):
		err = ErrNotOwner
	case err == nil:
		err = admit(project, caller)
	}
	if err != nil {
		s.reject(err)
		return nil, err
	}

	// Skips the upload when the balance is already zero. The guarded debit
	// below is what decides.
	balance, err := s.Balance(ctx, project.OwnerID)
	if err != nil {
		return nil, err
	}
	if balance == 0 {
		s.reject(ErrInsufficientCredit)
		return nil, ErrInsufficientCredit
	}

	stored, err := s.files.Save(ctx, SectionTracks, project.OwnerID, upload)
	if err != nil {
		return nil, err
	}

	track := &models.Track{GroupID: groupID, FileKey: stored.Key, FileName: stored.Name, FileSize: stored.Size}
	err = db.Transaction(func(tx *gorm.DB) error {
		profiles := repository.NewProfileRepository(tx)
		if err := profiles.EnsureProfile(project.OwnerID); err != nil {
			return err
		}
		if err := profiles.ConsumeCredit(project.OwnerID); err != nil {
			if errors.Is(err, repository.ErrNoCredit) {
				return ErrInsufficientCredit
			}
			return err
		}
		return repository.NewTrackRepository(tx).CreateTrack(track)
	})
	if err != nil {
		s.files.Remove(context.WithoutCancel(ctx), stored.Key)
		s.reject(err)
		return nil, err
	}

	s.metrics.IncTracksCreated()
	s.logger.Info("track created",
		zap.String("track_id", track.ID.String()),
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", project.OwnerID.String()))
	return track, nil
}

// DeleteTrack removes a track of a project owned by caller and refunds its credit.
func (s *LedgerService) DeleteTrack(ctx context.Context, caller *models.User, trackID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	track, err := repository.NewTrackRepository(db).GetOwnedTrack(trackID, caller.ID)
	if err != nil {
		return notFound(err)
	}
	project, err := repository.NewProjectRepository(db).GetProjectForGroup(track.GroupID)
	if err != nil {
		return notFound(err)
	}
	if err := requireActive(project); err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewTrackRepository(tx).DeleteTrack(track.ID); err != nil {
			return notFound(err)
		}
		return refund(tx, project.OwnerID, 1)
	})
	if err != nil {
		return err
	}

	s.files.Remove(ctx, track.FileKey)
	s.metrics.IncTracksDeleted()
	s.metrics.AddCreditsRefunded(1)
	s.logger.Info("track deleted",
		zap.String("track_id", track.ID.String()),
		zap.String("owner_id", project.OwnerID.String()))
	return nil
}

// GetTrack returns a track of a project owned by caller.
func (s *LedgerService) GetTrack(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Track, error) {
	track, err := repository.NewTrackRepository(s.db.WithContext(ctx)).GetOwnedTrack(id, caller.ID)
	return track, notFound(err)
}

// ListTracks returns the tracks of projects owned by caller, optionally for one group.
func (s *LedgerService) ListTracks(ctx context.Context, caller *models.User, groupID *uuid.UUID) ([]models.Track, error) {
	return repository.NewTrackRepository(s.db.WithContext(ctx)).ListOwnedTracks(caller.ID, groupID)
}

// RecordPurchase stores purchase and credits its user in one transaction.
func (s *LedgerService) RecordPurchase(ctx context.Context, purchase *models.Purchase) error {
	if purchase.Credits < 1 {
		return invalid("Number of credits must be at least 1")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPurchaseRepository(tx).CreatePurchase(purchase); err != nil {
			return err
		}
		profiles := repository.NewProfileRepository(tx)
		if err := profiles.EnsureProfile(purchase.UserID); err != nil {
			return err
		}
		return profiles.AddCredit(purchase.UserID, purchase.Credits)
	})
	if err != nil {
		return errors.Wrap(err, "record purchase")
	}
	s.metrics.AddCreditsPurchased(purchase.Credits)
	return nil
}

func (s *LedgerService) reject(err error) {
	switch {
	case errors.Is(err, ErrNotOwner):
		s.metrics.IncTrackRejection("not_owner")
	case errors.Is(err, ErrProjectInactive):
		s.metrics.IncTrackRejection("inactive")
	case errors.Is(err, ErrInsufficientCredit):
		s.metrics.IncTrackRejection("no_credit")
	default:
		s.logger.Error("track creation failed", zap.Error(err))
	}
}
