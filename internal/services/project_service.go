package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mixing-service/internal/metrics"
	"mixing-service/internal/models"
	"mixing-service/internal/repository"
)

const maxTitleLength = 100

type ProjectService struct {
	db      *gorm.DB
	files   *FileService
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewProjectService(db *gorm.DB, files *FileService, logger *zap.Logger, m *metrics.Metrics) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{db: db, files: files, logger: logger, metrics: m}
}

// CreateProject opens a new project for ownerID in the FILES_PENDING state.
func (s *ProjectService) CreateProject(ctx context.Context, title string, ownerID uuid.UUID) (*models.Project, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if _, err := repository.NewUserRepository(db).GetUser(ownerID); err != nil {
		if repository.IsNotFound(err) {
			return nil, invalid("Owner does not exist")
		}
		return nil, err
	}
	project := models.NewProject(title, ownerID)
	if err := repository.NewProjectRepository(db).CreateProject(project); err != nil {
		return nil, err
	}
	s.logger.Info("project created", zap.String("project_id", project.ID.String()), zap.String("owner_id", ownerID.String()))
	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := repository.NewProjectRepository(s.db.WithContext(ctx)).GetProject(id)
	return project, notFound(err)
}

// GetVisibleProject returns the project when caller owns it or is staff.
func (s *ProjectService) GetVisibleProject(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Project, error) {
	repo := repository.NewProjectRepository(s.db.WithContext(ctx))
	if caller.IsStaff {
		project, err := repo.GetProject(id)
		return project, notFound(err)
	}
	project, err := repo.GetOwnedProject(id, caller.ID)
	return project, notFound(err)
}

func (s *ProjectService) ListOwnedProjects(ctx context.Context, owner *models.User) ([]models.Project, error) {
	return repository.NewProjectRepository(s.db.WithContext(ctx)).ListProjectsByOwner(owner.ID)
}

// Queue lists projects for staff, lowest priority value first.
func (s *ProjectService) Queue(ctx context.Context, filter repository.QueueFilter) ([]models.Project, error) {
	if filter.Status != 0 && !filter.Status.Valid() {
		return nil, invalid("Unknown project status")
	}
	return repository.NewProjectRepository(s.db.WithContext(ctx)).ListQueue(filter)
}

// SetStatus moves a project to any status. Staff only.
func (s *ProjectService) SetStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus) (*models.Project, error) {
	if !status.Valid() {
		return nil, invalid("Unknown project status")
	}
	repo := repository.NewProjectRepository(s.db.WithContext(ctx))
	ok, err := repo.SetStatus(id, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.metrics.IncProjectTransition(uint(status))
	s.logger.Info("project status changed", zap.String("project_id", id.String()), zap.Stringer("status", status))
	return s.GetProject(ctx, id)
}

// Submit hands an owned project in for mixing. Submitting from a status that
// has no submit transition leaves the project unchanged.
func (s *ProjectService) Submit(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Project, error) {
	repo := repository.NewProjectRepository(s.db.WithContext(ctx))
	project, err := repo.GetOwnedProject(id, caller.ID)
	if err != nil {
		return nil, notFound(err)
	}
	target, ok := project.Status.SubmitTarget()
	if !ok {
		return project, nil
	}
	changed, err := repo.TransitionStatus(id, project.Status, target)
	if err != nil {
		return nil, err
	}
	if changed {
		s.metrics.IncProjectTransition(uint(target))
		s.logger.Info("project submitted", zap.String("project_id", id.String()), zap.Stringer("status", target))
	}
	return s.GetProject(ctx, id)
}

// SetPriority stores a new queue priority. Waiting and finished projects
// always fall back to the default priority.
func (s *ProjectService) SetPriority(ctx context.Context, id uuid.UUID, priority int) (*models.Project, error) {
	if priority < models.MinPriority || priority > models.MaxPriority {
		return nil, invalid("Priority must be between 0 and 10")
	}
	ok, err := repository.NewProjectRepository(s.db.WithContext(ctx)).SetPriority(id, priority)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project and everything below it. Deleted tracks are
// refunded to the owner in the same transaction; stored files go afterwards.
func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	project, err := repository.NewProjectRepository(db).GetProject(id)
	if err != nil {
		return notFound(err)
	}

	var keys []string
	var refunded int64
	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		if keys, txErr = projectFileKeys(tx, id); txErr != nil {
			return txErr
		}
		if refunded, txErr = repository.NewProjectRepository(tx).DeleteProject(id); txErr != nil {
			return notFound(txErr)
		}
		return refund(tx, project.OwnerID, refunded)
	})
	if err != nil {
		return err
	}

	s.files.Remove(ctx, keys...)
	s.metrics.AddCreditsRefunded(refunded)
	s.logger.Info("project deleted",
		zap.String("project_id", id.String()),
		zap.Int64("refunded_credits", refunded))
	return nil
}

func projectFileKeys(tx *gorm.DB, projectID uuid.UUID) ([]string, error) {
	tracks, err := repository.NewTrackRepository(tx).ListTracksByProject(projectID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(tracks))
	for _, t := range tracks {
		keys = append(keys, t.FileKey)
	}
	comments := repository.NewCommentRepository(tx)
	attachments, err := comments.ListAttachmentKeys(projectID)
	if err != nil {
		return nil, err
	}
	keys = append(keys, attachments...)
	finals, err := comments.ListFinalFiles(projectID)
	if err != nil {
		return nil, err
	}
	for _, f := range finals {
		keys = append(keys, f.FileKey)
	}
	return keys, nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return "", invalid("Title is required")
	case len([]rune(title)) > maxTitleLength:
		return "", invalid("Title must be at most 100 characters")
	}
	return title, nil
}
