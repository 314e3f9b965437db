package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mixing-service/internal/models"
	"mixing-service/internal/repository"
)

// CommentService manages the discussion on a project and the final mixes
// staff delivers. Attachments are stored under the project owner's prefix so
// the owner can download them.
type CommentService struct {
	db     *gorm.DB
	files  *FileService
	logger *zap.Logger
}

func NewCommentService(db *gorm.DB, files *FileService, logger *zap.Logger) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{db: db, files: files, logger: logger}
}

// CreateComment adds an owner comment to an active project.
func (s *CommentService) CreateComment(ctx context.Context, caller *models.User, projectID uuid.UUID, content string, attachment *Upload) (*models.Comment, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	project, err := admitProject(s.db.WithContext(ctx), projectID, caller)
	if err != nil {
		return nil, err
	}
	return s.insertComment(ctx, project, caller, content, attachment)
}

// AddStaffComment adds a staff comment regardless of the project state.
func (s *CommentService) AddStaffComment(ctx context.Context, staff *models.User, projectID uuid.UUID, content string, attachment *Upload) (*models.Comment, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	project, err := repository.NewProjectRepository(s.db.WithContext(ctx)).GetProject(projectID)
	if err != nil {
		return nil, notFound(err)
	}
	return s.insertComment(ctx, project, staff, content, attachment)
}

func (s *CommentService) insertComment(ctx context.Context, project *models.Project, author *models.User, content string, attachment *Upload) (*models.Comment, error) {
	comment := &models.Comment{ProjectID: project.ID, AuthorID: author.ID, Content: content}
	if attachment != nil {
		stored, err := s.files.Save(ctx, SectionComments, project.OwnerID, *attachment)
		if err != nil {
			return nil, err
		}
		comment.AttachmentKey = stored.Key
		comment.AttachmentName = stored.Name
		comment.AttachmentSize = stored.Size
	}
	if err := repository.NewCommentRepository(s.db.WithContext(ctx)).CreateComment(comment); err != nil {
		s.files.Remove(context.WithoutCancel(ctx), comment.AttachmentKey)
		return nil, err
	}
	comment.Author = author
	return comment, nil
}

func (s *CommentService) GetComment(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Comment, error) {
	comment, err := repository.NewCommentRepository(s.db.WithContext(ctx)).GetOwnedComment(id, caller.ID)
	return comment, notFound(err)
}

// ListComments returns comments on projects owned by caller.
func (s *CommentService) ListComments(ctx context.Context, caller *models.User, projectID *uuid.UUID) ([]models.Comment, error) {
	return repository.NewCommentRepository(s.db.WithContext(ctx)).ListOwnedComments(caller.ID, projectID)
}

// ListProjectComments returns every comment of a project.
func (s *CommentService) ListProjectComments(ctx context.Context, projectID uuid.UUID) ([]models.Comment, error) {
	return repository.NewCommentRepository(s.db.WithContext(ctx)).ListComments(projectID)
}

func (s *CommentService) UpdateComment(ctx context.Context, caller *models.User, id uuid.UUID, content string) (*models.Comment, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	comments := repository.NewCommentRepository(db)
	comment, err := comments.GetOwnedComment(id, caller.ID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.requireActive(db, comment.ProjectID); err != nil {
		return nil, err
	}
	if err := comments.UpdateCommentContent(id, content); err != nil {
		return nil, err
	}
	comment.Content = content
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, caller *models.User, id uuid.UUID) error {
	db := s.db.WithContext(ctx)
	comments := repository.NewCommentRepository(db)
	comment, err := comments.GetOwnedComment(id, caller.ID)
	if err != nil {
		return notFound(err)
	}
	if err := s.requireActive(db, comment.ProjectID); err != nil {
		return err
	}
	if err := comments.DeleteComment(id); err != nil {
		return notFound(err)
	}
	s.files.Remove(ctx, comment.AttachmentKey)
	return nil
}

// UploadFinalFile stores a finished mix for the project owner.
func (s *CommentService) UploadFinalFile(ctx context.Context, projectID uuid.UUID, title string, upload Upload) (*models.FinalFile, error) {
	title = strings.TrimSpace(title)
	if len([]rune(title)) > maxTitleLength {
		return nil, invalid("Title must be at most 100 characters")
	}
	db := s.db.WithContext(ctx)
	project, err := repository.NewProjectRepository(db).GetProject(projectID)
	if err != nil {
		return nil, notFound(err)
	}
	stored, err := s.files.Save(ctx, SectionFinals, project.OwnerID, upload)
	if err != nil {
		return nil, err
	}
	final := &models.FinalFile{
		ProjectID: projectID,
		Title:     title,
		FileKey:   stored.Key,
		FileName:  stored.Name,
		FileSize:  stored.Size,
	}
	if err := repository.NewCommentRepository(db).CreateFinalFile(final); err != nil {
		s.files.Remove(context.WithoutCancel(ctx), stored.Key)
		return nil, err
	}
	s.logger.Info("final file uploaded", zap.String("project_id", projectID.String()), zap.String("key", stored.Key))
	return final, nil
}

func (s *CommentService) ListFinalFiles(ctx context.Context, projectID uuid.UUID) ([]models.FinalFile, error) {
	return repository.NewCommentRepository(s.db.WithContext(ctx)).ListFinalFiles(projectID)
}

func (s *CommentService) DeleteFinalFile(ctx context.Context, id uuid.UUID) error {
	comments := repository.NewCommentRepository(s.db.WithContext(ctx))
	final, err := comments.GetFinalFile(id)
	if err != nil {
		return notFound(err)
	}
	if err := comments.DeleteFinalFile(id); err != nil {
		return notFound(err)
	}
	s.files.Remove(ctx, final.FileKey)
	return nil
}

func (s *CommentService) requireActive(db *gorm.DB, projectID uuid.UUID) error {
	project, err := repository.NewProjectRepository(db).GetProject(projectID)
	if err != nil {
		return notFound(err)
	}
	return requireActive(project)
}

func cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", invalid("Comment content is required")
	}
	return content, nil
}
