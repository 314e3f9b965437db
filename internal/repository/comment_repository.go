package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mixing-service/internal/models"
)

// CommentRepository stores project comments and staff-delivered final files.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository instance with the provided GORM database connection.
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateComment inserts a Comment.
func (r *CommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Omit("Author").Create(comment).Error
}

// GetOwnedComment retrieves a Comment on a project owned by ownerID.
func (r *CommentRepository) GetOwnedComment(id, ownerID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").
		Joins("JOIN projects ON projects.id = comments.project_id").
		Where("comments.id = ? AND projects.owner_id = ?", id, ownerID).
		First(&comment).Error
	return &comment, err
}

// ListComments retrieves the comments of a project, oldest first.
func (r *CommentRepository) ListComments(projectID uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").Where("project_id = ?", projectID).Order("created_at").Find(&comments).Error
	return comments, err
}

// ListOwnedComments retrieves comments on projects owned by ownerID.
func (r *CommentRepository) ListOwnedComments(ownerID uuid.UUID, projectID *uuid.UUID) ([]models.Comment, error) {
	var comments []models.Comment
	q := r.db.Preload("Author").
		Joins("JOIN projects ON projects.id = comments.project_id").
		Where("projects.owner_id = ?", ownerID)
	if projectID != nil {
		q = q.Where("comments.project_id = ?", *projectID)
	}
	err := q.Order("comments.created_at").Find(&comments).Error
	return comments, err
}

// UpdateCommentContent edits the text of a comment.
func (r *CommentRepository) UpdateCommentContent(id uuid.UUID, content string) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Update("content", content).Error
}

// DeleteComment deletes a Comment by its ID.
func (r *CommentRepository) DeleteComment(id uuid.UUID) error {
	res := r.db.Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAttachmentKeys returns the stored attachment keys of a project's comments.
func (r *CommentRepository) ListAttachmentKeys(projectID uuid.UUID) ([]string, error) {
	var keys []string
	err := r.db.Model(&models.Comment{}).
		Where("project_id = ? AND attachment_key <> ''", projectID).
		Pluck("attachment_key", &keys).Error
	return keys, err
}

// CreateFinalFile inserts a FinalFile.
func (r *CommentRepository) CreateFinalFile(file *models.FinalFile) error {
	return r.db.Create(file).Error
}

// ListFinalFiles retrieves the final files of a project, oldest first.
func (r *CommentRepository) ListFinalFiles(projectID uuid.UUID) ([]models.FinalFile, error) {
	var files []models.FinalFile
	err := r.db.Where("project_id = ?", projectID).Order("created_at").Find(&files).Error
	return files, err
}

// GetFinalFile retrieves a FinalFile by its ID.
func (r *CommentRepository) GetFinalFile(id uuid.UUID) (*models.FinalFile, error) {
	var file models.FinalFile
	err := r.db.First(&file, "id = ?", id).Error
	return &file, err
}

// DeleteFinalFile deletes a FinalFile by its ID.
func (r *CommentRepository) DeleteFinalFile(id uuid.UUID) error {
	res := r.db.Delete(&models.FinalFile{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
