package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mixing-service/internal/services"
)

type CommentHandler struct {
	comments *services.CommentService
	logger   *zap.Logger
}

func NewCommentHandler(comments *services.CommentService, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, logger: logger}
}

type commentRequest struct {
	Project string `json:"project" form:"project"`
	Content string `json:"content" form:"content"`
}

// ListComments lists comments on the caller's projects
// @Summary List comments
// @Tags comments
// @Produce json
// @Security ApiKeyAuth
// @Param project query string false "Filter by project ID" Format(uuid)
// @Success 200 {array} CommentResponse
// @Router /api/comments [get]
func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	projectID, err := queryUUID(c, "project")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	comments, err := h.comments.ListComments(c.UserContext(), currentUser(c), projectID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCommentResponses(comments))
}

// GetComment returns one comment
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Comment ID" Format(uuid)
// @Success 200 {object} CommentResponse
// @Failure 404 {object} map[string]interface{} "Comment not found"
// @Router /api/comments/{id} [get]
func (h *CommentHandler) GetComment(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	comment, err := h.comments.GetComment(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCommentResponse(comment))
}

// CreateComment posts a comment on an active project
// @Summary Create a comment
// @Description Accepts JSON or multipart form data with an optional attachment
// @Tags comments
// @Accept json,mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param project formData string true "Project ID" Format(uuid)
// @Param content formData string true "Comment text"
// @Param attachment formData file false "Attachment"
// @Success 201 {object} CommentResponse
// @Failure 403 {object} map[string]interface{} "Not the owner or project inactive"
// @Router /api/comments [post]
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	projectID, err := uuid.Parse(req.Project)
	if err != nil {
		return badRequest(c, "Invalid project", err)
	}
	attachment, closer, err := formUpload(c, "attachment")
	if err != nil {
		return badRequest(c, "Invalid upload", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	comment, err := h.comments.CreateComment(c.UserContext(), currentUser(c), projectID, req.Content, attachment)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCommentResponse(comment))
}

// UpdateComment edits a comment
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Comment ID" Format(uuid)
// @Param comment body commentRequest true "New content"
// @Success 200 {object} CommentResponse
// @Router /api/comments/{id} [put]
func (h *CommentHandler) UpdateComment(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	comment, err := h.comments.UpdateComment(c.UserContext(), currentUser(c), id, req.Content)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCommentResponse(comment))
}

// DeleteComment deletes a comment
// @Summary Delete a comment
// @Tags comments
// @Security ApiKeyAuth
// @Param id path string true "Comment ID" Format(uuid)
// @Success 204
// @Router /api/comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	if err := h.comments.DeleteComment(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
