package handlers

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mixing-service/internal/metrics"
	"mixing-service/internal/models"
	"mixing-service/internal/repository"
	"mixing-service/internal/services"
	"mixing-service/internal/utils"
)

// AdminHandler serves the staff work queue and project management.
type AdminHandler struct {
	projects  *services.ProjectService
	comments  *services.CommentService
	archives  *services.ArchiveService
	purchases *services.PurchaseService
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewAdminHandler(
	projects *services.ProjectService,
	comments *services.CommentService,
	archives *services.ArchiveService,
	purchases *services.PurchaseService,
	logger *zap.Logger,
	m *metrics.Metrics,
) *AdminHandler {
	return &AdminHandler{
		projects:  projects,
		comments:  comments,
		archives:  archives,
		purchases: purchases,
		logger:    logger,
		metrics:   m,
	}
}

type createProjectRequest struct {
	Title string    `json:"title"`
	Owner uuid.UUID `json:"owner"`
}

type statusRequest struct {
	Status uint `json:"status"`
}

type priorityRequest struct {
	Priority *int `json:"priority"`
}

// Queue lists projects for staff
// @Summary Staff work queue
// @Description Projects ordered by priority (0 first), then newest first
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param status query int false "Filter by status (1-6)"
// @Param search query string false "Match project title or owner username"
// @Success 200 {array} ProjectResponse
// @Failure 400 {object} map[string]interface{} "Unknown status"
// @Failure 403 {object} map[string]interface{} "Staff access required"
// @Router /api/admin/projects [get]
func (h *AdminHandler) Queue(c *fiber.Ctx) error {
	filter := repository.QueueFilter{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return badRequest(c, "Invalid status", err)
		}
		filter.Status = models.ProjectStatus(status)
	}
	projects, err := h.projects.Queue(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newProjectResponses(projects))
}

// CreateProject opens a project for a customer
// @Summary Create a project
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param project body createProjectRequest true "Title and owner"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} map[string]interface{} "Invalid data"
// @Router /api/admin/projects [post]
func (h *AdminHandler) CreateProject(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	project, err := h.projects.CreateProject(c.UserContext(), req.Title, req.Owner)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newProjectResponse(project))
}

// SetStatus moves a project to a status
// @Summary Set project status
// @Description Any status may be set. Active flag and priority are derived from it.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Project ID" Format(uuid)
// @Param status body statusRequest true "New status (1-6)"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} map[string]interface{} "Unknown status"
// @Failure 404 {object} map[string]interface{} "Project not found"
// @Router /api/admin/projects/{id}/status [put]
func (h *AdminHandler) SetStatus(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	project, err := h.projects.SetStatus(c.UserContext(), id, models.ProjectStatus(req.Status))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newProjectResponse(project))
}

// SetPriority changes the queue priority
// @Summary Set project priority
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Project ID" Format(uuid)
// @Param priority body priorityRequest true "Priority 0-10"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} map[string]interface{} "Priority out of range"
// @Router /api/admin/projects/{id}/priority [put]
func (h *AdminHandler) SetPriority(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	var req priorityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	if req.Priority == nil {
		return badRequest(c, "Priority is required", nil)
	}
	project, err := h.projects.SetPriority(c.UserContext(), id, *req.Priority)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newProjectResponse(project))
}

// DeleteProject deletes a project with everything below it
// @Summary Delete a project
// @Description Deleted tracks are refunded to the owner
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "Project ID" Format(uuid)
// @Success 204
// @Failure 404 {object} map[string]interface{} "Project not found"
// @Router /api/admin/projects/{id} [delete]
func (h *AdminHandler) DeleteProject(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	if err := h.projects.DeleteProject(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddComment posts a staff comment
// @Summary Add a staff comment
// @Description Allowed in every project status
// @Tags admin
// @Accept json,mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Project ID" Format(uuid)
// @Param content formData string true "Comment text"
// @Param attachment formData file false "Attachment"
// @Success 201 {object} CommentResponse
// @Router /api/admin/projects/{id}/comments [post]
func (h *AdminHandler) AddComment(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	attachment, closer, err := formUpload(c, "attachment")
	if err != nil {
		return badRequest(c, "Invalid upload", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	comment, err := h.comments.AddStaffComment(c.UserContext(), currentUser(c), id, req.Content, attachment)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCommentResponse(comment))
}

// UploadFinalFile delivers a finished mix
// @Summary Upload a final file
// @Tags admin
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Project ID" Format(uuid)
// @Param title formData string false "Display title"
// @Param file formData file true "Final mix"
// @Success 201 {object} FinalFileResponse
// @Router /api/admin/projects/{id}/final-files [post]
func (h *AdminHandler) UploadFinalFile(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	upload, closer, err := formUpload(c, "file")
	if err != nil {
		return badRequest(c, "Invalid upload", err)
	}
	if upload == nil {
		return badRequest(c, "No file uploaded", nil)
	}
	defer closer.Close()

	final, err := h.comments.UploadFinalFile(c.UserContext(), id, c.FormValue("title"), *upload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newFinalFileResponses([]models.FinalFile{*final})[0])
}

// DeleteFinalFile removes a final file
// @Summary Delete a final file
// @Tags admin
// @Security ApiKeyAuth
// @Param id path string true "Final file ID" Format(uuid)
// @Success 204
// @Router /api/admin/final-files/{id} [delete]
func (h *AdminHandler) DeleteFinalFile(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	if err := h.comments.DeleteFinalFile(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadTracks streams all tracks of a project as a zip archive
// @Summary Download project tracks
// @Description Zip archive laid out as song/group/file
// @Tags admin
// @Produce application/zip
// @Security ApiKeyAuth
// @Param id path string true "Project ID" Format(uuid)
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{} "Project not found"
// @Router /api/admin/projects/{id}/download [get]
func (h *AdminHandler) DownloadTracks(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	ctx := c.UserContext()
	archive, err := h.archives.PrepareArchive(ctx, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", archive.Name))
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		meter := utils.NewStreamMeter(w)
		if err := archive.WriteTo(ctx, meter); err != nil {
			h.logger.Error("archive stream failed", zap.String("project_id", id.String()), zap.Error(err))
		}
		if err := w.Flush(); err != nil {
			h.logger.Warn("archive flush failed", zap.String("project_id", id.String()), zap.Error(err))
		}
		h.metrics.AddArchiveBytes(meter.Bytes())
		h.logger.Info("archive streamed",
			zap.String("project_id", id.String()),
			zap.Int("files", archive.Len()),
			zap.String("size", humanize.Bytes(uint64(meter.Bytes()))),
			zap.Duration("ttfb", meter.TimeToFirstByte()),
			zap.String("rate", humanize.Bytes(uint64(meter.Rate()))+"/s"))
	})
	return nil
}

// ListPurchases lists purchases of all users
// @Summary List purchases
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param user query string false "Filter by user ID" Format(uuid)
// @Success 200 {array} PurchaseResponse
// @Router /api/admin/purchases [get]
func (h *AdminHandler) ListPurchases(c *fiber.Ctx) error {
	userID, err := queryUUID(c, "user")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	purchases, err := h.purchases.ListPurchases(c.UserContext(), userID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newPurchaseResponses(purchases))
}
