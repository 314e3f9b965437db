package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mixing-service/internal/services"
)

type TrackHandler struct {
	ledger *services.LedgerService
	logger *zap.Logger
}

func NewTrackHandler(ledger *services.LedgerService, logger *zap.Logger) *TrackHandler {
	return &TrackHandler{ledger: ledger, logger: logger}
}

// ListTracks lists tracks of the caller's projects
// @Summary List tracks
// @Tags tracks
// @Produce json
// @Security ApiKeyAuth
// @Param group query string false "Filter by group ID" Format(uuid)
// @Success 200 {array} TrackResponse
// @Router /api/tracks [get]
func (h *TrackHandler) ListTracks(c *fiber.Ctx) error {
	groupID, err := queryUUID(c, "group")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	tracks, err := h.ledger.ListTracks(c.UserContext(), currentUser(c), groupID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newTrackResponses(tracks))
}

// GetTrack returns one track
// @Summary Get a track
// @Tags tracks
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Track ID" Format(uuid)
// @Success 200 {object} TrackResponse
// @Failure 404 {object} map[string]interface{} "Track not found"
// @Router /api/tracks/{id} [get]
func (h *TrackHandler) GetTrack(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	track, err := h.ledger.GetTrack(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newTrackResponse(track))
}

// CreateTrack uploads a track into a group
// @Summary Upload a track
// @Description Costs one track credit of the project owner. The project must be waiting for files.
// @Tags tracks
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param group formData string true "Group ID" Format(uuid)
// @Param file formData file true "Audio file"
// @Success 201 {object} TrackResponse
// @Failure 400 {object} map[string]interface{} "Missing file or invalid group"
// @Failure 403 {object} map[string]interface{} "Not the owner, project inactive or not enough credits"
// @Router /api/tracks [post]
func (h *TrackHandler) CreateTrack(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.FormValue("group"))
	if err != nil {
		return badRequest(c, "Invalid group", err)
	}
	upload, closer, err := formUpload(c, "file")
	if err != nil {
		return badRequest(c, "Invalid upload", err)
	}
	if upload == nil {
		return badRequest(c, "No file uploaded", nil)
	}
	defer closer.Close()

	track, err := h.ledger.CreateTrack(c.UserContext(), currentUser(c), groupID, *upload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newTrackResponse(track))
}

// DeleteTrack deletes a track and refunds its credit
// @Summary Delete a track
// @Tags tracks
// @Security ApiKeyAuth
// @Param id path string true "Track ID" Format(uuid)
// @Success 204
// @Failure 403 {object} map[string]interface{} "Project inactive"
// @Failure 404 {object} map[string]interface{} "Track not found"
// @Router /api/tracks/{id} [delete]
func (h *TrackHandler) DeleteTrack(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	if err := h.ledger.DeleteTrack(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
