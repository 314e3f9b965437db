package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mixing-service/internal/services"
)

type SongHandler struct {
	songs  *services.SongService
	logger *zap.Logger
}

func NewSongHandler(songs *services.SongService, logger *zap.Logger) *SongHandler {
	return &SongHandler{songs: songs, logger: logger}
}

type songRequest struct {
	Project uuid.UUID `json:"project"`
	Title   string    `json:"title"`
}

type groupRequest struct {
	Song  uuid.UUID `json:"song"`
	Title string    `json:"title"`
}

type titleRequest struct {
	Title string `json:"title"`
}

// ListSongs lists songs of the caller's projects
// @Summary List songs
// @Tags songs
// @Produce json
// @Security ApiKeyAuth
// @Param project query string false "Filter by project ID" Format(uuid)
// @Success 200 {array} models.Song
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Router /api/songs [get]
func (h *SongHandler) ListSongs(c *fiber.Ctx) error {
	projectID, err := queryUUID(c, "project")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	songs, err := h.songs.ListSongs(c.UserContext(), currentUser(c), projectID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(songs)
}

// GetSong returns one song
// @Summary Get a song
// @Tags songs
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Song ID" Format(uuid)
// @Success 200 {object} models.Song
// @Failure 404 {object} map[string]interface{} "Song not found"
// @Router /api/songs/{id} [get]
func (h *SongHandler) GetSong(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	song, err := h.songs.GetSong(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(song)
}

// CreateSong adds a song to an active project
// @Summary Create a song
// @Tags songs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param song body songRequest true "Song data"
// @Success 201 {object} models.Song
// @Failure 400 {object} map[string]interface{} "Invalid data"
// @Failure 403 {object} map[string]interface{} "Not the owner or project inactive"
// @Router /api/songs [post]
func (h *SongHandler) CreateSong(c *fiber.Ctx) error {
	var req songRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	song, err := h.songs.CreateSong(c.UserContext(), currentUser(c), req.Project, req.Title)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

// UpdateSong renames a song
// @Summary Rename a song
// @Tags songs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Song ID" Format(uuid)
// @Param song body titleRequest true "New title"
// @Success 200 {object} models.Song
// @Failure 403 {object} map[string]interface{} "Project inactive"
// @Failure 404 {object} map[string]interface{} "Song not found"
// @Router /api/songs/{id} [put]
func (h *SongHandler) UpdateSong(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	var req titleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	song, err := h.songs.RenameSong(c.UserContext(), currentUser(c), id, req.Title)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(song)
}

// DeleteSong deletes a song with its groups and tracks
// @Summary Delete a song
// @Description Deletes the song, its groups and tracks. One credit is refunded per deleted track.
// @Tags songs
// @Security ApiKeyAuth
// @Param id path string true "Song ID" Format(uuid)
// @Success 204
// @Failure 403 {object} map[string]interface{} "Project inactive"
// @Failure 404 {object} map[string]interface{} "Song not found"
// @Router /api/songs/{id} [delete]
func (h *SongHandler) DeleteSong(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	if err := h.songs.DeleteSong(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListGroups lists track groups of the caller's projects
// @Summary List groups
// @Tags groups
// @Produce json
// @Security ApiKeyAuth
// @Param song query string false "Filter by song ID" Format(uuid)
// @Success 200 {array} models.Group
// @Router /api/groups [get]
func (h *SongHandler) ListGroups(c *fiber.Ctx) error {
	songID, err := queryUUID(c, "song")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	groups, err := h.songs.ListGroups(c.UserContext(), currentUser(c), songID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(groups)
}

// GetGroup returns one group
// @Summary Get a group
// @Tags groups
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Group ID" Format(uuid)
// @Success 200 {object} models.Group
// @Failure 404 {object} map[string]interface{} "Group not found"
// @Router /api/groups/{id} [get]
func (h *SongHandler) GetGroup(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	group, err := h.songs.GetGroup(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(group)
}

// CreateGroup adds a track group to a song
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param group body groupRequest true "Group data"
// @Success 201 {object} models.Group
// @Failure 403 {object} map[string]interface{} "Not the owner or project inactive"
// @Router /api/groups [post]
func (h *SongHandler) CreateGroup(c *fiber.Ctx) error {
	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	group, err := h.songs.CreateGroup(c.UserContext(), currentUser(c), req.Song, req.Title)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// UpdateGroup renames a group
// @Summary Rename a group
// @Tags groups
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Group ID" Format(uuid)
// @Param group body titleRequest true "New title"
// @Success 200 {object} models.Group
// @Router /api/groups/{id} [put]
func (h *SongHandler) UpdateGroup(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	var req titleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request format", err)
	}
	group, err := h.songs.RenameGroup(c.UserContext(), currentUser(c), id, req.Title)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(group)
}

// DeleteGroup deletes a group with its tracks
// @Summary Delete a group
// @Description One credit is refunded per deleted track.
// @Tags groups
// @Security ApiKeyAuth
// @Param id path string true "Group ID" Format(uuid)
// @Success 204
// @Router /api/groups/{id} [delete]
func (h *SongHandler) DeleteGroup(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid UUID", err)
	}
	if err := h.songs.DeleteGroup(c.UserContext(), currentUser(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
