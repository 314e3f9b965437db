package handlers

import (
	"fmt"
	"net/url"
	"path"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mixing-service/internal/services"
)

type FileHandler struct {
	files  *services.FileService
	logger *zap.Logger
}

func NewFileHandler(files *services.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{files: files, logger: logger}
}

// ServeFile streams a private file
// @Summary Download a private file
// @Description Staff can read every file. Owners can read their comment attachments and final files.
// @Tags files
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param key path string true "File key"
// @Success 200 {file} file
// @Failure 403 {object} map[string]interface{} "Access denied"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /files/{key} [get]
func (h *FileHandler) ServeFile(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return badRequest(c, "Invalid file path", err)
	}
	rc, info, err := h.files.Open(c.UserContext(), currentUser(c), key)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	return c.SendStream(rc, int(info.Size))
}
