package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"mixing-service/internal/services"
)

// formUpload opens the multipart file field name. The returned closer must be
// called once the upload has been consumed. A missing field yields nil.
func formUpload(c *fiber.Ctx, name string) (*services.Upload, io.Closer, error) {
	header, err := c.FormFile(name)
	if err != nil {
		return nil, nil, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	contentType := header.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	return &services.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Reader:      file,
	}, file, nil
}
