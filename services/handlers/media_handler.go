package handlers

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/coursefoundry/academy_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// @Summary Upload Media
// @Description Upload a media file for a course
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param courseId path string true "Course ID"
// @Param file formData file true "Media file"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/courses/{courseId}/media [post]
func (h *MediaHandler) UploadMedia(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return shared.NewBadRequestError(err, "failed to read file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	result, err := h.mediaSvc.Upload(c.Context(), courseID, fileHeader.Filename, contentType, file, fileHeader.Size, func(fraction float64) {
		if fraction >= 1 {
			log.WithFields(log.Fields{"courseId": courseID, "file": fileHeader.Filename}).Debug("upload complete")
		}
	})
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", result)
}

// @Summary Get Media URL
// @Description Get a fresh presigned playback URL for a stored object
// @Tags media
// @Accept json
// @Produce json
// @Param key query string true "Object key"
// @Success 200 {object} shared.Response{data=string}
// @Router /api/v1/media/url [get]
func (h *MediaHandler) GetMediaURL(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return shared.NewBadRequestError(nil, "key is required")
	}

	url, err := h.mediaSvc.PlaybackURL(c.Context(), key)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", url)
}

// @Summary Delete Media
// @Description Delete a stored media object
// @Tags media
// @Accept json
// @Produce json
// @Param key query string true "Object key"
// @Success 200 {object} shared.Response
// @Router /api/v1/media [delete]
func (h *MediaHandler) DeleteMedia(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return shared.NewBadRequestError(nil, "key is required")
	}

	if err := h.mediaSvc.Delete(c.Context(), key); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
