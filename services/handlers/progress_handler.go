package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/shared"
)

type ProgressHandler struct {
	courseSvc    CourseServiceInterface
	progressSvc  ProgressServiceInterface
	newNavigator NavigatorFactory
}

func NewProgressHandler(courseSvc CourseServiceInterface, progressSvc ProgressServiceInterface, newNavigator NavigatorFactory) *ProgressHandler {
	return &ProgressHandler{
		courseSvc:    courseSvc,
		progressSvc:  progressSvc,
		newNavigator: newNavigator,
	}
}

// @Summary Get Progress
// @Description Get the caller's progress record and derived metrics for a course
// @Tags progress
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/courses/{courseId}/progress [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	progress, err := h.progressSvc.GetProgress(c.Context(), userID, courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}

// @Summary Validate Content Block
// @Description Mark a content block as seen; idempotent
// @Tags progress
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param courseId path string true "Course ID"
// @Param blockId path string true "Block ID"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/courses/{courseId}/blocks/{blockId}/validate [post]
func (h *ProgressHandler) ValidateBlock(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")
	blockID := c.Params("blockId")

	progress, err := h.progressSvc.ValidateBlock(c.Context(), userID, courseID, blockID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}

// @Summary Validate Section
// @Description Mark a section complete along with its blocks; completes the chapter when it was the last open section
// @Tags progress
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param courseId path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/courses/{courseId}/sections/{sectionId}/validate [post]
func (h *ProgressHandler) ValidateSection(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")
	sectionID := c.Params("sectionId")

	progress, err := h.progressSvc.ValidateSection(c.Context(), userID, courseID, sectionID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}

// @Summary Add Time Spent
// @Description Accumulate study time on the progress record
// @Tags progress
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param courseId path string true "Course ID"
// @Param timeRequest body dto.AddTimeSpentRequest true "Seconds spent"
// @Success 200 {object} shared.Response{data=dto.ProgressResponse}
// @Router /api/v1/courses/{courseId}/progress/time [post]
func (h *ProgressHandler) AddTimeSpent(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	var req dto.AddTimeSpentRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	progress, err := h.progressSvc.AddTimeSpent(c.Context(), userID, courseID, req.Seconds)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}

// @Summary Reset Progress
// @Description Delete the caller's progress record for a course
// @Tags progress
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/courses/{courseId}/progress [delete]
func (h *ProgressHandler) ResetProgress(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	if err := h.progressSvc.Reset(c.Context(), userID, courseID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Navigate Course
// @Description Resolve a cursor position and step through the course content
// @Tags progress
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param navigateRequest body dto.NavigateRequest true "Cursor position and optional direction"
// @Success 200 {object} shared.Response{data=dto.NavigateResponse}
// @Router /api/v1/courses/{courseId}/navigate [post]
func (h *ProgressHandler) Navigate(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var req dto.NavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	tree, err := h.courseSvc.LoadCourseWithStructure(c.Context(), courseID)
	if err != nil {
		return err
	}

	nav := h.newNavigator(tree)
	if err := nav.Locate(req.ChapterIndex, req.SectionIndex, req.BlockIndex); err != nil {
		return err
	}

	moved := false
	switch req.Direction {
	case "prev":
		moved = nav.GoToPrev()
	case "next":
		moved = nav.GoToNext()
	}

	ci, si, bi := nav.Position()
	chapter, section, block := nav.Current()

	resp := dto.NavigateResponse{
		ChapterIndex: ci,
		SectionIndex: si,
		BlockIndex:   bi,
		Moved:        moved,
		HasPrev:      nav.HasPrev(),
		HasNext:      nav.HasNext(),
		Chapter:      chapter,
		Section:      section,
		Block:        block,
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
