package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/shared"
)

type CourseHandler struct {
	courseSvc CourseServiceInterface
}

func NewCourseHandler(courseSvc CourseServiceInterface) *CourseHandler {
	return &CourseHandler{
		courseSvc: courseSvc,
	}
}

// @Summary Create Course
// @Description Create a new draft course
// @Tags course
// @Accept json
// @Produce json
// @Param createRequest body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} shared.Response{data=model.Course}
// @Router /api/v1/courses [post]
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	course, err := h.courseSvc.CreateCourse(c.Context(), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", course)
}

// @Summary List Courses
// @Description List courses, optionally filtered by status
// @Tags course
// @Accept json
// @Produce json
// @Param status query string false "Filter by status (draft, published)"
// @Success 200 {object} shared.Response{data=[]model.Course}
// @Router /api/v1/courses [get]
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	status := c.Query("status")

	courses, err := h.courseSvc.ListCourses(c.Context(), status)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", courses)
}

// @Summary Get Course
// @Description Get course metadata
// @Tags course
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=model.Course}
// @Router /api/v1/courses/{courseId} [get]
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	course, err := h.courseSvc.GetCourse(c.Context(), courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", course)
}

// @Summary Get Course Structure
// @Description Get the full course tree with chapters, sections and content blocks in display order
// @Tags course
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/structure [get]
func (h *CourseHandler) GetCourseStructure(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	tree, err := h.courseSvc.LoadCourseWithStructure(c.Context(), courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", tree)
}

// @Summary Update Course
// @Description Update course metadata fields
// @Tags course
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param updateRequest body dto.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=model.Course}
// @Router /api/v1/courses/{courseId} [put]
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	course, err := h.courseSvc.UpdateCourse(c.Context(), courseID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", course)
}

// @Summary Publish Course
// @Description Move a draft course to published status
// @Tags course
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=model.Course}
// @Router /api/v1/courses/{courseId}/publish [post]
func (h *CourseHandler) PublishCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	course, err := h.courseSvc.PublishCourse(c.Context(), courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", course)
}

// @Summary Assign Course
// @Description Assign a course to one or more companies
// @Tags course
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param assignRequest body dto.AssignCourseRequest true "Company IDs"
// @Success 200 {object} shared.Response{data=model.Course}
// @Router /api/v1/courses/{courseId}/assign [post]
func (h *CourseHandler) AssignCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var req dto.AssignCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	course, err := h.courseSvc.AssignCourse(c.Context(), courseID, req.AssignedTo)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", course)
}

// @Summary Delete Course
// @Description Delete a course and its structure
// @Tags course
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/courses/{courseId} [delete]
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	if err := h.courseSvc.DeleteCourse(c.Context(), courseID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
