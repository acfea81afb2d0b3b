package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// EditorHandler applies structural edits. Every endpoint loads the current
// tree, mutates it in memory, persists the whole structure in one batch and
// returns the freshly reloaded tree, so clients always see persisted state.
type EditorHandler struct {
	courseSvc CourseServiceInterface
	editorSvc EditorServiceInterface
}

func NewEditorHandler(courseSvc CourseServiceInterface, editorSvc EditorServiceInterface) *EditorHandler {
	return &EditorHandler{
		courseSvc: courseSvc,
		editorSvc: editorSvc,
	}
}

func (h *EditorHandler) apply(c *fiber.Ctx, courseID string, mutate func(tree *model.CourseWithStructure) error) error {
	tree, err := h.courseSvc.LoadCourseWithStructure(c.Context(), courseID)
	if err != nil {
		return err
	}

	if err := mutate(tree); err != nil {
		return err
	}

	if err := h.editorSvc.SaveStructure(c.Context(), tree); err != nil {
		return err
	}

	reloaded, err := h.courseSvc.LoadCourseWithStructure(c.Context(), courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", reloaded)
}

// @Summary Add Chapter
// @Description Append a chapter to the course
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param addRequest body dto.AddChapterRequest true "Chapter details"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/chapters [post]
func (h *EditorHandler) AddChapter(c *fiber.Ctx) error {
	var req dto.AddChapterRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		h.editorSvc.AddChapter(tree, req.Title)
		return nil
	})
}

// @Summary Delete Chapter
// @Description Remove a chapter and all of its sections and blocks
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/chapters/{chapterId} [delete]
func (h *EditorHandler) DeleteChapter(c *fiber.Ctx) error {
	chapterID := c.Params("chapterId")

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		_, err := h.editorSvc.DeleteChapter(tree, chapterID, "")
		return err
	})
}

// @Summary Reorder Chapters
// @Description Reorder the course's chapters; the ID list must be a permutation of the existing chapters
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param reorderRequest body dto.ReorderRequest true "Ordered chapter IDs"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/chapters/reorder [put]
func (h *EditorHandler) ReorderChapters(c *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		return h.editorSvc.ReorderChapters(tree, req.OrderedIDs)
	})
}

// @Summary Add Section
// @Description Append a section to a chapter
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param addRequest body dto.AddSectionRequest true "Section details"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/sections [post]
func (h *EditorHandler) AddSection(c *fiber.Ctx) error {
	var req dto.AddSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		_, err := h.editorSvc.AddSection(tree, req.ChapterID, req.Title)
		return err
	})
}

// @Summary Delete Section
// @Description Remove a section and its blocks
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/sections/{sectionId} [delete]
func (h *EditorHandler) DeleteSection(c *fiber.Ctx) error {
	sectionID := c.Params("sectionId")

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		_, err := h.editorSvc.DeleteSection(tree, sectionID, "")
		return err
	})
}

// @Summary Reorder Sections
// @Description Reorder the sections of a chapter
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Param reorderRequest body dto.ReorderRequest true "Ordered section IDs"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/chapters/{chapterId}/sections/reorder [put]
func (h *EditorHandler) ReorderSections(c *fiber.Ctx) error {
	chapterID := c.Params("chapterId")

	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		return h.editorSvc.ReorderSections(tree, chapterID, req.OrderedIDs)
	})
}

// @Summary Move Section
// @Description Move a section to another chapter, optionally at a position
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Param moveRequest body dto.MoveSectionRequest true "Destination"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/sections/{sectionId}/move [put]
func (h *EditorHandler) MoveSection(c *fiber.Ctx) error {
	sectionID := c.Params("sectionId")

	var req dto.MoveSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		return h.editorSvc.MoveSection(tree, sectionID, req.ToChapterID, req.Position)
	})
}

// @Summary Add Content Block
// @Description Append a content block to a section
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param addRequest body dto.AddBlockRequest true "Block details"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/blocks [post]
func (h *EditorHandler) AddBlock(c *fiber.Ctx) error {
	var req dto.AddBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		_, err := h.editorSvc.AddBlock(tree, req.SectionID, req)
		return err
	})
}

// @Summary Update Content Block
// @Description Update a block's content, formatting or media
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param blockId path string true "Block ID"
// @Param updateRequest body dto.UpdateBlockRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/blocks/{blockId} [put]
func (h *EditorHandler) UpdateBlock(c *fiber.Ctx) error {
	blockID := c.Params("blockId")

	var req dto.UpdateBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		_, err := h.editorSvc.UpdateBlock(tree, blockID, req)
		return err
	})
}

// @Summary Delete Content Block
// @Description Remove a content block from its section
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param blockId path string true "Block ID"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/blocks/{blockId} [delete]
func (h *EditorHandler) DeleteBlock(c *fiber.Ctx) error {
	blockID := c.Params("blockId")

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		_, err := h.editorSvc.DeleteBlock(tree, blockID, "")
		return err
	})
}

// @Summary Reorder Content Blocks
// @Description Reorder the blocks of a section
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param sectionId path string true "Section ID"
// @Param reorderRequest body dto.ReorderRequest true "Ordered block IDs"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/sections/{sectionId}/blocks/reorder [put]
func (h *EditorHandler) ReorderBlocks(c *fiber.Ctx) error {
	sectionID := c.Params("sectionId")

	var req dto.ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		return h.editorSvc.ReorderBlocks(tree, sectionID, req.OrderedIDs)
	})
}

// @Summary Move Content Block
// @Description Move a block to another section, optionally at a position
// @Tags editor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param blockId path string true "Block ID"
// @Param moveRequest body dto.MoveBlockRequest true "Destination"
// @Success 200 {object} shared.Response{data=model.CourseWithStructure}
// @Router /api/v1/courses/{courseId}/blocks/{blockId}/move [put]
func (h *EditorHandler) MoveBlock(c *fiber.Ctx) error {
	blockID := c.Params("blockId")

	var req dto.MoveBlockRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	return h.apply(c, c.Params("courseId"), func(tree *model.CourseWithStructure) error {
		return h.editorSvc.MoveBlock(tree, blockID, req.ToSectionID, req.Position)
	})
}
