package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/shared"
)

type QuizHandler struct {
	quizSvc QuizServiceInterface
}

func NewQuizHandler(quizSvc QuizServiceInterface) *QuizHandler {
	return &QuizHandler{
		quizSvc: quizSvc,
	}
}

// @Summary Update Quiz Settings
// @Description Configure the quiz attached to a chapter
// @Tags quiz
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Param settingsRequest body dto.QuizSettingsRequest true "Quiz settings"
// @Success 200 {object} shared.Response{data=model.Chapter}
// @Router /api/v1/courses/{courseId}/chapters/{chapterId}/quiz [put]
func (h *QuizHandler) UpdateQuizSettings(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	chapterID := c.Params("chapterId")

	var req dto.QuizSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	chapter, err := h.quizSvc.UpdateQuizSettings(c.Context(), courseID, chapterID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", chapter)
}

// @Summary Add Quiz Question
// @Description Add a question to a chapter's question pool
// @Tags quiz
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Param questionRequest body dto.AddQuestionRequest true "Question details"
// @Success 201 {object} shared.Response{data=model.QuizQuestion}
// @Router /api/v1/courses/{courseId}/chapters/{chapterId}/quiz/questions [post]
func (h *QuizHandler) AddQuestion(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	chapterID := c.Params("chapterId")

	var req dto.AddQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	question, err := h.quizSvc.AddQuestion(c.Context(), courseID, chapterID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", question)
}

// @Summary Delete Quiz Question
// @Description Remove a question from the pool
// @Tags quiz
// @Accept json
// @Produce json
// @Param questionId path string true "Question ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/quiz/questions/{questionId} [delete]
func (h *QuizHandler) DeleteQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")

	if err := h.quizSvc.DeleteQuestion(c.Context(), questionID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Start Quiz Attempt
// @Description Start an attempt for a chapter quiz; answers are withheld from the served questions
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Success 201 {object} shared.Response{data=dto.AttemptResponse}
// @Router /api/v1/courses/{courseId}/chapters/{chapterId}/quiz/attempts [post]
func (h *QuizHandler) StartAttempt(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")
	chapterID := c.Params("chapterId")

	attempt, err := h.quizSvc.StartAttempt(c.Context(), userID, courseID, chapterID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", attempt)
}

// @Summary Submit Quiz Attempt
// @Description Submit answers for grading; a pass records the chapter quiz as completed
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param attemptId path string true "Attempt ID"
// @Param submitRequest body dto.SubmitAttemptRequest true "Answers keyed by question ID"
// @Success 200 {object} shared.Response{data=dto.SubmitAttemptResponse}
// @Router /api/v1/quiz/attempts/{attemptId}/submit [post]
func (h *QuizHandler) SubmitAttempt(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	attemptID := c.Params("attemptId")

	var req dto.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	result, err := h.quizSvc.SubmitAttempt(c.Context(), userID, attemptID, req.Answers)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary List Quiz Attempts
// @Description List the caller's attempts for a chapter quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param courseId path string true "Course ID"
// @Param chapterId path string true "Chapter ID"
// @Success 200 {object} shared.Response{data=[]dto.AttemptSummary}
// @Router /api/v1/courses/{courseId}/chapters/{chapterId}/quiz/attempts [get]
func (h *QuizHandler) ListAttempts(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	chapterID := c.Params("chapterId")

	attempts, err := h.quizSvc.ListAttempts(c.Context(), userID, chapterID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", attempts)
}
