// services/quiz.go
package services

import (
	"context"
	"math/rand"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// QuizService administers chapter quizzes: settings, the question pool,
// attempts and grading. Question generation for onTheFly mode is delegated
// to an injected QuestionSource whose internals are opaque here.
type QuizService struct {
	appContext.DefaultService

	store       DocumentStore
	courseSvc   *CourseService
	progressSvc *ProgressService

	pool      QuestionSource
	generator QuestionSource // optional, onTheFly mode
}

const QUIZ_SVC = "quiz_svc"

func (svc QuizService) Id() string {
	return QUIZ_SVC
}

func (svc *QuizService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *QuizService) Start() error {
	svc.store = svc.Service(GORM_STORE_SVC).(*GormStoreService)
	svc.courseSvc = svc.Service(COURSE_SVC).(*CourseService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.pool = &PoolQuestionSource{store: svc.store}
	return nil
}

// SetGenerator wires the external on-the-fly question generator.
func (svc *QuizService) SetGenerator(g QuestionSource) {
	svc.generator = g
}

// ==================== SETTINGS & POOL ====================

func (svc *QuizService) UpdateQuizSettings(ctx context.Context, courseID, chapterID string, req dto.QuizSettingsRequest) (*model.Chapter, error) {
	var chapter model.Chapter
	if err := svc.store.Get(ctx, shared.CollectionChapters, chapterID, &chapter); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "chapter not found")
		}
		return nil, err
	}
	if chapter.CourseID != courseID {
		return nil, shared.NewBadRequestError(nil, "chapter does not belong to course")
	}

	settings := model.QuizSettings{
		PassingScore:            req.PassingScore,
		TimeLimit:               req.TimeLimit,
		QuestionCount:           req.QuestionCount,
		AttemptsAllowed:         req.AttemptsAllowed,
		IsRandomized:            req.IsRandomized,
		ShowFeedbackImmediately: req.ShowFeedbackImmediately,
		GenerationMode:          req.GenerationMode,
	}

	err := svc.store.Update(ctx, shared.CollectionChapters, chapterID, map[string]interface{}{
		"hasQuiz":      req.HasQuiz,
		"quizSettings": settings,
		"updatedAt":    time.Now(),
	})
	if err != nil {
		return nil, err
	}

	svc.courseSvc.InvalidateTree(ctx, courseID)

	chapter.HasQuiz = req.HasQuiz
	chapter.QuizSettings = &settings
	return &chapter, nil
}

func (svc *QuizService) AddQuestion(ctx context.Context, courseID, chapterID string, req dto.AddQuestionRequest) (*model.QuizQuestion, error) {
	id, _ := uuid.NewV7()
	now := time.Now()

	points := req.Points
	if points == 0 {
		points = 1
	}

	question := &model.QuizQuestion{
		ID:        id.String(),
		ChapterID: chapterID,
		CourseID:  courseID,
		Type:      req.Type,
		Question:  req.Question,
		Options:   req.Options,
		Answer:    req.Answer,
		Points:    points,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := svc.store.Set(ctx, shared.CollectionQuizQuestions, question.ID, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (svc *QuizService) DeleteQuestion(ctx context.Context, questionID string) error {
	return svc.store.Delete(ctx, shared.CollectionQuizQuestions, questionID)
}

// ==================== ATTEMPTS ====================

func (svc *QuizService) StartAttempt(ctx context.Context, userID, courseID, chapterID string) (*dto.AttemptResponse, error) {
	var chapter model.Chapter
	if err := svc.store.Get(ctx, shared.CollectionChapters, chapterID, &chapter); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "chapter not found")
		}
		return nil, err
	}
	if !chapter.HasQuiz || chapter.QuizSettings == nil {
		return nil, shared.NewBadRequestError(nil, "chapter has no quiz")
	}
	settings := *chapter.QuizSettings

	if settings.AttemptsAllowed > 0 {
		used, err := svc.submittedAttemptCount(ctx, userID, chapterID)
		if err != nil {
			return nil, err
		}
		if used >= settings.AttemptsAllowed {
			return nil, shared.NewConflictError(nil, "no attempts remaining for this quiz")
		}
	}

	questions, err := svc.sourceQuestions(ctx, &chapter, settings)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, shared.NewValidationError(nil, "no questions available for this quiz")
	}

	id, _ := uuid.NewV7()
	attempt := &model.QuizAttempt{
		ID:        id.String(),
		UserID:    userID,
		CourseID:  courseID,
		ChapterID: chapterID,
		Questions: questions,
		StartedAt: time.Now(),
	}
	for _, q := range questions {
		attempt.TotalPoints += q.Points
	}

	if err := svc.store.Set(ctx, shared.CollectionQuizAttempts, attempt.ID, attempt); err != nil {
		return nil, err
	}
	quizAttemptsTotal.Inc()

	return svc.mapAttemptToResponse(attempt, settings.TimeLimit), nil
}

// SubmitAttempt grades the answers against the attempt's question snapshot
// and, on a pass, records the chapter quiz in the progress record.
func (svc *QuizService) SubmitAttempt(ctx context.Context, userID, attemptID string, answers map[string]interface{}) (*dto.SubmitAttemptResponse, error) {
	var attempt model.QuizAttempt
	if err := svc.store.Get(ctx, shared.CollectionQuizAttempts, attemptID, &attempt); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "attempt not found")
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, shared.NewNotFoundError(nil, "attempt not found")
	}
	if attempt.Submitted {
		return nil, shared.NewConflictError(nil, "attempt already submitted")
	}

	var chapter model.Chapter
	if err := svc.store.Get(ctx, shared.CollectionChapters, attempt.ChapterID, &chapter); err != nil {
		return nil, err
	}
	passingScore := 0
	showFeedback := false
	if chapter.QuizSettings != nil {
		passingScore = chapter.QuizSettings.PassingScore
		showFeedback = chapter.QuizSettings.ShowFeedbackImmediately
	}

	earned := 0
	feedback := make(map[string]bool, len(attempt.Questions))
	for _, q := range attempt.Questions {
		answer, given := answers[q.ID]
		correct := given && isAnswerCorrect(q, answer)
		feedback[q.ID] = correct
		if correct {
			earned += q.Points
		}
	}

	score := 100
	if attempt.TotalPoints > 0 {
		score = (earned * 100) / attempt.TotalPoints
	}
	passed := score >= passingScore

	now := time.Now()
	attempt.Answers = answers
	attempt.Score = score
	attempt.EarnedPoints = earned
	attempt.Passed = passed
	attempt.Submitted = true
	attempt.SubmittedAt = &now

	if err := svc.store.Set(ctx, shared.CollectionQuizAttempts, attempt.ID, attempt); err != nil {
		return nil, err
	}

	if passed {
		if _, err := svc.progressSvc.MarkQuizCompleted(ctx, userID, attempt.CourseID, attempt.ChapterID); err != nil {
			return nil, err
		}
	}

	resp := &dto.SubmitAttemptResponse{
		AttemptID:    attempt.ID,
		Score:        score,
		Passed:       passed,
		EarnedPoints: earned,
		TotalPoints:  attempt.TotalPoints,
		PassingScore: passingScore,
	}
	if showFeedback {
		resp.Feedback = feedback
	}
	return resp, nil
}

func (svc *QuizService) ListAttempts(ctx context.Context, userID, chapterID string) ([]dto.AttemptSummary, error) {
	attempts := []model.QuizAttempt{}
	where := []Where{
		{Field: "userId", Op: "==", Value: userID},
		{Field: "chapterId", Op: "==", Value: chapterID},
	}
	if err := svc.store.Query(ctx, shared.CollectionQuizAttempts, where, "startedAt", &attempts); err != nil {
		return nil, err
	}

	out := make([]dto.AttemptSummary, len(attempts))
	for i, a := range attempts {
		out[i] = dto.AttemptSummary{
			ID:          a.ID,
			ChapterID:   a.ChapterID,
			Score:       a.Score,
			Passed:      a.Passed,
			Submitted:   a.Submitted,
			StartedAt:   a.StartedAt,
			SubmittedAt: a.SubmittedAt,
		}
	}
	return out, nil
}

func (svc *QuizService) submittedAttemptCount(ctx context.Context, userID, chapterID string) (int, error) {
	attempts := []model.QuizAttempt{}
	where := []Where{
		{Field: "userId", Op: "==", Value: userID},
		{Field: "chapterId", Op: "==", Value: chapterID},
	}
	if err := svc.store.Query(ctx, shared.CollectionQuizAttempts, where, "", &attempts); err != nil {
		return 0, err
	}

	count := 0
	for _, a := range attempts {
		if a.Submitted {
			count++
		}
	}
	return count, nil
}

func (svc *QuizService) sourceQuestions(ctx context.Context, chapter *model.Chapter, settings model.QuizSettings) ([]model.QuizQuestion, error) {
	switch settings.GenerationMode {
	case shared.QuizModeOnTheFly:
		if svc.generator == nil {
			return nil, shared.NewValidationError(nil, "onTheFly quiz mode requires a question generator")
		}
		return svc.generator.Questions(ctx, chapter, settings)
	default:
		return svc.pool.Questions(ctx, chapter, settings)
	}
}

func (svc *QuizService) mapAttemptToResponse(attempt *model.QuizAttempt, timeLimit int) *dto.AttemptResponse {
	questions := make([]dto.QuestionResponse, len(attempt.Questions))
	for i, q := range attempt.Questions {
		// Answers never leave the server before submission.
		questions[i] = dto.QuestionResponse{
			ID:       q.ID,
			Type:     q.Type,
			Question: q.Question,
			Options:  q.Options,
			Points:   q.Points,
			Metadata: q.Metadata,
		}
	}

	return &dto.AttemptResponse{
		ID:        attempt.ID,
		ChapterID: attempt.ChapterID,
		Questions: questions,
		TimeLimit: timeLimit,
		StartedAt: attempt.StartedAt,
	}
}

// isAnswerCorrect compares a submitted answer with the stored one. String
// answers compare case-insensitively after trimming; list answers compare by
// their JSON form.
func isAnswerCorrect(question model.QuizQuestion, userAnswer interface{}) bool {
	switch question.Type {
	case "multiple_choice", "fill_blank":
		correctAnswer, ok1 := question.Answer.(string)
		userAnswerStr, ok2 := userAnswer.(string)
		if ok1 && ok2 {
			return strings.EqualFold(strings.TrimSpace(correctAnswer), strings.TrimSpace(userAnswerStr))
		}
		return question.Answer == userAnswer
	case "drag_drop", "connect":
		correctJSON, _ := shared.Marshal(question.Answer)
		userJSON, _ := shared.Marshal(userAnswer)
		return string(correctJSON) == string(userJSON)
	}

	return false
}

// PoolQuestionSource serves questions from the quiz_questions collection,
// optionally shuffled, capped at the configured question count.
type PoolQuestionSource struct {
	store DocumentStore
}

func (s *PoolQuestionSource) Questions(ctx context.Context, chapter *model.Chapter, settings model.QuizSettings) ([]model.QuizQuestion, error) {
	questions := []model.QuizQuestion{}
	where := []Where{{Field: "chapterId", Op: "==", Value: chapter.ID}}
	if err := s.store.Query(ctx, shared.CollectionQuizQuestions, where, "", &questions); err != nil {
		return nil, err
	}

	if settings.IsRandomized {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	if settings.QuestionCount > 0 && len(questions) > settings.QuestionCount {
		questions = questions[:settings.QuestionCount]
	}
	return questions, nil
}

var _ QuestionSource = (*PoolQuestionSource)(nil)
