package dto

import "time"

// ==================== QUIZ DTOs ====================

type QuizSettingsRequest struct {
	HasQuiz                 bool   `json:"has_quiz"`
	PassingScore            int    `json:"passing_score" validate:"gte=0,lte=100"`
	TimeLimit               int    `json:"time_limit" validate:"gte=0"`
	QuestionCount           int    `json:"question_count" validate:"gte=0"`
	AttemptsAllowed         int    `json:"attempts_allowed" validate:"gte=0"`
	IsRandomized            bool   `json:"is_randomized"`
	ShowFeedbackImmediately bool   `json:"show_feedback_immediately"`
	GenerationMode          string `json:"generation_mode" validate:"required,quiz_mode"`
}

func (r QuizSettingsRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AddQuestionRequest struct {
	Type     string                 `json:"type" validate:"required,oneof=multiple_choice fill_blank drag_drop connect"`
	Question string                 `json:"question" validate:"required"`
	Options  []string               `json:"options,omitempty"`
	Answer   interface{}            `json:"answer" validate:"required"`
	Points   int                    `json:"points" validate:"gte=0"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (r AddQuestionRequest) Validate() error {
	return GetValidator().Struct(r)
}

// QuestionResponse is a question as served to a learner, with the answer
// stripped.
type QuestionResponse struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Question string                 `json:"question"`
	Options  []string               `json:"options,omitempty"`
	Points   int                    `json:"points"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type AttemptResponse struct {
	ID        string             `json:"id"`
	ChapterID string             `json:"chapter_id"`
	Questions []QuestionResponse `json:"questions"`
	TimeLimit int                `json:"time_limit"`
	StartedAt time.Time          `json:"started_at"`
}

type SubmitAttemptRequest struct {
	Answers map[string]interface{} `json:"answers" validate:"required"`
}

func (r SubmitAttemptRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SubmitAttemptResponse struct {
	AttemptID    string          `json:"attempt_id"`
	Score        int             `json:"score"`
	Passed       bool            `json:"passed"`
	EarnedPoints int             `json:"earned_points"`
	TotalPoints  int             `json:"total_points"`
	PassingScore int             `json:"passing_score"`
	Feedback     map[string]bool `json:"feedback,omitempty"`
}

type AttemptSummary struct {
	ID          string     `json:"id"`
	ChapterID   string     `json:"chapter_id"`
	Score       int        `json:"score"`
	Passed      bool       `json:"passed"`
	Submitted   bool       `json:"submitted"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}
