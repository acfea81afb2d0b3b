package model

import "time"

// QuizQuestion lives in the quiz_questions pool collection. Answer is kept
// loosely typed: a string for single-answer questions, a list for matching
// and ordering questions.
type QuizQuestion struct {
	ID        string                 `json:"id"`
	ChapterID string                 `json:"chapterId"`
	CourseID  string                 `json:"courseId"`
	Type      string                 `json:"type"` // multiple_choice, fill_blank, drag_drop, connect
	Question  string                 `json:"question"`
	Options   []string               `json:"options,omitempty"`
	Answer    interface{}            `json:"answer"`
	Points    int                    `json:"points"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// QuizAttempt snapshots the question set served to the user so grading is
// stable even if the pool changes mid-attempt.
type QuizAttempt struct {
	ID           string                 `json:"id"`
	UserID       string                 `json:"userId"`
	CourseID     string                 `json:"courseId"`
	ChapterID    string                 `json:"chapterId"`
	Questions    []QuizQuestion         `json:"questions"`
	Answers      map[string]interface{} `json:"answers,omitempty"`
	Score        int                    `json:"score"`
	EarnedPoints int                    `json:"earnedPoints"`
	TotalPoints  int                    `json:"totalPoints"`
	Passed       bool                   `json:"passed"`
	Submitted    bool                   `json:"submitted"`
	StartedAt    time.Time              `json:"startedAt"`
	SubmittedAt  *time.Time             `json:"submittedAt,omitempty"`
}
