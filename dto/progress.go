package dto

// ==================== PROGRESS DTOs ====================

// ProgressMetrics carries the derived display numbers. The percentage is
// computed against sections plus quizzed chapters, never persisted.
type ProgressMetrics struct {
	TotalSections        int    `json:"total_sections"`
	TotalQuizzes         int    `json:"total_quizzes"`
	TotalToComplete      int    `json:"total_to_complete"`
	CompletedCount       int    `json:"completed_count"`
	ProgressPercentage   int    `json:"progress_percentage"`
	EstimatedMinutesLeft int    `json:"estimated_minutes_left"`
	Status               string `json:"status"`
}

type ProgressResponse struct {
	UserID             string   `json:"user_id"`
	CourseID           string   `json:"course_id"`
	CompletedChapters  []string `json:"completed_chapters"`
	CompletedSections  []string `json:"completed_sections"`
	CompletedBlocks    []string `json:"completed_blocks"`
	CompletedQuizzes   []string `json:"completed_quizzes"`
	TimeSpent          int      `json:"time_spent"`
	LastChapterID      string   `json:"last_chapter_id,omitempty"`
	LastSectionID      string   `json:"last_section_id,omitempty"`
	LastContentBlockID string   `json:"last_content_block_id,omitempty"`
	Status             string   `json:"status"`

	Metrics ProgressMetrics `json:"metrics"`
}

type AddTimeSpentRequest struct {
	Seconds int `json:"seconds" validate:"required,gt=0"`
}

func (r AddTimeSpentRequest) Validate() error {
	return GetValidator().Struct(r)
}
