package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

type QuestionSeeder struct {
	db *gorm.DB
}

func NewQuestionSeeder(db *gorm.DB) *QuestionSeeder {
	return &QuestionSeeder{db: db}
}

// SeedQuestions fills the question pool for the demo course's quizzed chapter.
func (s *QuestionSeeder) SeedQuestions() error {
	now := time.Now()

	questions := []model.QuizQuestion{
		{
			ID:        "question-demo-1",
			ChapterID: "chapter-demo-2",
			CourseID:  "course-demo-1",
			Type:      "multiple_choice",
			Question:  "Which of these should you never use during an evacuation?",
			Options:   []string{"Stairs", "Elevators", "Fire exits", "Corridors"},
			Answer:    "Elevators",
			Points:    1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "question-demo-2",
			ChapterID: "chapter-demo-2",
			CourseID:  "course-demo-1",
			Type:      "multiple_choice",
			Question:  "How many exits should you be able to locate from your workstation?",
			Options:   []string{"One", "Two", "Three", "Four"},
			Answer:    "Two",
			Points:    1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "question-demo-3",
			ChapterID: "chapter-demo-2",
			CourseID:  "course-demo-1",
			Type:      "fill_blank",
			Question:  "Hazards must be reported to your ____.",
			Answer:    "supervisor",
			Points:    1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "question-demo-4",
			ChapterID: "chapter-demo-2",
			CourseID:  "course-demo-1",
			Type:      "multiple_choice",
			Question:  "When should you re-enter a building after an evacuation?",
			Options:   []string{"After five minutes", "When the alarm stops", "When cleared by responders", "Immediately"},
			Answer:    "When cleared by responders",
			Points:    2,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for _, question := range questions {
		if err := putDocument(s.db, shared.CollectionQuizQuestions, question.ID, question); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d quiz questions", len(questions))
	return nil
}
