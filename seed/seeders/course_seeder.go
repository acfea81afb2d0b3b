package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

type CourseSeeder struct {
	db *gorm.DB
}

func NewCourseSeeder(db *gorm.DB) *CourseSeeder {
	return &CourseSeeder{db: db}
}

// SeedCourses writes a published demo course with two chapters, one of them
// quizzed, so a fresh install has something to browse.
func (s *CourseSeeder) SeedCourses() error {
	now := time.Now()

	course := model.Course{
		ID:            "course-demo-1",
		Title:         "Workplace Safety Essentials",
		Description:   "Mandatory onboarding course covering the basics of workplace safety.",
		Status:        shared.CourseStatusPublished,
		InstructorID:  "instructor-demo-1",
		ChaptersOrder: []string{"chapter-demo-1", "chapter-demo-2"},
		AssignedTo:    []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	chapters := []model.Chapter{
		{
			ID:            "chapter-demo-1",
			CourseID:      course.ID,
			Title:         "Getting Started",
			Order:         0,
			SectionsOrder: []string{"section-demo-1", "section-demo-2"},
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		{
			ID:            "chapter-demo-2",
			CourseID:      course.ID,
			Title:         "Emergency Procedures",
			Order:         1,
			SectionsOrder: []string{"section-demo-3"},
			HasQuiz:       true,
			QuizSettings: &model.QuizSettings{
				PassingScore:            70,
				TimeLimit:               10,
				QuestionCount:           3,
				AttemptsAllowed:         3,
				IsRandomized:            true,
				ShowFeedbackImmediately: true,
				GenerationMode:          shared.QuizModePool,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	sections := []model.Section{
		{
			ID:                 "section-demo-1",
			ChapterID:          "chapter-demo-1",
			CourseID:           course.ID,
			Title:              "Why Safety Matters",
			Order:              0,
			ContentBlocksOrder: []string{"block-demo-1", "block-demo-2"},
			CreatedAt:          now,
			UpdatedAt:          now,
		},
		{
			ID:                 "section-demo-2",
			ChapterID:          "chapter-demo-1",
			CourseID:           course.ID,
			Title:              "Your Responsibilities",
			Order:              1,
			ContentBlocksOrder: []string{"block-demo-3"},
			CreatedAt:          now,
			UpdatedAt:          now,
		},
		{
			ID:                 "section-demo-3",
			ChapterID:          "chapter-demo-2",
			CourseID:           course.ID,
			Title:              "Evacuation Basics",
			Order:              0,
			ContentBlocksOrder: []string{"block-demo-4", "block-demo-5"},
			CreatedAt:          now,
			UpdatedAt:          now,
		},
	}

	blocks := []model.ContentBlock{
		{
			ID:        "block-demo-1",
			SectionID: "section-demo-1",
			ChapterID: "chapter-demo-1",
			CourseID:  course.ID,
			Type:      shared.BlockTypeText,
			Content:   "## Welcome\n\nSafety starts with awareness. This course takes about twenty minutes.",
			Order:     0,
			Formatting: &model.BlockFormatting{
				Alignment: "left",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "block-demo-2",
			SectionID: "section-demo-1",
			ChapterID: "chapter-demo-1",
			CourseID:  course.ID,
			Type:      shared.BlockTypeMedia,
			Order:     1,
			Media: &model.BlockMedia{
				Type:     shared.MediaTypeVideo,
				URL:      "https://cdn.example.com/media/safety-intro.mp4",
				Duration: 90,
				MimeType: "video/mp4",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "block-demo-3",
			SectionID: "section-demo-2",
			ChapterID: "chapter-demo-1",
			CourseID:  course.ID,
			Type:      shared.BlockTypeText,
			Content:   "Every employee is responsible for reporting hazards to their supervisor.",
			Order:     0,
			Formatting: &model.BlockFormatting{
				Bold: true,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "block-demo-4",
			SectionID: "section-demo-3",
			ChapterID: "chapter-demo-2",
			CourseID:  course.ID,
			Type:      shared.BlockTypeText,
			Content:   "Know your two nearest exits. Never use elevators during an evacuation.",
			Order:     0,
			Formatting: &model.BlockFormatting{
				List: true,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "block-demo-5",
			SectionID: "section-demo-3",
			ChapterID: "chapter-demo-2",
			CourseID:  course.ID,
			Type:      shared.BlockTypeEmbed,
			Content:   "https://maps.example.com/embed/evacuation-routes",
			Order:     1,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := putDocument(s.db, shared.CollectionCourses, course.ID, course); err != nil {
		return err
	}
	for _, chapter := range chapters {
		if err := putDocument(s.db, shared.CollectionChapters, chapter.ID, chapter); err != nil {
			return err
		}
	}
	for _, section := range sections {
		if err := putDocument(s.db, shared.CollectionSections, section.ID, section); err != nil {
			return err
		}
	}
	for _, block := range blocks {
		if err := putDocument(s.db, shared.CollectionContentBlocks, block.ID, block); err != nil {
			return err
		}
	}

	log.Printf("Seeded course %q with %d chapters, %d sections, %d blocks", course.Title, len(chapters), len(sections), len(blocks))
	return nil
}
