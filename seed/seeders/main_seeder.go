package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// 1. Instructors first (courses reference them)
	instructorSeeder := NewInstructorSeeder(s.db)
	if err := instructorSeeder.SeedInstructors(); err != nil {
		log.Printf("Instructor seeding failed: %v", err)
		return err
	}

	// 2. The demo course with its full structure
	courseSeeder := NewCourseSeeder(s.db)
	if err := courseSeeder.SeedCourses(); err != nil {
		log.Printf("Course seeding failed: %v", err)
		return err
	}

	// 3. Quiz questions for the quizzed chapters
	questionSeeder := NewQuestionSeeder(s.db)
	if err := questionSeeder.SeedQuestions(); err != nil {
		log.Printf("Question seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedInstructorsOnly() error {
	return NewInstructorSeeder(s.db).SeedInstructors()
}

func (s *MainSeeder) SeedCoursesOnly() error {
	return NewCourseSeeder(s.db).SeedCourses()
}

func (s *MainSeeder) SeedQuestionsOnly() error {
	return NewQuestionSeeder(s.db).SeedQuestions()
}

// putDocument upserts an encoded document into the generic documents table.
func putDocument(db *gorm.DB, collection, id string, v interface{}) error {
	data, err := shared.Marshal(v)
	if err != nil {
		return err
	}

	doc := model.Document{
		Collection: collection,
		DocID:      id,
		Data:       data,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&doc).Error
}
