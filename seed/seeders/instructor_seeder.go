package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

type InstructorSeeder struct {
	db *gorm.DB
}

func NewInstructorSeeder(db *gorm.DB) *InstructorSeeder {
	return &InstructorSeeder{db: db}
}

func (s *InstructorSeeder) SeedInstructors() error {
	now := time.Now()

	instructors := []model.Instructor{
		{
			ID:        "instructor-demo-1",
			Name:      "Mai Tran",
			Title:     "Senior Learning Designer",
			Bio:       "Fifteen years building corporate onboarding programs.",
			AvatarURL: "https://cdn.example.com/avatars/mai-tran.png",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "instructor-demo-2",
			Name:      "Jordan Lee",
			Title:     "Compliance Trainer",
			Bio:       "Writes the courses nobody skips.",
			AvatarURL: "https://cdn.example.com/avatars/jordan-lee.png",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for _, instructor := range instructors {
		if err := putDocument(s.db, shared.CollectionInstructors, instructor.ID, instructor); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d instructors", len(instructors))
	return nil
}
