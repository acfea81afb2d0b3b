package model

import (
	"fmt"
	"time"
)

// UserCourseProgress is the per-user-per-course progress record, keyed by
// ProgressDocID. Completion sets are deduplicated id lists; the record holds
// no copy of content, only references. Created lazily with empty sets and
// mutated only through the progress service's validate/update operations.
type UserCourseProgress struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	CourseID           string    `json:"courseId"`
	CompletedChapters  []string  `json:"completedChapters"`
	CompletedSections  []string  `json:"completedSections"`
	CompletedBlocks    []string  `json:"completedBlocks"`
	CompletedQuizzes   []string  `json:"completedQuizzes"`
	TimeSpent          int       `json:"timeSpent"` // seconds
	LastChapterID      string    `json:"lastChapterId,omitempty"`
	LastSectionID      string    `json:"lastSectionId,omitempty"`
	LastContentBlockID string    `json:"lastContentBlockId,omitempty"`
	Status             string    `json:"status"` // not-started, in-progress, completed
	LastAccessedAt     time.Time `json:"lastAccessedAt"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ProgressDocID builds the composite document key for a user x course record.
func ProgressDocID(userID, courseID string) string {
	return fmt.Sprintf("%s_%s", userID, courseID)
}

// HasCompletedSection reports whether the section id is in the completed set.
func (p *UserCourseProgress) HasCompletedSection(sectionID string) bool {
	return containsID(p.CompletedSections, sectionID)
}

func (p *UserCourseProgress) HasCompletedBlock(blockID string) bool {
	return containsID(p.CompletedBlocks, blockID)
}

func (p *UserCourseProgress) HasCompletedChapter(chapterID string) bool {
	return containsID(p.CompletedChapters, chapterID)
}

func (p *UserCourseProgress) HasCompletedQuiz(chapterID string) bool {
	return containsID(p.CompletedQuizzes, chapterID)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// UnionIDs appends the ids missing from base, preserving order and
// deduplicating. The input slices are not mutated.
func UnionIDs(base []string, add ...string) []string {
	out := make([]string, len(base), len(base)+len(add))
	copy(out, base)
	for _, id := range add {
		if !containsID(out, id) {
			out = append(out, id)
		}
	}
	return out
}
