// services/calculator.go
package services

import (
	"math"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// Minutes charged per outstanding completion unit when estimating time left.
const minutesPerUnit = 2

// ComputeProgress derives the display metrics for a (tree, record) pair.
// The percentage denominator counts sections plus chapters carrying a quiz;
// individual blocks are tracked for fine-grained seen state but do not move
// the published percentage. Only completed ids still present in the tree
// count, so ids left behind by structure edits never push the percentage
// past 100.
func ComputeProgress(tree *model.CourseWithStructure, progress *model.UserCourseProgress) dto.ProgressMetrics {
	totalSections := tree.TotalSections()
	totalQuizzes := tree.TotalQuizzes()
	totalToComplete := totalSections + totalQuizzes

	completed := 0
	for i := range tree.Chapters {
		chapter := &tree.Chapters[i]
		for j := range chapter.Sections {
			if containsStr(progress.CompletedSections, chapter.Sections[j].ID) {
				completed++
			}
		}
		if chapter.HasQuiz && containsStr(progress.CompletedQuizzes, chapter.ID) {
			completed++
		}
	}

	percentage := 0
	if totalToComplete > 0 {
		percentage = int(math.Round(100 * float64(completed) / float64(totalToComplete)))
	}

	remaining := totalToComplete - completed

	return dto.ProgressMetrics{
		TotalSections:        totalSections,
		TotalQuizzes:         totalQuizzes,
		TotalToComplete:      totalToComplete,
		CompletedCount:       completed,
		ProgressPercentage:   percentage,
		EstimatedMinutesLeft: remaining * minutesPerUnit,
		Status:               deriveStatus(completed, totalToComplete, progress),
	}
}

// deriveStatus maps the record onto not-started / in-progress / completed.
// A record with any seen blocks or time spent counts as in-progress even
// while the percentage is still zero.
func deriveStatus(completed, total int, progress *model.UserCourseProgress) string {
	if total > 0 && completed >= total {
		return shared.ProgressCompleted
	}
	if completed > 0 || len(progress.CompletedBlocks) > 0 || progress.TimeSpent > 0 {
		return shared.ProgressInProgress
	}
	return shared.ProgressNotStarted
}

// chapterComplete reports whether every section of the chapter is in the
// completed set. A chapter with no sections never cascades to completed.
func chapterComplete(chapter *model.ChapterWithSections, completedSections []string) bool {
	if len(chapter.Sections) == 0 {
		return false
	}
	for i := range chapter.Sections {
		if !containsStr(completedSections, chapter.Sections[i].ID) {
			return false
		}
	}
	return true
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
