package services

import (
	"testing"

	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

func calculatorTree() *model.CourseWithStructure {
	// 2 sections + 1 quizzed chapter = 3 completion units.
	return &model.CourseWithStructure{
		Course: model.Course{ID: "crs1"},
		Chapters: []model.ChapterWithSections{
			{
				Chapter: model.Chapter{ID: "ch1"},
				Sections: []model.SectionWithBlocks{
					{Section: model.Section{ID: "s1", ChapterID: "ch1"}},
				},
			},
			{
				Chapter: model.Chapter{ID: "ch2", HasQuiz: true},
				Sections: []model.SectionWithBlocks{
					{Section: model.Section{ID: "s2", ChapterID: "ch2"}},
				},
			},
		},
	}
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name           string
		progress       model.UserCourseProgress
		wantPercentage int
		wantRemaining  int
		wantStatus     string
	}{
		{
			name:           "nothing completed",
			progress:       model.UserCourseProgress{},
			wantPercentage: 0,
			wantRemaining:  6,
			wantStatus:     shared.ProgressNotStarted,
		},
		{
			name: "blocks seen but no sections validated",
			progress: model.UserCourseProgress{
				CompletedBlocks: []string{"b1"},
			},
			wantPercentage: 0,
			wantRemaining:  6,
			wantStatus:     shared.ProgressInProgress,
		},
		{
			name: "two of three units",
			progress: model.UserCourseProgress{
				CompletedSections: []string{"s1", "s2"},
			},
			wantPercentage: 67,
			wantRemaining:  2,
			wantStatus:     shared.ProgressInProgress,
		},
		{
			name: "everything completed",
			progress: model.UserCourseProgress{
				CompletedSections: []string{"s1", "s2"},
				CompletedQuizzes:  []string{"ch2"},
			},
			wantPercentage: 100,
			wantRemaining:  0,
			wantStatus:     shared.ProgressCompleted,
		},
		{
			name: "time spent alone marks in-progress",
			progress: model.UserCourseProgress{
				TimeSpent: 30,
			},
			wantPercentage: 0,
			wantRemaining:  6,
			wantStatus:     shared.ProgressInProgress,
		},
	}

	tree := calculatorTree()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := ComputeProgress(tree, &tt.progress)

			if metrics.TotalToComplete != 3 {
				t.Errorf("TotalToComplete = %d, want 3", metrics.TotalToComplete)
			}
			if metrics.ProgressPercentage != tt.wantPercentage {
				t.Errorf("ProgressPercentage = %d, want %d", metrics.ProgressPercentage, tt.wantPercentage)
			}
			if metrics.EstimatedMinutesLeft != tt.wantRemaining {
				t.Errorf("EstimatedMinutesLeft = %d, want %d", metrics.EstimatedMinutesLeft, tt.wantRemaining)
			}
			if metrics.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", metrics.Status, tt.wantStatus)
			}
		})
	}
}

func TestComputeProgressEmptyCourse(t *testing.T) {
	tree := &model.CourseWithStructure{Course: model.Course{ID: "empty"}}

	metrics := ComputeProgress(tree, &model.UserCourseProgress{})

	if metrics.ProgressPercentage != 0 {
		t.Errorf("empty course percentage must be 0, got %d", metrics.ProgressPercentage)
	}
	if metrics.Status != shared.ProgressNotStarted {
		t.Errorf("empty course status = %q", metrics.Status)
	}
}

func TestComputeProgressIgnoresStaleCompletedIDs(t *testing.T) {
	// One section and no quizzes: the record still carries ids for sections
	// an editor has since deleted.
	tree := &model.CourseWithStructure{
		Course: model.Course{ID: "crs1"},
		Chapters: []model.ChapterWithSections{
			{
				Chapter: model.Chapter{ID: "ch1"},
				Sections: []model.SectionWithBlocks{
					{Section: model.Section{ID: "s1", ChapterID: "ch1"}},
				},
			},
		},
	}
	progress := &model.UserCourseProgress{
		CompletedSections: []string{"s1", "sDel1", "sDel2"},
		CompletedQuizzes:  []string{"chGone"},
	}

	metrics := ComputeProgress(tree, progress)

	if metrics.CompletedCount != 1 {
		t.Errorf("CompletedCount = %d, want 1", metrics.CompletedCount)
	}
	if metrics.ProgressPercentage != 100 {
		t.Errorf("ProgressPercentage = %d, want 100", metrics.ProgressPercentage)
	}
	if metrics.EstimatedMinutesLeft != 0 {
		t.Errorf("EstimatedMinutesLeft = %d, want 0", metrics.EstimatedMinutesLeft)
	}

	// Deleting the one live section must drop the percentage back to zero,
	// not leave the record reading complete off stale ids alone.
	tree.Chapters[0].Sections = nil
	metrics = ComputeProgress(tree, progress)
	if metrics.ProgressPercentage != 0 || metrics.CompletedCount != 0 {
		t.Errorf("stale ids alone counted: %+v", metrics)
	}
}

func TestComputeProgressIgnoresBlocksInDenominator(t *testing.T) {
	tree := calculatorTree()
	tree.Chapters[0].Sections[0].ContentBlocks = []model.ContentBlock{
		{ID: "b1"}, {ID: "b2"}, {ID: "b3"},
	}

	metrics := ComputeProgress(tree, &model.UserCourseProgress{
		CompletedBlocks: []string{"b1", "b2", "b3"},
	})

	if metrics.CompletedCount != 0 {
		t.Errorf("blocks must not count toward completion units, got %d", metrics.CompletedCount)
	}
}
