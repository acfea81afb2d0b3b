package services

import (
	"context"
	"testing"

	"github.com/coursefoundry/academy_api/shared"
)

func progressFixture(t *testing.T) (*memStore, *ProgressService) {
	t.Helper()
	store := newMemStore()
	seedCourse(store)
	courseSvc := newTestCourseService(store)
	return store, newTestProgressService(store, courseSvc)
}

func TestGetOrInitCreatesRecordOnce(t *testing.T) {
	_, svc := progressFixture(t)
	ctx := context.Background()

	first, err := svc.GetOrInit(ctx, "u1", "crs1")
	if err != nil {
		t.Fatalf("GetOrInit: %v", err)
	}
	if first.Status != shared.ProgressNotStarted {
		t.Errorf("fresh record status = %q", first.Status)
	}
	if first.CompletedSections == nil || first.CompletedBlocks == nil {
		t.Error("completion sets should initialize empty, not nil")
	}

	second, err := svc.GetOrInit(ctx, "u1", "crs1")
	if err != nil {
		t.Fatalf("second GetOrInit: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second call should return the same record")
	}
}

func TestValidateBlockIdempotent(t *testing.T) {
	_, svc := progressFixture(t)
	ctx := context.Background()

	resp, err := svc.ValidateBlock(ctx, "u1", "crs1", "b1")
	if err != nil {
		t.Fatalf("ValidateBlock: %v", err)
	}
	if len(resp.CompletedBlocks) != 1 || resp.CompletedBlocks[0] != "b1" {
		t.Fatalf("completedBlocks = %v", resp.CompletedBlocks)
	}
	if resp.LastContentBlockID != "b1" || resp.LastSectionID != "s1" || resp.LastChapterID != "ch1" {
		t.Errorf("resume pointers not stamped: %q %q %q", resp.LastChapterID, resp.LastSectionID, resp.LastContentBlockID)
	}
	if resp.Status != shared.ProgressInProgress {
		t.Errorf("status = %q, want in-progress", resp.Status)
	}

	again, err := svc.ValidateBlock(ctx, "u1", "crs1", "b1")
	if err != nil {
		t.Fatalf("repeat ValidateBlock: %v", err)
	}
	if len(again.CompletedBlocks) != 1 {
		t.Errorf("repeat validation must not duplicate: %v", again.CompletedBlocks)
	}
}

func TestValidateBlockUnknownBlock(t *testing.T) {
	_, svc := progressFixture(t)

	_, err := svc.ValidateBlock(context.Background(), "u1", "crs1", "nope")
	if !shared.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestValidateSectionCascadesChapter(t *testing.T) {
	_, svc := progressFixture(t)
	ctx := context.Background()

	resp, err := svc.ValidateSection(ctx, "u1", "crs1", "s1")
	if err != nil {
		t.Fatalf("ValidateSection s1: %v", err)
	}
	if len(resp.CompletedSections) != 1 {
		t.Fatalf("completedSections = %v", resp.CompletedSections)
	}
	// s1's blocks come along with the section.
	if len(resp.CompletedBlocks) != 2 {
		t.Errorf("section validation should sweep its blocks, got %v", resp.CompletedBlocks)
	}
	// ch1 still has s2 open.
	if len(resp.CompletedChapters) != 0 {
		t.Errorf("chapter completed too early: %v", resp.CompletedChapters)
	}

	resp, err = svc.ValidateSection(ctx, "u1", "crs1", "s2")
	if err != nil {
		t.Fatalf("ValidateSection s2: %v", err)
	}
	if len(resp.CompletedChapters) != 1 || resp.CompletedChapters[0] != "ch1" {
		t.Errorf("last open section should complete the chapter: %v", resp.CompletedChapters)
	}
}

func TestValidateSectionIdempotent(t *testing.T) {
	_, svc := progressFixture(t)
	ctx := context.Background()

	if _, err := svc.ValidateSection(ctx, "u1", "crs1", "s3"); err != nil {
		t.Fatalf("ValidateSection: %v", err)
	}
	resp, err := svc.ValidateSection(ctx, "u1", "crs1", "s3")
	if err != nil {
		t.Fatalf("repeat ValidateSection: %v", err)
	}
	if len(resp.CompletedSections) != 1 || len(resp.CompletedChapters) != 1 {
		t.Errorf("repeat validation duplicated entries: %v %v", resp.CompletedSections, resp.CompletedChapters)
	}
}

func TestFullCompletionFlow(t *testing.T) {
	_, svc := progressFixture(t)
	ctx := context.Background()

	for _, sectionID := range []string{"s1", "s2", "s3"} {
		if _, err := svc.ValidateSection(ctx, "u1", "crs1", sectionID); err != nil {
			t.Fatalf("ValidateSection %s: %v", sectionID, err)
		}
	}

	resp, err := svc.GetProgress(ctx, "u1", "crs1")
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	// 3 sections done, quiz on ch2 outstanding: 3 of 4 units.
	if resp.Metrics.ProgressPercentage != 75 {
		t.Errorf("percentage = %d, want 75", resp.Metrics.ProgressPercentage)
	}

	resp, err = svc.MarkQuizCompleted(ctx, "u1", "crs1", "ch2")
	if err != nil {
		t.Fatalf("MarkQuizCompleted: %v", err)
	}
	if resp.Metrics.ProgressPercentage != 100 {
		t.Errorf("percentage = %d, want 100", resp.Metrics.ProgressPercentage)
	}
	if resp.Status != shared.ProgressCompleted {
		t.Errorf("status = %q, want completed", resp.Status)
	}
}

func TestAddTimeSpent(t *testing.T) {
	_, svc := progressFixture(t)
	ctx := context.Background()

	if _, err := svc.AddTimeSpent(ctx, "u1", "crs1", -5); err == nil {
		t.Error("negative time should be rejected")
	}

	if _, err := svc.AddTimeSpent(ctx, "u1", "crs1", 60); err != nil {
		t.Fatalf("AddTimeSpent: %v", err)
	}
	resp, err := svc.AddTimeSpent(ctx, "u1", "crs1", 30)
	if err != nil {
		t.Fatalf("second AddTimeSpent: %v", err)
	}
	if resp.TimeSpent != 90 {
		t.Errorf("TimeSpent = %d, want 90", resp.TimeSpent)
	}
}

func TestResetProgress(t *testing.T) {
	_, svc := progressFixture(t)
	ctx := context.Background()

	if _, err := svc.ValidateSection(ctx, "u1", "crs1", "s1"); err != nil {
		t.Fatalf("ValidateSection: %v", err)
	}
	if err := svc.Reset(ctx, "u1", "crs1"); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	resp, err := svc.GetProgress(ctx, "u1", "crs1")
	if err != nil {
		t.Fatalf("GetProgress after reset: %v", err)
	}
	if len(resp.CompletedSections) != 0 || resp.Status != shared.ProgressNotStarted {
		t.Errorf("reset should reinitialize empty: %v %q", resp.CompletedSections, resp.Status)
	}
}
