// services/progress.go
package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// ProgressService owns the per-user-per-course progress record. Every
// mutation persists through a single merged partial update and is followed
// by a full reload, so returned state always reflects the last persisted
// write, never a speculative local patch.
type ProgressService struct {
	appContext.DefaultService

	store     DocumentStore
	courseSvc *CourseService
}

const PROGRESS_SVC = "progress_svc"

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.store = svc.Service(GORM_STORE_SVC).(*GormStoreService)
	svc.courseSvc = svc.Service(COURSE_SVC).(*CourseService)
	return nil
}

// ==================== RECORD ACCESS ====================

// GetOrInit returns the existing record or lazily creates one with empty
// completion sets. It never errors on a missing record.
func (svc *ProgressService) GetOrInit(ctx context.Context, userID, courseID string) (*model.UserCourseProgress, error) {
	docID := model.ProgressDocID(userID, courseID)

	var progress model.UserCourseProgress
	err := svc.store.Get(ctx, shared.CollectionProgress, docID, &progress)
	if err == nil {
		return &progress, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	id, _ := uuid.NewV7()
	now := time.Now()
	progress = model.UserCourseProgress{
		ID:                id.String(),
		UserID:            userID,
		CourseID:          courseID,
		CompletedChapters: []string{},
		CompletedSections: []string{},
		CompletedBlocks:   []string{},
		CompletedQuizzes:  []string{},
		Status:            shared.ProgressNotStarted,
		LastAccessedAt:    now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := svc.store.Set(ctx, shared.CollectionProgress, docID, progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// Update merges partial fields into the stored record and refreshes
// lastAccessedAt. Calling it before the record exists is a caller bug
// (init-then-update is the contract), surfaced as a validation failure.
func (svc *ProgressService) Update(ctx context.Context, userID, courseID string, partial map[string]interface{}) error {
	now := time.Now()
	partial["lastAccessedAt"] = now
	partial["updatedAt"] = now

	err := svc.store.Update(ctx, shared.CollectionProgress, model.ProgressDocID(userID, courseID), partial)
	if err != nil && shared.IsNotFound(err) {
		return shared.NewValidationError(err, "progress record not initialized")
	}
	return err
}

// Reset removes the record entirely; the next access re-initializes it.
func (svc *ProgressService) Reset(ctx context.Context, userID, courseID string) error {
	return svc.store.Delete(ctx, shared.CollectionProgress, model.ProgressDocID(userID, courseID))
}

func (svc *ProgressService) reload(ctx context.Context, userID, courseID string) (*model.UserCourseProgress, error) {
	var progress model.UserCourseProgress
	if err := svc.store.Get(ctx, shared.CollectionProgress, model.ProgressDocID(userID, courseID), &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// ==================== DERIVED METRICS ====================

func (svc *ProgressService) GetProgress(ctx context.Context, userID, courseID string) (*dto.ProgressResponse, error) {
	tree, err := svc.courseSvc.LoadCourseWithStructure(ctx, courseID)
	if err != nil {
		return nil, err
	}

	progress, err := svc.GetOrInit(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	return svc.mapProgressToResponse(tree, progress), nil
}

func (svc *ProgressService) mapProgressToResponse(tree *model.CourseWithStructure, progress *model.UserCourseProgress) *dto.ProgressResponse {
	return &dto.ProgressResponse{
		UserID:             progress.UserID,
		CourseID:           progress.CourseID,
		CompletedChapters:  progress.CompletedChapters,
		CompletedSections:  progress.CompletedSections,
		CompletedBlocks:    progress.CompletedBlocks,
		CompletedQuizzes:   progress.CompletedQuizzes,
		TimeSpent:          progress.TimeSpent,
		LastChapterID:      progress.LastChapterID,
		LastSectionID:      progress.LastSectionID,
		LastContentBlockID: progress.LastContentBlockID,
		Status:             progress.Status,
		Metrics:            ComputeProgress(tree, progress),
	}
}

// ==================== VALIDATION OPERATIONS ====================

// ValidateBlock marks a block as seen. Idempotent: a block already in the
// completed set is a no-op beyond stamping the resume pointers.
func (svc *ProgressService) ValidateBlock(ctx context.Context, userID, courseID, blockID string) (*dto.ProgressResponse, error) {
	tree, err := svc.courseSvc.LoadCourseWithStructure(ctx, courseID)
	if err != nil {
		return nil, err
	}

	block := blockByID(tree, blockID)
	if block == nil {
		return nil, shared.NewNotFoundError(nil, "content block not found")
	}

	progress, err := svc.GetOrInit(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if !progress.HasCompletedBlock(blockID) {
		next := *progress
		next.CompletedBlocks = model.UnionIDs(progress.CompletedBlocks, blockID)
		metrics := ComputeProgress(tree, &next)

		err = svc.Update(ctx, userID, courseID, map[string]interface{}{
			"completedBlocks":    next.CompletedBlocks,
			"lastChapterId":      block.ChapterID,
			"lastSectionId":      block.SectionID,
			"lastContentBlockId": block.ID,
			"status":             metrics.Status,
		})
		if err != nil {
			return nil, err
		}
		blocksValidatedTotal.Inc()
	}

	reloaded, err := svc.reload(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return svc.mapProgressToResponse(tree, reloaded), nil
}

// ValidateSection is the explicit user action that advances section, chapter
// and percentage state: it unions every block of the section into the seen
// set, unions the section itself, and cascades the owning chapter once all
// sibling sections are complete. The three logical steps go out as ONE
// merged update call, so they are atomic at the store level; the record is
// then reloaded rather than patched in place. Re-validating an already
// completed section is a safe no-op.
func (svc *ProgressService) ValidateSection(ctx context.Context, userID, courseID, sectionID string) (*dto.ProgressResponse, error) {
	tree, err := svc.courseSvc.LoadCourseWithStructure(ctx, courseID)
	if err != nil {
		return nil, err
	}

	chapter, section := tree.FindSection(sectionID)
	if section == nil {
		return nil, shared.NewNotFoundError(nil, "section not found")
	}

	progress, err := svc.GetOrInit(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	blockIDs := make([]string, len(section.ContentBlocks))
	for i := range section.ContentBlocks {
		blockIDs[i] = section.ContentBlocks[i].ID
	}

	next := *progress
	next.CompletedBlocks = model.UnionIDs(progress.CompletedBlocks, blockIDs...)
	next.CompletedSections = model.UnionIDs(progress.CompletedSections, sectionID)
	if chapterComplete(chapter, next.CompletedSections) {
		next.CompletedChapters = model.UnionIDs(progress.CompletedChapters, chapter.ID)
	}

	metrics := ComputeProgress(tree, &next)

	partial := map[string]interface{}{
		"completedBlocks":   next.CompletedBlocks,
		"completedSections": next.CompletedSections,
		"completedChapters": next.CompletedChapters,
		"lastChapterId":     chapter.ID,
		"lastSectionId":     sectionID,
		"status":            metrics.Status,
	}
	if err := svc.Update(ctx, userID, courseID, partial); err != nil {
		return nil, err
	}
	sectionsValidatedTotal.Inc()

	reloaded, err := svc.reload(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return svc.mapProgressToResponse(tree, reloaded), nil
}

// MarkQuizCompleted unions the chapter into the completed-quizzes set after
// a passed attempt. Idempotent like the other unions.
func (svc *ProgressService) MarkQuizCompleted(ctx context.Context, userID, courseID, chapterID string) (*dto.ProgressResponse, error) {
	tree, err := svc.courseSvc.LoadCourseWithStructure(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if tree.FindChapter(chapterID) == nil {
		return nil, shared.NewNotFoundError(nil, "chapter not found")
	}

	progress, err := svc.GetOrInit(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	next := *progress
	next.CompletedQuizzes = model.UnionIDs(progress.CompletedQuizzes, chapterID)
	metrics := ComputeProgress(tree, &next)

	err = svc.Update(ctx, userID, courseID, map[string]interface{}{
		"completedQuizzes": next.CompletedQuizzes,
		"status":           metrics.Status,
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := svc.reload(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return svc.mapProgressToResponse(tree, reloaded), nil
}

// AddTimeSpent accumulates study time in seconds.
func (svc *ProgressService) AddTimeSpent(ctx context.Context, userID, courseID string, seconds int) (*dto.ProgressResponse, error) {
	if seconds < 0 {
		return nil, shared.NewBadRequestError(nil, "seconds must not be negative")
	}

	tree, err := svc.courseSvc.LoadCourseWithStructure(ctx, courseID)
	if err != nil {
		return nil, err
	}

	progress, err := svc.GetOrInit(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	next := *progress
	next.TimeSpent = progress.TimeSpent + seconds
	metrics := ComputeProgress(tree, &next)

	err = svc.Update(ctx, userID, courseID, map[string]interface{}{
		"timeSpent": next.TimeSpent,
		"status":    metrics.Status,
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := svc.reload(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return svc.mapProgressToResponse(tree, reloaded), nil
}
