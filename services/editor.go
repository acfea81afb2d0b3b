// services/editor.go
package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// EditorService holds the authoring-side structural mutations. All edits are
// in-memory transforms on an assembled tree; nothing touches the store until
// SaveStructure, which persists the whole structure as one all-or-nothing
// batch. After every mutation sibling order fields are contiguous zero-based
// and the owning parent's ordering array matches the sibling sequence.
type EditorService struct {
	appContext.DefaultService

	store     DocumentStore
	courseSvc *CourseService
}

const EDITOR_SVC = "editor_svc"

func (svc EditorService) Id() string {
	return EDITOR_SVC
}

func (svc *EditorService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *EditorService) Start() error {
	svc.store = svc.Service(GORM_STORE_SVC).(*GormStoreService)
	svc.courseSvc = svc.Service(COURSE_SVC).(*CourseService)
	return nil
}

// ==================== CHAPTER MUTATIONS ====================

func (svc *EditorService) AddChapter(tree *model.CourseWithStructure, title string) *model.ChapterWithSections {
	id, _ := uuid.NewV7()
	now := time.Now()

	chapter := model.ChapterWithSections{
		Chapter: model.Chapter{
			ID:            id.String(),
			CourseID:      tree.ID,
			Title:         title,
			SectionsOrder: []string{},
			CreatedAt:     now,
			UpdatedAt:     now,
		},
		Sections: []model.SectionWithBlocks{},
	}

	tree.Chapters = append(tree.Chapters, chapter)
	restampChapters(tree)
	return &tree.Chapters[len(tree.Chapters)-1]
}

// DeleteChapter removes the chapter and its subtree. When the deleted
// chapter was the active selection, the returned id is the first remaining
// sibling, or empty when none remain.
func (svc *EditorService) DeleteChapter(tree *model.CourseWithStructure, chapterID, activeChapterID string) (string, error) {
	idx := chapterIndex(tree, chapterID)
	if idx < 0 {
		return activeChapterID, shared.NewNotFoundError(nil, "chapter not found")
	}

	tree.Chapters = append(tree.Chapters[:idx], tree.Chapters[idx+1:]...)
	restampChapters(tree)

	if activeChapterID != chapterID {
		return activeChapterID, nil
	}
	if len(tree.Chapters) == 0 {
		return "", nil
	}
	return tree.Chapters[0].ID, nil
}

func (svc *EditorService) ReorderChapters(tree *model.CourseWithStructure, orderedIDs []string) error {
	if len(orderedIDs) != len(tree.Chapters) {
		return shared.NewBadRequestError(nil, "reorder must list every chapter exactly once")
	}

	byID := make(map[string]model.ChapterWithSections, len(tree.Chapters))
	for _, ch := range tree.Chapters {
		byID[ch.ID] = ch
	}

	reordered := make([]model.ChapterWithSections, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		ch, ok := byID[id]
		if !ok {
			return shared.NewBadRequestError(nil, fmt.Sprintf("unknown chapter id: %s", id))
		}
		reordered = append(reordered, ch)
		delete(byID, id)
	}

	tree.Chapters = reordered
	restampChapters(tree)
	return nil
}

// ==================== SECTION MUTATIONS ====================

func (svc *EditorService) AddSection(tree *model.CourseWithStructure, chapterID, title string) (*model.SectionWithBlocks, error) {
	idx := chapterIndex(tree, chapterID)
	if idx < 0 {
		return nil, shared.NewNotFoundError(nil, "chapter not found")
	}

	id, _ := uuid.NewV7()
	now := time.Now()

	chapter := &tree.Chapters[idx]
	chapter.Sections = append(chapter.Sections, model.SectionWithBlocks{
		Section: model.Section{
			ID:                 id.String(),
			ChapterID:          chapter.ID,
			CourseID:           tree.ID,
			Title:              title,
			ContentBlocksOrder: []string{},
			CreatedAt:          now,
			UpdatedAt:          now,
		},
		ContentBlocks: []model.ContentBlock{},
	})
	restampSections(chapter)
	return &chapter.Sections[len(chapter.Sections)-1], nil
}

func (svc *EditorService) DeleteSection(tree *model.CourseWithStructure, sectionID, activeSectionID string) (string, error) {
	ci, si := sectionIndex(tree, sectionID)
	if ci < 0 {
		return activeSectionID, shared.NewNotFoundError(nil, "section not found")
	}

	chapter := &tree.Chapters[ci]
	chapter.Sections = append(chapter.Sections[:si], chapter.Sections[si+1:]...)
	restampSections(chapter)

	if activeSectionID != sectionID {
		return activeSectionID, nil
	}
	if len(chapter.Sections) == 0 {
		return "", nil
	}
	return chapter.Sections[0].ID, nil
}

func (svc *EditorService) ReorderSections(tree *model.CourseWithStructure, chapterID string, orderedIDs []string) error {
	idx := chapterIndex(tree, chapterID)
	if idx < 0 {
		return shared.NewNotFoundError(nil, "chapter not found")
	}

	chapter := &tree.Chapters[idx]
	if len(orderedIDs) != len(chapter.Sections) {
		return shared.NewBadRequestError(nil, "reorder must list every section exactly once")
	}

	byID := make(map[string]model.SectionWithBlocks, len(chapter.Sections))
	for _, s := range chapter.Sections {
		byID[s.ID] = s
	}

	reordered := make([]model.SectionWithBlocks, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		s, ok := byID[id]
		if !ok {
			return shared.NewBadRequestError(nil, fmt.Sprintf("unknown section id: %s", id))
		}
		reordered = append(reordered, s)
		delete(byID, id)
	}

	chapter.Sections = reordered
	restampSections(chapter)
	return nil
}

// MoveSection relocates a section into another chapter: the node leaves its
// source siblings (which are re-stamped), takes the destination chapter id,
// and lands at the requested index, or at the end when position is nil.
func (svc *EditorService) MoveSection(tree *model.CourseWithStructure, sectionID, toChapterID string, position *int) error {
	srcCi, srcSi := sectionIndex(tree, sectionID)
	if srcCi < 0 {
		return shared.NewNotFoundError(nil, "section not found")
	}
	dstCi := chapterIndex(tree, toChapterID)
	if dstCi < 0 {
		return shared.NewNotFoundError(nil, "destination chapter not found")
	}

	src := &tree.Chapters[srcCi]
	section := src.Sections[srcSi]
	src.Sections = append(src.Sections[:srcSi], src.Sections[srcSi+1:]...)
	restampSections(src)

	section.ChapterID = toChapterID
	for i := range section.ContentBlocks {
		section.ContentBlocks[i].ChapterID = toChapterID
	}

	dst := &tree.Chapters[dstCi]
	at := len(dst.Sections)
	if position != nil && *position >= 0 && *position < len(dst.Sections) {
		at = *position
	}
	dst.Sections = append(dst.Sections[:at], append([]model.SectionWithBlocks{section}, dst.Sections[at:]...)...)
	restampSections(dst)
	return nil
}

// ==================== BLOCK MUTATIONS ====================

func (svc *EditorService) AddBlock(tree *model.CourseWithStructure, sectionID string, req dto.AddBlockRequest) (*model.ContentBlock, error) {
	ci, si := sectionIndex(tree, sectionID)
	if ci < 0 {
		return nil, shared.NewNotFoundError(nil, "section not found")
	}

	id, _ := uuid.NewV7()
	now := time.Now()

	block := model.ContentBlock{
		ID:         id.String(),
		SectionID:  sectionID,
		ChapterID:  tree.Chapters[ci].ID,
		CourseID:   tree.ID,
		Type:       req.Type,
		Content:    req.Content,
		Formatting: req.Formatting,
		Media:      req.Media,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if !normalizeBlock(&block) {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("unknown block type: %s", req.Type))
	}

	section := &tree.Chapters[ci].Sections[si]
	section.ContentBlocks = append(section.ContentBlocks, block)
	restampBlocks(section)
	return &section.ContentBlocks[len(section.ContentBlocks)-1], nil
}

func (svc *EditorService) UpdateBlock(tree *model.CourseWithStructure, blockID string, req dto.UpdateBlockRequest) (*model.ContentBlock, error) {
	block := blockByID(tree, blockID)
	if block == nil {
		return nil, shared.NewNotFoundError(nil, "content block not found")
	}

	if req.Content != nil {
		block.Content = *req.Content
	}
	if req.Formatting != nil {
		block.Formatting = req.Formatting
	}
	if req.Media != nil {
		block.Media = req.Media
	}
	block.UpdatedAt = time.Now()

	if !normalizeBlock(block) {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("unknown block type: %s", block.Type))
	}
	return block, nil
}

func (svc *EditorService) DeleteBlock(tree *model.CourseWithStructure, blockID, activeBlockID string) (string, error) {
	ci, si, bi := blockIndex(tree, blockID)
	if ci < 0 {
		return activeBlockID, shared.NewNotFoundError(nil, "content block not found")
	}

	section := &tree.Chapters[ci].Sections[si]
	section.ContentBlocks = append(section.ContentBlocks[:bi], section.ContentBlocks[bi+1:]...)
	restampBlocks(section)

	if activeBlockID != blockID {
		return activeBlockID, nil
	}
	if len(section.ContentBlocks) == 0 {
		return "", nil
	}
	return section.ContentBlocks[0].ID, nil
}

func (svc *EditorService) ReorderBlocks(tree *model.CourseWithStructure, sectionID string, orderedIDs []string) error {
	ci, si := sectionIndex(tree, sectionID)
	if ci < 0 {
		return shared.NewNotFoundError(nil, "section not found")
	}

	section := &tree.Chapters[ci].Sections[si]
	if len(orderedIDs) != len(section.ContentBlocks) {
		return shared.NewBadRequestError(nil, "reorder must list every block exactly once")
	}

	byID := make(map[string]model.ContentBlock, len(section.ContentBlocks))
	for _, b := range section.ContentBlocks {
		byID[b.ID] = b
	}

	reordered := make([]model.ContentBlock, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		b, ok := byID[id]
		if !ok {
			return shared.NewBadRequestError(nil, fmt.Sprintf("unknown block id: %s", id))
		}
		reordered = append(reordered, b)
		delete(byID, id)
	}

	section.ContentBlocks = reordered
	restampBlocks(section)
	return nil
}

func (svc *EditorService) MoveBlock(tree *model.CourseWithStructure, blockID, toSectionID string, position *int) error {
	srcCi, srcSi, srcBi := blockIndex(tree, blockID)
	if srcCi < 0 {
		return shared.NewNotFoundError(nil, "content block not found")
	}
	dstCi, dstSi := sectionIndex(tree, toSectionID)
	if dstCi < 0 {
		return shared.NewNotFoundError(nil, "destination section not found")
	}

	src := &tree.Chapters[srcCi].Sections[srcSi]
	block := src.ContentBlocks[srcBi]
	src.ContentBlocks = append(src.ContentBlocks[:srcBi], src.ContentBlocks[srcBi+1:]...)
	restampBlocks(src)

	block.SectionID = toSectionID
	block.ChapterID = tree.Chapters[dstCi].ID

	dst := &tree.Chapters[dstCi].Sections[dstSi]
	at := len(dst.ContentBlocks)
	if position != nil && *position >= 0 && *position < len(dst.ContentBlocks) {
		at = *position
	}
	dst.ContentBlocks = append(dst.ContentBlocks[:at], append([]model.ContentBlock{block}, dst.ContentBlocks[at:]...)...)
	restampBlocks(dst)
	return nil
}

// ==================== PERSISTENCE ====================

// SaveStructure writes the whole edited structure (course ordering array,
// every chapter, section and block) plus deletions of records that left the
// tree, as a single batch. The store's transaction guarantees a partial
// failure leaves the previously persisted structure untouched.
func (svc *EditorService) SaveStructure(ctx context.Context, tree *model.CourseWithStructure) error {
	tree.UpdatedAt = time.Now()

	ops := []BatchOp{
		{Collection: shared.CollectionCourses, ID: tree.ID, Op: BatchOpSet, Doc: tree.Course},
	}

	keepChapters := map[string]bool{}
	keepSections := map[string]bool{}
	keepBlocks := map[string]bool{}

	for i := range tree.Chapters {
		chapter := &tree.Chapters[i]
		keepChapters[chapter.ID] = true
		ops = append(ops, BatchOp{Collection: shared.CollectionChapters, ID: chapter.ID, Op: BatchOpSet, Doc: chapter.Chapter})

		for j := range chapter.Sections {
			section := &chapter.Sections[j]
			keepSections[section.ID] = true
			ops = append(ops, BatchOp{Collection: shared.CollectionSections, ID: section.ID, Op: BatchOpSet, Doc: section.Section})

			for k := range section.ContentBlocks {
				block := &section.ContentBlocks[k]
				keepBlocks[block.ID] = true
				ops = append(ops, BatchOp{Collection: shared.CollectionContentBlocks, ID: block.ID, Op: BatchOpSet, Doc: *block})
			}
		}
	}

	deletions, err := svc.staleRecordOps(ctx, tree.ID, keepChapters, keepSections, keepBlocks)
	if err != nil {
		return err
	}
	ops = append(ops, deletions...)

	if err := svc.store.BatchWrite(ctx, ops); err != nil {
		return err
	}

	if svc.courseSvc != nil {
		svc.courseSvc.InvalidateTree(ctx, tree.ID)
	}
	return nil
}

// staleRecordOps finds persisted chapters/sections/blocks of the course that
// no longer exist in the edited tree and emits delete ops for them.
func (svc *EditorService) staleRecordOps(ctx context.Context, courseID string, keepChapters, keepSections, keepBlocks map[string]bool) ([]BatchOp, error) {
	byCourse := []Where{{Field: "courseId", Op: "==", Value: courseID}}

	var ops []BatchOp

	chapters := []model.Chapter{}
	if err := svc.store.Query(ctx, shared.CollectionChapters, byCourse, "", &chapters); err != nil {
		return nil, err
	}
	for _, ch := range chapters {
		if !keepChapters[ch.ID] {
			ops = append(ops, BatchOp{Collection: shared.CollectionChapters, ID: ch.ID, Op: BatchOpDelete})
		}
	}

	sections := []model.Section{}
	if err := svc.store.Query(ctx, shared.CollectionSections, byCourse, "", &sections); err != nil {
		return nil, err
	}
	for _, s := range sections {
		if !keepSections[s.ID] {
			ops = append(ops, BatchOp{Collection: shared.CollectionSections, ID: s.ID, Op: BatchOpDelete})
		}
	}

	blocks := []model.ContentBlock{}
	if err := svc.store.Query(ctx, shared.CollectionContentBlocks, byCourse, "", &blocks); err != nil {
		return nil, err
	}
	for _, b := range blocks {
		if !keepBlocks[b.ID] {
			ops = append(ops, BatchOp{Collection: shared.CollectionContentBlocks, ID: b.ID, Op: BatchOpDelete})
		}
	}

	return ops, nil
}

// ==================== RE-STAMP HELPERS ====================

func restampChapters(tree *model.CourseWithStructure) {
	order := make([]string, len(tree.Chapters))
	for i := range tree.Chapters {
		tree.Chapters[i].Order = i
		order[i] = tree.Chapters[i].ID
	}
	tree.ChaptersOrder = order
}

func restampSections(chapter *model.ChapterWithSections) {
	order := make([]string, len(chapter.Sections))
	for i := range chapter.Sections {
		chapter.Sections[i].Order = i
		order[i] = chapter.Sections[i].ID
	}
	chapter.SectionsOrder = order
}

func restampBlocks(section *model.SectionWithBlocks) {
	order := make([]string, len(section.ContentBlocks))
	for i := range section.ContentBlocks {
		section.ContentBlocks[i].Order = i
		order[i] = section.ContentBlocks[i].ID
	}
	section.ContentBlocksOrder = order
}

// ==================== LOOKUP HELPERS ====================

func chapterIndex(tree *model.CourseWithStructure, chapterID string) int {
	for i := range tree.Chapters {
		if tree.Chapters[i].ID == chapterID {
			return i
		}
	}
	return -1
}

func sectionIndex(tree *model.CourseWithStructure, sectionID string) (int, int) {
	for i := range tree.Chapters {
		for j := range tree.Chapters[i].Sections {
			if tree.Chapters[i].Sections[j].ID == sectionID {
				return i, j
			}
		}
	}
	return -1, -1
}

func blockIndex(tree *model.CourseWithStructure, blockID string) (int, int, int) {
	for i := range tree.Chapters {
		for j := range tree.Chapters[i].Sections {
			for k := range tree.Chapters[i].Sections[j].ContentBlocks {
				if tree.Chapters[i].Sections[j].ContentBlocks[k].ID == blockID {
					return i, j, k
				}
			}
		}
	}
	return -1, -1, -1
}

func blockByID(tree *model.CourseWithStructure, blockID string) *model.ContentBlock {
	ci, si, bi := blockIndex(tree, blockID)
	if ci < 0 {
		return nil
	}
	return &tree.Chapters[ci].Sections[si].ContentBlocks[bi]
}
