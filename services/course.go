// services/course.go
package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// CourseService owns course metadata and the assembly of the content tree
// from the flat chapter/section/block collections. Assembly is read-only;
// structural mutation lives in the editor service.
type CourseService struct {
	appContext.DefaultService

	store DocumentStore
	cache Cache

	cacheTTL time.Duration
}

const COURSE_SVC = "course_svc"

func (svc CourseService) Id() string {
	return COURSE_SVC
}

func (svc *CourseService) Configure(ctx *appContext.Context) error {
	svc.cacheTTL = 10 * time.Minute
	return svc.DefaultService.Configure(ctx)
}

func (svc *CourseService) Start() error {
	svc.store = svc.Service(GORM_STORE_SVC).(*GormStoreService)
	svc.cache = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// ==================== METADATA METHODS ====================

func (svc *CourseService) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*model.Course, error) {
	id, _ := uuid.NewV7()
	now := time.Now()

	course := &model.Course{
		ID:            id.String(),
		Title:         req.Title,
		Description:   req.Description,
		Status:        shared.CourseStatusDraft,
		InstructorID:  req.InstructorID,
		ChaptersOrder: []string{},
		AssignedTo:    []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := svc.store.Set(ctx, shared.CollectionCourses, course.ID, course); err != nil {
		return nil, err
	}

	return course, nil
}

func (svc *CourseService) GetCourse(ctx context.Context, courseID string) (*model.Course, error) {
	var course model.Course
	if err := svc.store.Get(ctx, shared.CollectionCourses, courseID, &course); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "course not found")
		}
		return nil, err
	}
	return &course, nil
}

func (svc *CourseService) ListCourses(ctx context.Context, status string) ([]model.Course, error) {
	var where []Where
	if status != "" {
		where = append(where, Where{Field: "status", Op: "==", Value: status})
	}

	courses := []model.Course{}
	if err := svc.store.Query(ctx, shared.CollectionCourses, where, "createdAt", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (svc *CourseService) UpdateCourse(ctx context.Context, courseID string, req dto.UpdateCourseRequest) (*model.Course, error) {
	partial := map[string]interface{}{"updatedAt": time.Now()}
	if req.Title != nil {
		partial["title"] = *req.Title
	}
	if req.Description != nil {
		partial["description"] = *req.Description
	}
	if req.InstructorID != nil {
		partial["instructorId"] = *req.InstructorID
	}
	if req.IntroVideoURL != nil {
		partial["introVideoUrl"] = *req.IntroVideoURL
	}

	if err := svc.store.Update(ctx, shared.CollectionCourses, courseID, partial); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "course not found")
		}
		return nil, err
	}

	svc.invalidateTree(ctx, courseID)
	return svc.GetCourse(ctx, courseID)
}

func (svc *CourseService) PublishCourse(ctx context.Context, courseID string) (*model.Course, error) {
	err := svc.store.Update(ctx, shared.CollectionCourses, courseID, map[string]interface{}{
		"status":    shared.CourseStatusPublished,
		"updatedAt": time.Now(),
	})
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "course not found")
		}
		return nil, err
	}

	svc.invalidateTree(ctx, courseID)
	return svc.GetCourse(ctx, courseID)
}

// AssignCourse replaces the company assignment set. Every id must reference
// a stored company.
func (svc *CourseService) AssignCourse(ctx context.Context, courseID string, companyIDs []string) (*model.Course, error) {
	assigned := model.UnionIDs(nil, companyIDs...)

	for _, companyID := range assigned {
		var company model.Company
		if err := svc.store.Get(ctx, shared.CollectionCompanies, companyID, &company); err != nil {
			if shared.IsNotFound(err) {
				return nil, shared.NewBadRequestError(err, fmt.Sprintf("unknown company id: %s", companyID))
			}
			return nil, err
		}
	}

	err := svc.store.Update(ctx, shared.CollectionCourses, courseID, map[string]interface{}{
		"assignedTo": assigned,
		"updatedAt":  time.Now(),
	})
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "course not found")
		}
		return nil, err
	}

	return svc.GetCourse(ctx, courseID)
}

// DeleteCourse removes the course and everything hanging off it: chapters,
// sections, blocks and progress records go in the same all-or-nothing batch
// as the course document. Issued certificates stay; they record a past
// achievement.
func (svc *CourseService) DeleteCourse(ctx context.Context, courseID string) error {
	if _, err := svc.GetCourse(ctx, courseID); err != nil {
		return err
	}

	ops := []BatchOp{
		{Collection: shared.CollectionCourses, ID: courseID, Op: BatchOpDelete},
	}

	byCourse := []Where{{Field: "courseId", Op: "==", Value: courseID}}

	chapters := []model.Chapter{}
	if err := svc.store.Query(ctx, shared.CollectionChapters, byCourse, "", &chapters); err != nil {
		return err
	}
	for _, ch := range chapters {
		ops = append(ops, BatchOp{Collection: shared.CollectionChapters, ID: ch.ID, Op: BatchOpDelete})
	}

	sections := []model.Section{}
	if err := svc.store.Query(ctx, shared.CollectionSections, byCourse, "", &sections); err != nil {
		return err
	}
	for _, s := range sections {
		ops = append(ops, BatchOp{Collection: shared.CollectionSections, ID: s.ID, Op: BatchOpDelete})
	}

	blocks := []model.ContentBlock{}
	if err := svc.store.Query(ctx, shared.CollectionContentBlocks, byCourse, "", &blocks); err != nil {
		return err
	}
	for _, b := range blocks {
		ops = append(ops, BatchOp{Collection: shared.CollectionContentBlocks, ID: b.ID, Op: BatchOpDelete})
	}

	records := []model.UserCourseProgress{}
	if err := svc.store.Query(ctx, shared.CollectionProgress, byCourse, "", &records); err != nil {
		return err
	}
	for _, p := range records {
		ops = append(ops, BatchOp{Collection: shared.CollectionProgress, ID: model.ProgressDocID(p.UserID, p.CourseID), Op: BatchOpDelete})
	}

	if err := svc.store.BatchWrite(ctx, ops); err != nil {
		return err
	}

	svc.invalidateTree(ctx, courseID)
	return nil
}

// ==================== TREE ASSEMBLY ====================

// LoadCourseWithStructure assembles the full content tree. Chapters,
// sections and blocks are fetched flat by courseId, bucketed under their
// parents, sorted by order field, then sequenced by the parent's ordering
// array. Records missing from an order array are appended at the end rather
// than dropped, which tolerates a stale order array without losing content.
func (svc *CourseService) LoadCourseWithStructure(ctx context.Context, courseID string) (*model.CourseWithStructure, error) {
	if svc.cache != nil {
		var cached model.CourseWithStructure
		if hit, err := svc.cache.GetJSON(ctx, treeCacheKey(courseID), &cached); err == nil && hit {
			treeCacheHitsTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		}
	}

	treeCacheHitsTotal.WithLabelValues("miss").Inc()

	course, err := svc.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	tree := &model.CourseWithStructure{Course: *course}

	if course.InstructorID != "" {
		var instructor model.Instructor
		if err := svc.store.Get(ctx, shared.CollectionInstructors, course.InstructorID, &instructor); err != nil {
			log.Printf("Failed to get instructor %s: %v", course.InstructorID, err)
		} else {
			tree.Instructor = &instructor
		}
	}

	byCourse := []Where{{Field: "courseId", Op: "==", Value: courseID}}

	chapters := []model.Chapter{}
	if err := svc.store.Query(ctx, shared.CollectionChapters, byCourse, "", &chapters); err != nil {
		return nil, err
	}

	sections := []model.Section{}
	if err := svc.store.Query(ctx, shared.CollectionSections, byCourse, "", &sections); err != nil {
		return nil, err
	}

	blocks := []model.ContentBlock{}
	if err := svc.store.Query(ctx, shared.CollectionContentBlocks, byCourse, "", &blocks); err != nil {
		return nil, err
	}

	// Bucket blocks under sections, rejecting unknown block types at this
	// boundary so loosely-typed data never propagates inward.
	blocksBySection := make(map[string][]model.ContentBlock)
	for _, block := range blocks {
		if !normalizeBlock(&block) {
			log.Printf("Dropping content block %s with unknown type %q", block.ID, block.Type)
			continue
		}
		blocksBySection[block.SectionID] = append(blocksBySection[block.SectionID], block)
	}
	for id := range blocksBySection {
		sort.SliceStable(blocksBySection[id], func(i, j int) bool {
			return blocksBySection[id][i].Order < blocksBySection[id][j].Order
		})
	}

	sectionsByChapter := make(map[string][]model.Section)
	for _, section := range sections {
		sectionsByChapter[section.ChapterID] = append(sectionsByChapter[section.ChapterID], section)
	}
	for id := range sectionsByChapter {
		sort.SliceStable(sectionsByChapter[id], func(i, j int) bool {
			return sectionsByChapter[id][i].Order < sectionsByChapter[id][j].Order
		})
	}

	sort.SliceStable(chapters, func(i, j int) bool { return chapters[i].Order < chapters[j].Order })

	tree.Chapters = make([]model.ChapterWithSections, 0, len(chapters))
	for _, chapter := range sequenceChapters(chapters, course.ChaptersOrder) {
		assembled := model.ChapterWithSections{Chapter: chapter}

		ordered := sequenceSections(sectionsByChapter[chapter.ID], chapter.SectionsOrder)
		assembled.Sections = make([]model.SectionWithBlocks, 0, len(ordered))
		for _, section := range ordered {
			withBlocks := model.SectionWithBlocks{Section: section}
			withBlocks.ContentBlocks = sequenceBlocks(blocksBySection[section.ID], section.ContentBlocksOrder)
			assembled.Sections = append(assembled.Sections, withBlocks)
		}

		tree.Chapters = append(tree.Chapters, assembled)
	}

	if svc.cache != nil {
		if err := svc.cache.SetJSON(ctx, treeCacheKey(courseID), tree, svc.cacheTTL); err != nil {
			log.Printf("Failed to cache course tree %s: %v", courseID, err)
		}
	}

	return tree, nil
}

// InvalidateTree drops the cached tree after a structural write.
func (svc *CourseService) InvalidateTree(ctx context.Context, courseID string) {
	svc.invalidateTree(ctx, courseID)
}

func (svc *CourseService) invalidateTree(ctx context.Context, courseID string) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.Delete(ctx, treeCacheKey(courseID)); err != nil {
		log.Printf("Failed to invalidate course tree cache %s: %v", courseID, err)
	}
}

func treeCacheKey(courseID string) string {
	return fmt.Sprintf("course_tree:%s", courseID)
}

// sequenceChapters orders the fetched bucket by the authoritative order
// array, appending records absent from it.
func sequenceChapters(chapters []model.Chapter, order []string) []model.Chapter {
	byID := make(map[string]model.Chapter, len(chapters))
	for _, ch := range chapters {
		byID[ch.ID] = ch
	}

	out := make([]model.Chapter, 0, len(chapters))
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if ch, ok := byID[id]; ok {
			out = append(out, ch)
			seen[id] = true
		}
	}
	for _, ch := range chapters {
		if !seen[ch.ID] {
			out = append(out, ch)
		}
	}
	return out
}

func sequenceSections(sections []model.Section, order []string) []model.Section {
	byID := make(map[string]model.Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}

	out := make([]model.Section, 0, len(sections))
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if s, ok := byID[id]; ok {
			out = append(out, s)
			seen[id] = true
		}
	}
	for _, s := range sections {
		if !seen[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

func sequenceBlocks(blocks []model.ContentBlock, order []string) []model.ContentBlock {
	byID := make(map[string]model.ContentBlock, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}

	out := make([]model.ContentBlock, 0, len(blocks))
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if b, ok := byID[id]; ok {
			out = append(out, b)
			seen[id] = true
		}
	}
	for _, b := range blocks {
		if !seen[b.ID] {
			out = append(out, b)
		}
	}
	return out
}

// normalizeBlock enforces the per-type payload invariant: formatting for
// text blocks, media for media blocks, neither otherwise. Returns false for
// unknown types.
func normalizeBlock(block *model.ContentBlock) bool {
	switch block.Type {
	case shared.BlockTypeText:
		block.Media = nil
	case shared.BlockTypeMedia:
		block.Formatting = nil
	case shared.BlockTypeFile, shared.BlockTypeCode, shared.BlockTypeEmbed:
		block.Formatting = nil
		block.Media = nil
	default:
		return false
	}
	return true
}
