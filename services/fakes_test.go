package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// memStore is an in-memory DocumentStore with the same observable semantics
// as the gorm-backed store: documents are stored encoded, queries filter on
// top-level JSON fields and batches apply all ops or none.
type memStore struct {
	mu   sync.Mutex
	data map[string]map[string][]byte

	failBatch  bool
	batchCalls int
	lastBatch  []BatchOp
}

func newMemStore() *memStore {
	return &memStore{data: map[string]map[string][]byte{}}
}

func (s *memStore) Get(ctx context.Context, collection, id string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[collection][id]
	if !ok {
		return shared.NewNotFoundError(nil, fmt.Sprintf("%s/%s not found", collection, id))
	}
	return shared.Unmarshal(raw, out)
}

func (s *memStore) Query(ctx context.Context, collection string, where []Where, orderBy string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.data[collection]))
	for id := range s.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	type match struct {
		raw    []byte
		sortBy string
	}
	matches := []match{}
	for _, id := range ids {
		raw := s.data[collection][id]
		fields := map[string]interface{}{}
		if err := shared.Unmarshal(raw, &fields); err != nil {
			return err
		}

		keep := true
		for _, w := range where {
			if fmt.Sprint(fields[w.Field]) != fmt.Sprint(w.Value) {
				keep = false
				break
			}
		}
		if keep {
			matches = append(matches, match{raw: raw, sortBy: fmt.Sprint(fields[orderBy])})
		}
	}

	if orderBy != "" {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].sortBy < matches[j].sortBy
		})
	}

	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = string(m.raw)
	}
	return shared.Unmarshal([]byte("["+strings.Join(parts, ",")+"]"), out)
}

func (s *memStore) Set(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := shared.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, raw)
	return nil
}

func (s *memStore) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[collection][id]
	if !ok {
		return shared.NewNotFoundError(nil, fmt.Sprintf("%s/%s not found", collection, id))
	}

	fields := map[string]interface{}{}
	if err := shared.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for k, v := range partial {
		fields[k] = v
	}

	merged, err := shared.Marshal(fields)
	if err != nil {
		return err
	}
	s.put(collection, id, merged)
	return nil
}

func (s *memStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[collection], id)
	return nil
}

func (s *memStore) BatchWrite(ctx context.Context, ops []BatchOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batchCalls++
	s.lastBatch = ops

	if s.failBatch {
		return shared.NewStoreError(nil, "batch write failed")
	}

	for _, op := range ops {
		switch op.Op {
		case BatchOpSet:
			raw, err := shared.Marshal(op.Doc)
			if err != nil {
				return err
			}
			s.put(op.Collection, op.ID, raw)
		case BatchOpDelete:
			delete(s.data[op.Collection], op.ID)
		}
	}
	return nil
}

func (s *memStore) put(collection, id string, raw []byte) {
	if s.data[collection] == nil {
		s.data[collection] = map[string][]byte{}
	}
	s.data[collection][id] = raw
}

func (s *memStore) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data[collection])
}

var _ DocumentStore = (*memStore)(nil)

// fixedQuestions is a QuestionSource returning a canned set.
type fixedQuestions struct {
	questions []model.QuizQuestion
	err       error
}

func (f *fixedQuestions) Questions(ctx context.Context, chapter *model.Chapter, settings model.QuizSettings) ([]model.QuizQuestion, error) {
	return f.questions, f.err
}

// ==================== FIXTURE BUILDERS ====================

func newTestCourseService(store DocumentStore) *CourseService {
	return &CourseService{store: store, cacheTTL: time.Minute}
}

func newTestEditorService(store DocumentStore) *EditorService {
	return &EditorService{store: store}
}

func newTestProgressService(store DocumentStore, courseSvc *CourseService) *ProgressService {
	return &ProgressService{store: store, courseSvc: courseSvc}
}

// seedCourse persists a two-chapter course: chapter A with two sections
// (two blocks and one block), quizzed chapter B with one single-block
// section. IDs follow a c/s/b prefix scheme for readable assertions.
func seedCourse(store DocumentStore) {
	ctx := context.Background()
	now := time.Now()

	course := model.Course{
		ID:            "crs1",
		Title:         "Forklift Basics",
		Status:        shared.CourseStatusPublished,
		ChaptersOrder: []string{"ch1", "ch2"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	store.Set(ctx, shared.CollectionCourses, course.ID, course)

	chapters := []model.Chapter{
		{ID: "ch1", CourseID: "crs1", Title: "Operating", Order: 0, SectionsOrder: []string{"s1", "s2"}},
		{ID: "ch2", CourseID: "crs1", Title: "Maintenance", Order: 1, SectionsOrder: []string{"s3"}, HasQuiz: true, QuizSettings: &model.QuizSettings{
			PassingScore:            70,
			ShowFeedbackImmediately: true,
			GenerationMode:          shared.QuizModePool,
		}},
	}
	for _, ch := range chapters {
		store.Set(ctx, shared.CollectionChapters, ch.ID, ch)
	}

	sections := []model.Section{
		{ID: "s1", ChapterID: "ch1", CourseID: "crs1", Title: "Controls", Order: 0, ContentBlocksOrder: []string{"b1", "b2"}},
		{ID: "s2", ChapterID: "ch1", CourseID: "crs1", Title: "Loads", Order: 1, ContentBlocksOrder: []string{"b3"}},
		{ID: "s3", ChapterID: "ch2", CourseID: "crs1", Title: "Daily Checks", Order: 0, ContentBlocksOrder: []string{"b4"}},
	}
	for _, sec := range sections {
		store.Set(ctx, shared.CollectionSections, sec.ID, sec)
	}

	blocks := []model.ContentBlock{
		{ID: "b1", SectionID: "s1", ChapterID: "ch1", CourseID: "crs1", Type: shared.BlockTypeText, Content: "Levers and pedals.", Order: 0},
		{ID: "b2", SectionID: "s1", ChapterID: "ch1", CourseID: "crs1", Type: shared.BlockTypeMedia, Order: 1, Media: &model.BlockMedia{Type: shared.MediaTypeVideo, URL: "https://cdn.example.com/controls.mp4"}},
		{ID: "b3", SectionID: "s2", ChapterID: "ch1", CourseID: "crs1", Type: shared.BlockTypeText, Content: "Load limits.", Order: 0},
		{ID: "b4", SectionID: "s3", ChapterID: "ch2", CourseID: "crs1", Type: shared.BlockTypeText, Content: "Walkaround checklist.", Order: 0},
	}
	for _, b := range blocks {
		store.Set(ctx, shared.CollectionContentBlocks, b.ID, b)
	}
}

func loadTree(t *testing.T, courseSvc *CourseService) *model.CourseWithStructure {
	t.Helper()
	tree, err := courseSvc.LoadCourseWithStructure(context.Background(), "crs1")
	if err != nil {
		t.Fatalf("LoadCourseWithStructure: %v", err)
	}
	return tree
}
