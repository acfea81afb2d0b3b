package services

import (
	"context"
	"testing"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

func TestLoadCourseWithStructure(t *testing.T) {
	store := newMemStore()
	seedCourse(store)
	svc := newTestCourseService(store)

	tree := loadTree(t, svc)

	if len(tree.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(tree.Chapters))
	}
	if tree.Chapters[0].ID != "ch1" || tree.Chapters[1].ID != "ch2" {
		t.Errorf("chapter order wrong: %s, %s", tree.Chapters[0].ID, tree.Chapters[1].ID)
	}

	ch1 := tree.Chapters[0]
	if len(ch1.Sections) != 2 {
		t.Fatalf("expected 2 sections in ch1, got %d", len(ch1.Sections))
	}
	if ch1.Sections[0].ID != "s1" || ch1.Sections[1].ID != "s2" {
		t.Errorf("section order wrong: %s, %s", ch1.Sections[0].ID, ch1.Sections[1].ID)
	}

	s1 := ch1.Sections[0]
	if len(s1.ContentBlocks) != 2 {
		t.Fatalf("expected 2 blocks in s1, got %d", len(s1.ContentBlocks))
	}
	if s1.ContentBlocks[0].ID != "b1" || s1.ContentBlocks[1].ID != "b2" {
		t.Errorf("block order wrong: %s, %s", s1.ContentBlocks[0].ID, s1.ContentBlocks[1].ID)
	}
}

func TestLoadCourseOrderArrayAuthoritative(t *testing.T) {
	store := newMemStore()
	seedCourse(store)
	ctx := context.Background()

	// Flip the order array; the stored Order fields still say the opposite.
	var course model.Course
	store.Get(ctx, shared.CollectionCourses, "crs1", &course)
	course.ChaptersOrder = []string{"ch2", "ch1"}
	store.Set(ctx, shared.CollectionCourses, "crs1", course)

	tree := loadTree(t, newTestCourseService(store))

	if tree.Chapters[0].ID != "ch2" || tree.Chapters[1].ID != "ch1" {
		t.Errorf("order array should win over Order fields: got %s, %s", tree.Chapters[0].ID, tree.Chapters[1].ID)
	}
}

func TestLoadCourseAppendsMissingFromOrderArray(t *testing.T) {
	store := newMemStore()
	seedCourse(store)
	ctx := context.Background()

	// A chapter persisted without an order array entry must still appear,
	// after the sequenced ones.
	store.Set(ctx, shared.CollectionChapters, "ch3", model.Chapter{
		ID: "ch3", CourseID: "crs1", Title: "Stray", Order: 7, SectionsOrder: []string{},
	})

	tree := loadTree(t, newTestCourseService(store))

	if len(tree.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(tree.Chapters))
	}
	if tree.Chapters[2].ID != "ch3" {
		t.Errorf("unsequenced chapter should append last, got %s", tree.Chapters[2].ID)
	}
}

func TestLoadCourseDropsUnknownBlockTypes(t *testing.T) {
	store := newMemStore()
	seedCourse(store)
	ctx := context.Background()

	store.Set(ctx, shared.CollectionContentBlocks, "b9", model.ContentBlock{
		ID: "b9", SectionID: "s2", ChapterID: "ch1", CourseID: "crs1", Type: "hologram",
	})

	tree := loadTree(t, newTestCourseService(store))

	s2 := tree.Chapters[0].Sections[1]
	for _, b := range s2.ContentBlocks {
		if b.ID == "b9" {
			t.Error("unknown block type should be dropped at the load boundary")
		}
	}
}

func TestGetCourseNotFound(t *testing.T) {
	svc := newTestCourseService(newMemStore())

	_, err := svc.GetCourse(context.Background(), "missing")
	if !shared.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateCoursePartialFields(t *testing.T) {
	store := newMemStore()
	seedCourse(store)
	svc := newTestCourseService(store)
	ctx := context.Background()

	title := "Forklift Certification"
	updated, err := svc.UpdateCourse(ctx, "crs1", dto.UpdateCourseRequest{Title: &title})
	if err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}

	if updated.Title != title {
		t.Errorf("title not updated: %q", updated.Title)
	}
	if updated.Status != shared.CourseStatusPublished {
		t.Errorf("untouched field changed: %q", updated.Status)
	}
	if len(updated.ChaptersOrder) != 2 {
		t.Errorf("ordering array lost in partial update: %v", updated.ChaptersOrder)
	}
}

func TestPublishCourse(t *testing.T) {
	store := newMemStore()
	svc := newTestCourseService(store)
	ctx := context.Background()

	created, err := svc.CreateCourse(ctx, dto.CreateCourseRequest{Title: "Draft Course"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if created.Status != shared.CourseStatusDraft {
		t.Fatalf("new course should be draft, got %q", created.Status)
	}

	published, err := svc.PublishCourse(ctx, created.ID)
	if err != nil {
		t.Fatalf("PublishCourse: %v", err)
	}
	if published.Status != shared.CourseStatusPublished {
		t.Errorf("expected published, got %q", published.Status)
	}
}

func TestAssignCourseChecksCompanies(t *testing.T) {
	store := newMemStore()
	seedCourse(store)
	svc := newTestCourseService(store)
	ctx := context.Background()

	if _, err := svc.AssignCourse(ctx, "crs1", []string{"acme"}); err == nil {
		t.Fatal("unknown company id should be rejected")
	}

	store.Set(ctx, shared.CollectionCompanies, "acme", model.Company{ID: "acme", Name: "Acme Logistics"})

	assigned, err := svc.AssignCourse(ctx, "crs1", []string{"acme", "acme"})
	if err != nil {
		t.Fatalf("AssignCourse: %v", err)
	}
	if len(assigned.AssignedTo) != 1 || assigned.AssignedTo[0] != "acme" {
		t.Errorf("assignment set wrong: %v", assigned.AssignedTo)
	}
}

func TestDeleteCourseCascades(t *testing.T) {
	store := newMemStore()
	seedCourse(store)
	svc := newTestCourseService(store)
	progressSvc := newTestProgressService(store, svc)
	ctx := context.Background()

	if _, err := progressSvc.GetOrInit(ctx, "u1", "crs1"); err != nil {
		t.Fatalf("GetOrInit: %v", err)
	}

	if err := svc.DeleteCourse(ctx, "crs1"); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}

	for _, collection := range []string{
		shared.CollectionCourses,
		shared.CollectionChapters,
		shared.CollectionSections,
		shared.CollectionContentBlocks,
		shared.CollectionProgress,
	} {
		if n := store.count(collection); n != 0 {
			t.Errorf("%s: %d records survived the delete", collection, n)
		}
	}
}
