package services

import (
	"testing"

	"github.com/coursefoundry/academy_api/model"
)

func navigatorFixture(t *testing.T) *model.CourseWithStructure {
	t.Helper()
	store := newMemStore()
	seedCourse(store)
	return loadTree(t, newTestCourseService(store))
}

func TestNavigatorEdges(t *testing.T) {
	nav := NewNavigator(navigatorFixture(t))

	if nav.HasPrev() {
		t.Error("first block should have no prev")
	}
	if !nav.HasNext() {
		t.Error("first block should have next")
	}

	// Walk to the very end: b1 -> b2 -> b3 -> b4.
	steps := 0
	for nav.GoToNext() {
		steps++
	}
	if steps != 3 {
		t.Errorf("expected 3 forward steps, took %d", steps)
	}
	if nav.HasNext() {
		t.Error("last block should have no next")
	}
	if !nav.HasPrev() {
		t.Error("last block should have prev")
	}

	// A step at the edge is a no-op.
	ci, si, bi := nav.Position()
	if nav.GoToNext() {
		t.Error("GoToNext at the end should report false")
	}
	if ci2, si2, bi2 := nav.Position(); ci2 != ci || si2 != si || bi2 != bi {
		t.Error("cursor must not move on a refused step")
	}
}

func TestNavigatorCrossesBoundaries(t *testing.T) {
	nav := NewNavigator(navigatorFixture(t))

	// b1 -> b2 stays inside s1.
	nav.GoToNext()
	if ci, si, bi := nav.Position(); ci != 0 || si != 0 || bi != 1 {
		t.Fatalf("expected (0,0,1), got (%d,%d,%d)", ci, si, bi)
	}

	// b2 -> b3 crosses into s2.
	nav.GoToNext()
	if ci, si, bi := nav.Position(); ci != 0 || si != 1 || bi != 0 {
		t.Fatalf("expected (0,1,0), got (%d,%d,%d)", ci, si, bi)
	}

	// b3 -> b4 crosses into ch2.
	nav.GoToNext()
	if ci, si, bi := nav.Position(); ci != 1 || si != 0 || bi != 0 {
		t.Fatalf("expected (1,0,0), got (%d,%d,%d)", ci, si, bi)
	}

	// Back across the chapter boundary lands on the previous section's
	// LAST block.
	nav.GoToPrev()
	if ci, si, bi := nav.Position(); ci != 0 || si != 1 || bi != 0 {
		t.Fatalf("expected (0,1,0), got (%d,%d,%d)", ci, si, bi)
	}
	nav.GoToPrev()
	if ci, si, bi := nav.Position(); ci != 0 || si != 0 || bi != 1 {
		t.Fatalf("prev should land on last block of s1, got (%d,%d,%d)", ci, si, bi)
	}
}

func TestNavigatorNextThenPrevReturns(t *testing.T) {
	nav := NewNavigator(navigatorFixture(t))

	if err := nav.Locate(0, 1, 0); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !nav.GoToNext() || !nav.GoToPrev() {
		t.Fatal("round trip refused")
	}
	if ci, si, bi := nav.Position(); ci != 0 || si != 1 || bi != 0 {
		t.Errorf("next-then-prev should return to start, got (%d,%d,%d)", ci, si, bi)
	}
}

func TestNavigatorSkipsEmptyContainers(t *testing.T) {
	tree := navigatorFixture(t)

	// Insert an empty section between s1 and s2, and an empty chapter
	// between ch1 and ch2.
	ch1 := &tree.Chapters[0]
	ch1.Sections = []model.SectionWithBlocks{
		ch1.Sections[0],
		{Section: model.Section{ID: "sEmpty", ChapterID: "ch1"}},
		ch1.Sections[1],
	}
	tree.Chapters = []model.ChapterWithSections{
		tree.Chapters[0],
		{Chapter: model.Chapter{ID: "chEmpty", CourseID: "crs1"}},
		tree.Chapters[1],
	}

	nav := NewNavigator(tree)
	if err := nav.Locate(0, 0, 1); err != nil { // b2, last block of s1
		t.Fatalf("Locate: %v", err)
	}

	// Forward skips the empty section straight to s2's block.
	if !nav.GoToNext() {
		t.Fatal("GoToNext refused")
	}
	if ci, si, bi := nav.Position(); ci != 0 || si != 2 || bi != 0 {
		t.Fatalf("expected (0,2,0) past empty section, got (%d,%d,%d)", ci, si, bi)
	}

	// Forward skips the empty chapter into ch2.
	if !nav.GoToNext() {
		t.Fatal("GoToNext refused at chapter boundary")
	}
	if ci, si, bi := nav.Position(); ci != 2 || si != 0 || bi != 0 {
		t.Fatalf("expected (2,0,0) past empty chapter, got (%d,%d,%d)", ci, si, bi)
	}

	// And backward skips them again.
	if !nav.GoToPrev() {
		t.Fatal("GoToPrev refused")
	}
	if ci, si, bi := nav.Position(); ci != 0 || si != 2 || bi != 0 {
		t.Fatalf("expected (0,2,0) going back, got (%d,%d,%d)", ci, si, bi)
	}
}

func TestNavigatorSingleBlockCourse(t *testing.T) {
	tree := &model.CourseWithStructure{
		Course: model.Course{ID: "tiny"},
		Chapters: []model.ChapterWithSections{
			{
				Chapter: model.Chapter{ID: "c1"},
				Sections: []model.SectionWithBlocks{
					{
						Section:       model.Section{ID: "s1"},
						ContentBlocks: []model.ContentBlock{{ID: "b1"}},
					},
				},
			},
		},
	}

	nav := NewNavigator(tree)
	if nav.HasPrev() || nav.HasNext() {
		t.Error("single block course has nowhere to go")
	}
	if nav.GoToNext() || nav.GoToPrev() {
		t.Error("steps should be refused")
	}
}

func TestNavigatorLocateValidation(t *testing.T) {
	nav := NewNavigator(navigatorFixture(t))

	if err := nav.Locate(5, 0, 0); err == nil {
		t.Error("chapter index out of range should fail")
	}
	if err := nav.Locate(0, 9, 0); err == nil {
		t.Error("section index out of range should fail")
	}
	if err := nav.Locate(1, 0, 3); err == nil {
		t.Error("block index out of range should fail")
	}
	if err := nav.Locate(1, 0, 0); err != nil {
		t.Errorf("valid position refused: %v", err)
	}
}

func TestNavigatorCurrentAtEmptyContainers(t *testing.T) {
	tree := &model.CourseWithStructure{
		Course: model.Course{ID: "hollow"},
		Chapters: []model.ChapterWithSections{
			{Chapter: model.Chapter{ID: "c1"}},
		},
	}

	nav := NewNavigator(tree)
	chapter, section, block := nav.Current()
	if chapter == nil {
		t.Fatal("chapter should resolve")
	}
	if section != nil || block != nil {
		t.Error("empty chapter yields nil section and block")
	}
}
