package services

import (
	"context"
	"testing"

	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

func quizFixture(t *testing.T) (*memStore, *QuizService) {
	t.Helper()
	store := newMemStore()
	seedCourse(store)
	seedQuestions(store)

	courseSvc := newTestCourseService(store)
	progressSvc := newTestProgressService(store, courseSvc)
	svc := &QuizService{
		store:       store,
		courseSvc:   courseSvc,
		progressSvc: progressSvc,
		pool:        &PoolQuestionSource{store: store},
	}
	return store, svc
}

func seedQuestions(store DocumentStore) {
	ctx := context.Background()
	questions := []model.QuizQuestion{
		{ID: "q1", ChapterID: "ch2", CourseID: "crs1", Type: "multiple_choice", Question: "Check the forks?", Options: []string{"Daily", "Weekly"}, Answer: "Daily", Points: 1},
		{ID: "q2", ChapterID: "ch2", CourseID: "crs1", Type: "fill_blank", Question: "Report damage to your ____.", Answer: "supervisor", Points: 1},
		{ID: "q3", ChapterID: "ch2", CourseID: "crs1", Type: "multiple_choice", Question: "Horn works?", Options: []string{"Yes", "No"}, Answer: "Yes", Points: 2},
	}
	for _, q := range questions {
		store.Set(ctx, shared.CollectionQuizQuestions, q.ID, q)
	}
}

func TestIsAnswerCorrect(t *testing.T) {
	tests := []struct {
		name     string
		question model.QuizQuestion
		answer   interface{}
		want     bool
	}{
		{"exact match", model.QuizQuestion{Type: "multiple_choice", Answer: "Daily"}, "Daily", true},
		{"case insensitive", model.QuizQuestion{Type: "fill_blank", Answer: "Supervisor"}, "supervisor", true},
		{"trims whitespace", model.QuizQuestion{Type: "fill_blank", Answer: "supervisor"}, "  supervisor ", true},
		{"wrong answer", model.QuizQuestion{Type: "multiple_choice", Answer: "Daily"}, "Weekly", false},
		{"drag drop order match", model.QuizQuestion{Type: "drag_drop", Answer: []interface{}{"a", "b"}}, []interface{}{"a", "b"}, true},
		{"drag drop order mismatch", model.QuizQuestion{Type: "drag_drop", Answer: []interface{}{"a", "b"}}, []interface{}{"b", "a"}, false},
		{"unknown type never passes", model.QuizQuestion{Type: "essay", Answer: "x"}, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAnswerCorrect(tt.question, tt.answer); got != tt.want {
				t.Errorf("isAnswerCorrect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPoolQuestionSourceCapsCount(t *testing.T) {
	store := newMemStore()
	seedQuestions(store)
	pool := &PoolQuestionSource{store: store}
	chapter := &model.Chapter{ID: "ch2"}

	all, err := pool.Questions(context.Background(), chapter, model.QuizSettings{})
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 pool questions, got %d", len(all))
	}

	capped, err := pool.Questions(context.Background(), chapter, model.QuizSettings{QuestionCount: 2})
	if err != nil {
		t.Fatalf("Questions capped: %v", err)
	}
	if len(capped) != 2 {
		t.Errorf("expected 2 questions, got %d", len(capped))
	}
}

func TestStartAttemptStripsAnswers(t *testing.T) {
	_, svc := quizFixture(t)

	attempt, err := svc.StartAttempt(context.Background(), "u1", "crs1", "ch2")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if len(attempt.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(attempt.Questions))
	}
	for _, q := range attempt.Questions {
		if q.Question == "" {
			t.Error("question text missing")
		}
	}
}

func TestStartAttemptRequiresQuiz(t *testing.T) {
	_, svc := quizFixture(t)

	// ch1 has no quiz.
	if _, err := svc.StartAttempt(context.Background(), "u1", "crs1", "ch1"); err == nil {
		t.Error("chapter without quiz should refuse attempts")
	}
}

func TestStartAttemptEnforcesAttemptLimit(t *testing.T) {
	store, svc := quizFixture(t)
	ctx := context.Background()

	var chapter model.Chapter
	store.Get(ctx, shared.CollectionChapters, "ch2", &chapter)
	chapter.QuizSettings.AttemptsAllowed = 1
	store.Set(ctx, shared.CollectionChapters, "ch2", chapter)

	attempt, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2")
	if err != nil {
		t.Fatalf("first StartAttempt: %v", err)
	}

	// Unsubmitted attempts do not burn the allowance.
	if _, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2"); err != nil {
		t.Fatalf("second StartAttempt before submitting: %v", err)
	}

	if _, err := svc.SubmitAttempt(ctx, "u1", attempt.ID, map[string]interface{}{}); err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if _, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2"); err == nil {
		t.Error("attempt limit should refuse further attempts")
	}

	// Other users are unaffected.
	if _, err := svc.StartAttempt(ctx, "u2", "crs1", "ch2"); err != nil {
		t.Errorf("other user's attempt refused: %v", err)
	}
}

func TestSubmitAttemptGrading(t *testing.T) {
	_, svc := quizFixture(t)
	ctx := context.Background()

	attempt, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}

	// q1 (1pt) and q3 (2pts) right, q2 wrong: 3 of 4 points = 75 >= 70.
	result, err := svc.SubmitAttempt(ctx, "u1", attempt.ID, map[string]interface{}{
		"q1": "Daily",
		"q2": "manager",
		"q3": "Yes",
	})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	if result.Score != 75 {
		t.Errorf("score = %d, want 75", result.Score)
	}
	if !result.Passed {
		t.Error("75 should pass at threshold 70")
	}
	if result.EarnedPoints != 3 || result.TotalPoints != 4 {
		t.Errorf("points = %d/%d, want 3/4", result.EarnedPoints, result.TotalPoints)
	}
	if len(result.Feedback) != 3 {
		t.Errorf("per-question feedback expected, got %v", result.Feedback)
	}
	if !result.Feedback["q1"] || result.Feedback["q2"] || !result.Feedback["q3"] {
		t.Errorf("feedback wrong: %v", result.Feedback)
	}
}

func TestSubmitAttemptPassMarksQuizCompleted(t *testing.T) {
	store, svc := quizFixture(t)
	ctx := context.Background()

	attempt, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	_, err = svc.SubmitAttempt(ctx, "u1", attempt.ID, map[string]interface{}{
		"q1": "Daily", "q2": "supervisor", "q3": "Yes",
	})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}

	var progress model.UserCourseProgress
	if err := store.Get(ctx, shared.CollectionProgress, model.ProgressDocID("u1", "crs1"), &progress); err != nil {
		t.Fatalf("Get progress: %v", err)
	}
	if !progress.HasCompletedQuiz("ch2") {
		t.Error("passed quiz should be recorded on the progress record")
	}
}

func TestSubmitAttemptFailDoesNotMarkQuiz(t *testing.T) {
	store, svc := quizFixture(t)
	ctx := context.Background()

	attempt, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	result, err := svc.SubmitAttempt(ctx, "u1", attempt.ID, map[string]interface{}{
		"q1": "Weekly", "q2": "nobody", "q3": "No",
	})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if result.Passed {
		t.Fatal("all wrong answers should not pass")
	}

	if n := store.count(shared.CollectionProgress); n != 0 {
		t.Errorf("failed quiz must not touch progress, found %d records", n)
	}
}

func TestSubmitAttemptTwiceConflicts(t *testing.T) {
	_, svc := quizFixture(t)
	ctx := context.Background()

	attempt, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if _, err := svc.SubmitAttempt(ctx, "u1", attempt.ID, map[string]interface{}{}); err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if _, err := svc.SubmitAttempt(ctx, "u1", attempt.ID, map[string]interface{}{}); err == nil {
		t.Error("resubmission should conflict")
	}
}

func TestSubmitAttemptWrongUser(t *testing.T) {
	_, svc := quizFixture(t)
	ctx := context.Background()

	attempt, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2")
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	if _, err := svc.SubmitAttempt(ctx, "u2", attempt.ID, map[string]interface{}{}); !shared.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND for foreign attempt, got %v", err)
	}
}

func TestOnTheFlyModeRequiresGenerator(t *testing.T) {
	store, svc := quizFixture(t)
	ctx := context.Background()

	var chapter model.Chapter
	store.Get(ctx, shared.CollectionChapters, "ch2", &chapter)
	chapter.QuizSettings.GenerationMode = shared.QuizModeOnTheFly
	store.Set(ctx, shared.CollectionChapters, "ch2", chapter)

	if _, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2"); err == nil {
		t.Error("onTheFly without a generator should fail")
	}

	svc.SetGenerator(&fixedQuestions{questions: []model.QuizQuestion{
		{ID: "gen1", ChapterID: "ch2", Type: "fill_blank", Question: "Generated?", Answer: "yes", Points: 1},
	}})

	attempt, err := svc.StartAttempt(ctx, "u1", "crs1", "ch2")
	if err != nil {
		t.Fatalf("StartAttempt with generator: %v", err)
	}
	if len(attempt.Questions) != 1 || attempt.Questions[0].ID != "gen1" {
		t.Errorf("generated questions not used: %+v", attempt.Questions)
	}
}
