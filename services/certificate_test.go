package services

import (
	"context"
	"testing"

	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

func certificateFixture(t *testing.T) (*ProgressService, *CertificateService) {
	t.Helper()
	store := newMemStore()
	seedCourse(store)
	courseSvc := newTestCourseService(store)
	progressSvc := newTestProgressService(store, courseSvc)
	certSvc := &CertificateService{
		store:       store,
		progressSvc: progressSvc,
		signingKey:  []byte("test-signing-key"),
	}
	return progressSvc, certSvc
}

func completeCourse(t *testing.T, progressSvc *ProgressService, userID string) {
	t.Helper()
	ctx := context.Background()
	for _, sectionID := range []string{"s1", "s2", "s3"} {
		if _, err := progressSvc.ValidateSection(ctx, userID, "crs1", sectionID); err != nil {
			t.Fatalf("ValidateSection %s: %v", sectionID, err)
		}
	}
	if _, err := progressSvc.MarkQuizCompleted(ctx, userID, "crs1", "ch2"); err != nil {
		t.Fatalf("MarkQuizCompleted: %v", err)
	}
}

func TestIssueRefusedBeforeCompletion(t *testing.T) {
	progressSvc, certSvc := certificateFixture(t)
	ctx := context.Background()

	if _, err := progressSvc.ValidateSection(ctx, "u1", "crs1", "s1"); err != nil {
		t.Fatalf("ValidateSection: %v", err)
	}

	if _, err := certSvc.IssueIfComplete(ctx, "u1", "crs1"); err == nil {
		t.Error("certificate must not issue below 100%")
	}
}

func TestIssueRefusedOnStaleCompletedIDs(t *testing.T) {
	store := newMemStore()
	seedCourse(store)
	courseSvc := newTestCourseService(store)
	progressSvc := newTestProgressService(store, courseSvc)
	certSvc := &CertificateService{
		store:       store,
		progressSvc: progressSvc,
		signingKey:  []byte("test-signing-key"),
	}
	ctx := context.Background()

	// One live section plus ids belonging to content that no longer exists.
	// The raw count matches the denominator but the course is far from done.
	store.Set(ctx, shared.CollectionProgress, model.ProgressDocID("u1", "crs1"), model.UserCourseProgress{
		ID:                model.ProgressDocID("u1", "crs1"),
		UserID:            "u1",
		CourseID:          "crs1",
		CompletedSections: []string{"s1", "sDel1", "sDel2"},
		CompletedQuizzes:  []string{"chGone"},
		Status:            shared.ProgressInProgress,
	})

	if _, err := certSvc.IssueIfComplete(ctx, "u1", "crs1"); err == nil {
		t.Error("stale completion ids must not earn a certificate")
	}
}

func TestIssueIsIdempotent(t *testing.T) {
	progressSvc, certSvc := certificateFixture(t)
	ctx := context.Background()

	completeCourse(t, progressSvc, "u1")

	first, err := certSvc.IssueIfComplete(ctx, "u1", "crs1")
	if err != nil {
		t.Fatalf("IssueIfComplete: %v", err)
	}
	if first.CourseTitle != "Forklift Basics" {
		t.Errorf("course title not captured: %q", first.CourseTitle)
	}
	if first.VerificationToken == "" || first.CertificateNumber == "" {
		t.Error("token and number should be populated")
	}

	second, err := certSvc.IssueIfComplete(ctx, "u1", "crs1")
	if err != nil {
		t.Fatalf("repeat IssueIfComplete: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("repeat issue should return the existing certificate")
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	progressSvc, certSvc := certificateFixture(t)
	ctx := context.Background()

	completeCourse(t, progressSvc, "u1")
	cert, err := certSvc.IssueIfComplete(ctx, "u1", "crs1")
	if err != nil {
		t.Fatalf("IssueIfComplete: %v", err)
	}

	verification, err := certSvc.Verify(ctx, cert.VerificationToken)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !verification.Valid {
		t.Fatal("freshly issued token should verify")
	}
	if verification.UserID != "u1" || verification.CourseID != "crs1" {
		t.Errorf("claims wrong: %s %s", verification.UserID, verification.CourseID)
	}
	if verification.CertificateNumber != cert.CertificateNumber {
		t.Errorf("number mismatch")
	}
}

func TestVerifyRejectsGarbageAndRevoked(t *testing.T) {
	progressSvc, certSvc := certificateFixture(t)
	ctx := context.Background()

	verification, err := certSvc.Verify(ctx, "not-a-token")
	if err != nil {
		t.Fatalf("Verify garbage: %v", err)
	}
	if verification.Valid {
		t.Error("garbage token should not verify")
	}

	completeCourse(t, progressSvc, "u1")
	cert, err := certSvc.IssueIfComplete(ctx, "u1", "crs1")
	if err != nil {
		t.Fatalf("IssueIfComplete: %v", err)
	}
	if err := certSvc.Revoke(ctx, cert.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	verification, err = certSvc.Verify(ctx, cert.VerificationToken)
	if err != nil {
		t.Fatalf("Verify revoked: %v", err)
	}
	if verification.Valid {
		t.Error("revoked certificate should not verify")
	}
}

func TestGetCertificateNotFound(t *testing.T) {
	_, certSvc := certificateFixture(t)

	_, err := certSvc.GetCertificate(context.Background(), "u1", "crs1")
	if !shared.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
