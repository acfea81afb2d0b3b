package handlers

import (
	"context"
	"io"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/model"
)

type CourseServiceInterface interface {
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*model.Course, error)
	GetCourse(ctx context.Context, courseID string) (*model.Course, error)
	ListCourses(ctx context.Context, status string) ([]model.Course, error)
	UpdateCourse(ctx context.Context, courseID string, req dto.UpdateCourseRequest) (*model.Course, error)
	PublishCourse(ctx context.Context, courseID string) (*model.Course, error)
	AssignCourse(ctx context.Context, courseID string, companyIDs []string) (*model.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
	LoadCourseWithStructure(ctx context.Context, courseID string) (*model.CourseWithStructure, error)
}

type EditorServiceInterface interface {
	AddChapter(tree *model.CourseWithStructure, title string) *model.ChapterWithSections
	DeleteChapter(tree *model.CourseWithStructure, chapterID, activeChapterID string) (string, error)
	ReorderChapters(tree *model.CourseWithStructure, orderedIDs []string) error
	AddSection(tree *model.CourseWithStructure, chapterID, title string) (*model.SectionWithBlocks, error)
	DeleteSection(tree *model.CourseWithStructure, sectionID, activeSectionID string) (string, error)
	ReorderSections(tree *model.CourseWithStructure, chapterID string, orderedIDs []string) error
	MoveSection(tree *model.CourseWithStructure, sectionID, toChapterID string, position *int) error
	AddBlock(tree *model.CourseWithStructure, sectionID string, req dto.AddBlockRequest) (*model.ContentBlock, error)
	UpdateBlock(tree *model.CourseWithStructure, blockID string, req dto.UpdateBlockRequest) (*model.ContentBlock, error)
	DeleteBlock(tree *model.CourseWithStructure, blockID, activeBlockID string) (string, error)
	ReorderBlocks(tree *model.CourseWithStructure, sectionID string, orderedIDs []string) error
	MoveBlock(tree *model.CourseWithStructure, blockID, toSectionID string, position *int) error
	SaveStructure(ctx context.Context, tree *model.CourseWithStructure) error
}

type ProgressServiceInterface interface {
	GetProgress(ctx context.Context, userID, courseID string) (*dto.ProgressResponse, error)
	ValidateBlock(ctx context.Context, userID, courseID, blockID string) (*dto.ProgressResponse, error)
	ValidateSection(ctx context.Context, userID, courseID, sectionID string) (*dto.ProgressResponse, error)
	AddTimeSpent(ctx context.Context, userID, courseID string, seconds int) (*dto.ProgressResponse, error)
	Reset(ctx context.Context, userID, courseID string) error
}

type QuizServiceInterface interface {
	UpdateQuizSettings(ctx context.Context, courseID, chapterID string, req dto.QuizSettingsRequest) (*model.Chapter, error)
	AddQuestion(ctx context.Context, courseID, chapterID string, req dto.AddQuestionRequest) (*model.QuizQuestion, error)
	DeleteQuestion(ctx context.Context, questionID string) error
	StartAttempt(ctx context.Context, userID, courseID, chapterID string) (*dto.AttemptResponse, error)
	SubmitAttempt(ctx context.Context, userID, attemptID string, answers map[string]interface{}) (*dto.SubmitAttemptResponse, error)
	ListAttempts(ctx context.Context, userID, chapterID string) ([]dto.AttemptSummary, error)
}

type CertificateServiceInterface interface {
	IssueIfComplete(ctx context.Context, userID, courseID string) (*model.Certificate, error)
	GetCertificate(ctx context.Context, userID, courseID string) (*model.Certificate, error)
	Verify(ctx context.Context, token string) (*dto.CertificateVerification, error)
}

type NavigatorInterface interface {
	Locate(chapterIndex, sectionIndex, blockIndex int) error
	Position() (chapterIndex, sectionIndex, blockIndex int)
	Current() (*model.ChapterWithSections, *model.SectionWithBlocks, *model.ContentBlock)
	HasPrev() bool
	HasNext() bool
	GoToPrev() bool
	GoToNext() bool
}

// NavigatorFactory builds a cursor over a loaded course tree.
type NavigatorFactory func(tree *model.CourseWithStructure) NavigatorInterface

type MediaServiceInterface interface {
	Upload(ctx context.Context, courseID, filename, contentType string, r io.Reader, size int64, onProgress func(float64)) (*dto.MediaUploadResponse, error)
	PlaybackURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
