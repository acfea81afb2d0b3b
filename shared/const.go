package shared

const (
	UserID = "user_id"

	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"

	BlockTypeText  = "text"
	BlockTypeMedia = "media"
	BlockTypeFile  = "file"
	BlockTypeCode  = "code"
	BlockTypeEmbed = "embed"

	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypeAudio    = "audio"
	MediaTypeDocument = "document"

	ProgressNotStarted = "not-started"
	ProgressInProgress = "in-progress"
	ProgressCompleted  = "completed"

	QuizModePool     = "pool"
	QuizModeOnTheFly = "onTheFly"
)

// Document store collections
const (
	CollectionCourses       = "courses"
	CollectionChapters      = "chapters"
	CollectionSections      = "sections"
	CollectionContentBlocks = "content_blocks"
	CollectionInstructors   = "instructors"
	CollectionCompanies     = "companies"
	CollectionProgress      = "user_course_progress"
	CollectionQuizQuestions = "quiz_questions"
	CollectionQuizAttempts  = "quiz_attempts"
	CollectionCertificates  = "certificates"
)
