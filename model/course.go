// model/course.go
package model

import "time"

// Course is the stored course document. The assembled chapter tree is a
// derived view (CourseWithStructure), never stored on the course itself.
// JSON tags follow the document-store field names; partial updates address
// fields by these keys.
type Course struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"` // draft, published
	InstructorID  string    `json:"instructorId,omitempty"`
	IntroVideoURL string    `json:"introVideoUrl,omitempty"`
	ChaptersOrder []string  `json:"chaptersOrder"`
	AssignedTo    []string  `json:"assignedTo"` // company ids
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// QuizSettings configures the end-of-chapter quiz when Chapter.HasQuiz is set.
type QuizSettings struct {
	PassingScore            int    `json:"passingScore"` // 0-100
	TimeLimit               int    `json:"timeLimit"`    // minutes
	QuestionCount           int    `json:"questionCount"`
	AttemptsAllowed         int    `json:"attemptsAllowed"` // 0 = unlimited
	IsRandomized            bool   `json:"isRandomized"`
	ShowFeedbackImmediately bool   `json:"showFeedbackImmediately"`
	GenerationMode          string `json:"generationMode"` // pool, onTheFly
}

type Chapter struct {
	ID            string        `json:"id"`
	CourseID      string        `json:"courseId"`
	Title         string        `json:"title"`
	Order         int           `json:"order"`
	SectionsOrder []string      `json:"sectionsOrder"`
	HasQuiz       bool          `json:"hasQuiz"`
	QuizSettings  *QuizSettings `json:"quizSettings,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type Section struct {
	ID                 string    `json:"id"`
	ChapterID          string    `json:"chapterId"`
	CourseID           string    `json:"courseId"`
	Title              string    `json:"title"`
	Order              int       `json:"order"`
	ContentBlocksOrder []string  `json:"contentBlocksOrder"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// BlockFormatting applies to text blocks only.
type BlockFormatting struct {
	Bold      bool   `json:"bold"`
	Italic    bool   `json:"italic"`
	List      bool   `json:"list"`
	Alignment string `json:"alignment,omitempty"`
}

// BlockMedia applies to media blocks only.
type BlockMedia struct {
	Type         string `json:"type"` // image, video, audio
	URL          string `json:"url"`
	Alignment    string `json:"alignment,omitempty"`
	Caption      string `json:"caption,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Duration     int    `json:"duration,omitempty"` // seconds
	FileSize     int64  `json:"fileSize,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
}

// ContentBlock is the smallest addressable unit of course content. Content
// meaning depends on Type: markdown for text, URL for file/embed, source for
// code, empty for media. Exactly one of Formatting (text) or Media (media)
// may be populated.
type ContentBlock struct {
	ID         string           `json:"id"`
	SectionID  string           `json:"sectionId"`
	ChapterID  string           `json:"chapterId"`
	CourseID   string           `json:"courseId"`
	Type       string           `json:"type"`
	Content    string           `json:"content"`
	Order      int              `json:"order"`
	Formatting *BlockFormatting `json:"formatting,omitempty"`
	Media      *BlockMedia      `json:"media,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

type Instructor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChapterWithSections is a chapter with its assembled, ordered children.
type ChapterWithSections struct {
	Chapter
	Sections []SectionWithBlocks `json:"sections"`
}

type SectionWithBlocks struct {
	Section
	ContentBlocks []ContentBlock `json:"contentBlocks"`
}

// CourseWithStructure is the fully assembled content tree, built from the
// flat collections by the course service. Chapter/section/block sequence
// follows the ordering arrays, with records missing from an order array
// appended rather than dropped.
type CourseWithStructure struct {
	Course
	Instructor *Instructor           `json:"instructor,omitempty"`
	Chapters   []ChapterWithSections `json:"chapters"`
}

// TotalSections counts sections across all chapters.
func (c *CourseWithStructure) TotalSections() int {
	n := 0
	for i := range c.Chapters {
		n += len(c.Chapters[i].Sections)
	}
	return n
}

// TotalQuizzes counts chapters carrying a quiz.
func (c *CourseWithStructure) TotalQuizzes() int {
	n := 0
	for i := range c.Chapters {
		if c.Chapters[i].HasQuiz {
			n++
		}
	}
	return n
}

// FindChapter returns the chapter with the given id, or nil.
func (c *CourseWithStructure) FindChapter(chapterID string) *ChapterWithSections {
	for i := range c.Chapters {
		if c.Chapters[i].ID == chapterID {
			return &c.Chapters[i]
		}
	}
	return nil
}

// FindSection returns the owning chapter and the section with the given id.
func (c *CourseWithStructure) FindSection(sectionID string) (*ChapterWithSections, *SectionWithBlocks) {
	for i := range c.Chapters {
		for j := range c.Chapters[i].Sections {
			if c.Chapters[i].Sections[j].ID == sectionID {
				return &c.Chapters[i], &c.Chapters[i].Sections[j]
			}
		}
	}
	return nil, nil
}
