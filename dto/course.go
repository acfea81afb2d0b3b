package dto

import "github.com/coursefoundry/academy_api/model"

// ==================== COURSE REQUEST DTOs ====================

type CreateCourseRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=200" example:"Intro to Lacquerware"`
	Description  string `json:"description" validate:"max=5000"`
	InstructorID string `json:"instructor_id,omitempty"`
}

func (r CreateCourseRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateCourseRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	InstructorID  *string `json:"instructor_id,omitempty"`
	IntroVideoURL *string `json:"intro_video_url,omitempty" validate:"omitempty,url"`
}

func (r UpdateCourseRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AssignCourseRequest struct {
	AssignedTo []string `json:"assigned_to" validate:"required,min=1,dive,required"`
}

func (r AssignCourseRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== STRUCTURE EDITOR DTOs ====================

type AddChapterRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

func (r AddChapterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AddSectionRequest struct {
	ChapterID string `json:"chapter_id" validate:"required"`
	Title     string `json:"title" validate:"required,min=1,max=200"`
}

func (r AddSectionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AddBlockRequest struct {
	SectionID  string                 `json:"section_id" validate:"required"`
	Type       string                 `json:"type" validate:"required,block_type"`
	Content    string                 `json:"content"`
	Formatting *model.BlockFormatting `json:"formatting,omitempty"`
	Media      *model.BlockMedia      `json:"media,omitempty"`
}

func (r AddBlockRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UpdateBlockRequest struct {
	Content    *string                `json:"content,omitempty"`
	Formatting *model.BlockFormatting `json:"formatting,omitempty"`
	Media      *model.BlockMedia      `json:"media,omitempty"`
}

func (r UpdateBlockRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ReorderRequest struct {
	OrderedIDs []string `json:"ordered_ids" validate:"required,min=1,dive,required"`
}

func (r ReorderRequest) Validate() error {
	return GetValidator().Struct(r)
}

type MoveSectionRequest struct {
	ToChapterID string `json:"to_chapter_id" validate:"required"`
	Position    *int   `json:"position,omitempty" validate:"omitempty,gte=0"`
}

func (r MoveSectionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type MoveBlockRequest struct {
	ToSectionID string `json:"to_section_id" validate:"required"`
	Position    *int   `json:"position,omitempty" validate:"omitempty,gte=0"`
}

func (r MoveBlockRequest) Validate() error {
	return GetValidator().Struct(r)
}

type DeleteItemRequest struct {
	ActiveID string `json:"active_id,omitempty"`
}

// ==================== NAVIGATION DTOs ====================

type NavigateRequest struct {
	ChapterIndex int    `json:"chapter_index" validate:"gte=0"`
	SectionIndex int    `json:"section_index" validate:"gte=0"`
	BlockIndex   int    `json:"block_index" validate:"gte=0"`
	Direction    string `json:"direction" validate:"omitempty,oneof=prev next"`
}

func (r NavigateRequest) Validate() error {
	return GetValidator().Struct(r)
}

type NavigateResponse struct {
	ChapterIndex int  `json:"chapter_index"`
	SectionIndex int  `json:"section_index"`
	BlockIndex   int  `json:"block_index"`
	Moved        bool `json:"moved"`
	HasPrev      bool `json:"has_prev"`
	HasNext      bool `json:"has_next"`

	Chapter *model.ChapterWithSections `json:"chapter,omitempty"`
	Section *model.SectionWithBlocks   `json:"section,omitempty"`
	Block   *model.ContentBlock        `json:"block,omitempty"`
}
