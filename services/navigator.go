// services/navigator.go
package services

import (
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// Cursor is the in-memory reading position: zero-based chapter, section and
// block indices kept mutually consistent.
type Cursor struct {
	ChapterIndex int `json:"chapterIndex"`
	SectionIndex int `json:"sectionIndex"`
	BlockIndex   int `json:"blockIndex"`
}

// Navigator walks the assembled content tree sequentially. Traversal crosses
// section and chapter boundaries in both directions and skips containers
// with no content: a chapter without sections, or a section without blocks,
// has no valid position and is stepped over.
type Navigator struct {
	tree *model.CourseWithStructure
	cur  Cursor
}

func NewNavigator(tree *model.CourseWithStructure) *Navigator {
	return &Navigator{tree: tree}
}

func (n *Navigator) Cursor() Cursor {
	return n.cur
}

func (n *Navigator) Position() (chapterIndex, sectionIndex, blockIndex int) {
	return n.cur.ChapterIndex, n.cur.SectionIndex, n.cur.BlockIndex
}

// SelectChapter moves to a chapter and resets section and block to 0.
func (n *Navigator) SelectChapter(chapterIndex int) error {
	if chapterIndex < 0 || chapterIndex >= len(n.tree.Chapters) {
		return shared.NewBadRequestError(nil, "chapter index out of range")
	}
	n.cur = Cursor{ChapterIndex: chapterIndex}
	return nil
}

// SelectSection moves to a section of the current chapter and resets block
// to 0.
func (n *Navigator) SelectSection(sectionIndex int) error {
	chapter := &n.tree.Chapters[n.cur.ChapterIndex]
	if sectionIndex < 0 || sectionIndex >= len(chapter.Sections) {
		return shared.NewBadRequestError(nil, "section index out of range")
	}
	n.cur = Cursor{ChapterIndex: n.cur.ChapterIndex, SectionIndex: sectionIndex}
	return nil
}

// SelectBlock moves to a block of the current section.
func (n *Navigator) SelectBlock(blockIndex int) error {
	chapter := &n.tree.Chapters[n.cur.ChapterIndex]
	if n.cur.SectionIndex >= len(chapter.Sections) {
		return shared.NewBadRequestError(nil, "current chapter has no sections")
	}
	section := &chapter.Sections[n.cur.SectionIndex]
	if blockIndex < 0 || blockIndex >= len(section.ContentBlocks) {
		return shared.NewBadRequestError(nil, "block index out of range")
	}
	n.cur.BlockIndex = blockIndex
	return nil
}

// Locate places the cursor at an explicit (chapter, section, block) triple,
// validating each index against the tree. A zero index is accepted at an
// empty container so a cursor can rest on it.
func (n *Navigator) Locate(chapterIndex, sectionIndex, blockIndex int) error {
	if chapterIndex < 0 || chapterIndex >= len(n.tree.Chapters) {
		return shared.NewBadRequestError(nil, "chapter index out of range")
	}
	chapter := &n.tree.Chapters[chapterIndex]

	if sectionIndex < 0 || (sectionIndex >= len(chapter.Sections) && sectionIndex != 0) {
		return shared.NewBadRequestError(nil, "section index out of range")
	}
	if sectionIndex >= len(chapter.Sections) {
		n.cur = Cursor{ChapterIndex: chapterIndex}
		return nil
	}
	section := &chapter.Sections[sectionIndex]

	if blockIndex < 0 || (blockIndex >= len(section.ContentBlocks) && blockIndex != 0) {
		return shared.NewBadRequestError(nil, "block index out of range")
	}
	if blockIndex >= len(section.ContentBlocks) {
		blockIndex = 0
	}

	n.cur = Cursor{ChapterIndex: chapterIndex, SectionIndex: sectionIndex, BlockIndex: blockIndex}
	return nil
}

// Current returns the chapter, section and block under the cursor. Section
// or block may be nil at an empty container.
func (n *Navigator) Current() (*model.ChapterWithSections, *model.SectionWithBlocks, *model.ContentBlock) {
	if n.cur.ChapterIndex >= len(n.tree.Chapters) {
		return nil, nil, nil
	}
	chapter := &n.tree.Chapters[n.cur.ChapterIndex]
	if n.cur.SectionIndex >= len(chapter.Sections) {
		return chapter, nil, nil
	}
	section := &chapter.Sections[n.cur.SectionIndex]
	if n.cur.BlockIndex >= len(section.ContentBlocks) {
		return chapter, section, nil
	}
	return chapter, section, &section.ContentBlocks[n.cur.BlockIndex]
}

func (n *Navigator) HasPrev() bool {
	_, ok := n.prevPosition()
	return ok
}

func (n *Navigator) HasNext() bool {
	_, ok := n.nextPosition()
	return ok
}

// GoToPrev steps backward: previous block, else the LAST block of the
// previous non-empty section, else the last block of the last non-empty
// section of a previous chapter. No-op at the very first position.
func (n *Navigator) GoToPrev() bool {
	pos, ok := n.prevPosition()
	if !ok {
		return false
	}
	n.cur = pos
	return true
}

// GoToNext mirrors GoToPrev: next block, else the FIRST block of the next
// non-empty section, else the first block of the next chapter that has one.
func (n *Navigator) GoToNext() bool {
	pos, ok := n.nextPosition()
	if !ok {
		return false
	}
	n.cur = pos
	return true
}

func (n *Navigator) prevPosition() (Cursor, bool) {
	if n.cur.BlockIndex > 0 {
		return Cursor{n.cur.ChapterIndex, n.cur.SectionIndex, n.cur.BlockIndex - 1}, true
	}

	if n.cur.ChapterIndex < len(n.tree.Chapters) {
		chapter := &n.tree.Chapters[n.cur.ChapterIndex]
		for si := n.cur.SectionIndex - 1; si >= 0; si-- {
			if blocks := len(chapter.Sections[si].ContentBlocks); blocks > 0 {
				return Cursor{n.cur.ChapterIndex, si, blocks - 1}, true
			}
		}
	}

	for ci := n.cur.ChapterIndex - 1; ci >= 0; ci-- {
		chapter := &n.tree.Chapters[ci]
		for si := len(chapter.Sections) - 1; si >= 0; si-- {
			if blocks := len(chapter.Sections[si].ContentBlocks); blocks > 0 {
				return Cursor{ci, si, blocks - 1}, true
			}
		}
	}

	return Cursor{}, false
}

func (n *Navigator) nextPosition() (Cursor, bool) {
	if n.cur.ChapterIndex < len(n.tree.Chapters) {
		chapter := &n.tree.Chapters[n.cur.ChapterIndex]

		if n.cur.SectionIndex < len(chapter.Sections) {
			section := &chapter.Sections[n.cur.SectionIndex]
			if n.cur.BlockIndex+1 < len(section.ContentBlocks) {
				return Cursor{n.cur.ChapterIndex, n.cur.SectionIndex, n.cur.BlockIndex + 1}, true
			}
		}

		for si := n.cur.SectionIndex + 1; si < len(chapter.Sections); si++ {
			if len(chapter.Sections[si].ContentBlocks) > 0 {
				return Cursor{n.cur.ChapterIndex, si, 0}, true
			}
		}
	}

	for ci := n.cur.ChapterIndex + 1; ci < len(n.tree.Chapters); ci++ {
		chapter := &n.tree.Chapters[ci]
		for si := range chapter.Sections {
			if len(chapter.Sections[si].ContentBlocks) > 0 {
				return Cursor{ci, si, 0}, true
			}
		}
	}

	return Cursor{}, false
}
