package model

import "time"

// Document is the single relational row shape behind the generic document
// store: one JSON payload per (collection, doc id).
type Document struct {
	Collection string    `json:"collection" gorm:"primaryKey;size:64"`
	DocID      string    `json:"doc_id" gorm:"primaryKey;size:128"`
	Data       []byte    `json:"data" gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
