// services/store.go
package services

import (
	"context"
	"io"
	"time"

	"github.com/coursefoundry/academy_api/model"
)

// DocumentStore is the persistence capability the engine is written against.
// The production implementation is the gorm-backed store service; tests
// substitute an in-memory fake. Get returns a NOT_FOUND AppError when the
// document does not exist; all other failures surface as STORE_FAILURE and
// are never retried here.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string, out interface{}) error
	Query(ctx context.Context, collection string, where []Where, orderBy string, out interface{}) error
	Set(ctx context.Context, collection, id string, doc interface{}) error
	Update(ctx context.Context, collection, id string, partial map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	// BatchWrite applies all ops or none.
	BatchWrite(ctx context.Context, ops []BatchOp) error
}

// Where filters on a top-level document field.
type Where struct {
	Field string
	Op    string // "==" only; kept explicit for readability at call sites
	Value interface{}
}

const (
	BatchOpSet    = "set"
	BatchOpDelete = "delete"
)

type BatchOp struct {
	Collection string
	ID         string
	Op         string
	Doc        interface{} // nil for delete
}

// ObjectStore is the blob storage capability. Upload reports fractional
// progress through onProgress (nil to skip); uploads are not cancellable
// beyond ctx. Only resulting URLs ever reach the content tree.
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string, onProgress func(float64)) (*UploadResult, error)
	Delete(ctx context.Context, objectName string) error
	URL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

type UploadResult struct {
	Bucket   string
	Key      string
	Size     int64
	ETag     string
	MimeType string
}

// QuestionSource produces the question set for a chapter quiz. The pool
// implementation reads the quiz_questions collection; the onTheFly mode
// delegates to an injected generator whose internals are opaque here.
type QuestionSource interface {
	Questions(ctx context.Context, chapter *model.Chapter, settings model.QuizSettings) ([]model.QuizQuestion, error)
}
