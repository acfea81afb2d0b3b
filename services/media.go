// services/media.go
package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/shared"
)

// MediaService stores course media in object storage and hands back
// presigned URLs for playback.
type MediaService struct {
	appContext.DefaultService

	objects ObjectStore

	maxUploadSize int64
	urlExpiry     time.Duration
}

const MEDIA_SVC = "media_svc"

// 500MB covers the longest lesson videos seen in practice.
const defaultMaxUploadSize = 500 << 20

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appContext.Context) error {
	svc.maxUploadSize = defaultMaxUploadSize
	svc.urlExpiry = 24 * time.Hour
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.objects = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

var allowedMediaTypes = map[string]string{
	"video/mp4":        shared.MediaTypeVideo,
	"video/webm":       shared.MediaTypeVideo,
	"audio/mpeg":       shared.MediaTypeAudio,
	"audio/wav":        shared.MediaTypeAudio,
	"image/jpeg":       shared.MediaTypeImage,
	"image/png":        shared.MediaTypeImage,
	"image/gif":        shared.MediaTypeImage,
	"image/webp":       shared.MediaTypeImage,
	"application/pdf":  shared.MediaTypeDocument,
	"application/zip":  shared.MediaTypeDocument,
	"text/plain":       shared.MediaTypeDocument,
	"application/json": shared.MediaTypeDocument,
}

// Upload streams a file into object storage under a course-scoped key.
// onProgress, when non-nil, receives the upload fraction in [0, 1].
func (svc *MediaService) Upload(ctx context.Context, courseID, filename, contentType string, r io.Reader, size int64, onProgress func(float64)) (*dto.MediaUploadResponse, error) {
	if size <= 0 {
		return nil, shared.NewBadRequestError(nil, "upload size must be positive")
	}
	if size > svc.maxUploadSize {
		return nil, shared.NewValidationError(nil, fmt.Sprintf("file exceeds maximum upload size of %d bytes", svc.maxUploadSize))
	}

	mediaType, ok := allowedMediaTypes[contentType]
	if !ok {
		return nil, shared.NewValidationError(nil, fmt.Sprintf("unsupported content type: %s", contentType))
	}

	id, _ := uuid.NewV7()
	ext := strings.ToLower(filepath.Ext(filename))
	objectName := fmt.Sprintf("courses/%s/%s/%s%s", courseID, mediaType, id.String(), ext)

	result, err := svc.objects.Upload(ctx, objectName, r, size, contentType, onProgress)
	if err != nil {
		log.WithFields(log.Fields{"courseId": courseID, "object": objectName}).WithError(err).Error("media upload failed")
		return nil, shared.NewStoreError(err, "failed to upload media")
	}

	url, err := svc.objects.URL(ctx, objectName, svc.urlExpiry)
	if err != nil {
		return nil, shared.NewStoreError(err, "failed to generate media URL")
	}

	return &dto.MediaUploadResponse{
		Key:       result.Key,
		URL:       url,
		MediaType: mediaType,
		MimeType:  contentType,
		Size:      result.Size,
	}, nil
}

// PlaybackURL returns a fresh presigned URL for an existing object.
func (svc *MediaService) PlaybackURL(ctx context.Context, key string) (string, error) {
	url, err := svc.objects.URL(ctx, key, svc.urlExpiry)
	if err != nil {
		return "", shared.NewStoreError(err, "failed to generate media URL")
	}
	return url, nil
}

func (svc *MediaService) Delete(ctx context.Context, key string) error {
	if err := svc.objects.Delete(ctx, key); err != nil {
		return shared.NewStoreError(err, "failed to delete media")
	}
	return nil
}
