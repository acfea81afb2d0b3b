package dto

// ==================== MEDIA DTOs ====================

type MediaUploadResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
}
