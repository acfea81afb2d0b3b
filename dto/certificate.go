package dto

import "time"

// ==================== CERTIFICATE DTOs ====================

// CertificateVerification is the public verify response. A failed check
// returns Valid=false with every other field zeroed.
type CertificateVerification struct {
	Valid             bool       `json:"valid"`
	UserID            string     `json:"user_id,omitempty"`
	CourseID          string     `json:"course_id,omitempty"`
	CourseTitle       string     `json:"course_title,omitempty"`
	CertificateNumber string     `json:"certificate_number,omitempty"`
	IssuedAt          *time.Time `json:"issued_at,omitempty"`
}
