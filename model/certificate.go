package model

import "time"

// Certificate records a completed course. The verification token is a signed
// claim (user, course, issue date) that third parties can check without
// store access.
type Certificate struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	CourseID          string    `json:"courseId"`
	CourseTitle       string    `json:"courseTitle"`
	CertificateNumber string    `json:"certificateNumber"`
	VerificationToken string    `json:"verificationToken"`
	IssuedAt          time.Time `json:"issuedAt"`
}
