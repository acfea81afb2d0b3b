// services/certificate.go
package services

import (
	"context"
	"fmt"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/coursefoundry/academy_api/dto"
	"github.com/coursefoundry/academy_api/model"
	"github.com/coursefoundry/academy_api/shared"
)

// CertificateService issues completion certificates and verifies them via
// signed tokens that can be checked without a database round trip.
type CertificateService struct {
	appContext.DefaultService

	store       DocumentStore
	progressSvc *ProgressService

	signingKey []byte
}

const CERTIFICATE_SVC = "certificate_svc"

func (svc CertificateService) Id() string {
	return CERTIFICATE_SVC
}

func (svc *CertificateService) Configure(ctx *appContext.Context) error {
	secret := os.Getenv("CERTIFICATE_SECRET")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return fmt.Errorf("CERTIFICATE_SECRET not set")
	}
	svc.signingKey = []byte(secret)
	return svc.DefaultService.Configure(ctx)
}

func (svc *CertificateService) Start() error {
	svc.store = svc.Service(GORM_STORE_SVC).(*GormStoreService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	return nil
}

// IssueIfComplete issues a certificate for a fully completed course. Calling
// it again for the same user and course returns the existing certificate.
func (svc *CertificateService) IssueIfComplete(ctx context.Context, userID, courseID string) (*model.Certificate, error) {
	if existing, err := svc.find(ctx, userID, courseID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	progress, err := svc.progressSvc.GetProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if progress.Metrics.ProgressPercentage < 100 {
		return nil, shared.NewConflictError(nil, "course is not fully completed")
	}

	var course model.Course
	if err := svc.store.Get(ctx, shared.CollectionCourses, courseID, &course); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(err, "course not found")
		}
		return nil, err
	}

	id, _ := uuid.NewV7()
	number, _ := uuid.NewRandom()
	issuedAt := time.Now()

	token, err := svc.signToken(id.String(), userID, courseID, issuedAt)
	if err != nil {
		return nil, shared.NewInternalError(err, "failed to sign certificate token")
	}

	cert := &model.Certificate{
		ID:                id.String(),
		UserID:            userID,
		CourseID:          courseID,
		CourseTitle:       course.Title,
		CertificateNumber: number.String(),
		VerificationToken: token,
		IssuedAt:          issuedAt,
	}

	if err := svc.store.Set(ctx, shared.CollectionCertificates, cert.ID, cert); err != nil {
		return nil, err
	}

	certificatesIssuedTotal.Inc()
	log.WithFields(log.Fields{"userId": userID, "courseId": courseID}).Info("certificate issued")
	return cert, nil
}

func (svc *CertificateService) GetCertificate(ctx context.Context, userID, courseID string) (*model.Certificate, error) {
	cert, err := svc.find(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, shared.NewNotFoundError(nil, "certificate not found")
	}
	return cert, nil
}

// Verify checks a verification token's signature and returns the claims plus
// the stored certificate when it still exists.
func (svc *CertificateService) Verify(ctx context.Context, token string) (*dto.CertificateVerification, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return svc.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return &dto.CertificateVerification{Valid: false}, nil
	}

	certID, _ := claims["sub"].(string)
	userID, _ := claims["uid"].(string)
	courseID, _ := claims["cid"].(string)

	verification := &dto.CertificateVerification{
		Valid:    true,
		UserID:   userID,
		CourseID: courseID,
	}

	var cert model.Certificate
	if err := svc.store.Get(ctx, shared.CollectionCertificates, certID, &cert); err != nil {
		if shared.IsNotFound(err) {
			// Signature is good but the certificate was revoked.
			verification.Valid = false
			return verification, nil
		}
		return nil, err
	}

	verification.CertificateNumber = cert.CertificateNumber
	verification.CourseTitle = cert.CourseTitle
	verification.IssuedAt = &cert.IssuedAt
	return verification, nil
}

func (svc *CertificateService) Revoke(ctx context.Context, certificateID string) error {
	return svc.store.Delete(ctx, shared.CollectionCertificates, certificateID)
}

func (svc *CertificateService) find(ctx context.Context, userID, courseID string) (*model.Certificate, error) {
	certs := []model.Certificate{}
	where := []Where{
		{Field: "userId", Op: "==", Value: userID},
		{Field: "courseId", Op: "==", Value: courseID},
	}
	if err := svc.store.Query(ctx, shared.CollectionCertificates, where, "", &certs); err != nil {
		return nil, err
	}
	if len(certs) == 0 {
		return nil, nil
	}
	return &certs[0], nil
}

func (svc *CertificateService) signToken(certID, userID, courseID string, issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": certID,
		"uid": userID,
		"cid": courseID,
		"iat": issuedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(svc.signingKey)
}
