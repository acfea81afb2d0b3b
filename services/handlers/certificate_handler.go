package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursefoundry/academy_api/shared"
)

type CertificateHandler struct {
	certificateSvc CertificateServiceInterface
}

func NewCertificateHandler(certificateSvc CertificateServiceInterface) *CertificateHandler {
	return &CertificateHandler{
		certificateSvc: certificateSvc,
	}
}

// @Summary Issue Certificate
// @Description Issue a completion certificate when the course is fully completed; repeated calls return the existing certificate
// @Tags certificate
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param courseId path string true "Course ID"
// @Success 201 {object} shared.Response{data=model.Certificate}
// @Router /api/v1/courses/{courseId}/certificate [post]
func (h *CertificateHandler) IssueCertificate(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	cert, err := h.certificateSvc.IssueIfComplete(c.Context(), userID, courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", cert)
}

// @Summary Get Certificate
// @Description Get the caller's certificate for a course
// @Tags certificate
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=model.Certificate}
// @Router /api/v1/courses/{courseId}/certificate [get]
func (h *CertificateHandler) GetCertificate(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	courseID := c.Params("courseId")

	cert, err := h.certificateSvc.GetCertificate(c.Context(), userID, courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", cert)
}

// @Summary Verify Certificate
// @Description Verify a certificate token; public, no auth required
// @Tags certificate
// @Accept json
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} shared.Response{data=dto.CertificateVerification}
// @Router /api/v1/certificates/verify [get]
func (h *CertificateHandler) VerifyCertificate(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return shared.NewBadRequestError(nil, "token is required")
	}

	verification, err := h.certificateSvc.Verify(c.Context(), token)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", verification)
}
