package service

import (
	"context"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/logger"

	"go.uber.org/zap"
)

// certificateService issues certificates in the background. Submission never
// waits on it and never observes its failures.
type certificateService struct {
	issuer  domain.CertificateIssuer
	timeout time.Duration
}

// NewCertificateTrigger creates a new instance of certificateService
func NewCertificateTrigger(issuer domain.CertificateIssuer) CertificateTrigger {
	return &certificateService{issuer: issuer, timeout: 30 * time.Second}
}

func (s *certificateService) RequestIssuance(req domain.CertificateRequest) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		cert, err := s.issuer.IssueQuizCertificate(ctx, req)
		if err != nil {
			logger.Get().Error("Certificate issuance failed",
				zap.String("userID", req.UserID),
				zap.String("quizID", req.QuizID),
				zap.Error(err))
			return
		}
		logger.Get().Info("Certificate issued",
			zap.String("certificateID", cert.ID),
			zap.String("userID", req.UserID),
			zap.String("quizID", req.QuizID))
	}()
}
