package domain

import (
	"context"
	"time"
)

// Certificate records a completion certificate issued for a perfect score.
type Certificate struct {
	ID             string
	UserID         string
	RecipientName  string
	RecipientEmail string
	Type           string // always "quiz" for this service
	Title          string
	Description    string
	Score          int
	PassingScore   int
	CompletionDate time.Time
	CreatedAt      time.Time
}

// CertificateRequest carries everything needed to issue one certificate.
type CertificateRequest struct {
	UserID         string
	RecipientName  string
	RecipientEmail string
	QuizID         string
	QuizTitle      string
	PassingScore   int
	CompletionDate time.Time
}

// CertificateIssuer is the port for certificate issuance. Issuance is a
// non-critical enhancement: callers must never let a failure here affect the
// submitted state of a quiz session.
type CertificateIssuer interface {
	// IssueQuizCertificate creates a certificate tagged with a 100% score.
	// Re-issuing for the same (user, quiz) pair returns the existing
	// certificate rather than a duplicate.
	IssueQuizCertificate(ctx context.Context, req CertificateRequest) (*Certificate, error)
}
