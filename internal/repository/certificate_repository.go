package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"trainhub/internal/domain"
	"trainhub/internal/repository/models"
	"trainhub/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxCertificateRepository implements domain.CertificateIssuer using sqlx.
type sqlxCertificateRepository struct {
	db *sqlx.DB
}

// NewSQLXCertificateRepository creates a new instance of sqlxCertificateRepository.
func NewSQLXCertificateRepository(db *sqlx.DB) domain.CertificateIssuer {
	return &sqlxCertificateRepository{db: db}
}

// IssueQuizCertificate creates a certificate row for a perfect score. One
// certificate per (user, quiz) pair: when a row already exists it is
// returned instead of inserting a duplicate.
func (r *sqlxCertificateRepository) IssueQuizCertificate(ctx context.Context, req domain.CertificateRequest) (*domain.Certificate, error) {
	if existing, err := r.getByUserAndContent(ctx, req.UserID, req.QuizID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	cert := &models.Certificate{
		ID:              util.NewULID(),
		UserID:          req.UserID,
		RecipientName:   util.StringToNullString(req.RecipientName),
		RecipientEmail:  util.StringToNullString(req.RecipientEmail),
		CertificateType: "quiz",
		Title:           req.QuizTitle,
		Description:     util.StringToNullString(fmt.Sprintf("Completed %s with a perfect score", req.QuizTitle)),
		ContentID:       req.QuizID,
		Score:           100,
		PassingScore:    req.PassingScore,
		CompletionDate:  req.CompletionDate,
		CreatedAt:       time.Now(),
	}

	query := `INSERT INTO certificates
		(id, user_id, recipient_name, recipient_email, certificate_type, title, description, content_id, score, passing_score, completion_date, created_at)
	VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11, :12)`

	if _, err := r.db.ExecContext(ctx, query,
		cert.ID, cert.UserID, cert.RecipientName, cert.RecipientEmail,
		cert.CertificateType, cert.Title, cert.Description, cert.ContentID,
		cert.Score, cert.PassingScore, cert.CompletionDate, cert.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert certificate: %w", err)
	}

	return toDomainCertificate(cert), nil
}

func (r *sqlxCertificateRepository) getByUserAndContent(ctx context.Context, userID, contentID string) (*domain.Certificate, error) {
	var model models.Certificate
	query := `SELECT
		id "id",
		user_id "user_id",
		recipient_name "recipient_name",
		recipient_email "recipient_email",
		certificate_type "certificate_type",
		title "title",
		description "description",
		content_id "content_id",
		score "score",
		passing_score "passing_score",
		completion_date "completion_date",
		created_at "created_at"
	FROM certificates
	WHERE user_id = :1 AND content_id = :2 AND certificate_type = 'quiz'`

	if err := r.db.GetContext(ctx, &model, query, userID, contentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up certificate: %w", err)
	}
	return toDomainCertificate(&model), nil
}

func toDomainCertificate(m *models.Certificate) *domain.Certificate {
	return &domain.Certificate{
		ID:             m.ID,
		UserID:         m.UserID,
		RecipientName:  m.RecipientName.String,
		RecipientEmail: m.RecipientEmail.String,
		Type:           m.CertificateType,
		Title:          m.Title,
		Description:    m.Description.String,
		Score:          m.Score,
		PassingScore:   m.PassingScore,
		CompletionDate: m.CompletionDate,
		CreatedAt:      m.CreatedAt,
	}
}
