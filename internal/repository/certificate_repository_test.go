package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"trainhub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func certificateColumns() []string {
	return []string{"id", "user_id", "recipient_name", "recipient_email", "certificate_type",
		"title", "description", "content_id", "score", "passing_score", "completion_date", "created_at"}
}

func perfectScoreRequest() domain.CertificateRequest {
	return domain.CertificateRequest{
		UserID:         "user1",
		RecipientName:  "Ana Petrova",
		RecipientEmail: "ana@hotel.example",
		QuizID:         "quiz1",
		QuizTitle:      "Fire Safety Basics",
		PassingScore:   70,
		CompletionDate: time.Now(),
	}
}

func TestIssueQuizCertificate_CreatesRow(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	issuer := NewSQLXCertificateRepository(db)

	mock.ExpectQuery("SELECT(.|\n)*FROM certificates").
		WithArgs("user1", "quiz1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO certificates").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cert, err := issuer.IssueQuizCertificate(context.Background(), perfectScoreRequest())
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.NotEmpty(t, cert.ID)
	assert.Equal(t, 100, cert.Score)
	assert.Equal(t, "quiz", cert.Type)
	assert.Equal(t, "Fire Safety Basics", cert.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueQuizCertificate_DeduplicatesPerUserAndQuiz(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	issuer := NewSQLXCertificateRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT(.|\n)*FROM certificates").
		WithArgs("user1", "quiz1").
		WillReturnRows(sqlmock.NewRows(certificateColumns()).
			AddRow("cert1", "user1", "Ana Petrova", "ana@hotel.example", "quiz",
				"Fire Safety Basics", "Completed with a perfect score", "quiz1", 100, 70, now, now))

	cert, err := issuer.IssueQuizCertificate(context.Background(), perfectScoreRequest())
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.Equal(t, "cert1", cert.ID, "retaking with 100%% must return the existing certificate")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueQuizCertificate_InsertFailure(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	issuer := NewSQLXCertificateRepository(db)

	dbErr := errors.New("ORA-00001: unique constraint violated")
	mock.ExpectQuery("SELECT(.|\n)*FROM certificates").
		WithArgs("user1", "quiz1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO certificates").WillReturnError(dbErr)

	cert, err := issuer.IssueQuizCertificate(context.Background(), perfectScoreRequest())
	require.Error(t, err)
	assert.Nil(t, cert)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
