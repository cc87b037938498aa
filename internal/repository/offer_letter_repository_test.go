package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnaav/skillnaav-api/internal/models"
)

func TestOfferLetterRepositoryCreateAndFindLatest(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewOfferLetterRepository(db)

	mock.ExpectExec("INSERT INTO offer_letters").
		WillReturnResult(sqlmock.NewResult(1, 1))

	letter := &models.OfferLetter{
		StudentID: "stu-1",
		Name:      "Asha",
		Email:     "asha@example.com",
		Position:  "Intern",
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:    models.OfferLetterSent,
		FilePath:  "stu-1/offer.pdf",
	}
	require.NoError(t, repo.Create(context.Background(), letter))
	assert.NotEmpty(t, letter.ID)
	assert.False(t, letter.SentAt.IsZero())

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM offer_letters WHERE student_id = $1 ORDER BY sent_at DESC LIMIT 1")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "internship_id", "name", "email", "position", "company_name", "location", "start_date", "status", "file_path", "download_url", "sent_at", "updated_at"}).
			AddRow(letter.ID, "stu-1", nil, "Asha", "asha@example.com", "Intern", "", "", now, "Sent", "stu-1/offer.pdf", "http://x/dl", now, now))

	found, err := repo.FindLatestByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, letter.ID, found.ID)
	assert.Nil(t, found.InternshipID)
	assert.Equal(t, models.OfferLetterSent, found.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferLetterRepositoryUpdateStatusNoMatch(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewOfferLetterRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE offer_letters SET status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(models.OfferLetterAccepted, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateStatus(context.Background(), "missing", models.OfferLetterAccepted)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
