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

func TestNotificationRepositoryLifecycle(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), "stu-1", "Offer Letter Received", "msg", "", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(context.Background(), &models.Notification{StudentID: "stu-1", Title: "Offer Letter Received", Message: "msg"}))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE student_id = $1 ORDER BY created_at DESC LIMIT $2")).
		WithArgs("stu-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "title", "message", "link", "is_read", "created_at"}).
			AddRow("n-1", "stu-1", "Offer Letter Received", "msg", "", false, now))
	items, err := repo.ListByStudent(context.Background(), "stu-1", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "n-1", items[0].ID)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET is_read = TRUE WHERE id = $1")).
		WithArgs("n-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.MarkRead(context.Background(), "n-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
