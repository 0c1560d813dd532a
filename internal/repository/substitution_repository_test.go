package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func newSubstitutionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubstitutionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	date := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO substitutions").
		WithArgs(sqlmock.AnyArg(), date, "3", "9A", "B", "A", "Math1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.SubstitutionRecord{
		Date:              date,
		Period:            "3",
		ClassActivity:     "9A",
		OriginalTeacher:   "B",
		SubstituteTeacher: "A",
		Subject:           "Math1",
	}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryCreateDuplicateSlot(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectExec("INSERT INTO substitutions").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.SubstitutionRecord{Date: time.Now(), Period: "3", ClassActivity: "9A"})
	assert.ErrorIs(t, err, ErrDuplicateSubstitution)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "date", "period", "class_activity", "original_teacher", "substitute_teacher", "subject", "created_at"}).
		AddRow("sub-1", now, "3", "9A", "B", "A", "Math1", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, date, period, class_activity, original_teacher, substitute_teacher, subject, created_at FROM substitutions ORDER BY date DESC, created_at DESC")).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.SubstitutionFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "sub-1", records[0].ID)
	assert.Equal(t, "A", records[0].SubstituteTeacher)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryListFiltered(t *testing.T) {
	db, mock, cleanup := newSubstitutionMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM substitutions WHERE date >= $1 AND (original_teacher = $2 OR substitute_teacher = $2)")).
		WithArgs(from, "A").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, err := repo.List(context.Background(), models.SubstitutionFilter{DateFrom: &from, Teacher: "A"})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
