package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ErrDuplicateSubstitution is returned when the slot already has a recorded substitute.
var ErrDuplicateSubstitution = errors.New("substitution already recorded for slot")

const uniqueViolation = "23505"

// SubstitutionRepository persists accepted substitute assignments.
type SubstitutionRepository struct {
	db *sqlx.DB
}

// NewSubstitutionRepository constructs the repository.
func NewSubstitutionRepository(db *sqlx.DB) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

// Create inserts a record, assigning id and timestamp when missing.
func (r *SubstitutionRepository) Create(ctx context.Context, record *models.SubstitutionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO substitutions (id, date, period, class_activity, original_teacher, substitute_teacher, subject, created_at)
		VALUES (:id, :date, :period, :class_activity, :original_teacher, :substitute_teacher, :subject, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateSubstitution
		}
		return fmt.Errorf("insert substitution: %w", err)
	}
	return nil
}

// List returns records newest first.
func (r *SubstitutionRepository) List(ctx context.Context, filter models.SubstitutionFilter) ([]models.SubstitutionRecord, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}
	if filter.Teacher != "" {
		args = append(args, filter.Teacher)
		conditions = append(conditions, fmt.Sprintf("(original_teacher = $%d OR substitute_teacher = $%d)", len(args), len(args)))
	}

	query := `SELECT id, date, period, class_activity, original_teacher, substitute_teacher, subject, created_at FROM substitutions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	records := make([]models.SubstitutionRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list substitutions: %w", err)
	}
	return records, nil
}
