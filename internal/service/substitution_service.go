package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// SubstitutionStore persists accepted substitutions.
type SubstitutionStore interface {
	Create(ctx context.Context, record *models.SubstitutionRecord) error
	List(ctx context.Context, filter models.SubstitutionFilter) ([]models.SubstitutionRecord, error)
}

type scheduleSnapshotter interface {
	Snapshot() models.TableSnapshot
}

// SubstitutionService resolves free teachers for a slot and stores accepted
// substitutions. Without a repository only the candidate lookup is served.
type SubstitutionService struct {
	table     scheduleSnapshotter
	repo      SubstitutionStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
}

// NewSubstitutionService constructs a SubstitutionService.
func NewSubstitutionService(table scheduleSnapshotter, repo SubstitutionStore, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, location *time.Location) *SubstitutionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &SubstitutionService{table: table, repo: repo, metrics: metrics, validator: validate, logger: logger, location: location}
}

// Candidates lists teachers free at the requested date and period. An empty
// candidate list is a successful result.
func (s *SubstitutionService) Candidates(ctx context.Context, query dto.SubstitutionCandidatesQuery) (*models.SubstitutionCandidateSet, error) {
	rawDate := strings.TrimSpace(query.Date)
	if rawDate == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, timetable.ErrMissingDate.Error())
	}
	date, err := time.ParseInLocation(dateLayout, rawDate, s.location)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
	}

	set, err := timetable.FreeCandidates(s.table.Snapshot().Entries, models.SubstitutionQuery{
		Date:          date,
		Period:        strings.TrimSpace(query.Period),
		SubjectFilter: query.Subject,
		ClassFilter:   query.Class,
	})
	if err != nil {
		if errors.Is(err, timetable.ErrMissingDate) || errors.Is(err, timetable.ErrMissingPeriod) {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve candidates")
	}
	return &set, nil
}

// Create stores an accepted substitution.
func (s *SubstitutionService) Create(ctx context.Context, req dto.CreateSubstitutionRequest) (*models.SubstitutionRecord, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, s.location)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
	}

	record := &models.SubstitutionRecord{
		Date:              date,
		Period:            strings.TrimSpace(req.Period),
		ClassActivity:     strings.TrimSpace(req.ClassActivity),
		OriginalTeacher:   strings.TrimSpace(req.OriginalTeacher),
		SubstituteTeacher: strings.TrimSpace(req.SubstituteTeacher),
		Subject:           strings.TrimSpace(req.Subject),
	}
	start := time.Now()
	err = s.repo.Create(ctx, record)
	s.metrics.ObserveDBQuery("substitutions.create", time.Since(start))
	if errors.Is(err, repository.ErrDuplicateSubstitution) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a substitute is already recorded for this slot")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save substitution")
	}
	s.logger.Info("substitution recorded",
		zap.String("id", record.ID),
		zap.String("date", req.Date),
		zap.String("period", record.Period),
		zap.String("substitute", record.SubstituteTeacher),
	)
	return record, nil
}

// List returns stored substitutions, newest first.
func (s *SubstitutionService) List(ctx context.Context, query dto.ListSubstitutionsQuery) ([]models.SubstitutionRecord, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	filter := models.SubstitutionFilter{Teacher: strings.TrimSpace(query.Teacher)}
	for _, bound := range []struct {
		raw    string
		target **time.Time
		name   string
	}{
		{query.From, &filter.DateFrom, "from"},
		{query.To, &filter.DateTo, "to"},
	} {
		if strings.TrimSpace(bound.raw) == "" {
			continue
		}
		parsed, err := time.ParseInLocation(dateLayout, strings.TrimSpace(bound.raw), s.location)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, bound.name+" must use YYYY-MM-DD")
		}
		*bound.target = &parsed
	}

	start := time.Now()
	records, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("substitutions.list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list substitutions")
	}
	return records, nil
}

func (s *SubstitutionService) requireStore() error {
	if s.repo == nil {
		return appErrors.Clone(appErrors.ErrFeatureDisabled, "substitution records are disabled")
	}
	return nil
}
