package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type substitutionRepoStub struct {
	created []models.SubstitutionRecord
	filter  models.SubstitutionFilter
	err     error
}

func (s *substitutionRepoStub) Create(ctx context.Context, record *models.SubstitutionRecord) error {
	if s.err != nil {
		return s.err
	}
	record.ID = "sub-1"
	s.created = append(s.created, *record)
	return nil
}

func (s *substitutionRepoStub) List(ctx context.Context, filter models.SubstitutionFilter) ([]models.SubstitutionRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.filter = filter
	return s.created, nil
}

func newSubstitutionTable() *repository.ScheduleTableRepository {
	table := repository.NewScheduleTableRepository()
	table.Replace([]models.ScheduleEntry{
		{TeacherName: "A", Subject: "Math1", Day: "Wed", Period: "2", ClassActivity: "9A"},
		{TeacherName: "B", Subject: "Math2", Day: "Wed", Period: "3", ClassActivity: "9A"},
		{TeacherName: "C", Subject: "History", Day: "Mon", Period: "3", ClassActivity: "9B"},
	})
	return table
}

func TestSubstitutionServiceCandidates(t *testing.T) {
	svc := NewSubstitutionService(newSubstitutionTable(), nil, nil, nil, nil, time.UTC)

	set, err := svc.Candidates(context.Background(), dto.SubstitutionCandidatesQuery{Date: "2025-01-08", Period: "3", Subject: "math"})
	require.NoError(t, err)
	assert.Equal(t, "Wed", set.Weekday)
	assert.Equal(t, []models.SubstitutionCandidate{{TeacherName: "A", Subject: "Math1"}}, set.Candidates)

	set, err = svc.Candidates(context.Background(), dto.SubstitutionCandidatesQuery{Date: "2025-01-08", Period: "3", Subject: "art"})
	require.NoError(t, err)
	assert.NotNil(t, set.Candidates)
	assert.Empty(t, set.Candidates)
}

func TestSubstitutionServiceCandidatesValidation(t *testing.T) {
	svc := NewSubstitutionService(newSubstitutionTable(), nil, nil, nil, nil, time.UTC)

	for _, query := range []dto.SubstitutionCandidatesQuery{
		{Period: "3"},
		{Date: "2025-01-08"},
		{Date: "08/01/2025", Period: "3"},
	} {
		_, err := svc.Candidates(context.Background(), query)
		assertAppError(t, err, appErrors.ErrValidation.Code)
	}
}

func TestSubstitutionServiceCreate(t *testing.T) {
	repo := &substitutionRepoStub{}
	svc := NewSubstitutionService(newSubstitutionTable(), repo, NewMetricsService(), nil, nil, time.UTC)

	record, err := svc.Create(context.Background(), dto.CreateSubstitutionRequest{
		Date: "2025-01-08", Period: "3", ClassActivity: "9A", OriginalTeacher: "B", SubstituteTeacher: "A", Subject: "Math1",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-1", record.ID)
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), record.Date)
	require.Len(t, repo.created, 1)

	_, err = svc.Create(context.Background(), dto.CreateSubstitutionRequest{
		Date: "2025-01-08", Period: "3", ClassActivity: "9A", OriginalTeacher: "A", SubstituteTeacher: "A",
	})
	assertAppError(t, err, appErrors.ErrValidation.Code)

	_, err = svc.Create(context.Background(), dto.CreateSubstitutionRequest{Date: "tomorrow"})
	assertAppError(t, err, appErrors.ErrValidation.Code)

	repo.err = repository.ErrDuplicateSubstitution
	_, err = svc.Create(context.Background(), dto.CreateSubstitutionRequest{
		Date: "2025-01-08", Period: "3", ClassActivity: "9A", OriginalTeacher: "B", SubstituteTeacher: "A",
	})
	assertAppError(t, err, appErrors.ErrConflict.Code)

	repo.err = errors.New("db down")
	_, err = svc.Create(context.Background(), dto.CreateSubstitutionRequest{
		Date: "2025-01-08", Period: "3", ClassActivity: "9A", OriginalTeacher: "B", SubstituteTeacher: "A",
	})
	assertAppError(t, err, appErrors.ErrInternal.Code)
}

func TestSubstitutionServiceList(t *testing.T) {
	repo := &substitutionRepoStub{created: []models.SubstitutionRecord{{ID: "sub-1"}}}
	svc := NewSubstitutionService(newSubstitutionTable(), repo, nil, nil, nil, time.UTC)

	records, err := svc.List(context.Background(), dto.ListSubstitutionsQuery{From: "2025-01-01", Teacher: " A "})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.NotNil(t, repo.filter.DateFrom)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *repo.filter.DateFrom)
	assert.Nil(t, repo.filter.DateTo)
	assert.Equal(t, "A", repo.filter.Teacher)

	_, err = svc.List(context.Background(), dto.ListSubstitutionsQuery{To: "soon"})
	assertAppError(t, err, appErrors.ErrValidation.Code)
}

func TestSubstitutionServiceDisabledStore(t *testing.T) {
	svc := NewSubstitutionService(newSubstitutionTable(), nil, nil, nil, nil, time.UTC)

	_, err := svc.List(context.Background(), dto.ListSubstitutionsQuery{})
	assertAppError(t, err, appErrors.ErrFeatureDisabled.Code)
	_, err = svc.Create(context.Background(), dto.CreateSubstitutionRequest{})
	assertAppError(t, err, appErrors.ErrFeatureDisabled.Code)
}
