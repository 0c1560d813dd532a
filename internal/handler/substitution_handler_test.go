package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type substitutionServiceMock struct {
	candidatesQuery dto.SubstitutionCandidatesQuery
	candidatesErr   error
	createReq       dto.CreateSubstitutionRequest
	createErr       error
	listQuery       dto.ListSubstitutionsQuery
}

func (m *substitutionServiceMock) Candidates(ctx context.Context, query dto.SubstitutionCandidatesQuery) (*models.SubstitutionCandidateSet, error) {
	m.candidatesQuery = query
	if m.candidatesErr != nil {
		return nil, m.candidatesErr
	}
	return &models.SubstitutionCandidateSet{
		Date:       query.Date,
		Weekday:    "Mon",
		Period:     query.Period,
		Candidates: []models.SubstitutionCandidate{{TeacherName: "B", Subject: "Math"}},
	}, nil
}

func (m *substitutionServiceMock) Create(ctx context.Context, req dto.CreateSubstitutionRequest) (*models.SubstitutionRecord, error) {
	m.createReq = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.SubstitutionRecord{ID: "sub-1", Period: req.Period}, nil
}

func (m *substitutionServiceMock) List(ctx context.Context, query dto.ListSubstitutionsQuery) ([]models.SubstitutionRecord, error) {
	m.listQuery = query
	return []models.SubstitutionRecord{}, nil
}

func TestSubstitutionHandlerCandidates(t *testing.T) {
	svc := &substitutionServiceMock{}
	handler := NewSubstitutionHandler(svc)
	c, w := newTestContext(http.MethodGet, "/substitutions/candidates?date=2025-01-06&period=1&subject=math,physics", nil)

	handler.Candidates(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.SubstitutionCandidatesQuery{Date: "2025-01-06", Period: "1", Subject: "math,physics"}, svc.candidatesQuery)
	env := decodeEnvelope(t, w)
	assert.EqualValues(t, 1, env.Meta["total"])
}

func TestSubstitutionHandlerCandidatesMissingDate(t *testing.T) {
	svc := &substitutionServiceMock{candidatesErr: appErrors.Clone(appErrors.ErrValidation, "date is required")}
	handler := NewSubstitutionHandler(svc)
	c, w := newTestContext(http.MethodGet, "/substitutions/candidates?period=1", nil)

	handler.Candidates(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubstitutionHandlerCreate(t *testing.T) {
	svc := &substitutionServiceMock{}
	handler := NewSubstitutionHandler(svc)
	body, _ := json.Marshal(dto.CreateSubstitutionRequest{
		Date: "2025-01-06", Period: "1", ClassActivity: "9A", OriginalTeacher: "A", SubstituteTeacher: "B",
	})
	c, w := newTestContext(http.MethodPost, "/substitutions", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "B", svc.createReq.SubstituteTeacher)
}

func TestSubstitutionHandlerCreateDisabled(t *testing.T) {
	svc := &substitutionServiceMock{createErr: appErrors.Clone(appErrors.ErrFeatureDisabled, "substitution records are disabled")}
	handler := NewSubstitutionHandler(svc)
	c, w := newTestContext(http.MethodPost, "/substitutions", bytes.NewBufferString(`{"date":"2025-01-06"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubstitutionHandlerList(t *testing.T) {
	svc := &substitutionServiceMock{}
	handler := NewSubstitutionHandler(svc)
	c, w := newTestContext(http.MethodGet, "/substitutions?from=2025-01-01&teacher=A", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ListSubstitutionsQuery{From: "2025-01-01", Teacher: "A"}, svc.listQuery)
}
