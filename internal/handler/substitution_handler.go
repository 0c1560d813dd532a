package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type substitutionService interface {
	Candidates(ctx context.Context, query dto.SubstitutionCandidatesQuery) (*models.SubstitutionCandidateSet, error)
	Create(ctx context.Context, req dto.CreateSubstitutionRequest) (*models.SubstitutionRecord, error)
	List(ctx context.Context, query dto.ListSubstitutionsQuery) ([]models.SubstitutionRecord, error)
}

// SubstitutionHandler exposes substitute lookup and records.
type SubstitutionHandler struct {
	service substitutionService
}

// NewSubstitutionHandler builds a substitution handler.
func NewSubstitutionHandler(service substitutionService) *SubstitutionHandler {
	return &SubstitutionHandler{service: service}
}

// Candidates godoc
// @Summary Free substitute teachers
// @Tags Substitutions
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param period query string true "Period, matched exactly"
// @Param subject query string false "Comma separated subject substrings"
// @Param class query string false "Comma separated class names"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /substitutions/candidates [get]
func (h *SubstitutionHandler) Candidates(c *gin.Context) {
	var query dto.SubstitutionCandidatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	set, err := h.service.Candidates(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, set, nil, map[string]interface{}{"total": len(set.Candidates)})
}

// Create godoc
// @Summary Record a substitution
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubstitutionRequest true "Substitution"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /substitutions [post]
func (h *SubstitutionHandler) Create(c *gin.Context) {
	var req dto.CreateSubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// List godoc
// @Summary List recorded substitutions
// @Tags Substitutions
// @Produce json
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Param teacher query string false "Original or substitute teacher"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /substitutions [get]
func (h *SubstitutionHandler) List(c *gin.Context) {
	var query dto.ListSubstitutionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	records, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
