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

type timetableService interface {
	Upload(ctx context.Context, req dto.UploadTimetableRequest) (*dto.UploadTimetableResponse, error)
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error)
	Filters(ctx context.Context) (models.FilterOptions, error)
	Get(ctx context.Context, index int) (*models.ScheduleEntry, error)
	UpdateEntry(ctx context.Context, index int, req dto.UpdateEntryRequest) (*models.ScheduleEntry, error)
	Clashes(ctx context.Context) ([]models.Clash, error)
	Events(ctx context.Context, query dto.EventsQuery) (*dto.EventsResponse, error)
	Calendar(ctx context.Context, query dto.EventsQuery) (*dto.ExportedFile, error)
	RecurrenceRules(ctx context.Context) ([]models.RecurrenceRule, error)
	Export(ctx context.Context, format dto.ExportFormat, filter models.ScheduleFilter) (*dto.ExportedFile, error)
	Stats(ctx context.Context) (models.TimetableStats, error)
}

// TimetableHandler exposes the schedule table endpoints.
type TimetableHandler struct {
	service        timetableService
	maxUploadBytes int64
}

// NewTimetableHandler builds a timetable handler.
func NewTimetableHandler(service timetableService, maxUploadBytes int64) *TimetableHandler {
	return &TimetableHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Upload godoc
// @Summary Replace the timetable
// @Description Multipart upload of a .csv or .xlsx timetable with an optional teacher roster.
// @Tags Timetable
// @Accept multipart/form-data
// @Produce json
// @Param timetable_file formData file true "Timetable file"
// @Param teachers_file formData file false "Teacher roster"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /timetable/upload [post]
func (h *TimetableHandler) Upload(c *gin.Context) {
	timetableFile, err := formFile(c, "timetable_file", h.maxUploadBytes)
	if err != nil {
		response.Error(c, err)
		return
	}
	teachersFile, err := formFile(c, "teachers_file", h.maxUploadBytes)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Upload(c.Request.Context(), dto.UploadTimetableRequest{Timetable: timetableFile, Teachers: teachersFile})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List timetable entries
// @Tags Timetable
// @Produce json
// @Param teacher query string false "Exact teacher name"
// @Param subject query string false "Exact cleaned subject"
// @Param class query string false "Exact class/activity"
// @Param day query string false "Exact day"
// @Param sort query string false "period or teacher"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), scheduleFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	page, pagination, err := paginate(c, entries)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page, pagination)
}

// Filters godoc
// @Summary Distinct filter values
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/filters [get]
func (h *TimetableHandler) Filters(c *gin.Context) {
	options, err := h.service.Filters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

// Get godoc
// @Summary Get one timetable entry
// @Tags Timetable
// @Produce json
// @Param index path int true "Zero-based entry index"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable/entries/{index} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	index, err := entryIndex(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	entry, err := h.service.Get(c.Request.Context(), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Update godoc
// @Summary Edit one timetable entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param index path int true "Zero-based entry index"
// @Param payload body dto.UpdateEntryRequest true "Replacement fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable/entries/{index} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	index, err := entryIndex(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	entry, err := h.service.UpdateEntry(c.Request.Context(), index, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Clashes godoc
// @Summary Detect clashes
// @Description Groups sharing day, period and class/activity with two or more entries.
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/clashes [get]
func (h *TimetableHandler) Clashes(c *gin.Context) {
	clashes, err := h.service.Clashes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clashes, nil, map[string]interface{}{"total": len(clashes)})
}

// Events godoc
// @Summary Calendar events
// @Description Weekly recurrence projected onto [start, end]. Malformed bounds fall back to the default window.
// @Tags Timetable
// @Produce json
// @Param start query string false "Window start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Window end (RFC3339 or YYYY-MM-DD)"
// @Param teacher query string false "Exact teacher name"
// @Param subject query string false "Exact cleaned subject"
// @Param class query string false "Exact class/activity"
// @Success 200 {object} response.Envelope
// @Router /timetable/events [get]
func (h *TimetableHandler) Events(c *gin.Context) {
	result, err := h.service.Events(c.Request.Context(), eventsQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Events, nil, map[string]interface{}{
		"start":   result.Start,
		"end":     result.End,
		"clamped": result.Clamped,
		"cached":  result.Cached,
		"skipped": result.Skipped,
	})
}

// Calendar godoc
// @Summary iCalendar feed
// @Tags Timetable
// @Produce text/calendar
// @Param start query string false "Window start"
// @Param end query string false "Window end"
// @Success 200 {string} string
// @Router /timetable/events.ics [get]
func (h *TimetableHandler) Calendar(c *gin.Context) {
	file, err := h.service.Calendar(c.Request.Context(), eventsQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}

// RecurrenceRules godoc
// @Summary Weekly recurrence rules
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/rrules [get]
func (h *TimetableHandler) RecurrenceRules(c *gin.Context) {
	rules, err := h.service.RecurrenceRules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Export godoc
// @Summary Export the timetable
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), dto.ExportFormat(c.DefaultQuery("format", string(dto.ExportCSV))), scheduleFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}

// Stats godoc
// @Summary Timetable statistics
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/stats [get]
func (h *TimetableHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

func eventsQuery(c *gin.Context) dto.EventsQuery {
	return dto.EventsQuery{
		Start:   c.Query("start"),
		End:     c.Query("end"),
		Teacher: c.Query("teacher"),
		Subject: c.Query("subject"),
		Class:   c.Query("class"),
	}
}
