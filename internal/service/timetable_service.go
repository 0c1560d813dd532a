package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/importer"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type scheduleTable interface {
	Replace(entries []models.ScheduleEntry) uint64
	ReplaceAll(entries []models.ScheduleEntry, records []models.TeacherRecord) uint64
	Snapshot() models.TableSnapshot
	Get(index int) (models.ScheduleEntry, error)
	Update(index int, entry models.ScheduleEntry) (models.ScheduleEntry, error)
}

// EventCache stores expanded event windows.
type EventCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

type uploadArchive interface {
	Archive(kind dto.UploadKind, file dto.UploadFile, received time.Time) error
}

type icsRenderer interface {
	Render(items []export.CalendarItem, name string) ([]byte, error)
}

// TimetableServiceConfig tunes window resolution, caching and uploads.
type TimetableServiceConfig struct {
	DefaultWindow  time.Duration
	MaxWindow      time.Duration
	Location       *time.Location
	CacheTTL       time.Duration
	MaxUploadBytes int64
	CalendarName   string
}

// TimetableService owns the schedule table workflows: uploads, listing,
// edits, clash detection and calendar projection.
type TimetableService struct {
	table     scheduleTable
	cache     EventCache
	archive   uploadArchive
	metrics   *MetricsService
	csv       csvRenderer
	pdf       pdfRenderer
	ics       icsRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableServiceConfig
	now       func() time.Time
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewTimetableService constructs a TimetableService. The cache, archive and
// metrics collaborators are optional.
func NewTimetableService(table scheduleTable, cache EventCache, archive uploadArchive, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg TimetableServiceConfig) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultWindow <= 0 {
		cfg.DefaultWindow = 30 * 24 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.CalendarName == "" {
		cfg.CalendarName = "School timetable"
	}
	return &TimetableService{
		table:     table,
		cache:     cache,
		archive:   archive,
		metrics:   metrics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		ics:       export.NewICSExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Upload replaces the table, and the roster when one is supplied. Both files
// are parsed before anything is replaced.
func (s *TimetableService) Upload(ctx context.Context, req dto.UploadTimetableRequest) (*dto.UploadTimetableResponse, error) {
	if req.Timetable == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable_file is required")
	}
	if err := s.checkSize(*req.Timetable); err != nil {
		return nil, err
	}
	entries, err := importer.ParseSchedule(req.Timetable.Filename, bytes.NewReader(req.Timetable.Content))
	if err != nil {
		s.metrics.RecordUpload(string(dto.UploadSchedule), false)
		return nil, s.importError(err, req.Timetable.Filename)
	}

	var roster []models.TeacherRecord
	if req.Teachers != nil {
		if err := s.checkSize(*req.Teachers); err != nil {
			return nil, err
		}
		roster, err = importer.ParseRoster(req.Teachers.Filename, bytes.NewReader(req.Teachers.Content))
		if err != nil {
			s.metrics.RecordUpload(string(dto.UploadRoster), false)
			return nil, s.importError(err, req.Teachers.Filename)
		}
	}

	received := s.now()
	var version uint64
	if req.Teachers != nil {
		version = s.table.ReplaceAll(entries, roster)
	} else {
		version = s.table.Replace(entries)
	}
	s.metrics.RecordUpload(string(dto.UploadSchedule), true)
	s.metrics.SetTableSize(len(entries))
	s.archiveFile(dto.UploadSchedule, *req.Timetable, received)

	resp := &dto.UploadTimetableResponse{
		Entries: len(entries),
		Version: version,
		Clashes: len(timetable.DetectClashes(entries)),
	}
	if req.Teachers != nil {
		s.metrics.RecordUpload(string(dto.UploadRoster), true)
		s.archiveFile(dto.UploadRoster, *req.Teachers, received)
		count := len(roster)
		resp.Roster = &count
	}
	s.invalidateEvents(ctx)

	s.logger.Info("timetable replaced",
		zap.String("file", req.Timetable.Filename),
		zap.Int("entries", resp.Entries),
		zap.Uint64("version", version),
		zap.Int("clashes", resp.Clashes),
	)
	return resp, nil
}

// List returns the current rows narrowed by filter.
func (s *TimetableService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error) {
	return timetable.FilterEntries(s.table.Snapshot().Entries, filter), nil
}

// Filters returns the distinct values usable as list and calendar filters.
func (s *TimetableService) Filters(ctx context.Context) (models.FilterOptions, error) {
	return timetable.Options(s.table.Snapshot().Entries), nil
}

// Get returns the row at index.
func (s *TimetableService) Get(ctx context.Context, index int) (*models.ScheduleEntry, error) {
	entry, err := s.table.Get(index)
	if err != nil {
		return nil, s.indexError(err, index)
	}
	return &entry, nil
}

// UpdateEntry overwrites every field of the row at index.
func (s *TimetableService) UpdateEntry(ctx context.Context, index int, req dto.UpdateEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	entry, err := s.table.Update(index, req.Entry())
	if err != nil {
		return nil, s.indexError(err, index)
	}
	s.invalidateEvents(ctx)
	s.logger.Info("timetable entry updated", zap.Int("index", index))
	return &entry, nil
}

// Clashes reports every (day, period, class) group with two or more rows.
func (s *TimetableService) Clashes(ctx context.Context) ([]models.Clash, error) {
	return timetable.DetectClashes(s.table.Snapshot().Entries), nil
}

// RecurrenceRules describes the weekly rule of every row.
func (s *TimetableService) RecurrenceRules(ctx context.Context) ([]models.RecurrenceRule, error) {
	return timetable.RecurrenceRules(s.table.Snapshot().Entries), nil
}

// Stats summarises the loaded data.
func (s *TimetableService) Stats(ctx context.Context) (models.TimetableStats, error) {
	snapshot := s.table.Snapshot()
	return models.TimetableStats{
		Entries:   len(snapshot.Entries),
		Teachers:  len(timetable.Options(snapshot.Entries).Teachers),
		Roster:    snapshot.Roster,
		Version:   snapshot.Version,
		UpdatedAt: snapshot.UpdatedAt,
	}, nil
}

// Events projects the table onto the requested window. Malformed or absent
// bounds fall back to the default window starting now; windows longer than
// the configured maximum are shortened.
func (s *TimetableService) Events(ctx context.Context, query dto.EventsQuery) (*dto.EventsResponse, error) {
	snapshot := s.table.Snapshot()

	// Absent bounds resolve against the current minute so repeated default
	// views share a cache key.
	now := s.now().Truncate(time.Minute)
	start, end, ok := timetable.ResolveWindow(query.Start, query.End, now, s.cfg.DefaultWindow, s.cfg.Location)
	if !ok {
		s.logger.Debug("event window fell back to default", zap.String("start", query.Start), zap.String("end", query.End))
	}
	end, clamped := timetable.ClampWindow(start, end, s.cfg.MaxWindow)
	if clamped {
		s.logger.Warn("event window clamped", zap.Time("start", start), zap.Duration("max", s.cfg.MaxWindow))
	}

	key := EventsKey(snapshot.Version, start, end, query.Teacher, query.Subject, query.Class)
	if s.cache != nil {
		var cached dto.EventsResponse
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	result := timetable.Expand(snapshot.Entries, start, end)
	s.metrics.RecordExpansion(len(result.Events), result.Skipped, clamped)

	resp := &dto.EventsResponse{
		Events:  timetable.FilterEvents(result.Events, query.Teacher, query.Subject, query.Class),
		Skipped: result.Skipped,
		Start:   start,
		End:     end,
		Clamped: clamped,
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, resp, s.cfg.CacheTTL)
	}
	return resp, nil
}

// Calendar renders the events of the window as an iCalendar feed.
func (s *TimetableService) Calendar(ctx context.Context, query dto.EventsQuery) (*dto.ExportedFile, error) {
	resp, err := s.Events(ctx, query)
	if err != nil {
		return nil, err
	}
	items := make([]export.CalendarItem, 0, len(resp.Events))
	for _, event := range resp.Events {
		items = append(items, export.CalendarItem{
			UID:         event.ID,
			Summary:     event.Title,
			Description: fmt.Sprintf("Period %s (%s)", event.Period, event.TimeSlot),
			Location:    event.ClassActivity,
			Category:    event.SubjectClean,
			Color:       event.Color,
			Start:       event.Start,
			End:         event.End,
		})
	}
	content, err := s.ics.Render(items, s.cfg.CalendarName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
	}
	return &dto.ExportedFile{Filename: "timetable.ics", ContentType: "text/calendar; charset=utf-8", Content: content}, nil
}

// Export renders the filtered table as CSV or PDF.
func (s *TimetableService) Export(ctx context.Context, format dto.ExportFormat, filter models.ScheduleFilter) (*dto.ExportedFile, error) {
	entries := timetable.FilterEntries(s.table.Snapshot().Entries, filter)
	dataset := export.Dataset{Headers: models.ScheduleColumns, Rows: make([]map[string]string, 0, len(entries))}
	for _, entry := range entries {
		dataset.Rows = append(dataset.Rows, entry.Record())
	}

	switch format {
	case dto.ExportCSV, "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &dto.ExportedFile{Filename: "timetable.csv", ContentType: "text/csv", Content: content}, nil
	case dto.ExportPDF:
		content, err := s.pdf.Render(dataset, "Weekly Timetable")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &dto.ExportedFile{Filename: "timetable.pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *TimetableService) checkSize(file dto.UploadFile) error {
	if s.cfg.MaxUploadBytes > 0 && int64(len(file.Content)) > s.cfg.MaxUploadBytes {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s exceeds %d bytes", file.Filename, s.cfg.MaxUploadBytes))
	}
	return nil
}

func (s *TimetableService) importError(err error, filename string) error {
	switch {
	case errors.Is(err, importer.ErrUnsupportedFormat):
		return appErrors.Clone(appErrors.ErrUnsupportedFile, fmt.Sprintf("%s: only .csv and .xlsx files are supported", filename))
	case errors.Is(err, importer.ErrMissingColumns), errors.Is(err, importer.ErrEmptyFile):
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s: %v", filename, err))
	default:
		s.logger.Warn("upload parse failed", zap.String("file", filename), zap.Error(err))
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s could not be read", filename))
	}
}

func (s *TimetableService) indexError(err error, index int) error {
	if errors.Is(err, repository.ErrIndexOutOfRange) {
		return appErrors.Clone(appErrors.ErrInvalidIndex, fmt.Sprintf("no timetable entry at index %d", index))
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to access timetable entry")
}

func (s *TimetableService) archiveFile(kind dto.UploadKind, file dto.UploadFile, received time.Time) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Archive(kind, file, received); err != nil {
		s.logger.Warn("upload archive failed", zap.String("file", file.Filename), zap.Error(err))
	}
}

func (s *TimetableService) invalidateEvents(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, EventsPattern())
}
