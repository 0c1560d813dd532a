package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// formFile reads an optional multipart file. A nil result means the field
// was not sent.
func formFile(c *gin.Context, field string, limit int64) (*dto.UploadFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s upload", field))
	}
	if limit > 0 && header.Size > limit {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s exceeds %d bytes", field, limit))
	}
	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload")
	}
	defer file.Close() //nolint:errcheck
	content, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	return &dto.UploadFile{Filename: header.Filename, Content: content}, nil
}

// entryIndex parses the :index path parameter. Non-numeric values are
// reported as an invalid index.
func entryIndex(c *gin.Context) (int, error) {
	raw := c.Param("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrInvalidIndex, fmt.Sprintf("index %q is not a number", raw))
	}
	return index, nil
}

// scheduleFilter reads the shared listing filters from the query string.
func scheduleFilter(c *gin.Context) models.ScheduleFilter {
	return models.ScheduleFilter{
		TeacherName:   c.Query("teacher"),
		Subject:       c.Query("subject"),
		ClassActivity: c.Query("class"),
		Day:           c.Query("day"),
		SortBy:        c.Query("sort"),
	}
}

// paginate slices entries when a page is requested. Without a page the full
// list is returned with no pagination block.
func paginate(c *gin.Context, entries []models.ScheduleEntry) ([]models.ScheduleEntry, *models.Pagination, error) {
	rawPage := c.Query("page")
	if rawPage == "" {
		return entries, nil, nil
	}
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "page must be a positive integer")
	}
	size := defaultPageSize
	if rawSize := c.Query("page_size"); rawSize != "" {
		size, err = strconv.Atoi(rawSize)
		if err != nil || size < 1 {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "page_size must be a positive integer")
		}
		if size > maxPageSize {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("page_size must not exceed %d", maxPageSize))
		}
	}

	total := len(entries)
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	// Checked before multiplying so a huge page cannot overflow the offset.
	if page-1 > total/size {
		return []models.ScheduleEntry{}, pagination, nil
	}
	from := (page - 1) * size
	if from > total {
		from = total
	}
	to := from + size
	if to > total {
		to = total
	}
	return entries[from:to], pagination, nil
}
