package repository

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ErrIndexOutOfRange is returned for positional access outside the current table.
var ErrIndexOutOfRange = errors.New("entry index out of range")

// ScheduleTableRepository owns the in-memory timetable. Uploads replace the
// whole table atomically; edits mutate one row under the same lock, so
// readers always observe a complete table at a single version.
type ScheduleTableRepository struct {
	mu        sync.RWMutex
	entries   []models.ScheduleEntry
	roster    []models.TeacherRecord
	version   uint64
	updatedAt time.Time
	now       func() time.Time
}

// NewScheduleTableRepository constructs an empty table.
func NewScheduleTableRepository() *ScheduleTableRepository {
	return &ScheduleTableRepository{now: time.Now}
}

// Replace swaps in a new table, re-indexing rows by position. The roster is
// left as is.
func (r *ScheduleTableRepository) Replace(entries []models.ScheduleEntry) uint64 {
	rows := indexRows(entries)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.swap(rows)
}

// ReplaceAll swaps in a new table and roster under one lock, so no reader
// sees the new rows next to the previous roster.
func (r *ScheduleTableRepository) ReplaceAll(entries []models.ScheduleEntry, records []models.TeacherRecord) uint64 {
	rows := indexRows(entries)
	roster := make([]models.TeacherRecord, len(records))
	copy(roster, records)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.roster = roster
	return r.swap(rows)
}

// swap must be called with mu held.
func (r *ScheduleTableRepository) swap(rows []models.ScheduleEntry) uint64 {
	r.entries = rows
	r.version++
	r.updatedAt = r.now().UTC()
	return r.version
}

func indexRows(entries []models.ScheduleEntry) []models.ScheduleEntry {
	rows := make([]models.ScheduleEntry, len(entries))
	copy(rows, entries)
	for i := range rows {
		rows[i].Index = i
	}
	return rows
}

// Snapshot copies the current table.
func (r *ScheduleTableRepository) Snapshot() models.TableSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]models.ScheduleEntry, len(r.entries))
	copy(entries, r.entries)
	return models.TableSnapshot{
		Entries:   entries,
		Roster:    len(r.roster),
		Version:   r.version,
		UpdatedAt: r.updatedAt,
	}
}

// Get returns the entry at index.
func (r *ScheduleTableRepository) Get(index int) (models.ScheduleEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.entries) {
		return models.ScheduleEntry{}, fmt.Errorf("get entry %d of %d: %w", index, len(r.entries), ErrIndexOutOfRange)
	}
	return r.entries[index], nil
}

// Update overwrites every field of the entry at index, keeping its position.
func (r *ScheduleTableRepository) Update(index int, entry models.ScheduleEntry) (models.ScheduleEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.entries) {
		return models.ScheduleEntry{}, fmt.Errorf("update entry %d of %d: %w", index, len(r.entries), ErrIndexOutOfRange)
	}
	entry.Index = index
	r.entries[index] = entry
	r.version++
	r.updatedAt = r.now().UTC()
	return entry, nil
}
