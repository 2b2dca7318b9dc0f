package service

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/schoolkit/planner-api/internal/models"
	"github.com/schoolkit/planner-api/internal/store"
	appErrors "github.com/schoolkit/planner-api/pkg/errors"
)

type timetableDocuments interface {
	LoadTimetable(ctx context.Context) models.Timetable
	SaveTimetable(ctx context.Context, t models.Timetable) error
}

// subjectRegistry is the slice of SubjectService the other services need.
type subjectRegistry interface {
	EnsureAll(ctx context.Context, names []string) bool
	Flush(ctx context.Context) bool
}

// TimetableService owns the in-memory weekly grid. Cell edits stay in memory
// until an explicit Save; Save and Import also grow the subject list from the
// non-empty cells.
type TimetableService struct {
	docs     timetableDocuments
	subjects subjectRegistry
	logger   *zap.Logger

	mu   sync.Mutex
	grid models.Timetable
}

// NewTimetableService loads the persisted grid and returns the service.
func NewTimetableService(ctx context.Context, docs timetableDocuments, subjects subjectRegistry, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		docs:     docs,
		subjects: subjects,
		logger:   logger,
		grid:     docs.LoadTimetable(ctx),
	}
}

// Get returns a copy of the current grid.
func (s *TimetableService) Get() models.Timetable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Clone()
}

// SetCell updates one slot in memory. Nothing is persisted until Save.
func (s *TimetableService) SetCell(day string, period int, value string) error {
	if !models.ValidWeekday(day) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown weekday")
	}
	if period < 0 || period >= models.PeriodsPerDay {
		return appErrors.Clone(appErrors.ErrValidation, "period index out of range")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid[day][period] = value
	return nil
}

// Replace swaps the whole in-memory grid (normalized) and persists it,
// growing the subject list from the non-empty cells.
func (s *TimetableService) Replace(ctx context.Context, grid models.Timetable) (persisted bool) {
	s.mu.Lock()
	s.grid = store.NormalizeTimetable(store.TimetableToRaw(grid))
	s.mu.Unlock()
	return s.Save(ctx)
}

// Save persists the grid and unions its subjects into the subject list.
func (s *TimetableService) Save(ctx context.Context) (persisted bool) {
	s.mu.Lock()
	grid := s.grid.Clone()
	s.mu.Unlock()

	persisted = true
	if err := s.docs.SaveTimetable(ctx, grid); err != nil {
		s.logger.Warn("persist timetable failed", zap.Error(err))
		persisted = false
	}
	if !s.subjects.EnsureAll(ctx, grid.Subjects()) {
		persisted = false
	}
	return persisted
}

// Reset blanks every cell and persists both the grid and the unchanged
// subject list.
func (s *TimetableService) Reset(ctx context.Context) (persisted bool) {
	s.mu.Lock()
	s.grid = models.EmptyTimetable()
	grid := s.grid.Clone()
	s.mu.Unlock()

	persisted = true
	if err := s.docs.SaveTimetable(ctx, grid); err != nil {
		s.logger.Warn("persist timetable failed", zap.Error(err))
		persisted = false
	}
	if !s.subjects.Flush(ctx) {
		persisted = false
	}
	return persisted
}

// Import replaces the grid with an uploaded document. A payload whose top
// level is not a mapping is rejected and the grid is left unchanged.
func (s *TimetableService) Import(ctx context.Context, raw []byte) (persisted bool, err error) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrImportFormat.Code, appErrors.ErrImportFormat.Status, "timetable import is not valid JSON")
	}
	mapping, ok := decoded.(map[string]interface{})
	if !ok {
		return false, appErrors.Clone(appErrors.ErrImportFormat, "timetable import must be a JSON object keyed by weekday")
	}

	s.mu.Lock()
	s.grid = store.NormalizeTimetable(mapping)
	s.mu.Unlock()
	return s.Save(ctx), nil
}

// Export serializes the current grid for download. No persistence side
// effect; the result re-imports cleanly.
func (s *TimetableService) Export() ([]byte, error) {
	s.mu.Lock()
	grid := s.grid.Clone()
	s.mu.Unlock()
	return json.MarshalIndent(grid, "", "  ")
}
