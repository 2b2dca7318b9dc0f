package store

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/schoolkit/planner-api/internal/models"
	"github.com/schoolkit/planner-api/pkg/blobstore"
)

// Document blob names within the configured store.
const (
	TimetableDocument = "timetable.json"
	SubjectsDocument  = "subjects.json"
	HomeworkDocument  = "homework.json"
)

// DocumentStore loads and saves the three typed documents over an opaque
// blob store. Loads never fail: absence and corruption fall back to typed
// defaults, and element-level damage is repaired at this boundary. Save
// errors are returned so callers can apply the best-effort policy.
type DocumentStore struct {
	blobs   blobstore.Store
	logger  *zap.Logger
	metrics writeObserver
	now     func() time.Time
}

// writeObserver counts document rewrite outcomes.
type writeObserver interface {
	ObserveDocumentWrite(document string, ok bool)
}

// NewDocumentStore wires a document store over the given backend.
func NewDocumentStore(blobs blobstore.Store, logger *zap.Logger) *DocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentStore{blobs: blobs, logger: logger, now: time.Now}
}

// WithMetrics attaches a write observer and returns the store.
func (s *DocumentStore) WithMetrics(m writeObserver) *DocumentStore {
	s.metrics = m
	return s
}

// LoadTimetable returns the persisted grid, normalized, or an empty grid.
func (s *DocumentStore) LoadTimetable(ctx context.Context) models.Timetable {
	data, ok := s.loadBlob(ctx, TimetableDocument)
	if !ok {
		return models.EmptyTimetable()
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("timetable document corrupt, using empty grid", zap.Error(err))
		return models.EmptyTimetable()
	}
	return NormalizeTimetable(raw)
}

// SaveTimetable overwrites the timetable document in full.
func (s *DocumentStore) SaveTimetable(ctx context.Context, t models.Timetable) error {
	return s.saveBlob(ctx, TimetableDocument, t)
}

// LoadSubjects returns the persisted subject list. An absent, corrupt or
// empty document is regenerated from the timetable plus the default seed and
// immediately persisted.
func (s *DocumentStore) LoadSubjects(ctx context.Context) []string {
	if data, ok := s.loadBlob(ctx, SubjectsDocument); ok {
		var subjects []string
		if err := json.Unmarshal(data, &subjects); err == nil {
			if normalized := NormalizeSubjects(subjects); len(normalized) > 0 {
				return normalized
			}
		} else {
			s.logger.Warn("subjects document corrupt, regenerating", zap.Error(err))
		}
	}

	regenerated := NormalizeSubjects(append(s.LoadTimetable(ctx).Subjects(), models.DefaultSubjects...))
	if err := s.SaveSubjects(ctx, regenerated); err != nil {
		s.logger.Warn("persist regenerated subjects failed", zap.Error(err))
	}
	return regenerated
}

// SaveSubjects overwrites the subject document in full.
func (s *DocumentStore) SaveSubjects(ctx context.Context, subjects []string) error {
	return s.saveBlob(ctx, SubjectsDocument, NormalizeSubjects(subjects))
}

// LoadHomework returns the persisted homework list with non-record elements
// dropped and per-record defaults applied.
func (s *DocumentStore) LoadHomework(ctx context.Context) []models.Homework {
	data, ok := s.loadBlob(ctx, HomeworkDocument)
	if !ok {
		return []models.Homework{}
	}
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("homework document corrupt, using empty list", zap.Error(err))
		return []models.Homework{}
	}
	return NormalizeHomework(CoerceHomework(raw), s.now())
}

// SaveHomework overwrites the homework document in full.
func (s *DocumentStore) SaveHomework(ctx context.Context, items []models.Homework) error {
	return s.saveBlob(ctx, HomeworkDocument, items)
}

func (s *DocumentStore) loadBlob(ctx context.Context, name string) ([]byte, bool) {
	data, ok, err := s.blobs.Load(ctx, name)
	if err != nil {
		s.logger.Warn("load document failed", zap.String("document", name), zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (s *DocumentStore) saveBlob(ctx context.Context, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	err = s.blobs.Save(ctx, name, data)
	if s.metrics != nil {
		s.metrics.ObserveDocumentWrite(name, err == nil)
	}
	if err != nil {
		s.logger.Warn("save document failed", zap.String("document", name), zap.Error(err))
		return err
	}
	return nil
}
