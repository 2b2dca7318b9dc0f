package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolkit/planner-api/internal/models"
	appErrors "github.com/schoolkit/planner-api/pkg/errors"
)

type homeworkDocuments interface {
	LoadHomework(ctx context.Context) []models.Homework
	SaveHomework(ctx context.Context, items []models.Homework) error
}

// idGenerator hands out millisecond-timestamp ids, bumping past the last
// issued id when two allocations land in the same millisecond.
type idGenerator struct {
	mu   sync.Mutex
	last int64
}

func (g *idGenerator) next(now time.Time) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// AddHomeworkRequest captures fields for registering a homework.
type AddHomeworkRequest struct {
	Subject            string              `json:"subject" validate:"required"`
	Content            string              `json:"content" validate:"required"`
	Due                string              `json:"due"`
	Status             models.Status       `json:"status"`
	SubmitMethod       models.SubmitMethod `json:"submit_method"`
	SubmitMethodDetail string              `json:"submit_method_detail"`
}

// MutationResult reports the outcome of a homework mutation. Persisted=false
// means the in-memory state changed but the document rewrite failed; the
// presentation layer decides whether to surface that.
type MutationResult struct {
	Record    *models.Homework
	Found     bool
	Persisted bool
}

// HomeworkService owns the in-memory homework collection for the process
// lifetime. Every mutation ends in a full rewrite of the homework document.
type HomeworkService struct {
	docs      homeworkDocuments
	subjects  subjectRegistry
	validator *validator.Validate
	logger    *zap.Logger
	ids       idGenerator
	now       func() time.Time

	upcomingCutoff int

	mu    sync.Mutex
	items []models.Homework
}

// NewHomeworkService loads the persisted collection and returns the service.
func NewHomeworkService(ctx context.Context, docs homeworkDocuments, subjects subjectRegistry, validate *validator.Validate, logger *zap.Logger, upcomingCutoff int) *HomeworkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if upcomingCutoff <= 0 {
		upcomingCutoff = 3
	}
	return &HomeworkService{
		docs:           docs,
		subjects:       subjects,
		validator:      validate,
		logger:         logger,
		now:            time.Now,
		upcomingCutoff: upcomingCutoff,
		items:          docs.LoadHomework(ctx),
	}
}

// Add registers a new record, persists the full collection and grows the
// subject list when the subject is new.
func (s *HomeworkService) Add(ctx context.Context, req AddHomeworkRequest) (MutationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return MutationResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid homework payload")
	}

	now := s.now()
	record := models.Homework{
		ID:           s.ids.next(now),
		Subject:      strings.TrimSpace(req.Subject),
		Content:      strings.TrimSpace(req.Content),
		Due:          strings.TrimSpace(req.Due),
		Status:       req.Status,
		SubmitMethod: req.SubmitMethod,
		CreatedAt:    now.Format(time.RFC3339),
	}
	if record.DueDate().IsZero() {
		record.Due = now.Format(models.DueLayout)
	}
	if !record.Status.Valid() {
		record.Status = models.StatusNotStarted
	}
	if record.SubmitMethod == models.SubmitOther {
		record.SubmitMethodDetail = strings.TrimSpace(req.SubmitMethodDetail)
	}

	s.mu.Lock()
	s.items = append(s.items, record)
	persisted := s.persistLocked(ctx)
	s.mu.Unlock()

	if !s.subjects.EnsureAll(ctx, []string{record.Subject}) {
		persisted = false
	}
	return MutationResult{Record: &record, Found: true, Persisted: persisted}, nil
}

// SetStatus overwrites the status of the record with the given id. A miss is
// a silent no-op that still rewrites the document.
func (s *HomeworkService) SetStatus(ctx context.Context, id int64, status models.Status) (MutationResult, error) {
	if !status.Valid() {
		return MutationResult{}, appErrors.Clone(appErrors.ErrValidation, "unknown status")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := MutationResult{}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Status = status
			record := s.items[i]
			result.Record = &record
			result.Found = true
			break
		}
	}
	result.Persisted = s.persistLocked(ctx)
	return result, nil
}

// MarkDone is the quick-complete shortcut for SetStatus(id, done).
func (s *HomeworkService) MarkDone(ctx context.Context, id int64) (MutationResult, error) {
	return s.SetStatus(ctx, id, models.StatusDone)
}

// Delete removes every record with the given id (normally zero or one) and
// persists the remaining collection.
func (s *HomeworkService) Delete(ctx context.Context, id int64) MutationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	found := false
	for _, h := range s.items {
		if h.ID == id {
			found = true
			continue
		}
		kept = append(kept, h)
	}
	s.items = kept
	return MutationResult{Found: found, Persisted: s.persistLocked(ctx)}
}

// Query produces the derived read-only view: status filter, case-insensitive
// keyword match over subject or content, requested ordering, days-until-due
// attached. It never mutates persisted state.
func (s *HomeworkService) Query(filter models.HomeworkFilter) []models.HomeworkView {
	s.mu.Lock()
	items := append([]models.Homework(nil), s.items...)
	s.mu.Unlock()

	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	filtered := items[:0]
	for _, h := range items {
		if !statusMatches(filter.Status, h.Status) {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(h.Subject), keyword) &&
			!strings.Contains(strings.ToLower(h.Content), keyword) {
			continue
		}
		filtered = append(filtered, h)
	}

	switch filter.Sort {
	case models.SortDueDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			di, dj := filtered[i].DueDate(), filtered[j].DueDate()
			if !di.Equal(dj) {
				return di.After(dj)
			}
			return filtered[i].CreatedTime().After(filtered[j].CreatedTime())
		})
	case models.SortCreatedDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedTime().After(filtered[j].CreatedTime())
		})
	default: // due ascending, newest created first on equal due dates
		sort.SliceStable(filtered, func(i, j int) bool {
			di, dj := filtered[i].DueDate(), filtered[j].DueDate()
			if !di.Equal(dj) {
				return di.Before(dj)
			}
			return filtered[i].CreatedTime().After(filtered[j].CreatedTime())
		})
	}

	today := s.now()
	views := make([]models.HomeworkView, 0, len(filtered))
	for _, h := range filtered {
		views = append(views, models.HomeworkView{Homework: h, DaysUntilDue: h.DaysUntilDue(today)})
	}
	return views
}

// Upcoming is the subset of a Query result due within the highlight cutoff.
func (s *HomeworkService) Upcoming(filter models.HomeworkFilter) []models.HomeworkView {
	views := s.Query(filter)
	upcoming := views[:0]
	for _, v := range views {
		if v.DaysUntilDue <= s.upcomingCutoff {
			upcoming = append(upcoming, v)
		}
	}
	return upcoming
}

// UpcomingCutoff exposes the highlight window in days.
func (s *HomeworkService) UpcomingCutoff() int {
	return s.upcomingCutoff
}

func statusMatches(filter string, status models.Status) bool {
	switch strings.TrimSpace(filter) {
	case "", "all", "全て":
		return true
	}
	return string(status) == strings.TrimSpace(filter)
}

// persistLocked applies the best-effort write policy: failures are logged and
// reported through the flag, the in-memory collection stays authoritative.
func (s *HomeworkService) persistLocked(ctx context.Context) bool {
	if err := s.docs.SaveHomework(ctx, s.items); err != nil {
		s.logger.Warn("persist homework failed", zap.Error(err))
		return false
	}
	return true
}
