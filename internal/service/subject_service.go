package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	appErrors "github.com/schoolkit/planner-api/pkg/errors"
)

type subjectDocuments interface {
	LoadSubjects(ctx context.Context) []string
	SaveSubjects(ctx context.Context, subjects []string) error
}

// SubjectService owns the in-memory subject list for the process lifetime.
// The list only grows; every change rewrites the subject document in full.
type SubjectService struct {
	docs   subjectDocuments
	logger *zap.Logger

	mu       sync.Mutex
	subjects []string
}

// NewSubjectService loads the subject list and returns the registry.
func NewSubjectService(ctx context.Context, docs subjectDocuments, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{
		docs:     docs,
		logger:   logger,
		subjects: docs.LoadSubjects(ctx),
	}
}

// List returns a copy of the current sorted subject list.
func (s *SubjectService) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.subjects...)
}

// Register adds a user-entered subject. Registering an existing subject is
// reported with added=false and leaves the document untouched.
func (s *SubjectService) Register(ctx context.Context, name string) (added, persisted bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, true, appErrors.Clone(appErrors.ErrValidation, "subject name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.has(name) {
		return false, true, nil
	}
	s.subjects = append(s.subjects, name)
	sort.Strings(s.subjects)
	return true, s.persistLocked(ctx), nil
}

// EnsureAll adds any previously-unseen names, persisting once when the list
// changed. Blank names are skipped.
func (s *SubjectService) EnsureAll(ctx context.Context, names []string) (persisted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || s.has(name) {
			continue
		}
		s.subjects = append(s.subjects, name)
		changed = true
	}
	if !changed {
		return true
	}
	sort.Strings(s.subjects)
	return s.persistLocked(ctx)
}

// Flush rewrites the current list unchanged, for callers that must persist
// the subject document alongside another save.
func (s *SubjectService) Flush(ctx context.Context) (persisted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *SubjectService) has(name string) bool {
	for _, existing := range s.subjects {
		if existing == name {
			return true
		}
	}
	return false
}

// persistLocked applies the best-effort write policy: failures are logged and
// reported through the flag, the in-memory list stays authoritative.
func (s *SubjectService) persistLocked(ctx context.Context) bool {
	if err := s.docs.SaveSubjects(ctx, s.subjects); err != nil {
		s.logger.Warn("persist subjects failed", zap.Error(err))
		return false
	}
	return true
}
