package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolkit/planner-api/internal/models"
	"github.com/schoolkit/planner-api/internal/store"
)

// memoryStore is a blobstore.Store over a plain map, for wiring the real
// document store into whole-flow tests.
type memoryStore struct {
	blobs map[string][]byte
}

func (m *memoryStore) Load(_ context.Context, name string) ([]byte, bool, error) {
	data, ok := m.blobs[name]
	return data, ok, nil
}

func (m *memoryStore) Save(_ context.Context, name string, data []byte) error {
	m.blobs[name] = data
	return nil
}

// Exercises the whole flow: empty documents, a timetable save feeding the
// subject list, homework registration, querying and a status transition.
func TestPlannerScenario(t *testing.T) {
	ctx := context.Background()
	blobs := &memoryStore{blobs: make(map[string][]byte)}
	documents := store.NewDocumentStore(blobs, zap.NewNop())

	subjects := NewSubjectService(ctx, documents, zap.NewNop())
	timetable := NewTimetableService(ctx, documents, subjects, zap.NewNop())
	homework := NewHomeworkService(ctx, documents, subjects, validator.New(), zap.NewNop(), 3)

	today := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	homework.now = func() time.Time { return today }

	// A brand-new subject entered through the grid.
	require.NoError(t, timetable.SetCell("月", 0, "電子回路"))
	assert.True(t, timetable.Save(ctx))
	assert.Contains(t, subjects.List(), "電子回路")

	// Register a homework against it, due tomorrow.
	result, err := homework.Add(ctx, AddHomeworkRequest{
		Subject:      "電子回路",
		Content:      "レポート 3ページ分",
		Due:          "2024-01-11",
		SubmitMethod: models.SubmitClassroom,
	})
	require.NoError(t, err)
	require.True(t, result.Persisted)

	views := homework.Query(models.HomeworkFilter{Status: "all"})
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].DaysUntilDue)

	// Registering the same subject twice keeps the list duplicate-free.
	_, err = homework.Add(ctx, AddHomeworkRequest{Subject: "電子回路", Content: "追試対策", Due: "2024-01-20"})
	require.NoError(t, err)
	count := 0
	for _, s := range subjects.List() {
		if s == "電子回路" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	// Complete the first one and filter by done.
	_, err = homework.SetStatus(ctx, result.Record.ID, models.StatusDone)
	require.NoError(t, err)

	done := homework.Query(models.HomeworkFilter{Status: string(models.StatusDone)})
	require.Len(t, done, 1)
	assert.Equal(t, result.Record.ID, done[0].ID)

	// A fresh session over the same blobs sees the persisted state.
	rehydrated := NewHomeworkService(ctx, store.NewDocumentStore(blobs, zap.NewNop()), subjects, validator.New(), zap.NewNop(), 3)
	assert.Len(t, rehydrated.Query(models.HomeworkFilter{}), 2)
}
