package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolkit/planner-api/internal/models"
)

type memoryBlobs struct {
	blobs   map[string][]byte
	saveErr error
	saves   []string
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{blobs: make(map[string][]byte)}
}

func (m *memoryBlobs) Load(_ context.Context, name string) ([]byte, bool, error) {
	data, ok := m.blobs[name]
	return data, ok, nil
}

func (m *memoryBlobs) Save(_ context.Context, name string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.blobs[name] = data
	m.saves = append(m.saves, name)
	return nil
}

func TestDocumentStoreTimetableRoundTrip(t *testing.T) {
	blobs := newMemoryBlobs()
	store := NewDocumentStore(blobs, zap.NewNop())

	grid := models.EmptyTimetable()
	grid["月"][0] = "数学"
	grid["金"][3] = "機械設計"

	require.NoError(t, store.SaveTimetable(context.Background(), grid))
	assert.Equal(t, grid, store.LoadTimetable(context.Background()))
}

func TestDocumentStoreTimetableDefaultOnCorruption(t *testing.T) {
	blobs := newMemoryBlobs()
	blobs.blobs[TimetableDocument] = []byte(`{"month": [`)
	store := NewDocumentStore(blobs, zap.NewNop())

	assert.Equal(t, models.EmptyTimetable(), store.LoadTimetable(context.Background()))
}

func TestDocumentStoreSubjectsRegeneratedAndPersisted(t *testing.T) {
	blobs := newMemoryBlobs()
	store := NewDocumentStore(blobs, zap.NewNop())

	grid := models.EmptyTimetable()
	grid["月"][0] = "電子回路"
	require.NoError(t, store.SaveTimetable(context.Background(), grid))

	subjects := store.LoadSubjects(context.Background())
	assert.Contains(t, subjects, "電子回路")
	assert.Contains(t, subjects, "数学")

	// The regenerated list was written back immediately.
	data, ok := blobs.blobs[SubjectsDocument]
	require.True(t, ok)
	var persisted []string
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, subjects, persisted)
}

func TestDocumentStoreSubjectsEmptyDocumentRegenerates(t *testing.T) {
	blobs := newMemoryBlobs()
	blobs.blobs[SubjectsDocument] = []byte(`[]`)
	store := NewDocumentStore(blobs, zap.NewNop())

	subjects := store.LoadSubjects(context.Background())
	assert.Equal(t, NormalizeSubjects(models.DefaultSubjects), subjects)
}

func TestDocumentStoreHomeworkRoundTrip(t *testing.T) {
	blobs := newMemoryBlobs()
	store := NewDocumentStore(blobs, zap.NewNop())

	items := []models.Homework{{
		ID:           1700000000000,
		Subject:      "数学",
		Content:      "問題集 p10-15",
		Due:          "2024-01-15",
		Status:       models.StatusNotStarted,
		SubmitMethod: models.SubmitTeams,
		CreatedAt:    "2024-01-01T08:00:00Z",
	}}

	require.NoError(t, store.SaveHomework(context.Background(), items))
	assert.Equal(t, items, store.LoadHomework(context.Background()))
}

func TestDocumentStoreHomeworkDropsAndRepairs(t *testing.T) {
	blobs := newMemoryBlobs()
	blobs.blobs[HomeworkDocument] = []byte(`[
		"stray",
		{"id": 5, "subject": "英語", "content": "Report", "status": "bogus"}
	]`)
	store := NewDocumentStore(blobs, zap.NewNop())

	items := store.LoadHomework(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].ID)
	assert.Equal(t, models.StatusNotStarted, items[0].Status)
	assert.NotEmpty(t, items[0].Due)
	assert.NotEmpty(t, items[0].CreatedAt)
}

func TestDocumentStoreHomeworkDefaultOnAbsence(t *testing.T) {
	store := NewDocumentStore(newMemoryBlobs(), zap.NewNop())
	assert.Empty(t, store.LoadHomework(context.Background()))
}

func TestDocumentStoreSaveErrorPropagates(t *testing.T) {
	blobs := newMemoryBlobs()
	blobs.saveErr = errors.New("backend unreachable")
	store := NewDocumentStore(blobs, zap.NewNop())

	err := store.SaveHomework(context.Background(), []models.Homework{})
	require.Error(t, err)
}
