package service

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

type mockTimetableDocs struct {
	loaded  models.Timetable
	saved   []models.Timetable
	saveErr error
}

func (m *mockTimetableDocs) LoadTimetable(ctx context.Context) models.Timetable {
	if m.loaded == nil {
		return models.EmptyTimetable()
	}
	return m.loaded.Clone()
}

func (m *mockTimetableDocs) SaveTimetable(ctx context.Context, t models.Timetable) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, t.Clone())
	return nil
}

func TestTimetableServiceSetCellThenSave(t *testing.T) {
	docs := &mockTimetableDocs{}
	registry := &mockRegistry{}
	svc := NewTimetableService(context.Background(), docs, registry, zap.NewNop())

	require.NoError(t, svc.SetCell("月", 0, "数学"))
	// Nothing persisted yet.
	assert.Empty(t, docs.saved)

	assert.True(t, svc.Save(context.Background()))
	require.Len(t, docs.saved, 1)
	assert.Equal(t, "数学", docs.saved[0]["月"][0])
	assert.Equal(t, [][]string{{"数学"}}, registry.ensured)
}

func TestTimetableServiceSetCellValidation(t *testing.T) {
	svc := NewTimetableService(context.Background(), &mockTimetableDocs{}, &mockRegistry{}, zap.NewNop())

	require.Error(t, svc.SetCell("日", 0, "数学"))
	require.Error(t, svc.SetCell("月", 4, "数学"))
	require.Error(t, svc.SetCell("月", -1, "数学"))
}

func TestTimetableServiceReset(t *testing.T) {
	docs := &mockTimetableDocs{loaded: models.EmptyTimetable()}
	docs.loaded["火"][1] = "物理"
	registry := &mockRegistry{}
	svc := NewTimetableService(context.Background(), docs, registry, zap.NewNop())

	assert.True(t, svc.Reset(context.Background()))
	assert.Equal(t, models.EmptyTimetable(), svc.Get())
	require.Len(t, docs.saved, 1)
	assert.Equal(t, models.EmptyTimetable(), docs.saved[0])
	// The unchanged subject list is flushed alongside the grid.
	assert.Equal(t, 1, registry.flushed)
}

func TestTimetableServiceImportMapping(t *testing.T) {
	docs := &mockTimetableDocs{}
	registry := &mockRegistry{}
	svc := NewTimetableService(context.Background(), docs, registry, zap.NewNop())

	persisted, err := svc.Import(context.Background(), []byte(`{"月": ["数学", "英語"], "水": ["化学", "", "", "", "overflow"]}`))
	require.NoError(t, err)
	assert.True(t, persisted)

	grid := svc.Get()
	assert.Equal(t, []string{"数学", "英語", "", ""}, grid["月"])
	assert.Equal(t, []string{"化学", "", "", ""}, grid["水"])
	require.Len(t, registry.ensured, 1)
	assert.ElementsMatch(t, []string{"数学", "英語", "化学"}, registry.ensured[0])
}

func TestTimetableServiceImportRejectsNonMapping(t *testing.T) {
	docs := &mockTimetableDocs{}
	svc := NewTimetableService(context.Background(), docs, &mockRegistry{}, zap.NewNop())

	require.NoError(t, svc.SetCell("月", 0, "数学"))
	before := svc.Get()

	persisted, err := svc.Import(context.Background(), []byte(`["not", "a", "mapping"]`))
	require.Error(t, err)
	assert.False(t, persisted)

	persisted, err = svc.Import(context.Background(), []byte(`{"月": [`))
	require.Error(t, err)
	assert.False(t, persisted)

	// The grid is untouched and nothing was written.
	assert.Equal(t, before, svc.Get())
	assert.Empty(t, docs.saved)
}

func TestTimetableServiceExportRoundTrips(t *testing.T) {
	svc := NewTimetableService(context.Background(), &mockTimetableDocs{}, &mockRegistry{}, zap.NewNop())
	require.NoError(t, svc.SetCell("金", 3, "機械設計"))

	data, err := svc.Export()
	require.NoError(t, err)

	var decoded models.Timetable
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, svc.Get(), decoded)

	persisted, err := svc.Import(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, persisted)
	assert.Equal(t, "機械設計", svc.Get()["金"][3])
}

func TestTimetableServiceSavePersistFailureReported(t *testing.T) {
	docs := &mockTimetableDocs{saveErr: errors.New("backend down")}
	svc := NewTimetableService(context.Background(), docs, &mockRegistry{}, zap.NewNop())

	assert.False(t, svc.Save(context.Background()))
}
