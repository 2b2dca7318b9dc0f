package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolkit/planner-api/internal/models"
)

func TestNormalizeTimetableRepairsShape(t *testing.T) {
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"月": ["数学", "英語"],
		"火": ["物理", "", "化学", "情報", "体育"],
		"水": "not a list",
		"祝": ["ignored", "", "", ""]
	}`), &raw))

	tt := NormalizeTimetable(raw)

	for _, day := range models.Weekdays {
		assert.Len(t, tt[day], models.PeriodsPerDay)
	}
	assert.Equal(t, []string{"数学", "英語", "", ""}, tt["月"])
	assert.Equal(t, []string{"物理", "", "化学", "情報"}, tt["火"])
	assert.Equal(t, []string{"", "", "", ""}, tt["水"])
	_, hasExtra := tt["祝"]
	assert.False(t, hasExtra)
}

func TestNormalizeTimetableIdempotent(t *testing.T) {
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"月": ["数学"], "金": [1, "情報"]}`), &raw))

	once := NormalizeTimetable(raw)
	twice := NormalizeTimetable(TimetableToRaw(once))
	assert.Equal(t, once, twice)
}

func TestNormalizeSubjects(t *testing.T) {
	got := NormalizeSubjects([]string{" 数学 ", "英語", "", "数学", "化学"})
	assert.Equal(t, []string{"化学", "数学", "英語"}, got)
	assert.Equal(t, got, NormalizeSubjects(got))
}

func TestNormalizeHomeworkDefaults(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	items := []models.Homework{
		{ID: 1, Subject: "数学", Content: "p.10-15", Due: "2024-01-15", Status: models.StatusDone, CreatedAt: "2024-01-01T08:00:00Z"},
		{ID: 2, Subject: "英語", Content: "", Due: "not-a-date", Status: "??", CreatedAt: "garbage"},
		{ID: 0, Subject: "dropped"},
	}

	got := NormalizeHomework(items, now)
	require.Len(t, got, 2)

	assert.Equal(t, items[0], got[0])

	assert.Equal(t, "2024-01-10", got[1].Due)
	assert.Equal(t, now.Format(time.RFC3339), got[1].CreatedAt)
	assert.Equal(t, models.StatusNotStarted, got[1].Status)
	assert.Equal(t, models.ContentPlaceholder, got[1].Content)
}

func TestNormalizeHomeworkIdempotent(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	items := []models.Homework{
		{ID: 2, Subject: "英語", Due: "bad", Status: "??"},
	}
	once := NormalizeHomework(items, now)
	twice := NormalizeHomework(once, now)
	assert.Equal(t, once, twice)
}

func TestCoerceHomeworkDropsNonRecords(t *testing.T) {
	var raw []interface{}
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 1700000000000, "subject": "数学", "content": "問題集", "due": "2024-01-15",
		 "status": "未着手", "submit_method": "Teams", "submit_method_detail": "", "created_at": "2024-01-01T08:00:00Z"},
		"stray string",
		42,
		{"id": "wrong type", "subject": "英語"}
	]`), &raw))

	got := CoerceHomework(raw)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1700000000000), got[0].ID)
	assert.Equal(t, models.SubmitTeams, got[0].SubmitMethod)
	assert.Equal(t, int64(0), got[1].ID)
}
