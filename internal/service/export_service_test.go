package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolkit/planner-api/internal/models"
	"github.com/schoolkit/planner-api/pkg/export"
)

type mockQuerier struct {
	views      []models.HomeworkView
	lastFilter models.HomeworkFilter
}

func (m *mockQuerier) Query(filter models.HomeworkFilter) []models.HomeworkView {
	m.lastFilter = filter
	return m.views
}

func sampleViews() []models.HomeworkView {
	return []models.HomeworkView{
		{
			Homework: models.Homework{
				ID:           1700000000000,
				Subject:      "数学",
				Content:      "問題集 p10-15",
				Due:          "2024-01-15",
				Status:       models.StatusNotStarted,
				SubmitMethod: models.SubmitTeams,
				CreatedAt:    "2024-01-01T08:00:00Z",
			},
			DaysUntilDue: 5,
		},
	}
}

func TestExportServiceCSV(t *testing.T) {
	querier := &mockQuerier{views: sampleViews()}
	svc := NewExportService(querier, nil, nil, ExportOptions{PDFTitle: "Homework List"}, zap.NewNop())

	filter := models.HomeworkFilter{Status: string(models.StatusNotStarted), Keyword: "数学"}
	file, err := svc.HomeworkList(filter, FormatCSV, export.EncodingUTF8BOM)
	require.NoError(t, err)

	assert.Equal(t, "homework_list.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, filter, querier.lastFilter)

	body := string(file.Data)
	assert.Contains(t, body, "id,subject,content,due,status,submit_method,submit_method_detail,created_at")
	assert.Contains(t, body, "1700000000000")
	assert.Contains(t, body, "数学")
}

func TestExportServicePDF(t *testing.T) {
	svc := NewExportService(&mockQuerier{views: sampleViews()}, nil, nil, ExportOptions{}, zap.NewNop())

	file, err := svc.HomeworkList(models.HomeworkFilter{}, FormatPDF, "")
	require.NoError(t, err)
	assert.Equal(t, "homework_list.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
}

func TestExportServiceConfiguredDefaults(t *testing.T) {
	svc := NewExportService(&mockQuerier{views: sampleViews()}, nil, nil, ExportOptions{
		Filename:        "class_homework.csv",
		DefaultEncoding: export.EncodingShiftJIS,
	}, zap.NewNop())

	file, err := svc.HomeworkList(models.HomeworkFilter{}, FormatCSV, "")
	require.NoError(t, err)
	assert.Equal(t, "class_homework.csv", file.Filename)
	// ShiftJIS output carries no UTF-8 BOM.
	assert.False(t, strings.HasPrefix(string(file.Data), "\uFEFF"))

	pdf, err := svc.HomeworkList(models.HomeworkFilter{}, FormatPDF, "")
	require.NoError(t, err)
	assert.Equal(t, "class_homework.pdf", pdf.Filename)
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockQuerier{}, nil, nil, ExportOptions{}, zap.NewNop())

	_, err := svc.HomeworkList(models.HomeworkFilter{}, "xlsx", "")
	require.Error(t, err)
}

func TestExportServiceEmptyCollectionStillRenders(t *testing.T) {
	svc := NewExportService(&mockQuerier{}, nil, nil, ExportOptions{}, zap.NewNop())

	file, err := svc.HomeworkList(models.HomeworkFilter{}, FormatCSV, export.EncodingUTF8BOM)
	require.NoError(t, err)
	// Header row only.
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	assert.Len(t, lines, 1)
}
