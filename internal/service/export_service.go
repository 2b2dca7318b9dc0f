package service

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/schoolkit/planner-api/internal/models"
	appErrors "github.com/schoolkit/planner-api/pkg/errors"
	"github.com/schoolkit/planner-api/pkg/export"
)

// Export formats for the homework list download.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var homeworkExportHeaders = []string{
	"id", "subject", "content", "due", "status",
	"submit_method", "submit_method_detail", "created_at",
}

type homeworkQuerier interface {
	Query(filter models.HomeworkFilter) []models.HomeworkView
}

type csvRenderer interface {
	Render(data export.Dataset, enc export.Encoding) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ExportOptions carries the configurable defaults for downloads.
type ExportOptions struct {
	Filename        string
	PDFTitle        string
	DefaultEncoding export.Encoding
}

// ExportService renders filtered homework views into downloadable files. The
// dataset is the same derived view the list endpoint serves, so a filtered
// screen exports exactly what it shows.
type ExportService struct {
	homework homeworkQuerier
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	opts     ExportOptions
}

// NewExportService constructs an ExportService.
func NewExportService(homework homeworkQuerier, csv csvRenderer, pdf pdfRenderer, opts ExportOptions, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if opts.Filename == "" {
		opts.Filename = "homework_list.csv"
	}
	if opts.PDFTitle == "" {
		opts.PDFTitle = "Homework List"
	}
	if opts.DefaultEncoding == "" {
		opts.DefaultEncoding = export.EncodingUTF8BOM
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{homework: homework, csv: csv, pdf: pdf, opts: opts, logger: logger}
}

// HomeworkList renders the filtered collection in the requested format. An
// empty encoding falls back to the configured default.
func (s *ExportService) HomeworkList(filter models.HomeworkFilter, format string, encoding export.Encoding) (*ExportFile, error) {
	dataset := buildHomeworkDataset(s.homework.Query(filter))
	base := strings.TrimSuffix(s.opts.Filename, filepath.Ext(s.opts.Filename))
	if encoding == "" {
		encoding = s.opts.DefaultEncoding
	}

	switch strings.ToLower(format) {
	case FormatCSV, "":
		data, err := s.csv.Render(dataset, encoding)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		return &ExportFile{Data: data, Filename: base + ".csv", ContentType: "text/csv"}, nil
	case FormatPDF:
		data, err := s.pdf.Render(dataset, s.opts.PDFTitle)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Data: data, Filename: base + ".pdf", ContentType: "application/pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrUnknownFormat, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildHomeworkDataset(views []models.HomeworkView) export.Dataset {
	rows := make([]map[string]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, map[string]string{
			"id":                   strconv.FormatInt(v.ID, 10),
			"subject":              v.Subject,
			"content":              v.Content,
			"due":                  v.Due,
			"status":               string(v.Status),
			"submit_method":        string(v.SubmitMethod),
			"submit_method_detail": v.SubmitMethodDetail,
			"created_at":           v.CreatedAt,
		})
	}
	return export.Dataset{Headers: homeworkExportHeaders, Rows: rows}
}
