package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wpinrui/tp/internal/models"
	appErrors "github.com/wpinrui/tp/pkg/errors"
	"github.com/wpinrui/tp/pkg/export"
)

// ExportCollection selects what an export contains.
type ExportCollection string

const (
	ExportStudents ExportCollection = "students"
	ExportLessons  ExportCollection = "lessons"
)

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type exportSource interface {
	Views() ViewSnapshot
	Everything() ViewSnapshot
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Path(filename string) string
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

// ExportRequest describes one export.
type ExportRequest struct {
	Collection ExportCollection `json:"collection" validate:"required,oneof=students lessons"`
	Format     ExportFormat     `json:"format" validate:"required,oneof=csv pdf"`
	// All exports every record instead of the current filtered view.
	All bool `json:"all"`
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string       `json:"path"`
	Filename     string       `json:"filename"`
	Format       ExportFormat `json:"format"`
	ContentType  string       `json:"contentType"`
	Rows         int          `json:"rows"`
}

// ExportService renders the student and lesson views to files.
type ExportService struct {
	source    exportSource
	storage   exportStorage
	renderers map[ExportFormat]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(source exportSource, storage exportStorage, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		source:  source,
		storage: storage,
		renderers: map[ExportFormat]renderer{
			ExportCSV: export.NewCSVExporter(),
			ExportPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Generate renders the requested collection and stores the file.
func (s *ExportService) Generate(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, ok := s.renderers[req.Format]
	if !ok {
		return nil, appErrors.Clonef(appErrors.ErrValidation, "unsupported export format %q", req.Format)
	}

	snapshot := s.source.Views()
	if req.All {
		snapshot = s.source.Everything()
	}

	var dataset export.Dataset
	switch req.Collection {
	case ExportStudents:
		dataset = StudentDataset(snapshot.Students, snapshot.Order)
	case ExportLessons:
		dataset = LessonDataset(snapshot.Lessons, snapshot.Order)
	default:
		return nil, appErrors.Clonef(appErrors.ErrValidation, "unsupported export collection %q", req.Collection)
	}

	payload, err := r.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := s.buildFilename(req)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrIOFailure, "could not save export to disk")
	}

	s.logger.Info("export generated",
		zap.String("collection", string(req.Collection)),
		zap.String("format", string(req.Format)),
		zap.Int("rows", len(dataset.Rows)),
		zap.String("path", relPath),
	)

	return &ExportResult{
		RelativePath: relPath,
		Filename:     filename,
		Format:       req.Format,
		ContentType:  r.ContentType(),
		Rows:         len(dataset.Rows),
	}, nil
}

// Open returns a handle to a stored export.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Path resolves a stored export to its location on disk.
func (s *ExportService) Path(relPath string) string {
	return s.storage.Path(relPath)
}

func (s *ExportService) buildFilename(req ExportRequest) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s.%s", req.Collection, timestamp, uuid.NewString()[:8], req.Format)
}

// StudentDataset tabulates students in the given order. Lessons are listed
// by order.
func StudentDataset(students []models.Student, order models.Ordering) export.Dataset {
	data := export.Dataset{
		Title:   "Students",
		Headers: []string{"Name", "Phone", "Parent", "Parent Phone", "Payment", "Current Progress", "Lessons"},
		Rows:    make([][]string, 0, len(students)),
	}
	for _, s := range students {
		data.Rows = append(data.Rows, []string{
			s.Name().String(),
			s.Phone().String(),
			s.ParentName().String(),
			s.ParentPhone().String(),
			s.PaymentStatus().String(),
			s.CurrentProgress().String(),
			strings.Join(order.LessonsOf(s), ", "),
		})
	}
	return data
}

// LessonDataset tabulates lessons in the given order. Students are listed
// by order.
func LessonDataset(lessons []models.Lesson, order models.Ordering) export.Dataset {
	data := export.Dataset{
		Title:   "Lessons",
		Headers: []string{"Lesson", "Timing", "Price", "Capacity", "Enrolled", "Vacancy", "Students"},
		Rows:    make([][]string, 0, len(lessons)),
	}
	for _, l := range lessons {
		capacity, vacancy := "-", "-"
		if v, ok := l.Vacancy(); ok {
			capacity = l.Capacity().String()
			vacancy = strconv.Itoa(v)
		}
		data.Rows = append(data.Rows, []string{
			l.Name().String(),
			l.Timing().String(),
			l.Price().Display(),
			capacity,
			strconv.Itoa(l.Students().Len()),
			vacancy,
			strings.Join(order.StudentsOf(l), ", "),
		})
	}
	return data
}
