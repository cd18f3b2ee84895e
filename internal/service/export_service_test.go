package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wpinrui/tp/internal/models"
	appErrors "github.com/wpinrui/tp/pkg/errors"
	"github.com/wpinrui/tp/pkg/storage"
)

type snapshotSource struct {
	views, everything ViewSnapshot
}

func (s snapshotSource) Views() ViewSnapshot      { return s.views }
func (s snapshotSource) Everything() ViewSnapshot { return s.everything }

func newExportServiceForTest(t *testing.T, source exportSource) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewExportService(source, store, zap.NewNop()), store
}

func exportFixture(t *testing.T) snapshotSource {
	t.Helper()
	amy, err := models.NewStudent(models.StudentFields{
		Name:          "Amy Tan",
		Phone:         "91234567",
		Progress:      []models.Progress{"Algebra done"},
		PaymentStatus: models.Paid,
		Lessons:       models.NewNameSet("Math"),
	})
	require.NoError(t, err)
	ben := mustStudent(t, "Ben")

	price, err := models.NewPrice("1234.50")
	require.NoError(t, err)
	capacity, err := models.NewCapacity("10")
	require.NoError(t, err)
	math, err := models.NewLesson(models.LessonFields{Name: "Math", Capacity: capacity, Price: price, Students: models.NewNameSet("Amy Tan")})
	require.NoError(t, err)

	order := models.NewOrdering([]models.Student{amy, ben}, []models.Lesson{math})
	return snapshotSource{
		views:      ViewSnapshot{Students: []models.Student{amy}, Lessons: []models.Lesson{math}, Order: order},
		everything: ViewSnapshot{Students: []models.Student{amy, ben}, Lessons: []models.Lesson{math}, Order: order},
	}
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t, exportFixture(t))

	result, err := svc.Generate(context.Background(), ExportRequest{Collection: ExportLessons, Format: ExportCSV})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "lessons_"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	raw, err := os.ReadFile(store.Path(result.RelativePath))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Lesson,Timing,Price,Capacity,Enrolled,Vacancy,Students", lines[0])
	assert.Equal(t, `Math,,"$1,234.5",10,1,9,Amy Tan`, lines[1])
}

func TestExportServiceAllIgnoresFilter(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportFixture(t))

	filtered, err := svc.Generate(context.Background(), ExportRequest{Collection: ExportStudents, Format: ExportCSV})
	require.NoError(t, err)
	all, err := svc.Generate(context.Background(), ExportRequest{Collection: ExportStudents, Format: ExportCSV, All: true})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Rows)
	assert.Equal(t, 2, all.Rows)
	assert.NotEqual(t, filtered.Filename, all.Filename)
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportFixture(t))

	result, err := svc.Generate(context.Background(), ExportRequest{Collection: ExportStudents, Format: ExportPDF})
	require.NoError(t, err)

	f, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer f.Close()
	info, err := f.Stat()
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t, exportFixture(t))

	_, err := svc.Generate(context.Background(), ExportRequest{Collection: ExportStudents, Format: "xlsx"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Generate(context.Background(), ExportRequest{Collection: "invoices", Format: ExportCSV})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestStudentDatasetRows(t *testing.T) {
	source := exportFixture(t)
	data := StudentDataset(source.everything.Students, source.everything.Order)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"Amy Tan", "91234567", "", "", "Paid", "Algebra done", "Math"}, data.Rows[0])
	assert.Equal(t, []string{"Ben", "", "", "", "Not Paid", models.EmptyProgressDescription, ""}, data.Rows[1])
}

func TestDatasetsListEnrollmentInStoreOrder(t *testing.T) {
	m := NewModelManager(nil)
	require.NoError(t, m.AddLesson(mustLesson(t, "Zoology", "")))
	require.NoError(t, m.AddLesson(mustLesson(t, "Art", "")))
	require.NoError(t, m.AddStudent(mustStudent(t, "Ben")))
	require.NoError(t, m.AddStudent(mustStudent(t, "Amy Tan")))
	for _, pair := range [][2]string{{"Amy Tan", "Zoology"}, {"Amy Tan", "Art"}, {"Ben", "Zoology"}} {
		require.NoError(t, m.Enroll(models.Name(pair[0]), models.LessonName(pair[1])))
	}

	students := StudentDataset(m.AllStudents(), m.Ordering())
	assert.Equal(t, "Zoology, Art", students.Rows[1][6])

	lessons := LessonDataset(m.AllLessons(), m.Ordering())
	assert.Equal(t, "Ben, Amy Tan", lessons.Rows[0][6])
}
