package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/wpinrui/tp/pkg/errors"
)

func newSQLiteBackendMock(t *testing.T) (*SQLiteBackend, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlite3")
	return NewSQLiteBackend(sqlxDB, "test.db"), mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

var (
	studentColumns = []string{"student_name", "student_phone", "parent_name", "parent_phone", "progress_list", "payment_status", "lessons"}
	lessonColumns  = []string{"lesson_name", "capacity", "price", "timing", "students"}
)

func TestSQLiteBackendLoadStudents(t *testing.T) {
	backend, mock, cleanup := newSQLiteBackendMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(studentColumns).
		AddRow("Amy Tan", "91234567", "Bob Tan", "98765432", `["Geometry started","Algebra done"]`, true, `["Art","Math"]`).
		AddRow("Carl", "", "", "", `[]`, false, "")
	mock.ExpectQuery("SELECT student_name").WillReturnRows(rows)

	records, err := backend.LoadStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Amy Tan", *records[0].Name)
	assert.Equal(t, []string{"Geometry started", "Algebra done"}, records[0].ProgressList)
	assert.True(t, records[0].PaymentStatus)
	assert.Empty(t, records[1].Lessons)

	students, err := DecodeStudents(records)
	require.NoError(t, err)
	assert.Equal(t, sampleStudents(t), students)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackendLoadLessonsBadListColumn(t *testing.T) {
	backend, mock, cleanup := newSQLiteBackendMock(t)
	defer cleanup()

	rows := sqlmock.NewRows(lessonColumns).AddRow("Math", "10", "80.00", "", "not json")
	mock.ExpectQuery("SELECT lesson_name").WillReturnRows(rows)

	_, err := backend.LoadLessons(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidField))
}

func TestSQLiteBackendLoadQueryError(t *testing.T) {
	backend, mock, cleanup := newSQLiteBackendMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT lesson_name").WillReturnError(errors.New("no such table: lessons"))

	_, err := backend.LoadLessons(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDataConversion))
}

func TestSQLiteBackendSaveLessons(t *testing.T) {
	backend, mock, cleanup := newSQLiteBackendMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM lessons").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO lessons").
		WithArgs(int64(0), "Math", "10", "1234.50", "Mon 4pm", `["Amy Tan"]`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO lessons").
		WithArgs(int64(1), "Art", "", "", "", `["Amy Tan"]`).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, backend.SaveLessons(context.Background(), EncodeLessons(sampleLessons(t))))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteBackendSaveRollsBack(t *testing.T) {
	backend, mock, cleanup := newSQLiteBackendMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM students").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO students").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err := backend.SaveStudents(context.Background(), EncodeStudents(sampleStudents(t)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert into students")
	require.NoError(t, mock.ExpectationsWereMet())
}
