package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/wpinrui/tp/pkg/errors"
)

const (
	selectStudents = `SELECT student_name, student_phone, parent_name, parent_phone, progress_list, payment_status, lessons
FROM students ORDER BY position ASC`
	selectLessons = `SELECT lesson_name, capacity, price, timing, students
FROM lessons ORDER BY position ASC`
	insertStudent = `INSERT INTO students (position, student_name, student_phone, parent_name, parent_phone, progress_list, payment_status, lessons)
VALUES (:position, :student_name, :student_phone, :parent_name, :parent_phone, :progress_list, :payment_status, :lessons)`
	insertLesson = `INSERT INTO lessons (position, lesson_name, capacity, price, timing, students)
VALUES (:position, :lesson_name, :capacity, :price, :timing, :students)`
)

type studentRow struct {
	Position      int     `db:"position"`
	Name          *string `db:"student_name"`
	Phone         string  `db:"student_phone"`
	ParentName    string  `db:"parent_name"`
	ParentPhone   string  `db:"parent_phone"`
	ProgressList  string  `db:"progress_list"`
	PaymentStatus bool    `db:"payment_status"`
	Lessons       string  `db:"lessons"`
}

type lessonRow struct {
	Position int     `db:"position"`
	Name     *string `db:"lesson_name"`
	Capacity string  `db:"capacity"`
	Price    string  `db:"price"`
	Timing   string  `db:"timing"`
	Students string  `db:"students"`
}

// SQLiteBackend keeps both collections in one SQLite database, one table per
// collection. List-valued fields are JSON text columns.
type SQLiteBackend struct {
	db   *sqlx.DB
	path string
}

// NewSQLiteBackend wraps an open database whose schema is already in place.
func NewSQLiteBackend(db *sqlx.DB, path string) *SQLiteBackend {
	return &SQLiteBackend{db: db, path: path}
}

// Describe names the database for log output.
func (b *SQLiteBackend) Describe() string {
	return fmt.Sprintf("sqlite(%s)", b.path)
}

// LoadStudents implements Backend.
func (b *SQLiteBackend) LoadStudents(ctx context.Context) ([]StudentRecord, error) {
	var rows []studentRow
	if err := b.db.SelectContext(ctx, &rows, selectStudents); err != nil {
		return nil, appErrors.WrapAs(fmt.Errorf("select students: %w", err), appErrors.ErrDataConversion, "cannot read students table")
	}
	records := make([]StudentRecord, 0, len(rows))
	for _, row := range rows {
		rec := StudentRecord{
			Name:          row.Name,
			Phone:         row.Phone,
			ParentName:    row.ParentName,
			ParentPhone:   row.ParentPhone,
			PaymentStatus: row.PaymentStatus,
		}
		if err := decodeList(row.ProgressList, &rec.ProgressList); err != nil {
			return nil, err
		}
		if err := decodeList(row.Lessons, &rec.Lessons); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadLessons implements Backend.
func (b *SQLiteBackend) LoadLessons(ctx context.Context) ([]LessonRecord, error) {
	var rows []lessonRow
	if err := b.db.SelectContext(ctx, &rows, selectLessons); err != nil {
		return nil, appErrors.WrapAs(fmt.Errorf("select lessons: %w", err), appErrors.ErrDataConversion, "cannot read lessons table")
	}
	records := make([]LessonRecord, 0, len(rows))
	for _, row := range rows {
		rec := LessonRecord{
			Name:     row.Name,
			Capacity: row.Capacity,
			Price:    row.Price,
			Timing:   row.Timing,
		}
		if err := decodeList(row.Students, &rec.Students); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// SaveStudents replaces the students table in one transaction.
func (b *SQLiteBackend) SaveStudents(ctx context.Context, records []StudentRecord) error {
	rows := make([]studentRow, 0, len(records))
	for i, rec := range records {
		progress, err := encodeList(rec.ProgressList)
		if err != nil {
			return err
		}
		lessons, err := encodeList(rec.Lessons)
		if err != nil {
			return err
		}
		rows = append(rows, studentRow{
			Position:      i,
			Name:          rec.Name,
			Phone:         rec.Phone,
			ParentName:    rec.ParentName,
			ParentPhone:   rec.ParentPhone,
			ProgressList:  progress,
			PaymentStatus: rec.PaymentStatus,
			Lessons:       lessons,
		})
	}
	return b.replaceTable(ctx, "students", insertStudent, len(rows), func(i int) interface{} { return rows[i] })
}

// SaveLessons replaces the lessons table in one transaction.
func (b *SQLiteBackend) SaveLessons(ctx context.Context, records []LessonRecord) error {
	rows := make([]lessonRow, 0, len(records))
	for i, rec := range records {
		students, err := encodeList(rec.Students)
		if err != nil {
			return err
		}
		rows = append(rows, lessonRow{
			Position: i,
			Name:     rec.Name,
			Capacity: rec.Capacity,
			Price:    rec.Price,
			Timing:   rec.Timing,
			Students: students,
		})
	}
	return b.replaceTable(ctx, "lessons", insertLesson, len(rows), func(i int) interface{} { return rows[i] })
}

// Close implements Backend.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) replaceTable(ctx context.Context, table, insert string, n int, row func(int) interface{}) error {
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s tx: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for i := 0; i < n; i++ {
		if _, err := tx.NamedExecContext(ctx, insert, row(i)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s tx: %w", table, err)
	}
	return nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(raw string, dst *[]string) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInvalidField, "list column is not a JSON array of strings")
	}
	return nil
}
