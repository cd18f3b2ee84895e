package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	appErrors "github.com/wpinrui/tp/pkg/errors"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
}

type studentsFile struct {
	Students []StudentRecord `json:"students"`
}

type lessonsFile struct {
	Lessons []LessonRecord `json:"lessons"`
}

// JSONBackend keeps each collection in its own human-editable JSON file.
type JSONBackend struct {
	files        fileStorage
	studentsPath string
	lessonsPath  string
}

// NewJSONBackend constructs a JSONBackend writing through files.
func NewJSONBackend(files fileStorage, studentsPath, lessonsPath string) *JSONBackend {
	return &JSONBackend{files: files, studentsPath: studentsPath, lessonsPath: lessonsPath}
}

// Describe names the files for log output.
func (b *JSONBackend) Describe() string {
	return fmt.Sprintf("json(%s, %s)", b.studentsPath, b.lessonsPath)
}

// LoadStudents implements Backend.
func (b *JSONBackend) LoadStudents(ctx context.Context) ([]StudentRecord, error) {
	var file studentsFile
	if err := b.readJSON(b.studentsPath, &file); err != nil {
		return nil, err
	}
	return file.Students, nil
}

// LoadLessons implements Backend.
func (b *JSONBackend) LoadLessons(ctx context.Context) ([]LessonRecord, error) {
	var file lessonsFile
	if err := b.readJSON(b.lessonsPath, &file); err != nil {
		return nil, err
	}
	return file.Lessons, nil
}

// SaveStudents implements Backend.
func (b *JSONBackend) SaveStudents(ctx context.Context, records []StudentRecord) error {
	if records == nil {
		records = []StudentRecord{}
	}
	return b.writeJSON(b.studentsPath, studentsFile{Students: records})
}

// SaveLessons implements Backend.
func (b *JSONBackend) SaveLessons(ctx context.Context, records []LessonRecord) error {
	if records == nil {
		records = []LessonRecord{}
	}
	return b.writeJSON(b.lessonsPath, lessonsFile{Lessons: records})
}

// Close implements Backend.
func (b *JSONBackend) Close() error { return nil }

func (b *JSONBackend) readJSON(path string, dst interface{}) error {
	data, err := b.files.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoData
		}
		return appErrors.WrapAs(err, appErrors.ErrDataConversion, fmt.Sprintf("cannot read %s", path))
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return appErrors.WrapAs(err, appErrors.ErrDataConversion, fmt.Sprintf("%s is not valid JSON", path))
	}
	return nil
}

func (b *JSONBackend) writeJSON(path string, payload interface{}) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if _, err := b.files.Save(path, data); err != nil {
		return err
	}
	return nil
}
