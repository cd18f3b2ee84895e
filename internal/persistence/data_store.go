package persistence

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/wpinrui/tp/internal/models"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// ErrNoData is returned by a Backend when nothing has been stored yet.
var ErrNoData = errors.New("no stored data")

// Backend reads and writes the stored records of both collections.
type Backend interface {
	LoadStudents(ctx context.Context) ([]StudentRecord, error)
	LoadLessons(ctx context.Context) ([]LessonRecord, error)
	SaveStudents(ctx context.Context, records []StudentRecord) error
	SaveLessons(ctx context.Context, records []LessonRecord) error
	Describe() string
	Close() error
}

type saveObserver interface {
	ObservePersistence(operation string, success bool, duration time.Duration)
}

// LoadResult carries the decoded collections plus the problems that forced a
// collection to start empty.
type LoadResult struct {
	Students []models.Student
	Lessons  []models.Lesson
	Problems []error
}

// DataStore applies the load and save policy on top of a Backend.
type DataStore struct {
	backend Backend
	metrics saveObserver
	logger  *zap.Logger
}

// NewDataStore constructs a DataStore. metrics may be nil.
func NewDataStore(backend Backend, metrics saveObserver, logger *zap.Logger) *DataStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataStore{backend: backend, metrics: metrics, logger: logger}
}

// Load reads both collections. Nothing stored yet yields an empty collection.
// A collection that cannot be decoded also starts empty; the DataConversion
// error is logged and reported in Problems.
func (d *DataStore) Load(ctx context.Context) LoadResult {
	start := time.Now()
	var result LoadResult

	studentRecords, err := d.backend.LoadStudents(ctx)
	if err == nil {
		result.Students, err = DecodeStudents(studentRecords)
	}
	if err = d.loadProblem("students", err); err != nil {
		result.Students = nil
		result.Problems = append(result.Problems, err)
	}

	lessonRecords, err := d.backend.LoadLessons(ctx)
	if err == nil {
		result.Lessons, err = DecodeLessons(lessonRecords)
	}
	if err = d.loadProblem("lessons", err); err != nil {
		result.Lessons = nil
		result.Problems = append(result.Problems, err)
	}

	d.observe("load", len(result.Problems) == 0, time.Since(start))
	d.logger.Info("data loaded",
		zap.String("backend", d.backend.Describe()),
		zap.Int("students", len(result.Students)),
		zap.Int("lessons", len(result.Lessons)),
	)
	return result
}

func (d *DataStore) loadProblem(collection string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNoData) {
		d.logger.Info("no stored data, starting empty", zap.String("collection", collection))
		return nil
	}
	if !errors.Is(err, appErrors.ErrDataConversion) {
		err = appErrors.WrapAs(err, appErrors.ErrDataConversion, "stored "+collection+" could not be read")
	}
	d.logger.Warn("stored data is invalid, starting with an empty collection",
		zap.String("collection", collection),
		zap.Error(err),
	)
	return err
}

// Save writes both collections. Either write failing is an IOFailure; each
// file keeps its previous content on failure.
func (d *DataStore) Save(ctx context.Context, students []models.Student, lessons []models.Lesson) error {
	start := time.Now()
	err := d.backend.SaveStudents(ctx, EncodeStudents(students))
	if err == nil {
		err = d.backend.SaveLessons(ctx, EncodeLessons(lessons))
	}
	d.observe("save", err == nil, time.Since(start))
	if err != nil {
		d.logger.Error("save failed", zap.String("backend", d.backend.Describe()), zap.Error(err))
		return appErrors.WrapAs(err, appErrors.ErrIOFailure, "")
	}
	return nil
}

// Describe names the backend in use.
func (d *DataStore) Describe() string {
	return d.backend.Describe()
}

// Close releases the backend.
func (d *DataStore) Close() error {
	return d.backend.Close()
}

func (d *DataStore) observe(operation string, success bool, duration time.Duration) {
	if d.metrics == nil {
		return
	}
	d.metrics.ObservePersistence(operation, success, duration)
}
