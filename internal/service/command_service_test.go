package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wpinrui/tp/internal/models"
	"github.com/wpinrui/tp/internal/persistence"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

type fakeDataStore struct {
	load     persistence.LoadResult
	saveErr  error
	saves    int
	students []models.Student
	lessons  []models.Lesson
}

func (f *fakeDataStore) Load(context.Context) persistence.LoadResult {
	return f.load
}

func (f *fakeDataStore) Save(_ context.Context, students []models.Student, lessons []models.Lesson) error {
	f.saves++
	if f.saveErr != nil {
		return appErrors.WrapAs(f.saveErr, appErrors.ErrIOFailure, "")
	}
	f.students = students
	f.lessons = lessons
	return nil
}

func newCommandFixture(store *fakeDataStore) (*CommandService, *MetricsService) {
	metrics := NewMetricsService()
	return NewCommandService(NewModelManager(nil), store, nil, metrics, nil), metrics
}

func TestCommandServiceSavesAfterMutation(t *testing.T) {
	store := &fakeDataStore{}
	svc, metrics := newCommandFixture(store)
	ctx := context.Background()

	result, err := svc.Dispatch(ctx, AddStudentRequest{Name: "Amy Tan", Phone: "91234567"})
	require.NoError(t, err)
	assert.Equal(t, "New student added: Amy Tan", result.Feedback)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{"Amy Tan"}, studentNames(store.students))

	_, err = svc.Dispatch(ctx, AddLessonRequest{Name: "Math", Capacity: "10", Price: "80.00"})
	require.NoError(t, err)
	_, err = svc.Dispatch(ctx, EnrollmentRequest{Student: "Amy Tan", Lesson: "Math"})
	require.NoError(t, err)
	assert.Equal(t, 3, store.saves)
	require.Len(t, store.lessons, 1)
	assert.Equal(t, []string{"Amy Tan"}, store.lessons[0].Students().Names())

	snapshot := metrics.Snapshot()
	assert.Equal(t, 1, snapshot.Students)
	assert.Equal(t, 1, snapshot.Lessons)
	assert.Equal(t, uint64(3), snapshot.CommandsTotal)
}

func TestCommandServiceReadOnlyCommandsDoNotSave(t *testing.T) {
	store := &fakeDataStore{}
	svc, _ := newCommandFixture(store)
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, ListRequest{Scope: "students"})
	require.NoError(t, err)
	_, err = svc.Execute(ctx, HelpCommand{})
	require.NoError(t, err)
	assert.Equal(t, 0, store.saves)
}

func TestCommandServiceFailedCommandDoesNotSave(t *testing.T) {
	store := &fakeDataStore{}
	svc, metrics := newCommandFixture(store)

	_, err := svc.Dispatch(context.Background(), StudentRequest{Name: "Nobody", Delete: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrEntityNotFound))
	assert.Equal(t, 0, store.saves)
	assert.Equal(t, uint64(1), metrics.Snapshot().CommandFailures)
}

func TestCommandServiceValidation(t *testing.T) {
	svc, _ := newCommandFixture(&fakeDataStore{})
	ctx := context.Background()

	tests := []struct {
		name string
		req  CommandRequest
	}{
		{"missing student name", AddStudentRequest{Phone: "91234567"}},
		{"unknown list scope", ListRequest{Scope: "invoices"}},
		{"progress without text", ProgressRequest{Name: "Amy"}},
		{"bad phone", AddStudentRequest{Name: "Amy", Phone: "12"}},
		{"unconfirmed clear", ClearRequest{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Dispatch(ctx, tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Contains(t, []string{appErrors.ErrValidation.Code, appErrors.ErrInvalidField.Code}, appErr.Code)
		})
	}
}

func TestCommandServiceSaveFailureKeepsChange(t *testing.T) {
	store := &fakeDataStore{saveErr: errors.New("read-only file system")}
	svc, metrics := newCommandFixture(store)

	_, err := svc.Dispatch(context.Background(), AddLessonRequest{Name: "Math"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrIOFailure))
	assert.Equal(t, []string{"Math"}, lessonNames(svc.Everything().Lessons))
	assert.Equal(t, uint64(1), metrics.Snapshot().CommandFailures)
}

func TestCommandServiceCancelledContext(t *testing.T) {
	store := &fakeDataStore{}
	svc, _ := newCommandFixture(store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Execute(ctx, ClearCommand{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.saves)
}

func TestCommandServiceLoadRepairsEnrollment(t *testing.T) {
	store := &fakeDataStore{load: persistence.LoadResult{
		Students: []models.Student{mustStudent(t, "Amy", "Ghost")},
		Lessons:  []models.Lesson{mustLesson(t, "Math", "", "Amy")},
		Problems: []error{appErrors.Clone(appErrors.ErrDataConversion, "bad file")},
	}}
	core, logs := observer.New(zap.WarnLevel)
	svc := NewCommandService(NewModelManager(nil), store, nil, nil, zap.New(core))

	problems := svc.Load(context.Background())
	require.Len(t, problems, 1)

	everything := svc.Everything()
	require.Len(t, everything.Students, 1)
	assert.Equal(t, []string{"Math"}, everything.Students[0].Lessons().Names())
	assert.Equal(t, 1, logs.FilterMessage("stored enrollment was inconsistent and has been repaired").Len())
}

func TestCommandServiceViewsFollowFilters(t *testing.T) {
	store := &fakeDataStore{}
	svc, _ := newCommandFixture(store)
	ctx := context.Background()

	for _, name := range []string{"Amy", "Ben"} {
		_, err := svc.Dispatch(ctx, AddStudentRequest{Name: name})
		require.NoError(t, err)
	}
	_, err := svc.Dispatch(ctx, AddLessonRequest{Name: "Math"})
	require.NoError(t, err)
	_, err = svc.Dispatch(ctx, EnrollmentRequest{Student: "Ben", Lesson: "Math"})
	require.NoError(t, err)

	var changes []models.ViewChange
	cancel := svc.Subscribe(func(c models.ViewChange) { changes = append(changes, c) })
	defer cancel()

	_, err = svc.Dispatch(ctx, LessonRequest{Name: "Math"})
	require.NoError(t, err)

	views := svc.Views()
	assert.Equal(t, []string{"Ben"}, studentNames(views.Students))
	assert.Equal(t, []string{"Math"}, lessonNames(views.Lessons))
	assert.NotEmpty(t, changes)
	assert.Equal(t, 4, store.saves)
}
