package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpinrui/tp/internal/models"
	"github.com/wpinrui/tp/internal/repository"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

func mustStudent(t *testing.T, name string, lessons ...string) models.Student {
	t.Helper()
	s, err := models.NewStudent(models.StudentFields{Name: models.Name(name), Lessons: models.NewNameSet(lessons...)})
	require.NoError(t, err)
	return s
}

func mustLesson(t *testing.T, name, capacity string, students ...string) models.Lesson {
	t.Helper()
	c, err := models.NewCapacity(capacity)
	require.NoError(t, err)
	l, err := models.NewLesson(models.LessonFields{Name: models.LessonName(name), Capacity: c, Students: models.NewNameSet(students...)})
	require.NoError(t, err)
	return l
}

func newSyncFixture(t *testing.T, students []models.Student, lessons []models.Lesson) (*EnrollmentSync, *repository.StudentStore, *repository.LessonStore) {
	t.Helper()
	ss := repository.NewStudentStore()
	ls := repository.NewLessonStore()
	require.NoError(t, ss.Reset(students))
	require.NoError(t, ls.Reset(lessons))
	return NewEnrollmentSync(ss, ls), ss, ls
}

func getStudent(t *testing.T, store *repository.StudentStore, name string) models.Student {
	t.Helper()
	s, err := store.Get(name)
	require.NoError(t, err)
	return s
}

func getLesson(t *testing.T, store *repository.LessonStore, name string) models.Lesson {
	t.Helper()
	l, err := store.Get(name)
	require.NoError(t, err)
	return l
}

func TestEnrollmentSyncEnrollUnenrollRoundTrip(t *testing.T) {
	amy := mustStudent(t, "Amy Tan")
	math := mustLesson(t, "Math", "")
	sync, students, lessons := newSyncFixture(t, []models.Student{amy}, []models.Lesson{math})

	s, l, err := sync.Enroll("Amy Tan", "Math")
	require.NoError(t, err)
	assert.True(t, s.IsEnrolledIn("Math"))
	assert.True(t, l.HasStudent("Amy Tan"))
	assert.True(t, getStudent(t, students, "Amy Tan").IsEnrolledIn("Math"))
	assert.True(t, getLesson(t, lessons, "Math").HasStudent("Amy Tan"))

	_, _, err = sync.Unenroll("Amy Tan", "Math")
	require.NoError(t, err)
	assert.True(t, getStudent(t, students, "Amy Tan").Equal(amy))
	assert.True(t, getLesson(t, lessons, "Math").Equal(math))
}

func TestEnrollmentSyncErrors(t *testing.T) {
	sync, students, lessons := newSyncFixture(t,
		[]models.Student{mustStudent(t, "Amy", "Math")},
		[]models.Lesson{mustLesson(t, "Math", "", "Amy"), mustLesson(t, "Art", "")},
	)

	tests := []struct {
		name    string
		run     func() error
		wantErr *appErrors.Error
	}{
		{"unknown student", func() error { _, _, err := sync.Enroll("Bob", "Math"); return err }, appErrors.ErrEntityNotFound},
		{"unknown lesson", func() error { _, _, err := sync.Enroll("Amy", "Chem"); return err }, appErrors.ErrEntityNotFound},
		{"already enrolled", func() error { _, _, err := sync.Enroll("Amy", "Math"); return err }, appErrors.ErrAlreadyEnrolled},
		{"not enrolled", func() error { _, _, err := sync.Unenroll("Amy", "Art"); return err }, appErrors.ErrNotEnrolled},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr))
		})
	}

	assert.Equal(t, []string{"Math"}, getStudent(t, students, "Amy").Lessons().Names())
	assert.Equal(t, 0, getLesson(t, lessons, "Art").Students().Len())
}

func TestEnrollmentSyncCapacity(t *testing.T) {
	sync, students, lessons := newSyncFixture(t,
		[]models.Student{mustStudent(t, "A"), mustStudent(t, "B"), mustStudent(t, "C")},
		[]models.Lesson{mustLesson(t, "Art", "2")},
	)

	_, _, err := sync.Enroll("A", "Art")
	require.NoError(t, err)
	_, _, err = sync.Enroll("B", "Art")
	require.NoError(t, err)

	_, _, err = sync.Enroll("C", "Art")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCapacityExceeded))
	assert.Equal(t, []string{"A", "B"}, getLesson(t, lessons, "Art").Students().Names())
	assert.False(t, getStudent(t, students, "C").IsEnrolledIn("Art"))
}

func TestEnrollmentSyncFullLessonReportsCapacityBeforeDuplicate(t *testing.T) {
	sync, _, lessons := newSyncFixture(t,
		[]models.Student{mustStudent(t, "A", "Art")},
		[]models.Lesson{mustLesson(t, "Art", "1", "A")},
	)

	_, _, err := sync.Enroll("A", "Art")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCapacityExceeded))
	assert.False(t, errors.Is(err, appErrors.ErrAlreadyEnrolled))
	assert.Equal(t, []string{"A"}, getLesson(t, lessons, "Art").Students().Names())
}

func TestEnrollmentSyncLessonDeletedCascades(t *testing.T) {
	sync, students, lessons := newSyncFixture(t,
		[]models.Student{mustStudent(t, "A", "Art", "Math"), mustStudent(t, "B", "Art"), mustStudent(t, "C", "Math")},
		[]models.Lesson{mustLesson(t, "Art", "", "A", "B"), mustLesson(t, "Math", "", "A", "C")},
	)

	art := getLesson(t, lessons, "Art")
	_, err := lessons.Remove(art)
	require.NoError(t, err)

	touched := sync.LessonDeleted(art)
	assert.Equal(t, []string{"A", "B"}, touched)
	assert.Equal(t, []string{"Math"}, getStudent(t, students, "A").Lessons().Names())
	assert.Equal(t, 0, getStudent(t, students, "B").Lessons().Len())
	assert.Equal(t, []string{"Math"}, getStudent(t, students, "C").Lessons().Names())
}

func TestEnrollmentSyncStudentDeletedCascades(t *testing.T) {
	sync, students, lessons := newSyncFixture(t,
		[]models.Student{mustStudent(t, "A", "Art", "Math"), mustStudent(t, "B", "Art")},
		[]models.Lesson{mustLesson(t, "Art", "", "A", "B"), mustLesson(t, "Math", "", "A")},
	)

	a := getStudent(t, students, "A")
	_, err := students.Remove(a)
	require.NoError(t, err)

	touched := sync.StudentDeleted(a)
	assert.Equal(t, []string{"Art", "Math"}, touched)
	assert.Equal(t, []string{"B"}, getLesson(t, lessons, "Art").Students().Names())
	assert.Equal(t, 0, getLesson(t, lessons, "Math").Students().Len())
}

func TestEnrollmentSyncRenames(t *testing.T) {
	sync, students, lessons := newSyncFixture(t,
		[]models.Student{mustStudent(t, "Bobby", "Art")},
		[]models.Lesson{mustLesson(t, "Art", "", "Bob")},
	)

	sync.StudentRenamed("Bob", "Bobby")
	assert.Equal(t, []string{"Bobby"}, getLesson(t, lessons, "Art").Students().Names())

	require.NoError(t, lessons.Replace(getLesson(t, lessons, "Art"), mustLesson(t, "Fine Art", "", "Bobby")))
	sync.LessonRenamed("Art", "Fine Art")
	assert.Equal(t, []string{"Fine Art"}, getStudent(t, students, "Bobby").Lessons().Names())
}

func TestEnrollmentSyncReconcile(t *testing.T) {
	sync, students, lessons := newSyncFixture(t,
		[]models.Student{
			mustStudent(t, "A", "Art", "Ghost"),
			mustStudent(t, "B"),
			mustStudent(t, "C", "Math"),
		},
		[]models.Lesson{
			mustLesson(t, "Art", "", "A", "B", "Nobody"),
			mustLesson(t, "Math", ""),
		},
	)

	report := sync.Reconcile()
	assert.True(t, report.Repaired())
	assert.Equal(t, []string{"Art/Nobody"}, report.DanglingStudents)
	assert.Equal(t, []string{"A/Ghost", "C/Math"}, report.DanglingLessons)
	assert.Equal(t, []string{"Art/B"}, report.RestoredLinks)

	assert.Equal(t, []string{"A", "B"}, getLesson(t, lessons, "Art").Students().Names())
	assert.Equal(t, []string{"Art"}, getStudent(t, students, "A").Lessons().Names())
	assert.Equal(t, []string{"Art"}, getStudent(t, students, "B").Lessons().Names())
	assert.Equal(t, 0, getStudent(t, students, "C").Lessons().Len())

	assert.False(t, sync.Reconcile().Repaired())
}
