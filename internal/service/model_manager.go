package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wpinrui/tp/internal/models"
	"github.com/wpinrui/tp/internal/repository"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// ModelManager composes the student and lesson stores, keeps the enrollment
// relationship consistent across them and serves filtered views. It is not
// safe for concurrent use; CommandService serialises access.
type ModelManager struct {
	students   *repository.StudentStore
	lessons    *repository.LessonStore
	enrollment *EnrollmentSync
	logger     *zap.Logger

	studentFilter models.Predicate[models.Student]
	lessonFilter  models.Predicate[models.Lesson]

	// identities the view filters match against; renames move them
	viewedStudent models.Name
	viewedLesson  models.LessonName

	subMu       sync.Mutex
	subscribers map[int]func(models.ViewChange)
	nextSubID   int
}

// NewModelManager constructs an empty model.
func NewModelManager(logger *zap.Logger) *ModelManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	students := repository.NewStudentStore()
	lessons := repository.NewLessonStore()
	return &ModelManager{
		students:      students,
		lessons:       lessons,
		enrollment:    NewEnrollmentSync(students, lessons),
		logger:        logger,
		studentFilter: models.ShowAll[models.Student],
		lessonFilter:  models.ShowAll[models.Lesson],
		subscribers:   make(map[int]func(models.ViewChange)),
	}
}

// Subscribe registers fn for change notifications and returns a cancel func.
// fn runs synchronously on the mutating goroutine and must not block.
func (m *ModelManager) Subscribe(fn func(models.ViewChange)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subscribers, id)
	}
}

func (m *ModelManager) notify(kind models.ViewChangeKind, reason string) {
	m.subMu.Lock()
	fns := make([]func(models.ViewChange), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	change := models.ViewChange{Kind: kind, Reason: reason}
	for _, fn := range fns {
		fn(change)
	}
}

// ResetData replaces both collections, then reconciles the relationship so
// the bidirectional invariant holds even for hand-edited data.
func (m *ModelManager) ResetData(students []models.Student, lessons []models.Lesson) (ReconcileReport, error) {
	prevStudents, prevLessons := m.students.All(), m.lessons.All()
	if err := m.students.Reset(students); err != nil {
		return ReconcileReport{}, err
	}
	if err := m.lessons.Reset(lessons); err != nil {
		_ = m.students.Reset(prevStudents)
		_ = m.lessons.Reset(prevLessons)
		return ReconcileReport{}, err
	}
	report := m.enrollment.Reconcile()
	m.studentFilter = models.ShowAll[models.Student]
	m.lessonFilter = models.ShowAll[models.Lesson]
	m.notify(models.ViewChangeReset, "data loaded")
	return report, nil
}

// Clear removes every student and lesson.
func (m *ModelManager) Clear() {
	_ = m.students.Reset(nil)
	_ = m.lessons.Reset(nil)
	m.notify(models.ViewChangeReset, "data cleared")
}

//=========== Students =====================================================

// HasStudent reports whether a student with the same name exists.
func (m *ModelManager) HasStudent(student models.Student) bool {
	return m.students.Contains(student)
}

// Student returns the stored student called name.
func (m *ModelManager) Student(name models.Name) (models.Student, error) {
	return m.students.Get(string(name))
}

// AddStudent stores a new student and shows the full student list. A new
// student starts without enrollments.
func (m *ModelManager) AddStudent(student models.Student) error {
	if student.Lessons().Len() > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "a new student cannot list lessons; enrol them instead")
	}
	if err := m.students.Add(student); err != nil {
		return err
	}
	m.studentFilter = models.ShowAll[models.Student]
	m.notify(models.ViewChangeStudents, "student added: "+student.Identity())
	return nil
}

// DeleteStudent removes the student and every lesson reference to it.
func (m *ModelManager) DeleteStudent(target models.Student) (models.Student, error) {
	removed, err := m.students.Remove(target)
	if err != nil {
		return models.Student{}, err
	}
	touched := m.enrollment.StudentDeleted(removed)
	m.logger.Debug("student deleted", zap.String("student", removed.Identity()), zap.Strings("lessons", touched))
	m.notify(models.ViewChangeStudents, "student deleted: "+removed.Identity())
	return removed, nil
}

// SetStudent replaces target with edited. The enrollment recorded for target
// is kept and lesson references follow a rename.
func (m *ModelManager) SetStudent(target, edited models.Student) (models.Student, error) {
	current, err := m.students.Get(target.Identity())
	if err != nil {
		return models.Student{}, err
	}
	edited = edited.WithLessons(current.Lessons())
	if err := m.students.Replace(current, edited); err != nil {
		return models.Student{}, err
	}
	m.enrollment.StudentRenamed(current.Name(), edited.Name())
	if m.viewedStudent == current.Name() {
		m.viewedStudent = edited.Name()
	}
	m.notify(models.ViewChangeStudents, "student edited: "+edited.Identity())
	return edited, nil
}

// MarkPaid sets the student's payment status.
func (m *ModelManager) MarkPaid(name models.Name, status models.PaymentStatus) (models.Student, error) {
	return m.updateStudent(name, func(s models.Student) (models.Student, error) {
		return s.WithPaymentStatus(status), nil
	}, "payment status")
}

// AddProgress records p as the student's latest progress.
func (m *ModelManager) AddProgress(name models.Name, p models.Progress) (models.Student, error) {
	return m.updateStudent(name, func(s models.Student) (models.Student, error) {
		return s.WithProgress(p), nil
	}, "progress added")
}

// DeleteLatestProgress drops the student's latest progress entry.
func (m *ModelManager) DeleteLatestProgress(name models.Name) (models.Student, models.Progress, error) {
	var latest models.Progress
	student, err := m.updateStudent(name, func(s models.Student) (models.Student, error) {
		updated, p, err := s.WithoutLatestProgress()
		latest = p
		return updated, err
	}, "progress deleted")
	return student, latest, err
}

func (m *ModelManager) updateStudent(name models.Name, change func(models.Student) (models.Student, error), reason string) (models.Student, error) {
	current, err := m.students.Get(string(name))
	if err != nil {
		return models.Student{}, err
	}
	updated, err := change(current)
	if err != nil {
		return models.Student{}, err
	}
	if err := m.students.Replace(current, updated); err != nil {
		return models.Student{}, err
	}
	m.notify(models.ViewChangeStudents, reason+": "+updated.Identity())
	return updated, nil
}

//=========== Lessons ======================================================

// HasLesson reports whether a lesson with the same name exists.
func (m *ModelManager) HasLesson(lesson models.Lesson) bool {
	return m.lessons.Contains(lesson)
}

// Lesson returns the stored lesson called name.
func (m *ModelManager) Lesson(name models.LessonName) (models.Lesson, error) {
	return m.lessons.Get(string(name))
}

// AddLesson stores a new lesson and shows the full lesson list.
func (m *ModelManager) AddLesson(lesson models.Lesson) error {
	if lesson.Students().Len() > 0 {
		return appErrors.Clone(appErrors.ErrValidation, "a new lesson cannot list students; enrol them instead")
	}
	if err := m.lessons.Add(lesson); err != nil {
		return err
	}
	m.lessonFilter = models.ShowAll[models.Lesson]
	m.notify(models.ViewChangeLessons, "lesson added: "+lesson.Identity())
	return nil
}

// DeleteLesson removes the lesson and every student reference to it.
func (m *ModelManager) DeleteLesson(target models.Lesson) (models.Lesson, error) {
	removed, err := m.lessons.Remove(target)
	if err != nil {
		return models.Lesson{}, err
	}
	touched := m.enrollment.LessonDeleted(removed)
	m.logger.Debug("lesson deleted", zap.String("lesson", removed.Identity()), zap.Strings("students", touched))
	m.notify(models.ViewChangeLessons, "lesson deleted: "+removed.Identity())
	return removed, nil
}

// SetLesson replaces target with edited, keeping target's enrolled students.
// The new capacity must still fit them.
func (m *ModelManager) SetLesson(target, edited models.Lesson) (models.Lesson, error) {
	current, err := m.lessons.Get(target.Identity())
	if err != nil {
		return models.Lesson{}, err
	}
	if !edited.Capacity().Allows(current.Students().Len()) {
		return models.Lesson{}, appErrors.Clonef(appErrors.ErrCapacityExceeded,
			"%s has %d students enrolled, more than the new capacity of %s",
			current.Name(), current.Students().Len(), edited.Capacity())
	}
	edited = edited.WithStudents(current.Students())
	if err := m.lessons.Replace(current, edited); err != nil {
		return models.Lesson{}, err
	}
	m.enrollment.LessonRenamed(current.Name(), edited.Name())
	if m.viewedLesson == current.Name() {
		m.viewedLesson = edited.Name()
	}
	m.notify(models.ViewChangeLessons, "lesson edited: "+edited.Identity())
	return edited, nil
}

//=========== Enrollment ===================================================

// Enroll links a student and a lesson.
func (m *ModelManager) Enroll(student models.Name, lesson models.LessonName) error {
	if _, _, err := m.enrollment.Enroll(student, lesson); err != nil {
		return err
	}
	m.notify(models.ViewChangeLessons, "enrolled: "+string(student)+" in "+string(lesson))
	return nil
}

// Unenroll removes the link between a student and a lesson.
func (m *ModelManager) Unenroll(student models.Name, lesson models.LessonName) error {
	if _, _, err := m.enrollment.Unenroll(student, lesson); err != nil {
		return err
	}
	m.notify(models.ViewChangeLessons, "unenrolled: "+string(student)+" from "+string(lesson))
	return nil
}

// Ordering ranks both full stores so enrollment sets render in store order.
func (m *ModelManager) Ordering() models.Ordering {
	return models.NewOrdering(m.students.All(), m.lessons.All())
}

//=========== Filtered views ===============================================

// AllStudents returns the full student collection in store order.
func (m *ModelManager) AllStudents() []models.Student {
	return m.students.All()
}

// AllLessons returns the full lesson collection in store order.
func (m *ModelManager) AllLessons() []models.Lesson {
	return m.lessons.All()
}

// FilteredStudents re-applies the current student predicate to the full store.
func (m *ModelManager) FilteredStudents() []models.Student {
	return filter(m.students.All(), m.studentFilter)
}

// FilteredLessons re-applies the current lesson predicate to the full store.
func (m *ModelManager) FilteredLessons() []models.Lesson {
	return filter(m.lessons.All(), m.lessonFilter)
}

// UpdateStudentFilter replaces the student predicate.
func (m *ModelManager) UpdateStudentFilter(p models.Predicate[models.Student]) {
	if p == nil {
		p = models.ShowAll[models.Student]
	}
	m.studentFilter = p
	m.notify(models.ViewChangeFilters, "student filter changed")
}

// UpdateLessonFilter replaces the lesson predicate.
func (m *ModelManager) UpdateLessonFilter(p models.Predicate[models.Lesson]) {
	if p == nil {
		p = models.ShowAll[models.Lesson]
	}
	m.lessonFilter = p
	m.notify(models.ViewChangeFilters, "lesson filter changed")
}

// ViewStudent narrows the student view to name and the lesson view to the
// lessons that list that student.
func (m *ModelManager) ViewStudent(name models.Name) (models.Student, error) {
	student, err := m.students.Get(string(name))
	if err != nil {
		return models.Student{}, err
	}
	m.viewedStudent, m.viewedLesson = name, ""
	m.studentFilter = func(s models.Student) bool { return s.Name() == m.viewedStudent }
	m.lessonFilter = func(l models.Lesson) bool { return l.HasStudent(m.viewedStudent) }
	m.notify(models.ViewChangeFilters, "viewing student: "+string(name))
	return student, nil
}

// ViewLesson narrows the lesson view to name and the student view to the
// students enrolled in it.
func (m *ModelManager) ViewLesson(name models.LessonName) (models.Lesson, error) {
	lesson, err := m.lessons.Get(string(name))
	if err != nil {
		return models.Lesson{}, err
	}
	m.viewedStudent, m.viewedLesson = "", name
	m.lessonFilter = func(l models.Lesson) bool { return l.Name() == m.viewedLesson }
	m.studentFilter = func(s models.Student) bool { return s.IsEnrolledIn(m.viewedLesson) }
	m.notify(models.ViewChangeFilters, "viewing lesson: "+string(name))
	return lesson, nil
}

// ViewAll resets both filters to show everything.
func (m *ModelManager) ViewAll() {
	m.studentFilter = models.ShowAll[models.Student]
	m.lessonFilter = models.ShowAll[models.Lesson]
	m.notify(models.ViewChangeFilters, "showing all")
}

func filter[T any](items []T, keep models.Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
