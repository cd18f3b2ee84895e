package service

import (
	"github.com/wpinrui/tp/internal/models"
	"github.com/wpinrui/tp/internal/repository"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// EnrollmentSync keeps the mirrored enrollment sets of both stores consistent.
// Every cascade scans the full opposite collection, never a filtered view.
type EnrollmentSync struct {
	students *repository.StudentStore
	lessons  *repository.LessonStore
}

// ReconcileReport lists the references Reconcile had to repair.
type ReconcileReport struct {
	DanglingStudents []string // lesson -> missing student, as "lesson/student"
	DanglingLessons  []string // student -> missing or non-reciprocal lesson, as "student/lesson"
	RestoredLinks    []string // lesson -> student links missing on the student side
}

// Repaired reports whether anything was changed.
func (r ReconcileReport) Repaired() bool {
	return len(r.DanglingStudents)+len(r.DanglingLessons)+len(r.RestoredLinks) > 0
}

// NewEnrollmentSync binds a synchronizer to both stores.
func NewEnrollmentSync(students *repository.StudentStore, lessons *repository.LessonStore) *EnrollmentSync {
	return &EnrollmentSync{students: students, lessons: lessons}
}

// Enroll links student and lesson on both sides, or on neither.
func (s *EnrollmentSync) Enroll(studentName models.Name, lessonName models.LessonName) (models.Student, models.Lesson, error) {
	student, lesson, err := s.pair(studentName, lessonName)
	if err != nil {
		return models.Student{}, models.Lesson{}, err
	}
	if lesson.IsFull() {
		return models.Student{}, models.Lesson{}, appErrors.Clonef(appErrors.ErrCapacityExceeded,
			"%s is at full capacity (%s)", lessonName, lesson.Capacity())
	}
	if student.IsEnrolledIn(lessonName) || lesson.HasStudent(studentName) {
		return models.Student{}, models.Lesson{}, appErrors.Clonef(appErrors.ErrAlreadyEnrolled,
			"%s is already enrolled in %s", studentName, lessonName)
	}

	enrolledStudent := student.WithLesson(lessonName)
	enrolledLesson := lesson.WithStudent(studentName)
	s.install(student, enrolledStudent, lesson, enrolledLesson)
	return enrolledStudent, enrolledLesson, nil
}

// Unenroll removes the link between student and lesson on both sides.
func (s *EnrollmentSync) Unenroll(studentName models.Name, lessonName models.LessonName) (models.Student, models.Lesson, error) {
	student, lesson, err := s.pair(studentName, lessonName)
	if err != nil {
		return models.Student{}, models.Lesson{}, err
	}
	if !student.IsEnrolledIn(lessonName) && !lesson.HasStudent(studentName) {
		return models.Student{}, models.Lesson{}, appErrors.Clonef(appErrors.ErrNotEnrolled,
			"%s is not enrolled in %s", studentName, lessonName)
	}

	leftStudent := student.WithoutLesson(lessonName)
	leftLesson := lesson.WithoutStudent(studentName)
	s.install(student, leftStudent, lesson, leftLesson)
	return leftStudent, leftLesson, nil
}

// LessonDeleted removes lesson from every student that lists it and returns
// the names of the students touched.
func (s *EnrollmentSync) LessonDeleted(lesson models.Lesson) []string {
	var touched []string
	for _, student := range s.students.All() {
		if !student.IsEnrolledIn(lesson.Name()) {
			continue
		}
		s.mustReplaceStudent(student, student.WithoutLesson(lesson.Name()))
		touched = append(touched, student.Identity())
	}
	return touched
}

// StudentDeleted removes student from every lesson that lists it and returns
// the names of the lessons touched.
func (s *EnrollmentSync) StudentDeleted(student models.Student) []string {
	var touched []string
	for _, lesson := range s.lessons.All() {
		if !lesson.HasStudent(student.Name()) {
			continue
		}
		s.mustReplaceLesson(lesson, lesson.WithoutStudent(student.Name()))
		touched = append(touched, lesson.Identity())
	}
	return touched
}

// StudentRenamed rewrites every lesson reference from oldName to newName.
func (s *EnrollmentSync) StudentRenamed(oldName, newName models.Name) {
	if oldName == newName {
		return
	}
	for _, lesson := range s.lessons.All() {
		if lesson.HasStudent(oldName) {
			s.mustReplaceLesson(lesson, lesson.WithoutStudent(oldName).WithStudent(newName))
		}
	}
}

// LessonRenamed rewrites every student reference from oldName to newName.
func (s *EnrollmentSync) LessonRenamed(oldName, newName models.LessonName) {
	if oldName == newName {
		return
	}
	for _, student := range s.students.All() {
		if student.IsEnrolledIn(oldName) {
			s.mustReplaceStudent(student, student.WithoutLesson(oldName).WithLesson(newName))
		}
	}
}

// Reconcile rebuilds the student side from the lesson side. Lessons are
// authoritative because capacity is enforced there; references to entities
// that do not exist are dropped.
func (s *EnrollmentSync) Reconcile() ReconcileReport {
	var report ReconcileReport

	derived := make(map[string][]string, s.students.Len())
	for _, lesson := range s.lessons.All() {
		kept := lesson.Students()
		for _, name := range lesson.Students().Names() {
			if !s.students.Has(name) {
				kept = kept.Without(name)
				report.DanglingStudents = append(report.DanglingStudents, lesson.Identity()+"/"+name)
				continue
			}
			derived[name] = append(derived[name], lesson.Identity())
		}
		if kept.Len() != lesson.Students().Len() {
			s.mustReplaceLesson(lesson, lesson.WithStudents(kept))
		}
	}

	for _, student := range s.students.All() {
		want := models.NewNameSet(derived[student.Identity()]...)
		have := student.Lessons()
		if want.Equal(have) {
			continue
		}
		for _, name := range have.Names() {
			if !want.Contains(name) {
				report.DanglingLessons = append(report.DanglingLessons, student.Identity()+"/"+name)
			}
		}
		for _, name := range want.Names() {
			if !have.Contains(name) {
				report.RestoredLinks = append(report.RestoredLinks, name+"/"+student.Identity())
			}
		}
		s.mustReplaceStudent(student, student.WithLessons(want))
	}
	return report
}

func (s *EnrollmentSync) pair(studentName models.Name, lessonName models.LessonName) (models.Student, models.Lesson, error) {
	student, err := s.students.Get(string(studentName))
	if err != nil {
		return models.Student{}, models.Lesson{}, err
	}
	lesson, err := s.lessons.Get(string(lessonName))
	if err != nil {
		return models.Student{}, models.Lesson{}, err
	}
	return student, lesson, nil
}

// install writes a fully validated pair. Identities are unchanged, so
// neither Replace can fail.
func (s *EnrollmentSync) install(oldStudent, newStudent models.Student, oldLesson, newLesson models.Lesson) {
	s.mustReplaceStudent(oldStudent, newStudent)
	s.mustReplaceLesson(oldLesson, newLesson)
}

func (s *EnrollmentSync) mustReplaceStudent(target, replacement models.Student) {
	if err := s.students.Replace(target, replacement); err != nil {
		panic("enrollment sync: " + err.Error())
	}
}

func (s *EnrollmentSync) mustReplaceLesson(target, replacement models.Lesson) {
	if err := s.lessons.Replace(target, replacement); err != nil {
		panic("enrollment sync: " + err.Error())
	}
}
