package models

import (
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// LessonFields carries the values used to construct a Lesson.
type LessonFields struct {
	Name     LessonName
	Capacity Capacity
	Price    Price
	Timing   Timing
	Students NameSet
}

// Lesson is a class students enrol in. Lessons are immutable; identity is the
// lesson name.
type Lesson struct {
	name     LessonName
	capacity Capacity
	price    Price
	timing   Timing
	students NameSet
}

// NewLesson validates f and builds a Lesson. The enrolled students must fit
// within the capacity.
func NewLesson(f LessonFields) (Lesson, error) {
	if _, err := NewLessonName(string(f.Name)); err != nil {
		return Lesson{}, err
	}
	if _, err := NewTiming(string(f.Timing)); err != nil {
		return Lesson{}, err
	}
	if !f.Capacity.Allows(f.Students.Len()) {
		return Lesson{}, appErrors.Clonef(appErrors.ErrCapacityExceeded,
			"lesson %s has %d students enrolled, more than its capacity of %s", f.Name, f.Students.Len(), f.Capacity)
	}
	return Lesson{
		name:     f.Name,
		capacity: f.Capacity,
		price:    f.Price,
		timing:   f.Timing,
		students: f.Students,
	}, nil
}

// Fields returns the lesson's values, suitable for building an edited copy.
func (l Lesson) Fields() LessonFields {
	return LessonFields{Name: l.name, Capacity: l.capacity, Price: l.price, Timing: l.timing, Students: l.students}
}

// Identity returns the key that distinguishes this lesson in its store.
func (l Lesson) Identity() string { return string(l.name) }

func (l Lesson) Name() LessonName   { return l.name }
func (l Lesson) Capacity() Capacity { return l.capacity }
func (l Lesson) Price() Price       { return l.price }
func (l Lesson) Timing() Timing     { return l.timing }
func (l Lesson) Students() NameSet  { return l.students }

// HasStudent reports whether the lesson lists student.
func (l Lesson) HasStudent(student Name) bool {
	return l.students.Contains(string(student))
}

// IsFull reports whether no further student may enrol.
func (l Lesson) IsFull() bool {
	return !l.capacity.Allows(l.students.Len() + 1)
}

// Vacancy returns the remaining places and whether the lesson is bounded.
func (l Lesson) Vacancy() (int, bool) {
	limit, ok := l.capacity.Limit()
	if !ok {
		return 0, false
	}
	return limit - l.students.Len(), true
}

// WithStudents returns a copy listing exactly students, without a capacity check.
func (l Lesson) WithStudents(students NameSet) Lesson {
	l.students = students
	return l
}

// WithStudent returns a copy that also lists student.
func (l Lesson) WithStudent(student Name) Lesson {
	l.students = l.students.With(string(student))
	return l
}

// WithoutStudent returns a copy that no longer lists student.
func (l Lesson) WithoutStudent(student Name) Lesson {
	l.students = l.students.Without(string(student))
	return l
}

// Equal compares every field.
func (l Lesson) Equal(other Lesson) bool {
	return l.name == other.name && l.capacity == other.capacity && l.price == other.price &&
		l.timing == other.timing && l.students.Equal(other.students)
}
