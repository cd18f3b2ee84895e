package models

import (
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// StudentFields carries the values used to construct a Student.
type StudentFields struct {
	Name          Name
	Phone         Phone
	ParentName    Name
	ParentPhone   Phone
	Progress      []Progress // most recent first
	PaymentStatus PaymentStatus
	Lessons       NameSet
}

// Student is a tutee. Students are immutable; the With methods return
// modified copies. Identity is the exact full name.
type Student struct {
	name        Name
	phone       Phone
	parentName  Name
	parentPhone Phone
	progress    []Progress
	paid        PaymentStatus
	lessons     NameSet
}

// NewStudent validates f and builds a Student.
func NewStudent(f StudentFields) (Student, error) {
	if _, err := NewName(string(f.Name)); err != nil {
		return Student{}, err
	}
	if _, err := NewPhone(string(f.Phone)); err != nil {
		return Student{}, err
	}
	if _, err := NewOptionalName(string(f.ParentName)); err != nil {
		return Student{}, err
	}
	if _, err := NewPhone(string(f.ParentPhone)); err != nil {
		return Student{}, err
	}
	for _, p := range f.Progress {
		if _, err := NewProgress(string(p)); err != nil {
			return Student{}, err
		}
	}
	return Student{
		name:        f.Name,
		phone:       f.Phone,
		parentName:  f.ParentName,
		parentPhone: f.ParentPhone,
		progress:    cloneProgress(f.Progress),
		paid:        f.PaymentStatus,
		lessons:     f.Lessons,
	}, nil
}

// Fields returns the student's values, suitable for building an edited copy.
func (s Student) Fields() StudentFields {
	return StudentFields{
		Name:          s.name,
		Phone:         s.phone,
		ParentName:    s.parentName,
		ParentPhone:   s.parentPhone,
		Progress:      cloneProgress(s.progress),
		PaymentStatus: s.paid,
		Lessons:       s.lessons,
	}
}

// Identity returns the key that distinguishes this student in its store.
func (s Student) Identity() string { return string(s.name) }

func (s Student) Name() Name                   { return s.name }
func (s Student) Phone() Phone                 { return s.phone }
func (s Student) ParentName() Name             { return s.parentName }
func (s Student) ParentPhone() Phone           { return s.parentPhone }
func (s Student) PaymentStatus() PaymentStatus { return s.paid }
func (s Student) Lessons() NameSet             { return s.lessons }

// ProgressList returns every recorded entry, most recent first.
func (s Student) ProgressList() []Progress { return cloneProgress(s.progress) }

// CurrentProgress returns the latest entry or EmptyProgress.
func (s Student) CurrentProgress() Progress {
	if len(s.progress) == 0 {
		return EmptyProgress
	}
	return s.progress[0]
}

// IsEnrolledIn reports whether the student lists lesson.
func (s Student) IsEnrolledIn(lesson LessonName) bool {
	return s.lessons.Contains(string(lesson))
}

// WithProgress records p as the latest entry.
func (s Student) WithProgress(p Progress) Student {
	s.progress = append([]Progress{p}, s.progress...)
	return s
}

// WithoutLatestProgress drops the latest entry and returns it.
func (s Student) WithoutLatestProgress() (Student, Progress, error) {
	if len(s.progress) == 0 {
		return s, EmptyProgress, appErrors.Clonef(appErrors.ErrValidation, "%s has no progress to delete", s.name)
	}
	latest := s.progress[0]
	s.progress = cloneProgress(s.progress[1:])
	return s, latest, nil
}

// WithPaymentStatus returns a copy with the given payment status.
func (s Student) WithPaymentStatus(status PaymentStatus) Student {
	s.paid = status
	return s
}

// WithLessons returns a copy enrolled in exactly lessons.
func (s Student) WithLessons(lessons NameSet) Student {
	s.lessons = lessons
	return s
}

// WithLesson returns a copy that also lists lesson.
func (s Student) WithLesson(lesson LessonName) Student {
	s.lessons = s.lessons.With(string(lesson))
	return s
}

// WithoutLesson returns a copy that no longer lists lesson.
func (s Student) WithoutLesson(lesson LessonName) Student {
	s.lessons = s.lessons.Without(string(lesson))
	return s
}

// Equal compares every field.
func (s Student) Equal(other Student) bool {
	if s.name != other.name || s.phone != other.phone || s.parentName != other.parentName ||
		s.parentPhone != other.parentPhone || s.paid != other.paid || !s.lessons.Equal(other.lessons) {
		return false
	}
	if len(s.progress) != len(other.progress) {
		return false
	}
	for i := range s.progress {
		if s.progress[i] != other.progress[i] {
			return false
		}
	}
	return true
}

func cloneProgress(in []Progress) []Progress {
	if len(in) == 0 {
		return nil
	}
	return append([]Progress(nil), in...)
}
