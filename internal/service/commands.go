package service

import (
	"fmt"

	"github.com/wpinrui/tp/internal/models"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// HelpMessage summarises the available operations.
const HelpMessage = `Students:  student add | delete | edit | paid | unpaid | progress add | progress delete | view
Lessons:   lesson add | delete | edit | view
Relations: enroll | unenroll
Views:     list [--students|--lessons]
Data:      clear | export`

// CommandResult is the outcome of a successful command.
type CommandResult struct {
	Feedback string `json:"feedback"`
	ShowHelp bool   `json:"showHelp,omitempty"`
	Exit     bool   `json:"exit,omitempty"`
}

// Command is one typed operation against the model.
type Command interface {
	// Name labels the command in logs and metrics.
	Name() string
	// Mutates reports whether the stores must be saved after a successful run.
	Mutates() bool
	Execute(m *ModelManager) (CommandResult, error)
}

func feedback(format string, args ...interface{}) CommandResult {
	return CommandResult{Feedback: fmt.Sprintf(format, args...)}
}

//=========== Students =====================================================

// AddStudentCommand adds a new student.
type AddStudentCommand struct {
	Student models.Student
}

func (AddStudentCommand) Name() string  { return "student.add" }
func (AddStudentCommand) Mutates() bool { return true }

// Execute implements Command.
func (c AddStudentCommand) Execute(m *ModelManager) (CommandResult, error) {
	if err := m.AddStudent(c.Student); err != nil {
		return CommandResult{}, err
	}
	return feedback("New student added: %s", c.Student.Name()), nil
}

// DeleteStudentCommand removes a student and its enrollments.
type DeleteStudentCommand struct {
	Student models.Name
}

func (DeleteStudentCommand) Name() string  { return "student.delete" }
func (DeleteStudentCommand) Mutates() bool { return true }

// Execute implements Command.
func (c DeleteStudentCommand) Execute(m *ModelManager) (CommandResult, error) {
	target, err := m.Student(c.Student)
	if err != nil {
		return CommandResult{}, err
	}
	if _, err := m.DeleteStudent(target); err != nil {
		return CommandResult{}, err
	}
	return feedback("Deleted student: %s", target.Name()), nil
}

// StudentEdit holds the student fields to overwrite; nil leaves a field as is.
type StudentEdit struct {
	Name        *models.Name
	Phone       *models.Phone
	ParentName  *models.Name
	ParentPhone *models.Phone
}

// IsEmpty reports whether no field is edited.
func (e StudentEdit) IsEmpty() bool {
	return e.Name == nil && e.Phone == nil && e.ParentName == nil && e.ParentPhone == nil
}

// EditStudentCommand edits a student's details. Enrollment, progress and
// payment status are left untouched.
type EditStudentCommand struct {
	Student models.Name
	Edit    StudentEdit
}

func (EditStudentCommand) Name() string  { return "student.edit" }
func (EditStudentCommand) Mutates() bool { return true }

// Execute implements Command.
func (c EditStudentCommand) Execute(m *ModelManager) (CommandResult, error) {
	if c.Edit.IsEmpty() {
		return CommandResult{}, appErrors.Clone(appErrors.ErrValidation, "at least one field to edit must be provided")
	}
	current, err := m.Student(c.Student)
	if err != nil {
		return CommandResult{}, err
	}
	fields := current.Fields()
	if c.Edit.Name != nil {
		fields.Name = *c.Edit.Name
	}
	if c.Edit.Phone != nil {
		fields.Phone = *c.Edit.Phone
	}
	if c.Edit.ParentName != nil {
		fields.ParentName = *c.Edit.ParentName
	}
	if c.Edit.ParentPhone != nil {
		fields.ParentPhone = *c.Edit.ParentPhone
	}
	edited, err := models.NewStudent(fields)
	if err != nil {
		return CommandResult{}, err
	}
	if edited.Equal(current) {
		return CommandResult{}, appErrors.Clonef(appErrors.ErrValidation, "no change to %s", current.Name())
	}
	saved, err := m.SetStudent(current, edited)
	if err != nil {
		return CommandResult{}, err
	}
	return feedback("Edited student: %s", saved.Name()), nil
}

// PaymentCommand marks a student as paid or unpaid.
type PaymentCommand struct {
	Student models.Name
	Status  models.PaymentStatus
}

func (c PaymentCommand) Name() string {
	if c.Status == models.Paid {
		return "student.paid"
	}
	return "student.unpaid"
}

func (PaymentCommand) Mutates() bool { return true }

// Execute implements Command.
func (c PaymentCommand) Execute(m *ModelManager) (CommandResult, error) {
	s, err := m.MarkPaid(c.Student, c.Status)
	if err != nil {
		return CommandResult{}, err
	}
	return feedback("Payment status of %s: %s", s.Name(), s.PaymentStatus()), nil
}

// AddProgressCommand records a new latest progress entry.
type AddProgressCommand struct {
	Student  models.Name
	Progress models.Progress
}

func (AddProgressCommand) Name() string  { return "progress.add" }
func (AddProgressCommand) Mutates() bool { return true }

// Execute implements Command.
func (c AddProgressCommand) Execute(m *ModelManager) (CommandResult, error) {
	s, err := m.AddProgress(c.Student, c.Progress)
	if err != nil {
		return CommandResult{}, err
	}
	return feedback("Progress added for %s: %s", s.Name(), c.Progress), nil
}

// DeleteProgressCommand removes the latest progress entry.
type DeleteProgressCommand struct {
	Student models.Name
}

func (DeleteProgressCommand) Name() string  { return "progress.delete" }
func (DeleteProgressCommand) Mutates() bool { return true }

// Execute implements Command.
func (c DeleteProgressCommand) Execute(m *ModelManager) (CommandResult, error) {
	s, latest, err := m.DeleteLatestProgress(c.Student)
	if err != nil {
		return CommandResult{}, err
	}
	return feedback("Progress deleted for %s: %s", s.Name(), latest), nil
}

// ViewStudentCommand narrows both views to one student.
type ViewStudentCommand struct {
	Student models.Name
}

func (ViewStudentCommand) Name() string  { return "student.view" }
func (ViewStudentCommand) Mutates() bool { return false }

// Execute implements Command.
func (c ViewStudentCommand) Execute(m *ModelManager) (CommandResult, error) {
	s, err := m.ViewStudent(c.Student)
	if err != nil {
		return CommandResult{}, err
	}
	return feedback("Viewing student: %s", s.Name()), nil
}

//=========== Lessons ======================================================

// AddLessonCommand adds a new lesson.
type AddLessonCommand struct {
	Lesson models.Lesson
}

func (AddLessonCommand) Name() string  { return "lesson.add" }
func (AddLessonCommand) Mutates() bool { return true }

// Execute implements Command.
func (c AddLessonCommand) Execute(m *ModelManager) (CommandResult, error) {
	if err := m.AddLesson(c.Lesson); err != nil {
		return CommandResult{}, err
	}
	return feedback("New lesson added: %s", c.Lesson.Name()), nil
}

// DeleteLessonCommand removes a lesson and its enrollments.
type DeleteLessonCommand struct {
	Lesson models.LessonName
}

func (DeleteLessonCommand) Name() string  { return "lesson.delete" }
func (DeleteLessonCommand) Mutates() bool { return true }

// Execute implements Command.
func (c DeleteLessonCommand) Execute(m *ModelManager) (CommandResult, error) {
	target, err := m.Lesson(c.Lesson)
	if err != nil {
		return CommandResult{}, err
	}
	if _, err := m.DeleteLesson(target); err != nil {
		return CommandResult{}, err
	}
	return feedback("Deleted lesson: %s", target.Name()), nil
}

// LessonEdit holds the lesson fields to overwrite; nil leaves a field as is.
type LessonEdit struct {
	Name     *models.LessonName
	Capacity *models.Capacity
	Price    *models.Price
	Timing   *models.Timing
}

// IsEmpty reports whether no field is edited.
func (e LessonEdit) IsEmpty() bool {
	return e.Name == nil && e.Capacity == nil && e.Price == nil && e.Timing == nil
}

// EditLessonCommand edits a lesson's details, keeping its enrolled students.
type EditLessonCommand struct {
	Lesson models.LessonName
	Edit   LessonEdit
}

func (EditLessonCommand) Name() string  { return "lesson.edit" }
func (EditLessonCommand) Mutates() bool { return true }

// Execute implements Command.
func (c EditLessonCommand) Execute(m *ModelManager) (CommandResult, error) {
	if c.Edit.IsEmpty() {
		return CommandResult{}, appErrors.Clone(appErrors.ErrValidation, "at least one field to edit must be provided")
	}
	current, err := m.Lesson(c.Lesson)
	if err != nil {
		return CommandResult{}, err
	}
	fields := current.Fields()
	fields.Students = models.NameSet{}
	if c.Edit.Name != nil {
		fields.Name = *c.Edit.Name
	}
	if c.Edit.Capacity != nil {
		fields.Capacity = *c.Edit.Capacity
	}
	if c.Edit.Price != nil {
		fields.Price = *c.Edit.Price
	}
	if c.Edit.Timing != nil {
		fields.Timing = *c.Edit.Timing
	}
	edited, err := models.NewLesson(fields)
	if err != nil {
		return CommandResult{}, err
	}
	if edited.WithStudents(current.Students()).Equal(current) {
		return CommandResult{}, appErrors.Clonef(appErrors.ErrValidation, "no change to %s", current.Name())
	}
	saved, err := m.SetLesson(current, edited)
	if err != nil {
		return CommandResult{}, err
	}
	return feedback("Edited lesson: %s", saved.Name()), nil
}

// ViewLessonCommand narrows both views to one lesson.
type ViewLessonCommand struct {
	Lesson models.LessonName
}

func (ViewLessonCommand) Name() string  { return "lesson.view" }
func (ViewLessonCommand) Mutates() bool { return false }

// Execute implements Command.
func (c ViewLessonCommand) Execute(m *ModelManager) (CommandResult, error) {
	l, err := m.ViewLesson(c.Lesson)
	if err != nil {
		return CommandResult{}, err
	}
	return feedback("Viewing lesson: %s", l.Name()), nil
}

//=========== Enrollment ===================================================

// EnrollCommand enrols a student in a lesson.
type EnrollCommand struct {
	Student models.Name
	Lesson  models.LessonName
}

func (EnrollCommand) Name() string  { return "enroll" }
func (EnrollCommand) Mutates() bool { return true }

// Execute implements Command.
func (c EnrollCommand) Execute(m *ModelManager) (CommandResult, error) {
	if err := m.Enroll(c.Student, c.Lesson); err != nil {
		return CommandResult{}, err
	}
	return feedback("Enrolled %s in %s", c.Student, c.Lesson), nil
}

// UnenrollCommand removes a student from a lesson.
type UnenrollCommand struct {
	Student models.Name
	Lesson  models.LessonName
}

func (UnenrollCommand) Name() string  { return "unenroll" }
func (UnenrollCommand) Mutates() bool { return true }

// Execute implements Command.
func (c UnenrollCommand) Execute(m *ModelManager) (CommandResult, error) {
	if err := m.Unenroll(c.Student, c.Lesson); err != nil {
		return CommandResult{}, err
	}
	return feedback("Unenrolled %s from %s", c.Student, c.Lesson), nil
}

//=========== General ======================================================

// ListScope selects which views a ListCommand resets.
type ListScope string

const (
	ListAll      ListScope = "all"
	ListStudents ListScope = "students"
	ListLessons  ListScope = "lessons"
)

// ListCommand resets filters so every record is shown.
type ListCommand struct {
	Scope ListScope
}

func (ListCommand) Name() string  { return "list" }
func (ListCommand) Mutates() bool { return false }

// Execute implements Command.
func (c ListCommand) Execute(m *ModelManager) (CommandResult, error) {
	switch c.Scope {
	case ListStudents:
		m.UpdateStudentFilter(nil)
		return feedback("Listed all students"), nil
	case ListLessons:
		m.UpdateLessonFilter(nil)
		return feedback("Listed all lessons"), nil
	case ListAll, "":
		m.ViewAll()
		return feedback("Listed all students and lessons"), nil
	default:
		return CommandResult{}, appErrors.Clonef(appErrors.ErrValidation, "unknown list scope %q", c.Scope)
	}
}

// ClearCommand deletes every student and lesson.
type ClearCommand struct{}

func (ClearCommand) Name() string  { return "clear" }
func (ClearCommand) Mutates() bool { return true }

// Execute implements Command.
func (ClearCommand) Execute(m *ModelManager) (CommandResult, error) {
	m.Clear()
	return feedback("TutorAid has been cleared!"), nil
}

// HelpCommand shows usage.
type HelpCommand struct{}

func (HelpCommand) Name() string  { return "help" }
func (HelpCommand) Mutates() bool { return false }

// Execute implements Command.
func (HelpCommand) Execute(*ModelManager) (CommandResult, error) {
	return CommandResult{Feedback: HelpMessage, ShowHelp: true}, nil
}

// ExitCommand ends an interactive session.
type ExitCommand struct{}

func (ExitCommand) Name() string  { return "exit" }
func (ExitCommand) Mutates() bool { return false }

// Execute implements Command.
func (ExitCommand) Execute(*ModelManager) (CommandResult, error) {
	return CommandResult{Feedback: "Exiting TutorAid as requested ...", Exit: true}, nil
}
