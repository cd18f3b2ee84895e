package service

import (
	"github.com/wpinrui/tp/internal/models"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// CommandRequest is a raw, transport-level payload that converts into a typed
// Command once its shape has been validated.
type CommandRequest interface {
	Command() (Command, error)
}

// AddStudentRequest holds payload for adding a student.
type AddStudentRequest struct {
	Name        string `json:"studentName" validate:"required"`
	Phone       string `json:"studentPhone"`
	ParentName  string `json:"parentName"`
	ParentPhone string `json:"parentPhone"`
}

// Command implements CommandRequest.
func (r AddStudentRequest) Command() (Command, error) {
	var fields models.StudentFields
	var err error
	if fields.Name, err = models.NewName(r.Name); err != nil {
		return nil, err
	}
	if fields.Phone, err = models.NewPhone(r.Phone); err != nil {
		return nil, err
	}
	if fields.ParentName, err = models.NewOptionalName(r.ParentName); err != nil {
		return nil, err
	}
	if fields.ParentPhone, err = models.NewPhone(r.ParentPhone); err != nil {
		return nil, err
	}
	student, err := models.NewStudent(fields)
	if err != nil {
		return nil, err
	}
	return AddStudentCommand{Student: student}, nil
}

// EditStudentRequest holds payload for editing a student. Absent fields are kept.
type EditStudentRequest struct {
	Target      string  `json:"-" validate:"required"`
	Name        *string `json:"studentName"`
	Phone       *string `json:"studentPhone"`
	ParentName  *string `json:"parentName"`
	ParentPhone *string `json:"parentPhone"`
}

// Command implements CommandRequest.
func (r EditStudentRequest) Command() (Command, error) {
	target, err := models.NewName(r.Target)
	if err != nil {
		return nil, err
	}
	var edit StudentEdit
	if r.Name != nil {
		n, err := models.NewName(*r.Name)
		if err != nil {
			return nil, err
		}
		edit.Name = &n
	}
	if r.Phone != nil {
		p, err := models.NewPhone(*r.Phone)
		if err != nil {
			return nil, err
		}
		edit.Phone = &p
	}
	if r.ParentName != nil {
		n, err := models.NewOptionalName(*r.ParentName)
		if err != nil {
			return nil, err
		}
		edit.ParentName = &n
	}
	if r.ParentPhone != nil {
		p, err := models.NewPhone(*r.ParentPhone)
		if err != nil {
			return nil, err
		}
		edit.ParentPhone = &p
	}
	return EditStudentCommand{Student: target, Edit: edit}, nil
}

// StudentRequest names one student for delete and view.
type StudentRequest struct {
	Name   string `json:"studentName" validate:"required"`
	Delete bool   `json:"-"`
}

// Command implements CommandRequest.
func (r StudentRequest) Command() (Command, error) {
	name, err := models.NewName(r.Name)
	if err != nil {
		return nil, err
	}
	if r.Delete {
		return DeleteStudentCommand{Student: name}, nil
	}
	return ViewStudentCommand{Student: name}, nil
}

// PaymentRequest holds payload for paid / unpaid.
type PaymentRequest struct {
	Name string `json:"studentName" validate:"required"`
	Paid bool   `json:"paid"`
}

// Command implements CommandRequest.
func (r PaymentRequest) Command() (Command, error) {
	name, err := models.NewName(r.Name)
	if err != nil {
		return nil, err
	}
	return PaymentCommand{Student: name, Status: models.PaymentStatus(r.Paid)}, nil
}

// ProgressRequest holds payload for adding progress. An empty Progress with
// Delete set removes the latest entry instead.
type ProgressRequest struct {
	Name     string `json:"studentName" validate:"required"`
	Progress string `json:"progress" validate:"required_without=Delete"`
	Delete   bool   `json:"-"`
}

// Command implements CommandRequest.
func (r ProgressRequest) Command() (Command, error) {
	name, err := models.NewName(r.Name)
	if err != nil {
		return nil, err
	}
	if r.Delete {
		return DeleteProgressCommand{Student: name}, nil
	}
	progress, err := models.NewProgress(r.Progress)
	if err != nil {
		return nil, err
	}
	return AddProgressCommand{Student: name, Progress: progress}, nil
}

// AddLessonRequest holds payload for adding a lesson.
type AddLessonRequest struct {
	Name     string `json:"lessonName" validate:"required"`
	Capacity string `json:"capacity"`
	Price    string `json:"price"`
	Timing   string `json:"timing"`
}

// Command implements CommandRequest.
func (r AddLessonRequest) Command() (Command, error) {
	var fields models.LessonFields
	var err error
	if fields.Name, err = models.NewLessonName(r.Name); err != nil {
		return nil, err
	}
	if fields.Capacity, err = models.NewCapacity(r.Capacity); err != nil {
		return nil, err
	}
	if fields.Price, err = models.NewPrice(r.Price); err != nil {
		return nil, err
	}
	if fields.Timing, err = models.NewTiming(r.Timing); err != nil {
		return nil, err
	}
	lesson, err := models.NewLesson(fields)
	if err != nil {
		return nil, err
	}
	return AddLessonCommand{Lesson: lesson}, nil
}

// EditLessonRequest holds payload for editing a lesson. Absent fields are kept;
// an empty string clears an optional field.
type EditLessonRequest struct {
	Target   string  `json:"-" validate:"required"`
	Name     *string `json:"lessonName"`
	Capacity *string `json:"capacity"`
	Price    *string `json:"price"`
	Timing   *string `json:"timing"`
}

// Command implements CommandRequest.
func (r EditLessonRequest) Command() (Command, error) {
	target, err := models.NewLessonName(r.Target)
	if err != nil {
		return nil, err
	}
	var edit LessonEdit
	if r.Name != nil {
		n, err := models.NewLessonName(*r.Name)
		if err != nil {
			return nil, err
		}
		edit.Name = &n
	}
	if r.Capacity != nil {
		c, err := models.NewCapacity(*r.Capacity)
		if err != nil {
			return nil, err
		}
		edit.Capacity = &c
	}
	if r.Price != nil {
		p, err := models.NewPrice(*r.Price)
		if err != nil {
			return nil, err
		}
		edit.Price = &p
	}
	if r.Timing != nil {
		t, err := models.NewTiming(*r.Timing)
		if err != nil {
			return nil, err
		}
		edit.Timing = &t
	}
	return EditLessonCommand{Lesson: target, Edit: edit}, nil
}

// LessonRequest names one lesson for delete and view.
type LessonRequest struct {
	Name   string `json:"lessonName" validate:"required"`
	Delete bool   `json:"-"`
}

// Command implements CommandRequest.
func (r LessonRequest) Command() (Command, error) {
	name, err := models.NewLessonName(r.Name)
	if err != nil {
		return nil, err
	}
	if r.Delete {
		return DeleteLessonCommand{Lesson: name}, nil
	}
	return ViewLessonCommand{Lesson: name}, nil
}

// EnrollmentRequest holds payload for enroll and unenroll.
type EnrollmentRequest struct {
	Student  string `json:"studentName" validate:"required"`
	Lesson   string `json:"lessonName" validate:"required"`
	Unenroll bool   `json:"-"`
}

// Command implements CommandRequest.
func (r EnrollmentRequest) Command() (Command, error) {
	student, err := models.NewName(r.Student)
	if err != nil {
		return nil, err
	}
	lesson, err := models.NewLessonName(r.Lesson)
	if err != nil {
		return nil, err
	}
	if r.Unenroll {
		return UnenrollCommand{Student: student, Lesson: lesson}, nil
	}
	return EnrollCommand{Student: student, Lesson: lesson}, nil
}

// ListRequest holds payload for list.
type ListRequest struct {
	Scope string `json:"scope" validate:"omitempty,oneof=all students lessons"`
}

// Command implements CommandRequest.
func (r ListRequest) Command() (Command, error) {
	return ListCommand{Scope: ListScope(r.Scope)}, nil
}

// ClearRequest asks for both stores to be emptied.
type ClearRequest struct {
	Confirm bool `json:"confirm"`
}

// Command implements CommandRequest.
func (r ClearRequest) Command() (Command, error) {
	if !r.Confirm {
		return nil, appErrors.Clone(appErrors.ErrValidation, "clear must be confirmed")
	}
	return ClearCommand{}, nil
}
