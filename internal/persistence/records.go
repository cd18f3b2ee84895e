package persistence

import (
	"fmt"

	"github.com/wpinrui/tp/internal/models"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

const missingFieldFormat = "%s's %s field is missing!"

// StudentRecord is the stored form of a Student. Name is a pointer so an
// absent field can be told apart from an empty one.
type StudentRecord struct {
	Name          *string  `json:"studentName"`
	Phone         string   `json:"studentPhone"`
	ParentName    string   `json:"parentName"`
	ParentPhone   string   `json:"parentPhone"`
	ProgressList  []string `json:"progressList"`
	PaymentStatus bool     `json:"paymentStatus"`
	Lessons       []string `json:"lessons"`
}

// LessonRecord is the stored form of a Lesson. Empty strings mean unset.
type LessonRecord struct {
	Name     *string  `json:"lessonName"`
	Capacity string   `json:"capacity"`
	Price    string   `json:"price"`
	Students []string `json:"students"`
	Timing   string   `json:"timing"`
}

// NewStudentRecord encodes a validated student.
func NewStudentRecord(s models.Student) StudentRecord {
	name := string(s.Name())
	progress := make([]string, 0, len(s.ProgressList()))
	for _, p := range s.ProgressList() {
		progress = append(progress, string(p))
	}
	return StudentRecord{
		Name:          &name,
		Phone:         string(s.Phone()),
		ParentName:    string(s.ParentName()),
		ParentPhone:   string(s.ParentPhone()),
		ProgressList:  progress,
		PaymentStatus: bool(s.PaymentStatus()),
		Lessons:       namesOrEmpty(s.Lessons()),
	}
}

// NewLessonRecord encodes a validated lesson.
func NewLessonRecord(l models.Lesson) LessonRecord {
	name := string(l.Name())
	return LessonRecord{
		Name:     &name,
		Capacity: l.Capacity().String(),
		Price:    l.Price().String(),
		Students: namesOrEmpty(l.Students()),
		Timing:   string(l.Timing()),
	}
}

func namesOrEmpty(set models.NameSet) []string {
	if names := set.Names(); names != nil {
		return names
	}
	return []string{}
}

// ToModel decodes the record, validating every field.
func (r StudentRecord) ToModel() (models.Student, error) {
	if r.Name == nil {
		return models.Student{}, missingField("Student", "studentName")
	}
	var fields models.StudentFields
	var err error
	if fields.Name, err = models.NewName(*r.Name); err != nil {
		return models.Student{}, invalidField(err)
	}
	if fields.Phone, err = models.NewPhone(r.Phone); err != nil {
		return models.Student{}, invalidField(err)
	}
	if fields.ParentName, err = models.NewOptionalName(r.ParentName); err != nil {
		return models.Student{}, invalidField(err)
	}
	if fields.ParentPhone, err = models.NewPhone(r.ParentPhone); err != nil {
		return models.Student{}, invalidField(err)
	}
	for _, raw := range r.ProgressList {
		p, err := models.NewProgress(raw)
		if err != nil {
			return models.Student{}, invalidField(err)
		}
		fields.Progress = append(fields.Progress, p)
	}
	for _, raw := range r.Lessons {
		if _, err := models.NewLessonName(raw); err != nil {
			return models.Student{}, invalidField(err)
		}
	}
	fields.PaymentStatus = models.PaymentStatus(r.PaymentStatus)
	fields.Lessons = models.NewNameSet(r.Lessons...)

	student, err := models.NewStudent(fields)
	if err != nil {
		return models.Student{}, invalidField(err)
	}
	return student, nil
}

// ToModel decodes the record, validating every field. A student list longer
// than the capacity is an invalid field.
func (r LessonRecord) ToModel() (models.Lesson, error) {
	if r.Name == nil {
		return models.Lesson{}, missingField("Lesson", "lessonName")
	}
	var fields models.LessonFields
	var err error
	if fields.Name, err = models.NewLessonName(*r.Name); err != nil {
		return models.Lesson{}, invalidField(err)
	}
	if fields.Capacity, err = models.NewCapacity(r.Capacity); err != nil {
		return models.Lesson{}, invalidField(err)
	}
	if fields.Price, err = models.NewPrice(r.Price); err != nil {
		return models.Lesson{}, invalidField(err)
	}
	if fields.Timing, err = models.NewTiming(r.Timing); err != nil {
		return models.Lesson{}, invalidField(err)
	}
	for _, raw := range r.Students {
		if _, err := models.NewName(raw); err != nil {
			return models.Lesson{}, invalidField(err)
		}
	}
	fields.Students = models.NewNameSet(r.Students...)

	lesson, err := models.NewLesson(fields)
	if err != nil {
		return models.Lesson{}, invalidField(err)
	}
	return lesson, nil
}

// EncodeStudents converts a collection into records, keeping order.
func EncodeStudents(students []models.Student) []StudentRecord {
	out := make([]StudentRecord, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentRecord(s))
	}
	return out
}

// EncodeLessons converts a collection into records, keeping order.
func EncodeLessons(lessons []models.Lesson) []LessonRecord {
	out := make([]LessonRecord, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, NewLessonRecord(l))
	}
	return out
}

// DecodeStudents decodes every record or none. The first bad record aborts.
func DecodeStudents(records []StudentRecord) ([]models.Student, error) {
	out := make([]models.Student, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		s, err := rec.ToModel()
		if err != nil {
			return nil, fmt.Errorf("student record %d: %w", i+1, err)
		}
		if _, dup := seen[s.Identity()]; dup {
			return nil, appErrors.Clonef(appErrors.ErrDuplicateEntity, "student %s is stored more than once", s.Name())
		}
		seen[s.Identity()] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}

// DecodeLessons decodes every record or none. The first bad record aborts.
func DecodeLessons(records []LessonRecord) ([]models.Lesson, error) {
	out := make([]models.Lesson, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		l, err := rec.ToModel()
		if err != nil {
			return nil, fmt.Errorf("lesson record %d: %w", i+1, err)
		}
		if _, dup := seen[l.Identity()]; dup {
			return nil, appErrors.Clonef(appErrors.ErrDuplicateEntity, "lesson %s is stored more than once", l.Name())
		}
		seen[l.Identity()] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}

func missingField(entity, field string) error {
	return appErrors.Clonef(appErrors.ErrMissingField, missingFieldFormat, entity, field)
}

// invalidField keeps the value type's constraint message.
func invalidField(err error) error {
	return appErrors.Clone(appErrors.ErrInvalidField, appErrors.FromError(err).Message)
}
