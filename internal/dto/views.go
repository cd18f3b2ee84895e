package dto

import (
	"time"

	"github.com/wpinrui/tp/internal/models"
)

// StudentResponse is the public shape of a student.
type StudentResponse struct {
	Name            string   `json:"studentName"`
	Phone           string   `json:"studentPhone,omitempty"`
	ParentName      string   `json:"parentName,omitempty"`
	ParentPhone     string   `json:"parentPhone,omitempty"`
	Paid            bool     `json:"paid"`
	PaymentStatus   string   `json:"paymentStatus"`
	CurrentProgress string   `json:"currentProgress"`
	Progress        []string `json:"progress"`
	Lessons         []string `json:"lessons"`
}

// LessonResponse is the public shape of a lesson.
type LessonResponse struct {
	Name         string   `json:"lessonName"`
	Capacity     string   `json:"capacity,omitempty"`
	Price        string   `json:"price,omitempty"`
	PriceDisplay string   `json:"priceDisplay,omitempty"`
	Timing       string   `json:"timing,omitempty"`
	Students     []string `json:"students"`
	Enrolled     int      `json:"enrolled"`
	Vacancy      *int     `json:"vacancy,omitempty"`
	Full         bool     `json:"full"`
}

// ViewsResponse carries both filtered views.
type ViewsResponse struct {
	Students []StudentResponse `json:"students"`
	Lessons  []LessonResponse  `json:"lessons"`
}

// CommandResponse is returned by every mutating or view-changing endpoint.
type CommandResponse struct {
	Feedback string `json:"feedback"`
	ViewsResponse
}

// ViewEventResponse is one server-sent view update.
type ViewEventResponse struct {
	Kind       models.ViewChangeKind `json:"kind"`
	Reason     string                `json:"reason"`
	OccurredAt time.Time             `json:"occurredAt"`
	ViewsResponse
}

// NewStudentResponse maps a student, listing its lessons by order.
func NewStudentResponse(s models.Student, order models.Ordering) StudentResponse {
	progress := s.ProgressList()
	entries := make([]string, 0, len(progress))
	for _, p := range progress {
		entries = append(entries, p.String())
	}
	return StudentResponse{
		Name:            s.Name().String(),
		Phone:           s.Phone().String(),
		ParentName:      s.ParentName().String(),
		ParentPhone:     s.ParentPhone().String(),
		Paid:            bool(s.PaymentStatus()),
		PaymentStatus:   s.PaymentStatus().String(),
		CurrentProgress: s.CurrentProgress().String(),
		Progress:        entries,
		Lessons:         order.LessonsOf(s),
	}
}

// NewLessonResponse maps a lesson, listing its students by order.
func NewLessonResponse(l models.Lesson, order models.Ordering) LessonResponse {
	resp := LessonResponse{
		Name:         l.Name().String(),
		Capacity:     l.Capacity().String(),
		Price:        l.Price().String(),
		PriceDisplay: l.Price().Display(),
		Timing:       l.Timing().String(),
		Students:     order.StudentsOf(l),
		Enrolled:     l.Students().Len(),
		Full:         l.IsFull(),
	}
	if v, ok := l.Vacancy(); ok {
		resp.Vacancy = &v
	}
	return resp
}

// NewViewsResponse maps both views, keeping their order.
func NewViewsResponse(students []models.Student, lessons []models.Lesson, order models.Ordering) ViewsResponse {
	out := ViewsResponse{
		Students: make([]StudentResponse, 0, len(students)),
		Lessons:  make([]LessonResponse, 0, len(lessons)),
	}
	for _, s := range students {
		out.Students = append(out.Students, NewStudentResponse(s, order))
	}
	for _, l := range lessons {
		out.Lessons = append(out.Lessons, NewLessonResponse(l, order))
	}
	return out
}
