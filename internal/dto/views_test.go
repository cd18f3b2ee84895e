package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpinrui/tp/internal/models"
)

func TestNewLessonResponse(t *testing.T) {
	capacity, err := models.NewCapacity("2")
	require.NoError(t, err)
	price, err := models.NewPrice("1234.50")
	require.NoError(t, err)
	lesson, err := models.NewLesson(models.LessonFields{Name: "Math", Capacity: capacity, Price: price, Students: models.NewNameSet("Amy")})
	require.NoError(t, err)

	resp := NewLessonResponse(lesson, models.NewOrdering(nil, []models.Lesson{lesson}))
	assert.Equal(t, "$1,234.5", resp.PriceDisplay)
	assert.Equal(t, "1234.50", resp.Price)
	require.NotNil(t, resp.Vacancy)
	assert.Equal(t, 1, *resp.Vacancy)
	assert.False(t, resp.Full)

	open, err := models.NewLesson(models.LessonFields{Name: "Art"})
	require.NoError(t, err)
	raw, err := json.Marshal(NewLessonResponse(open, models.Ordering{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"lessonName":"Art","students":[],"enrolled":0,"full":false}`, string(raw))
}

func TestNewStudentResponse(t *testing.T) {
	student, err := models.NewStudent(models.StudentFields{
		Name:     "Amy",
		Progress: []models.Progress{"Algebra done", "Started"},
	})
	require.NoError(t, err)

	resp := NewStudentResponse(student, models.Ordering{})
	assert.Equal(t, "Algebra done", resp.CurrentProgress)
	assert.Equal(t, []string{"Algebra done", "Started"}, resp.Progress)
	assert.Equal(t, "Not Paid", resp.PaymentStatus)
	assert.Equal(t, []string{}, resp.Lessons)
}

func TestNewViewsResponseListsEnrollmentInStoreOrder(t *testing.T) {
	amy, err := models.NewStudent(models.StudentFields{Name: "Amy Tan", Lessons: models.NewNameSet("Zoology", "Art")})
	require.NoError(t, err)
	ben, err := models.NewStudent(models.StudentFields{Name: "Ben", Lessons: models.NewNameSet("Zoology")})
	require.NoError(t, err)
	zoology, err := models.NewLesson(models.LessonFields{Name: "Zoology", Students: models.NewNameSet("Amy Tan", "Ben")})
	require.NoError(t, err)
	art, err := models.NewLesson(models.LessonFields{Name: "Art", Students: models.NewNameSet("Amy Tan")})
	require.NoError(t, err)

	students := []models.Student{ben, amy}
	lessons := []models.Lesson{zoology, art}
	resp := NewViewsResponse(students, lessons, models.NewOrdering(students, lessons))

	require.Len(t, resp.Students, 2)
	assert.Equal(t, []string{"Zoology", "Art"}, resp.Students[1].Lessons)
	assert.Equal(t, []string{"Ben", "Amy Tan"}, resp.Lessons[0].Students)
}
