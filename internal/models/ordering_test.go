package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderingFollowsStoreOrder(t *testing.T) {
	zoology, err := NewLesson(LessonFields{Name: "Zoology", Students: NewNameSet("Ben", "Amy Tan")})
	require.NoError(t, err)
	art, err := NewLesson(LessonFields{Name: "Art", Students: NewNameSet("Amy Tan")})
	require.NoError(t, err)
	ben, err := NewStudent(StudentFields{Name: "Ben", Lessons: NewNameSet("Zoology")})
	require.NoError(t, err)
	amy, err := NewStudent(StudentFields{Name: "Amy Tan", Lessons: NewNameSet("Art", "Zoology")})
	require.NoError(t, err)

	order := NewOrdering([]Student{ben, amy}, []Lesson{zoology, art})

	assert.Equal(t, []string{"Zoology", "Art"}, order.LessonsOf(amy))
	assert.Equal(t, []string{"Ben", "Amy Tan"}, order.StudentsOf(zoology))
}

func TestOrderingUnknownNamesComeLast(t *testing.T) {
	amy, err := NewStudent(StudentFields{Name: "Amy", Lessons: NewNameSet("Math", "Chem", "Zoology")})
	require.NoError(t, err)
	zoology, err := NewLesson(LessonFields{Name: "Zoology"})
	require.NoError(t, err)

	order := NewOrdering(nil, []Lesson{zoology})
	assert.Equal(t, []string{"Zoology", "Chem", "Math"}, order.LessonsOf(amy))

	var empty Ordering
	assert.Equal(t, []string{"Chem", "Math", "Zoology"}, empty.LessonsOf(amy))

	loner, err := NewStudent(StudentFields{Name: "Cal"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, order.LessonsOf(loner))
}
