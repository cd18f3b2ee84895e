package models

import "sort"

// Ordering ranks student and lesson identities by their position in the
// stores. Enrollment sets are rendered through it so they follow store order.
type Ordering struct {
	students map[string]int
	lessons  map[string]int
}

// NewOrdering records the positions of students and lessons.
func NewOrdering(students []Student, lessons []Lesson) Ordering {
	o := Ordering{
		students: make(map[string]int, len(students)),
		lessons:  make(map[string]int, len(lessons)),
	}
	for i, s := range students {
		o.students[s.Identity()] = i
	}
	for i, l := range lessons {
		o.lessons[l.Identity()] = i
	}
	return o
}

// LessonsOf returns the student's lesson names in lesson store order.
func (o Ordering) LessonsOf(s Student) []string {
	return rank(s.Lessons(), o.lessons)
}

// StudentsOf returns the lesson's student names in student store order.
func (o Ordering) StudentsOf(l Lesson) []string {
	return rank(l.Students(), o.students)
}

// rank orders the members of set by position. Members without a position
// come last, sorted by name. The result is never nil.
func rank(set NameSet, position map[string]int) []string {
	names := set.Names()
	if names == nil {
		return []string{}
	}
	sort.SliceStable(names, func(i, j int) bool {
		pi, iok := position[names[i]]
		pj, jok := position[names[j]]
		if iok && jok {
			return pi < pj
		}
		return iok && !jok
	})
	return names
}
