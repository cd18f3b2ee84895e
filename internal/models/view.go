package models

// Predicate selects the entities a filtered view shows.
type Predicate[T any] func(T) bool

// ShowAll is the always-true predicate.
func ShowAll[T any](T) bool { return true }

// ViewChangeKind names what changed in the model.
type ViewChangeKind string

const (
	ViewChangeStudents ViewChangeKind = "students"
	ViewChangeLessons  ViewChangeKind = "lessons"
	ViewChangeFilters  ViewChangeKind = "filters"
	ViewChangeReset    ViewChangeKind = "reset"
)

// ViewChange is pushed to subscribers after the model reaches a consistent state.
type ViewChange struct {
	Kind   ViewChangeKind `json:"kind"`
	Reason string         `json:"reason"`
}
