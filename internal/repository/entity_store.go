package repository

import (
	"github.com/wpinrui/tp/internal/models"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

// Entity is a value with a unique identity inside its store.
type Entity interface {
	Identity() string
}

// EntityStore owns one ordered collection of entities keyed by identity.
// Insertion order is display order. Every operation validates before it
// mutates, so a failed call leaves the store untouched.
type EntityStore[T Entity] struct {
	kind  string
	items []T
	index map[string]int
}

// StudentStore holds the student collection.
type StudentStore = EntityStore[models.Student]

// LessonStore holds the lesson collection.
type LessonStore = EntityStore[models.Lesson]

// NewStudentStore constructs an empty StudentStore.
func NewStudentStore() *StudentStore {
	return newEntityStore[models.Student]("student")
}

// NewLessonStore constructs an empty LessonStore.
func NewLessonStore() *LessonStore {
	return newEntityStore[models.Lesson]("lesson")
}

func newEntityStore[T Entity](kind string) *EntityStore[T] {
	return &EntityStore[T]{kind: kind, index: make(map[string]int)}
}

// Add appends entity unless its identity is already present.
func (s *EntityStore[T]) Add(entity T) error {
	id := entity.Identity()
	if _, exists := s.index[id]; exists {
		return appErrors.Clonef(appErrors.ErrDuplicateEntity, "%s %s already exists", s.kind, id)
	}
	s.index[id] = len(s.items)
	s.items = append(s.items, entity)
	return nil
}

// Remove deletes the entity with the same identity and returns the stored value.
func (s *EntityStore[T]) Remove(entity T) (T, error) {
	id := entity.Identity()
	pos, ok := s.index[id]
	if !ok {
		var zero T
		return zero, s.notFound(id)
	}
	removed := s.items[pos]
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].Identity()] = i
	}
	return removed, nil
}

// Replace swaps target for replacement in place.
func (s *EntityStore[T]) Replace(target, replacement T) error {
	oldID := target.Identity()
	pos, ok := s.index[oldID]
	if !ok {
		return s.notFound(oldID)
	}
	newID := replacement.Identity()
	if other, exists := s.index[newID]; exists && other != pos {
		return appErrors.Clonef(appErrors.ErrDuplicateEntity, "%s %s already exists", s.kind, newID)
	}
	s.items[pos] = replacement
	if newID != oldID {
		delete(s.index, oldID)
		s.index[newID] = pos
	}
	return nil
}

// Contains reports whether an entity with the same identity is stored.
func (s *EntityStore[T]) Contains(entity T) bool {
	return s.Has(entity.Identity())
}

// Has reports whether id is stored.
func (s *EntityStore[T]) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns the entity stored under id.
func (s *EntityStore[T]) Get(id string) (T, error) {
	pos, ok := s.index[id]
	if !ok {
		var zero T
		return zero, s.notFound(id)
	}
	return s.items[pos], nil
}

// All returns a copy of the collection in display order.
func (s *EntityStore[T]) All() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of stored entities.
func (s *EntityStore[T]) Len() int {
	return len(s.items)
}

// Reset replaces the whole collection. Duplicate identities are rejected
// before anything is installed.
func (s *EntityStore[T]) Reset(entities []T) error {
	index := make(map[string]int, len(entities))
	for i, e := range entities {
		id := e.Identity()
		if _, exists := index[id]; exists {
			return appErrors.Clonef(appErrors.ErrDuplicateEntity, "%s %s appears more than once", s.kind, id)
		}
		index[id] = i
	}
	s.items = append([]T(nil), entities...)
	s.index = index
	return nil
}

func (s *EntityStore[T]) notFound(id string) error {
	return appErrors.Clonef(appErrors.ErrEntityNotFound, "%s %s not found", s.kind, id)
}
