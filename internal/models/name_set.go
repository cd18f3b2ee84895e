package models

import "sort"

// NameSet is an immutable set of identity names. Its zero value is empty.
// Members are kept sorted so two equal sets are also deeply equal.
type NameSet struct {
	names []string
}

// NewNameSet builds a set from names, ignoring duplicates.
func NewNameSet(names ...string) NameSet {
	if len(names) == 0 {
		return NameSet{}
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	unique := sorted[:1]
	for _, n := range sorted[1:] {
		if n != unique[len(unique)-1] {
			unique = append(unique, n)
		}
	}
	return NameSet{names: unique}
}

// Contains reports whether name is a member.
func (s NameSet) Contains(name string) bool {
	i := sort.SearchStrings(s.names, name)
	return i < len(s.names) && s.names[i] == name
}

// Len returns the number of members.
func (s NameSet) Len() int { return len(s.names) }

// Names returns the members in sorted order.
func (s NameSet) Names() []string {
	if len(s.names) == 0 {
		return nil
	}
	return append([]string(nil), s.names...)
}

// With returns a set that also contains name.
func (s NameSet) With(name string) NameSet {
	if s.Contains(name) {
		return s
	}
	return NewNameSet(append(s.Names(), name)...)
}

// Without returns a set that does not contain name.
func (s NameSet) Without(name string) NameSet {
	if !s.Contains(name) {
		return s
	}
	kept := make([]string, 0, len(s.names)-1)
	for _, n := range s.names {
		if n != name {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return NameSet{}
	}
	return NameSet{names: kept}
}

// Equal reports whether both sets hold the same members.
func (s NameSet) Equal(other NameSet) bool {
	if len(s.names) != len(other.names) {
		return false
	}
	for i := range s.names {
		if s.names[i] != other.names[i] {
			return false
		}
	}
	return true
}
