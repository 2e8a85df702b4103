package featmat

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// A Set maps variant names to feature matrices.
// Names are unique and iteration follows insertion
// order.
type Set struct {
	names    []string
	matrices map[string]*mat.Dense
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{matrices: map[string]*mat.Dense{}}
}

// Add inserts a matrix under a new name.
func (s *Set) Add(name string, m *mat.Dense) error {
	if _, ok := s.matrices[name]; ok {
		return fmt.Errorf("duplicate feature set name: %s", name)
	}
	s.names = append(s.names, name)
	s.matrices[name] = m
	return nil
}

// Get returns the matrix stored under name. ok is false
// if there is none, including after Take moved it out.
func (s *Set) Get(name string) (*mat.Dense, bool) {
	m, ok := s.matrices[name]
	return m, ok
}

// Names returns a copy of the names in insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.names)
}

// Take moves the named entries out of s and into a new
// Set, in the order given. After Take returns, s no
// longer contains any of them. Nothing is moved if one of
// the names is missing.
func (s *Set) Take(names ...string) (*Set, error) {
	for _, name := range names {
		if _, ok := s.matrices[name]; !ok {
			return nil, fmt.Errorf("take: no feature set named %s", name)
		}
	}
	res := NewSet()
	for _, name := range names {
		if err := res.Add(name, s.matrices[name]); err != nil {
			return nil, err
		}
		s.remove(name)
	}
	return res, nil
}

// Each calls f for every entry in insertion order.
func (s *Set) Each(f func(name string, m *mat.Dense)) {
	for _, name := range s.names {
		f(name, s.matrices[name])
	}
}

func (s *Set) remove(name string) {
	delete(s.matrices, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			return
		}
	}
}
