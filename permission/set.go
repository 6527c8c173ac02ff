package permission

// Set is an immutable ordered collection of permission names. Duplicates
// keep their first position and empty names are skipped. The zero value is
// an empty set.
type Set struct {
	names []string
	index map[string]struct{}
}

// NewSet builds a [Set] from names in order.
func NewSet(names ...string) Set {
	var s Set
	return s.With(names...)
}

// With returns a new set holding the receiver's names followed by any new
// entries from names. The receiver is unchanged.
func (s Set) With(names ...string) Set {
	out := Set{
		names: make([]string, 0, len(s.names)+len(names)),
		index: make(map[string]struct{}, len(s.names)+len(names)),
	}
	for _, n := range s.names {
		out.add(n)
	}
	for _, n := range names {
		out.add(n)
	}
	return out
}

func (s *Set) add(name string) {
	if name == "" {
		return
	}
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
}

// Has reports whether name is a member.
func (s Set) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s.names)
}

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool {
	return len(s.names) == 0
}

// Names returns a copy of the members in order.
func (s Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Equal reports whether both sets hold the same members, ignoring order.
func (s Set) Equal(other Set) bool {
	if len(s.names) != len(other.names) {
		return false
	}
	for _, n := range s.names {
		if !other.Has(n) {
			return false
		}
	}
	return true
}
