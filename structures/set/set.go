package set

// Set formalizes set semantics for a map of comparable keys.
// A nil Set may be read from, and the mutating methods return the (possibly newly allocated) Set.
type Set[T comparable] map[T]struct{}

// New creates a new [Set] from the given values.
// The returned [Set] will have no values if none are given.
func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Slice returns the values of the [Set] in no particular order, or nil if it's empty.
func (s Set[T]) Slice() []T {
	if len(s) == 0 {
		return nil
	}
	vals := make([]T, 0, len(s))
	for val := range s {
		vals = append(vals, val)
	}
	return vals
}

func (s Set[T]) Add(val T, others ...T) Set[T] {
	if s == nil {
		s = Set[T]{}
	}
	s[val] = struct{}{}
	for _, v := range others {
		s[v] = struct{}{}
	}
	return s
}

func (s Set[T]) Remove(val T, others ...T) Set[T] {
	if s == nil {
		s = Set[T]{}
	}
	delete(s, val)
	for _, v := range others {
		delete(s, v)
	}
	return s
}

func (s Set[T]) Has(val T) bool {
	_, ok := s[val]
	return ok
}

func (s Set[T]) Copy() Set[T] {
	return New[T](s.Slice()...)
}
