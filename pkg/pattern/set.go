package pattern

// Set is an ordered list of compiled patterns.
type Set struct {
	patterns []Pattern
	fallback []string
}

// NewIgnoreSet compiles ignore patterns for case-sensitive basename matching.
func NewIgnoreSet(sources []string) *Set {
	s := &Set{patterns: make([]Pattern, 0, len(sources))}
	for _, source := range sources {
		p, literal := Compile(source)
		if literal {
			s.fallback = append(s.fallback, source)
		}
		s.patterns = append(s.patterns, p)
	}
	return s
}

// Match returns the first pattern matching name.
func (s *Set) Match(name string) (Pattern, bool) {
	for _, p := range s.patterns {
		if p.Match(name) {
			return p, true
		}
	}
	return Pattern{}, false
}

// Fallbacks lists the patterns that were compiled as literals.
func (s *Set) Fallbacks() []string {
	return s.fallback
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	return len(s.patterns)
}
