package sema

// scope tracks local variables and their pinned types within one body.
// An empty type means the variable exists but its type is unknown.
type scope struct {
	types map[string]string
	order []string
}

func newScope() *scope {
	return &scope{types: make(map[string]string)}
}

func (s *scope) set(name, typ string) {
	if _, ok := s.types[name]; !ok {
		s.order = append(s.order, name)
		s.types[name] = typ
		return
	}
	// The first known type pins the variable; the frozen-type check rejects
	// conflicting re-assignments before this point.
	if s.types[name] == "" {
		s.types[name] = typ
	}
}

func (s *scope) lookup(name string) (string, bool) {
	typ, ok := s.types[name]
	return typ, ok
}

func (s *scope) names() []string {
	return s.order
}
