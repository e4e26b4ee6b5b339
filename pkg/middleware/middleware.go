package middleware

import "net/http"

// Func wraps a handler with cross-cutting behavior.
type Func = func(http.Handler) http.Handler

// System composes middleware in registration order: the first Use becomes
// the outermost layer, so CORS registered before Logger answers preflight
// requests without logging them as API traffic.
type System interface {
	Use(mw ...Func)
	Apply(handler http.Handler) http.Handler
	Len() int
}

type stack struct {
	layers []Func
}

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

// Use appends layers. Nil entries are skipped so optional guards can be
// passed through unconditionally.
func (s *stack) Use(mw ...Func) {
	for _, fn := range mw {
		if fn != nil {
			s.layers = append(s.layers, fn)
		}
	}
}

func (s *stack) Len() int {
	return len(s.layers)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.layers) - 1; i >= 0; i-- {
		handler = s.layers[i](handler)
	}
	return handler
}
