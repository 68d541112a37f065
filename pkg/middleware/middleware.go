// Package middleware provides the HTTP middleware stack: request IDs, panic
// recovery, request logging, Prometheus metrics, and CORS.
package middleware

import (
	"log/slog"
	"net/http"
)

// Func wraps an http.Handler.
type Func = func(http.Handler) http.Handler

// Stack is an ordered list of middleware. The first entry added is the
// outermost wrapper.
type Stack struct {
	funcs []Func
}

// New creates a Stack holding fns in order.
func New(fns ...Func) *Stack {
	s := &Stack{}
	s.Use(fns...)
	return s
}

// Standard returns the pipeline every bulletin module serves behind:
// request ID, panic recovery, request logging, CORS, then per-route metrics.
// Metrics sits innermost so it observes the pattern the mux matched.
func Standard(logger *slog.Logger, cors *CORSConfig, metrics *HTTPMetrics) *Stack {
	return New(
		RequestID(),
		Recovery(logger),
		Logger(logger),
		CORS(cors),
		Metrics(metrics),
	)
}

// Use appends middleware to the stack. Nil entries are skipped.
func (s *Stack) Use(fns ...Func) {
	for _, fn := range fns {
		if fn != nil {
			s.funcs = append(s.funcs, fn)
		}
	}
}

// Len returns the number of middleware in the stack.
func (s *Stack) Len() int {
	return len(s.funcs)
}

// Apply wraps handler with every middleware in the stack.
func (s *Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.funcs) - 1; i >= 0; i-- {
		handler = s.funcs[i](handler)
	}
	return handler
}
