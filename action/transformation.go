package action

import (
	"sync"

	"github.com/kbukum/dataprep/logger"
)

// TransformationContext owns every action context created for one pipeline
// execution.
type TransformationContext struct {
	mu       sync.Mutex
	contexts []*Context
	cleaned  bool
	log      *logger.Logger
}

// NewTransformationContext creates an empty transformation context.
func NewTransformationContext() *TransformationContext {
	return &TransformationContext{log: logger.Get("action")}
}

// Create creates and registers a context for a.
func (tc *TransformationContext) Create(a Action, parameters map[string]string) *Context {
	ac := NewContext(parameters)
	tc.mu.Lock()
	tc.contexts = append(tc.contexts, ac)
	tc.mu.Unlock()
	if a != nil {
		tc.log.Debug("action context created", logger.Fields(logger.FieldAction, a.Name()))
	}
	return ac
}

// Contexts returns the registered contexts in creation order.
func (tc *TransformationContext) Contexts() []*Context {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	out := make([]*Context, len(tc.contexts))
	copy(out, tc.contexts)
	return out
}

// CleanUp releases every context once. Release failures are logged.
func (tc *TransformationContext) CleanUp() {
	tc.mu.Lock()
	if tc.cleaned {
		tc.mu.Unlock()
		return
	}
	tc.cleaned = true
	contexts := tc.contexts
	tc.mu.Unlock()

	for _, ac := range contexts {
		if err := ac.Release(); err != nil {
			tc.log.Warn("unable to release action context", logger.Fields(logger.FieldError, err.Error()))
		}
	}
}

// CleanedUp reports whether CleanUp ran.
func (tc *TransformationContext) CleanedUp() bool {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.cleaned
}
