package action

import (
	stderrors "errors"
	"fmt"
	"io"
	"maps"
	"strconv"

	"github.com/kbukum/dataprep/dataset"
	"github.com/kbukum/dataprep/logger"
)

// Status is the execution status of an action context.
type Status int

const (
	NotExecuted Status = iota
	OK
	Canceled
	Done
)

func (s Status) String() string {
	switch s {
	case NotExecuted:
		return "NOT_EXECUTED"
	case OK:
		return "OK"
	case Canceled:
		return "CANCELED"
	case Done:
		return "DONE"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Releaser is implemented by context resources needing explicit release.
// Resources implementing io.Closer are released through Close.
type Releaser interface {
	Release() error
}

type resource struct {
	key   string
	value any
}

type createdColumn struct {
	id      string
	version uint64
}

// Context is the execution state of one action at one position of a
// pipeline. It is single use: once released, resources are never cached
// again.
type Context struct {
	parameters map[string]string
	status     Status
	resources  []resource
	index      map[string]int
	released   bool
	columns    map[string]createdColumn
	md         *dataset.RowMetadata
	log        *logger.Logger
}

// NewContext creates a context with a copy of the given parameters.
func NewContext(parameters map[string]string) *Context {
	return &Context{
		parameters: maps.Clone(parameters),
		index:      make(map[string]int),
		columns:    make(map[string]createdColumn),
		log:        logger.Get("action"),
	}
}

// Status returns the current status.
func (c *Context) Status() Status { return c.status }

// SetStatus changes the status. A canceled context stays canceled.
func (c *Context) SetStatus(s Status) {
	if c.status == Canceled {
		return
	}
	c.status = s
}

// Cancel marks the action as inapplicable for the rest of this context.
func (c *Context) Cancel() { c.status = Canceled }

// IsCanceled reports whether the context was canceled.
func (c *Context) IsCanceled() bool { return c.status == Canceled }

// Parameters returns a copy of the action parameters.
func (c *Context) Parameters() map[string]string { return maps.Clone(c.parameters) }

// Parameter returns a parameter value, or "" when absent.
func (c *Context) Parameter(key string) string { return c.parameters[key] }

// ColumnID returns the column_id parameter.
func (c *Context) ColumnID() string { return c.parameters[ParamColumnID] }

// Scope returns the scope parameter, defaulting to column.
func (c *Context) Scope() string {
	if s := c.parameters[ParamScope]; s != "" {
		return s
	}
	return ScopeColumn
}

// RowID returns the row_id parameter, false when missing or malformed.
func (c *Context) RowID() (int64, bool) {
	v, err := strconv.ParseInt(c.parameters[ParamRowID], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// RowMetadata returns the metadata accompanying the row being processed.
func (c *Context) RowMetadata() *dataset.RowMetadata { return c.md }

// SetRowMetadata binds the metadata of the row being processed.
func (c *Context) SetRowMetadata(md *dataset.RowMetadata) { c.md = md }

// Has reports whether a resource exists under key.
func (c *Context) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Get returns the resource under key, creating it on first use. After the
// context was released, create is called on every access and its result is
// not kept.
func (c *Context) Get(key string, create func() any) any {
	if c.released {
		c.log.Warn("resource requested after release", logger.Fields(logger.FieldKey, key))
		return create()
	}
	if i, ok := c.index[key]; ok {
		return c.resources[i].value
	}
	v := create()
	c.index[key] = len(c.resources)
	c.resources = append(c.resources, resource{key: key, value: v})
	return v
}

// Resource is the typed form of Context.Get.
func Resource[T any](c *Context, key string, create func() T) T {
	v := c.Get(key, func() any { return create() })
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero
	}
	return t
}

// Column returns the id of the output column declared under name. The
// create function inserts the column into the given metadata and returns
// its id; it runs at most once per metadata version, and not at all when
// the previously created column is still present under the same name.
func (c *Context) Column(name string, create func(md *dataset.RowMetadata) string) string {
	md := c.md
	if md == nil {
		return ""
	}
	prev, ok := c.columns[name]
	if ok && prev.version == md.Version() {
		return prev.id
	}
	if ok {
		if col, found := md.Column(prev.id); found && col.Name == name {
			c.columns[name] = createdColumn{id: prev.id, version: md.Version()}
			return prev.id
		}
	}
	id := create(md)
	c.columns[name] = createdColumn{id: id, version: md.Version()}
	return id
}

// Release releases every resource in creation order, exactly once.
// Subsequent calls return nil.
func (c *Context) Release() error {
	if c.released {
		return nil
	}
	c.released = true
	var errs []error
	for _, r := range c.resources {
		var err error
		switch v := r.value.(type) {
		case Releaser:
			err = v.Release()
		case io.Closer:
			err = v.Close()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", r.key, err))
		}
	}
	c.resources = nil
	c.index = make(map[string]int)
	c.SetStatus(Done)
	return stderrors.Join(errs...)
}

// Released reports whether Release ran.
func (c *Context) Released() bool { return c.released }
