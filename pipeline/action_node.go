package pipeline

import (
	"fmt"

	"github.com/kbukum/dataprep/action"
	"github.com/kbukum/dataprep/dataset"
	"github.com/kbukum/dataprep/logger"
)

// ActionNode applies one action to every row.
type ActionNode struct {
	BasicNode
	action action.Action
	ac     *action.Context
	log    *logger.Logger
}

// NewActionNode creates a node applying a with context ac.
func NewActionNode(a action.Action, ac *action.Context) *ActionNode {
	return &ActionNode{action: a, ac: ac, log: logger.Get("pipeline")}
}

// Action returns the applied action.
func (n *ActionNode) Action() action.Action { return n.action }

// Context returns the action context.
func (n *ActionNode) Context() *action.Context { return n.ac }

// Receive implements Node. A canceled context forwards the row untouched
// without invoking the action.
func (n *ActionNode) Receive(row *dataset.Row, md *dataset.RowMetadata) error {
	if n.ac.IsCanceled() {
		return n.Link().Emit(row, md)
	}
	n.ac.SetRowMetadata(md)
	out := n.apply(row)
	if n.ac.Status() == action.NotExecuted {
		n.ac.SetStatus(action.OK)
	}
	return n.Link().Emit(out, md)
}

// apply runs the action. A panicking action is logged and the row goes on
// as it is.
func (n *ActionNode) apply(row *dataset.Row) (out *dataset.Row) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("action failed on row", logger.Fields(
				logger.FieldAction, n.action.Name(),
				"tdp_id", row.TdpID(),
				logger.FieldError, fmt.Sprint(r),
			))
			out = row
		}
	}()
	if res := n.action.Apply(row, n.ac); res != nil {
		return res
	}
	return row
}

// CompileNode runs the compile step of an action before rows reach the
// matching ActionNode. It compiles before the first row and again whenever
// the metadata version differs both from the one it last compiled against
// and from the one compiling produced.
type CompileNode struct {
	BasicNode
	action   action.Action
	ac       *action.Context
	compiled bool
	incoming uint64
	version  uint64
	compiles int
	log      *logger.Logger
}

// NewCompileNode creates a compile node for a with context ac.
func NewCompileNode(a action.Action, ac *action.Context) *CompileNode {
	return &CompileNode{action: a, ac: ac, log: logger.Get("pipeline")}
}

// Action returns the compiled action.
func (n *CompileNode) Action() action.Action { return n.action }

// Context returns the action context.
func (n *CompileNode) Context() *action.Context { return n.ac }

// Compiles returns how many times the action was compiled.
func (n *CompileNode) Compiles() int { return n.compiles }

// Receive implements Node.
func (n *CompileNode) Receive(row *dataset.Row, md *dataset.RowMetadata) error {
	if !n.ac.IsCanceled() && n.stale(md.Version()) {
		n.ac.SetRowMetadata(md)
		n.incoming = md.Version()
		n.compile()
		n.compiled = true
		// compile may have changed md itself
		n.version = md.Version()
	}
	return n.Link().Emit(row, md)
}

// stale reports whether metadata at version v needs a new compile. Rows
// behind a CloneLink keep arriving with the version seen before compiling.
func (n *CompileNode) stale(v uint64) bool {
	return !n.compiled || (v != n.incoming && v != n.version)
}

// compile cancels the context when the compile step panics.
func (n *CompileNode) compile() {
	defer func() {
		if r := recover(); r != nil {
			n.log.Error("unable to compile action, action is canceled", logger.Fields(
				logger.FieldAction, n.action.Name(),
				logger.FieldError, fmt.Sprint(r),
			))
			n.ac.Cancel()
		}
	}()
	n.compiles++
	action.Compile(n.action, n.ac)
	n.log.Debug("action compiled", logger.Fields(
		logger.FieldAction, n.action.Name(),
		"status", n.ac.Status().String(),
	))
}

var (
	_ Node = (*ActionNode)(nil)
	_ Node = (*CompileNode)(nil)
)
