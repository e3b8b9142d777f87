package pipeline

import (
	"github.com/kbukum/dataprep/action"
)

// CleanUpNode releases every action context of the execution when the stream
// terminates, then forwards the signal.
type CleanUpNode struct {
	BasicNode
	tc *action.TransformationContext
}

// NewCleanUpNode creates a cleanup node for tc.
func NewCleanUpNode(tc *action.TransformationContext) *CleanUpNode {
	return &CleanUpNode{tc: tc}
}

// TransformationContext returns the released context.
func (n *CleanUpNode) TransformationContext() *action.TransformationContext { return n.tc }

// Signal implements Node. Releasing is idempotent, so repeated terminal
// signals never release a resource twice.
func (n *CleanUpNode) Signal(sig Signal) error {
	if sig.terminates() {
		n.tc.CleanUp()
	}
	return n.Link().Signal(sig)
}

var _ Node = (*CleanUpNode)(nil)
