package pipeline

import (
	"github.com/kbukum/dataprep/dataset"
	apperrors "github.com/kbukum/dataprep/errors"
)

// Node is a vertex of the graph.
type Node interface {
	// Receive processes one row and its metadata.
	Receive(row *dataset.Row, md *dataset.RowMetadata) error
	// Signal processes a lifecycle signal.
	Signal(sig Signal) error
	// Link returns the outbound link, NullLink when unwired.
	Link() Link
	// SetLink wires the outbound link. Non-terminal nodes accept exactly
	// one link; terminal nodes reject every attempt.
	SetLink(l Link) error
}

// BasicNode forwards rows and signals unchanged. Other nodes embed it for
// its link handling.
type BasicNode struct {
	link Link
}

// Receive implements Node.
func (n *BasicNode) Receive(row *dataset.Row, md *dataset.RowMetadata) error {
	return n.Link().Emit(row, md)
}

// Signal implements Node.
func (n *BasicNode) Signal(sig Signal) error {
	return n.Link().Signal(sig)
}

// Link implements Node.
func (n *BasicNode) Link() Link {
	if n.link == nil {
		return NullLink
	}
	return n.link
}

// SetLink implements Node.
func (n *BasicNode) SetLink(l Link) error {
	if n.link != nil {
		return apperrors.Topology("node is already linked")
	}
	if l == nil {
		return apperrors.Topology("cannot link a node to nil")
	}
	n.link = l
	return nil
}

// SourceNode is the entry point of a pipeline.
type SourceNode struct {
	BasicNode
}

// NewSourceNode creates a source node.
func NewSourceNode() *SourceNode { return &SourceNode{} }

// Predicate selects rows.
type Predicate func(row *dataset.Row) bool

// FilteredSourceNode forwards only the rows matching its predicate.
type FilteredSourceNode struct {
	BasicNode
	filter Predicate
}

// NewFilteredSourceNode creates a filtering source.
func NewFilteredSourceNode(filter Predicate) *FilteredSourceNode {
	return &FilteredSourceNode{filter: filter}
}

// Receive implements Node.
func (n *FilteredSourceNode) Receive(row *dataset.Row, md *dataset.RowMetadata) error {
	if n.filter != nil && !n.filter(row) {
		return nil
	}
	return n.Link().Emit(row, md)
}

// TerminalNode ends a branch. It forwards nothing and cannot be linked.
// Sinks embed it.
type TerminalNode struct{}

// Receive implements Node.
func (TerminalNode) Receive(*dataset.Row, *dataset.RowMetadata) error { return nil }

// Signal implements Node.
func (TerminalNode) Signal(Signal) error { return nil }

// Link implements Node.
func (TerminalNode) Link() Link { return NullLink }

// SetLink implements Node.
func (TerminalNode) SetLink(Link) error {
	return apperrors.Topology("a terminal node cannot be linked")
}

// NullNode discards everything.
type NullNode struct {
	TerminalNode
}

// NewNullNode creates a discarding sink.
func NewNullNode() *NullNode { return &NullNode{} }

var (
	_ Node = (*BasicNode)(nil)
	_ Node = (*SourceNode)(nil)
	_ Node = (*FilteredSourceNode)(nil)
	_ Node = (*NullNode)(nil)
)
