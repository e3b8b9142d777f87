package pipeline

import (
	"errors"

	"github.com/kbukum/dataprep/dataset"
)

// Link delivers rows and signals to one or more downstream nodes.
type Link interface {
	Emit(row *dataset.Row, md *dataset.RowMetadata) error
	Signal(sig Signal) error
}

// BasicLink delivers the pair unchanged to one node.
type BasicLink struct {
	target Node
}

// NewBasicLink creates a link to target.
func NewBasicLink(target Node) *BasicLink {
	return &BasicLink{target: target}
}

// Target returns the downstream node.
func (l *BasicLink) Target() Node { return l.target }

// Emit implements Link.
func (l *BasicLink) Emit(row *dataset.Row, md *dataset.RowMetadata) error {
	return l.target.Receive(row, md)
}

// Signal implements Link.
func (l *BasicLink) Signal(sig Signal) error {
	return l.target.Signal(sig)
}

// CloneLink delivers an independent copy of every row and metadata to each
// target, always in target order.
type CloneLink struct {
	targets []Node
}

// NewCloneLink creates a cloning link to targets.
func NewCloneLink(targets ...Node) *CloneLink {
	return &CloneLink{targets: targets}
}

// Targets returns the downstream nodes in delivery order.
func (l *CloneLink) Targets() []Node {
	out := make([]Node, len(l.targets))
	copy(out, l.targets)
	return out
}

// Emit implements Link. Delivery stops at the first failing target.
func (l *CloneLink) Emit(row *dataset.Row, md *dataset.RowMetadata) error {
	for _, t := range l.targets {
		if err := t.Receive(row.Clone(), md.Clone()); err != nil {
			return err
		}
	}
	return nil
}

// Signal implements Link. Every target receives the signal; errors are
// joined.
func (l *CloneLink) Signal(sig Signal) error {
	var errs []error
	for _, t := range l.targets {
		if err := t.Signal(sig); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type nullLink struct{}

func (nullLink) Emit(*dataset.Row, *dataset.RowMetadata) error { return nil }
func (nullLink) Signal(Signal) error                           { return nil }

// NullLink swallows rows and signals. It is the outbound link of every node
// that was never wired.
var NullLink Link = nullLink{}

var (
	_ Link = (*BasicLink)(nil)
	_ Link = (*CloneLink)(nil)
)
