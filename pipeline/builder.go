package pipeline

import (
	"fmt"

	apperrors "github.com/kbukum/dataprep/errors"
)

// Builder composes nodes from left to right. The first error is kept and
// returned by Build; later calls are no-ops.
type Builder struct {
	root    Node
	current []Node
	err     error
}

// NewBuilder starts a graph at root.
func NewBuilder(root Node) *Builder {
	return &Builder{root: root, current: []Node{root}}
}

// Source starts a graph at a new SourceNode.
func Source() *Builder { return NewBuilder(NewSourceNode()) }

// FilteredSource starts a graph at a new FilteredSourceNode.
func FilteredSource(filter Predicate) *Builder {
	return NewBuilder(NewFilteredSourceNode(filter))
}

// To attaches n after the current node.
func (b *Builder) To(n Node) *Builder {
	return b.attach([]Node{n}, NewBasicLink(n))
}

// ToMany attaches several children to the current node. More than one child
// gets a CloneLink; the builder then cannot continue, since the branches
// must be built separately.
func (b *Builder) ToMany(nodes ...Node) *Builder {
	switch len(nodes) {
	case 0:
		return b.fail(apperrors.Topology("no child node to attach"))
	case 1:
		return b.To(nodes[0])
	default:
		return b.attach(nodes, NewCloneLink(nodes...))
	}
}

// Sink terminates the graph with a NullNode.
func (b *Builder) Sink() *Builder {
	return b.To(NewNullNode())
}

// Build returns the root node.
func (b *Builder) Build() (Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.root, nil
}

func (b *Builder) attach(children []Node, l Link) *Builder {
	if b.err != nil {
		return b
	}
	for _, c := range children {
		if c == nil {
			return b.fail(apperrors.Topology("cannot attach a nil node"))
		}
	}
	if len(b.current) != 1 {
		return b.fail(apperrors.Topology(fmt.Sprintf("cannot continue after a fan-out of %d branches", len(b.current))))
	}
	if err := b.current[0].SetLink(l); err != nil {
		return b.fail(err)
	}
	b.current = children
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}
