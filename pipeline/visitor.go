package pipeline

import (
	"fmt"
	"strings"
)

// Visitor receives one call per node and link kind during a Walk.
type Visitor interface {
	VisitPipeline(p *Pipeline)
	VisitSource(n *SourceNode)
	VisitFilteredSource(n *FilteredSourceNode)
	VisitBasic(n *BasicNode)
	VisitAction(n *ActionNode)
	VisitCompile(n *CompileNode)
	VisitCleanUp(n *CleanUpNode)
	VisitDelayedAnalysis(n *DelayedAnalysisNode)
	VisitWriter(n *WriterNode)
	// VisitNode receives every other node: terminal, null, collectors and
	// nodes defined outside this package.
	VisitNode(n Node)
	VisitBasicLink(l *BasicLink)
	VisitCloneLink(l *CloneLink)
	VisitNullLink(l Link)
}

// BaseVisitor implements Visitor with no-op hooks. Embed it and override the
// hooks you need.
type BaseVisitor struct{}

func (BaseVisitor) VisitPipeline(*Pipeline)                   {}
func (BaseVisitor) VisitSource(*SourceNode)                   {}
func (BaseVisitor) VisitFilteredSource(*FilteredSourceNode)   {}
func (BaseVisitor) VisitBasic(*BasicNode)                     {}
func (BaseVisitor) VisitAction(*ActionNode)                   {}
func (BaseVisitor) VisitCompile(*CompileNode)                 {}
func (BaseVisitor) VisitCleanUp(*CleanUpNode)                 {}
func (BaseVisitor) VisitDelayedAnalysis(*DelayedAnalysisNode) {}
func (BaseVisitor) VisitWriter(*WriterNode)                   {}
func (BaseVisitor) VisitNode(Node)                            {}
func (BaseVisitor) VisitBasicLink(*BasicLink)                 {}
func (BaseVisitor) VisitCloneLink(*CloneLink)                 {}
func (BaseVisitor) VisitNullLink(Link)                        {}

// Walk traverses the graph from root in pre-order: a node, then its link,
// then the link targets in order. Each node and link is visited once.
func Walk(v Visitor, root Node) {
	w := walker{v: v, seen: make(map[any]bool)}
	w.node(root)
}

type walker struct {
	v    Visitor
	seen map[any]bool
}

func (w *walker) node(n Node) {
	if n == nil || w.seen[n] {
		return
	}
	w.seen[n] = true

	switch t := n.(type) {
	case *SourceNode:
		w.v.VisitSource(t)
	case *FilteredSourceNode:
		w.v.VisitFilteredSource(t)
	case *BasicNode:
		w.v.VisitBasic(t)
	case *ActionNode:
		w.v.VisitAction(t)
	case *CompileNode:
		w.v.VisitCompile(t)
	case *CleanUpNode:
		w.v.VisitCleanUp(t)
	case *DelayedAnalysisNode:
		w.v.VisitDelayedAnalysis(t)
	case *WriterNode:
		w.v.VisitWriter(t)
	default:
		w.v.VisitNode(t)
	}
	w.link(n.Link())
}

func (w *walker) link(l Link) {
	if l == nil || w.seen[l] {
		return
	}
	w.seen[l] = true

	switch t := l.(type) {
	case *BasicLink:
		w.v.VisitBasicLink(t)
		w.node(t.target)
	case *CloneLink:
		w.v.VisitCloneLink(t)
		for _, target := range t.targets {
			w.node(target)
		}
	default:
		w.v.VisitNullLink(t)
	}
}

// describer renders a graph as a one-line chain.
type describer struct {
	BaseVisitor
	parts []string
}

func (d *describer) add(s string) { d.parts = append(d.parts, s) }

func (d *describer) VisitSource(*SourceNode)                 { d.add("Source") }
func (d *describer) VisitFilteredSource(*FilteredSourceNode) { d.add("FilteredSource") }
func (d *describer) VisitBasic(*BasicNode)                   { d.add("Basic") }
func (d *describer) VisitAction(n *ActionNode)               { d.add("Action(" + n.action.Name() + ")") }
func (d *describer) VisitCompile(n *CompileNode)             { d.add("Compile(" + n.action.Name() + ")") }
func (d *describer) VisitCleanUp(*CleanUpNode)               { d.add("CleanUp") }
func (d *describer) VisitDelayedAnalysis(*DelayedAnalysisNode) {
	d.add("DelayedAnalysis")
}
func (d *describer) VisitWriter(n *WriterNode)   { d.add("Writer(" + n.stepID + ")") }
func (d *describer) VisitNode(n Node)            { d.add(strings.TrimPrefix(fmt.Sprintf("%T", n), "*pipeline.")) }
func (d *describer) VisitBasicLink(*BasicLink)   { d.add("->") }
func (d *describer) VisitCloneLink(l *CloneLink) { d.add(fmt.Sprintf("=>[%d]", len(l.targets))) }

// Describe returns a one-line rendering of the graph rooted at root.
func Describe(root Node) string {
	d := &describer{}
	Walk(d, root)
	return strings.Join(d.parts, " ")
}
