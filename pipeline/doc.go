// Package pipeline executes transformations as a graph of nodes joined by
// links.
//
// Rows travel from a source node to one or more sinks, each hop carrying a
// (row, metadata) pair. Metadata may change between rows, so every node
// treats the metadata accompanying a row as authoritative. Lifecycle signals
// travel the same edges as rows and reach every node exactly once.
//
// # Building
//
//	root, err := pipeline.Source().
//	    To(pipeline.NewCompileNode(a, ac)).
//	    To(pipeline.NewActionNode(a, ac)).
//	    To(pipeline.NewCleanUpNode(tc)).
//	    To(pipeline.NewWriterNode(w, c, stepID)).
//	    Build()
//
// Attaching more than one child to a node inserts a CloneLink so that every
// branch receives its own copy of each row and its metadata.
//
// # Execution
//
// One goroutine drives one row at a time end to end through the graph. A
// Pipeline is not safe for concurrent use; ExecutePartitions runs
// independent partitions through independently built pipelines.
package pipeline
