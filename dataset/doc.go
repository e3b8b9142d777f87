// Package dataset defines the row and schema model flowing through a
// transformation pipeline.
//
// A Row maps stable column ids to string cell values. A RowMetadata describes
// the ordered columns accompanying a row at one point of the graph. Both are
// mutable and both clone totally: a clone shares no state with its source.
//
// Every RowMetadata mutation stamps the instance with a fresh version taken
// from a process-wide generation counter. Consumers that cache schema-derived
// state (compile nodes, action contexts) compare versions rather than
// pointers, so in-place mutation is always observed.
package dataset
