// Package preparation defines preparations: ordered lists of action steps
// applied to a dataset.
//
// Preparations are read from YAML or JSON:
//
//	name: clean customers
//	steps:
//	  - action: uppercase
//	    parameters:
//	      column_id: "0001"
//	  - action: delete_empty
//	    parameters:
//	      column_id: "0002"
//
// Every step gets a deterministic id derived from its parent step id and its
// content, so identical preparations always yield identical step ids. The id
// of the last step (the head) keys the cached metadata of a transformation.
package preparation
