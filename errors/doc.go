// Package errors provides the typed failures raised by dataprep.
//
// Every failure that aborts a pipeline is an *AppError carrying a machine
// readable code and the stage that raised it (topology, parse, write, ...).
// Action-level invalid input is recovered inside the action and never
// surfaces here; cache write failures are logged and swallowed by the writer.
package errors
