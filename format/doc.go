// Package format serializes and reads datasets.
//
// The writer side produces the transformation envelope:
//
//	{"records":[{"0000":"1","tdpId":1}, ...],"metadata":{"columns":[...]}}
//
// records always precede metadata in the stream. The reader side accepts the
// same envelope in either field order, and CSV with a header line.
package format
