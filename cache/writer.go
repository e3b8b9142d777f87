package cache

import (
	"bytes"
	"errors"
	"io"
)

// ErrClosed is returned when writing to a closed entry sink.
var ErrClosed = errors.New("cache: entry writer closed")

// CommitWriter buffers an entry and hands it to commit on Close.
type CommitWriter struct {
	buf    bytes.Buffer
	commit func([]byte) error
	closed bool
}

// NewCommitWriter creates a sink calling commit with the buffered content
// when closed.
func NewCommitWriter(commit func([]byte) error) *CommitWriter {
	return &CommitWriter{commit: commit}
}

// Write implements io.Writer.
func (w *CommitWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	return w.buf.Write(p)
}

// Close commits the entry. Subsequent calls are no-ops.
func (w *CommitWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.commit(bytes.Clone(w.buf.Bytes()))
}

var _ io.WriteCloser = (*CommitWriter)(nil)
