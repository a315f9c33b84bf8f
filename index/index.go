package index

import (
	"context"
	"errors"
)

// ErrReaderClosed is returned when an operation is attempted on a closed
// ReaderHandle.
var ErrReaderClosed = errors.New("index reader is closed")

// ReaderStatus describes the state of a ReaderHandle relative to the
// on-disk index.
type ReaderStatus int

const (
	// StatusCurrent means the reader reflects the latest committed state.
	StatusCurrent ReaderStatus = iota
	// StatusNotCurrent means the index advanced since the reader was opened.
	StatusNotCurrent
	// StatusClosed means the reader has been closed.
	StatusClosed
)

// String returns a string representation of the ReaderStatus.
func (s ReaderStatus) String() string {
	switch s {
	case StatusCurrent:
		return "Current"
	case StatusNotCurrent:
		return "NotCurrent"
	case StatusClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// FieldMode selects which field names a reader reports.
type FieldMode int

const (
	// FieldModeAll reports every field known to the reader.
	FieldModeAll FieldMode = iota
	// FieldModeIndexed reports only fields that are searchable.
	FieldModeIndexed
)

// Engine is the entry point to the index engine.
type Engine interface {
	// Open opens a point-in-time read-only view of the index at path.
	Open(ctx context.Context, path string) (ReaderHandle, error)

	// CreateEmptyIndex creates an empty index at path. It is a no-op when
	// an index already exists there.
	CreateEmptyIndex(ctx context.Context, path string) error
}

// ReaderHandle is one open view of the index.
//
// Handles are owned by whoever opened them. Callers that borrow a handle
// (e.g. from a searcher cache) must never close it themselves.
type ReaderHandle interface {
	// IsCurrent reports whether the view still reflects the latest
	// committed index state.
	IsCurrent() bool

	// Status returns the reader's state.
	Status() ReaderStatus

	// Reopen returns a handle over the latest committed state. It may
	// return the receiver itself when nothing changed, or a distinct new
	// handle when the index advanced. The receiver is never closed by
	// Reopen; disposing of a superseded handle is the caller's job.
	Reopen() (ReaderHandle, error)

	// Close releases the view.
	Close() error

	// Fields returns the field names known to this view.
	Fields(mode FieldMode) ([]string, error)

	// Searcher returns a searcher bound to this view.
	Searcher() Searcher
}

// Searcher executes queries against one reader's view.
type Searcher interface {
	// Search runs a query and returns a page of results.
	Search(ctx context.Context, req *Request) (*ResultPage, error)

	// Close releases searcher resources. Closing a searcher does not close
	// its reader.
	Close() error
}
