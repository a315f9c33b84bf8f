package examine

import "errors"

var (
	// ErrIndexOpenFailed wraps engine errors from the first open of the
	// cached reader/searcher pair.
	ErrIndexOpenFailed = errors.New("index open failed")

	// ErrIndexReopenFailed wraps engine errors from a staleness refresh.
	// The previously cached pair stays published and valid.
	ErrIndexReopenFailed = errors.New("index reopen failed")

	// ErrCacheClosed is returned by operations on a closed SearcherCache.
	ErrCacheClosed = errors.New("searcher cache is closed")
)
