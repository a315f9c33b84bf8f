package examine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/PeteDuncanson/Examine/index"
)

// Engine bookkeeping fields hidden from search consumers.
var defaultReservedFields = []string{"_all", "_id"}

// searcherState is the cached reader/searcher pair. Both fields are always
// set together; a state is published only after both are constructed.
type searcherState struct {
	reader   index.ReaderHandle
	searcher index.Searcher
}

// SearcherCache owns a single lazily-created reader/searcher pair over the
// index engine and keeps it current.
//
// GetCurrentSearcher is safe for any number of concurrent callers. The
// returned searcher is borrowed: it is shared read-only with every other
// caller and must never be closed by them. Only the cache replaces or
// closes the pair, inside its exclusive section.
type SearcherCache struct {
	engine   index.Engine
	path     string
	logger   *Logger
	metrics  MetricsCollector
	reserved map[string]struct{}
	probe    *rate.Limiter // nil probes on every call

	mu      sync.Mutex
	state   atomic.Pointer[searcherState]
	ensured bool // guarded by mu
	closed  atomic.Bool
}

// New creates a SearcherCache over the index at path. The pair is opened
// lazily on the first GetCurrentSearcher call.
func New(engine index.Engine, path string, optFns ...Option) *SearcherCache {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	reserved := make(map[string]struct{})
	for _, f := range defaultReservedFields {
		reserved[f] = struct{}{}
	}
	for _, f := range opts.reservedFields {
		reserved[f] = struct{}{}
	}

	var probe *rate.Limiter
	if opts.stalenessInterval > 0 {
		probe = rate.NewLimiter(rate.Every(opts.stalenessInterval), 1)
	}

	return &SearcherCache{
		engine:   engine,
		path:     path,
		logger:   opts.logger,
		metrics:  opts.metricsCollector,
		reserved: reserved,
		probe:    probe,
	}
}

// GetCurrentSearcher returns a searcher over the latest committed index
// state, opening or refreshing the cached pair as needed.
//
// The already-current case takes a lock-free fast path; only callers that
// observe a missing or stale pair contend on the exclusive section, and
// the winner performs the open/reopen while the losers re-check.
func (c *SearcherCache) GetCurrentSearcher(ctx context.Context) (index.Searcher, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	st := c.state.Load()
	if st == nil {
		return c.initialize(ctx)
	}

	if c.probe != nil && !c.probe.Allow() {
		// Probe budget spent, serve the cached pair as-is.
		return st.searcher, nil
	}

	current := st.reader.IsCurrent()
	c.metrics.RecordStalenessProbe(current)
	if current {
		return st.searcher, nil
	}

	return c.refresh(ctx)
}

// ForceRefresh discards the cached pair outright, ignoring staleness, and
// opens a fresh one. Use after a bulk rebuild, when no cached state may be
// served. The old state is emptied before reopening, so a failed open
// never leaves callers handed a handle known to be bad; close errors on
// the discarded pair are logged, not returned.
func (c *SearcherCache) ForceRefresh(ctx context.Context) (index.Searcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	if st := c.state.Load(); st != nil {
		c.state.Store(nil)
		c.closeState(ctx, st)
	}

	st, err := c.openLocked(ctx)
	if err != nil {
		return nil, err
	}
	return st.searcher, nil
}

// EnsureIndexExists creates an empty index at the cache's path when none
// exists yet. It is idempotent; once a call succeeds, subsequent calls
// return without touching the engine.
func (c *SearcherCache) EnsureIndexExists(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return ErrCacheClosed
	}
	if c.ensured {
		return nil
	}

	if err := c.engine.CreateEmptyIndex(ctx, c.path); err != nil {
		return fmt.Errorf("ensure index at %q: %w", c.path, err)
	}

	c.ensured = true
	return nil
}

// ListSearchableFields returns the field names known to the current
// reader, minus reserved bookkeeping fields, sorted.
func (c *SearcherCache) ListSearchableFields(ctx context.Context) ([]string, error) {
	if _, err := c.GetCurrentSearcher(ctx); err != nil {
		return nil, err
	}

	st := c.state.Load()
	if st == nil {
		return nil, ErrCacheClosed
	}

	fields, err := st.reader.Fields(index.FieldModeIndexed)
	if err != nil {
		return nil, fmt.Errorf("list searchable fields: %w", err)
	}

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, hidden := c.reserved[f]; hidden {
			continue
		}
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

// Close tears the cache down, closing any cached pair. Subsequent calls
// on the cache return ErrCacheClosed.
func (c *SearcherCache) Close() error {
	c.closed.Store(true)

	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state.Load()
	c.state.Store(nil)
	if st == nil {
		return nil
	}

	var firstErr error
	if err := st.searcher.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := st.reader.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// initialize opens the pair for the first time, double-checked so that
// concurrent first callers trigger exactly one open.
func (c *SearcherCache) initialize(ctx context.Context) (index.Searcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, ErrCacheClosed
	}
	if st := c.state.Load(); st != nil {
		return st.searcher, nil
	}

	st, err := c.openLocked(ctx)
	if err != nil {
		return nil, err
	}
	return st.searcher, nil
}

// refresh replaces a stale pair. Three transitions are possible once the
// lock is held, decided strictly in order: the pair became current again
// while we waited, the pair was closed out-of-band, or the pair is open
// but stale and must be reopened.
func (c *SearcherCache) refresh(ctx context.Context) (index.Searcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	st := c.state.Load()
	if st == nil {
		ns, err := c.openLocked(ctx)
		if err != nil {
			return nil, err
		}
		return ns.searcher, nil
	}

	switch st.reader.Status() {
	case index.StatusCurrent:
		// Another caller refreshed while we waited for the lock.
		return st.searcher, nil

	case index.StatusClosed:
		c.state.Store(nil)
		ns, err := c.openLocked(ctx)
		if err != nil {
			return nil, err
		}
		return ns.searcher, nil
	}

	start := time.Now()
	reader, err := st.reader.Reopen()
	replaced := err == nil && reader != st.reader
	c.metrics.RecordReopen(time.Since(start), replaced, err)
	c.logger.LogReopen(ctx, c.path, replaced, err)
	if err != nil {
		// The previous pair stays published and valid for callers.
		return nil, fmt.Errorf("%w: %w", ErrIndexReopenFailed, err)
	}

	// Identity, not content, decides replacement: the engine returns the
	// same handle when nothing changed, and that handle must not be
	// closed.
	if !replaced {
		return st.searcher, nil
	}

	ns := &searcherState{reader: reader, searcher: reader.Searcher()}
	c.state.Store(ns)
	c.closeState(ctx, st)
	return ns.searcher, nil
}

// openLocked opens and publishes a fresh pair. Callers hold c.mu.
func (c *SearcherCache) openLocked(ctx context.Context) (*searcherState, error) {
	start := time.Now()
	reader, err := c.engine.Open(ctx, c.path)
	c.metrics.RecordOpen(time.Since(start), err)
	c.logger.LogOpen(ctx, c.path, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexOpenFailed, err)
	}

	st := &searcherState{reader: reader, searcher: reader.Searcher()}
	c.state.Store(st)
	return st, nil
}

// closeState closes a superseded pair best-effort. Close errors here are
// non-fatal: the replacement is already decided, so they are logged and
// swallowed.
func (c *SearcherCache) closeState(ctx context.Context, st *searcherState) {
	if err := st.searcher.Close(); err != nil {
		c.logger.LogCloseError(ctx, "searcher", err)
	}
	if err := st.reader.Close(); err != nil {
		c.logger.LogCloseError(ctx, "reader", err)
	}
}
