package index

import (
	"context"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	bleveCustom "github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	bleveKeyword "github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	bleveStandard "github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	bleveEn "github.com/blevesearch/bleve/v2/analysis/lang/en"
	bleveRu "github.com/blevesearch/bleve/v2/analysis/lang/ru"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	bleveSingle "github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Available text analyzers. Bleve supports more languages that may be
// added, see https://github.com/blevesearch/bleve/tree/master/analysis/lang
var analyzerNames = map[string]string{
	"standard": bleveStandard.Name,
	"keyword":  bleveKeyword.Name,
	"english":  bleveEn.AnalyzerName,
	"russian":  bleveRu.AnalyzerName,
}

// Engine-internal fields that are never searchable content.
var internalFieldNames = map[string]struct{}{
	"_all": {},
	"_id":  {},
}

// BleveOptions configures a BleveEngine.
type BleveOptions struct {
	// Analyzer names the text analyzer used for new indexes.
	// One of "standard", "keyword", "english", "russian".
	Analyzer string
}

// BleveEngine implements Engine on top of blevesearch/bleve.
//
// Readers are opened read-only, so they never take the writer lock and can
// coexist with an external writer updating the same index directory.
// Staleness is detected by fingerprinting the directory contents.
type BleveEngine struct {
	analyzer string
}

// NewBleveEngine creates a bleve-backed Engine.
func NewBleveEngine(optFns ...func(o *BleveOptions)) (*BleveEngine, error) {
	opts := BleveOptions{
		Analyzer: "standard",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	name, ok := analyzerNames[opts.Analyzer]
	if !ok {
		available := make([]string, 0, len(analyzerNames))
		for k := range analyzerNames {
			available = append(available, k)
		}
		sort.Strings(available)
		return nil, fmt.Errorf("unknown analyzer %q, available: %v", opts.Analyzer, available)
	}

	return &BleveEngine{analyzer: name}, nil
}

// Open opens a read-only view of the index at path.
func (e *BleveEngine) Open(_ context.Context, path string) (ReaderHandle, error) {
	idx, err := openReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("open index at %q: %w", path, err)
	}

	fp, err := fingerprintDir(path)
	if err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("fingerprint index at %q: %w", path, err)
	}

	return &bleveReader{path: path, idx: idx, fp: fp}, nil
}

// CreateEmptyIndex creates an empty bleve index at path. It is a no-op
// when path already exists.
func (e *BleveEngine) CreateEmptyIndex(_ context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	im, err := e.indexMapping()
	if err != nil {
		return err
	}

	idx, err := bleve.New(path, im)
	if err != nil {
		return fmt.Errorf("create index at %q: %w", path, err)
	}

	return idx.Close()
}

// IndexMapping returns the mapping used for indexes created by this engine.
// Writers that build the index themselves can reuse it to stay compatible
// with the reader side.
func (e *BleveEngine) IndexMapping() (mapping.IndexMapping, error) {
	return e.indexMapping()
}

func (e *BleveEngine) indexMapping() (mapping.IndexMapping, error) {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = e.analyzer

	// Single-token lowercase analyzer for exact-match fields.
	err := im.AddCustomAnalyzer("keyword_lower", map[string]interface{}{
		"type":      bleveCustom.Name,
		"tokenizer": bleveSingle.Name,
		"token_filters": []string{
			lowercase.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("add custom analyzer: %w", err)
	}

	return im, nil
}

func openReadOnly(path string) (bleve.Index, error) {
	return bleve.OpenUsing(path, map[string]interface{}{
		"read_only": true,
	})
}

// fingerprintDir hashes the names, sizes and mod times of every file under
// an index directory. Two views with the same fingerprint are over the same
// committed state.
func fingerprintDir(path string) (uint64, error) {
	h := fnv.New64a()

	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		fmt.Fprintf(h, "%s|%d|%d;", p, info.Size(), info.ModTime().UnixNano())
		return nil
	})
	if err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}

type bleveReader struct {
	path   string
	idx    bleve.Index
	fp     uint64
	closed atomic.Bool
}

func (r *bleveReader) IsCurrent() bool {
	if r.closed.Load() {
		return false
	}
	fp, err := fingerprintDir(r.path)
	if err != nil {
		// Cannot tell; report stale so the caller goes through Reopen,
		// which surfaces the error.
		return false
	}
	return fp == r.fp
}

func (r *bleveReader) Status() ReaderStatus {
	if r.closed.Load() {
		return StatusClosed
	}
	if r.IsCurrent() {
		return StatusCurrent
	}
	return StatusNotCurrent
}

func (r *bleveReader) Reopen() (ReaderHandle, error) {
	if r.closed.Load() {
		return nil, ErrReaderClosed
	}

	fp, err := fingerprintDir(r.path)
	if err != nil {
		return nil, fmt.Errorf("fingerprint index at %q: %w", r.path, err)
	}
	if fp == r.fp {
		return r, nil
	}

	idx, err := openReadOnly(r.path)
	if err != nil {
		return nil, fmt.Errorf("reopen index at %q: %w", r.path, err)
	}

	return &bleveReader{path: r.path, idx: idx, fp: fp}, nil
}

func (r *bleveReader) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.idx.Close()
}

func (r *bleveReader) Fields(mode FieldMode) ([]string, error) {
	if r.closed.Load() {
		return nil, ErrReaderClosed
	}

	fields, err := r.idx.Fields()
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	if mode == FieldModeAll {
		return fields, nil
	}

	indexed := fields[:0]
	for _, f := range fields {
		if _, internal := internalFieldNames[f]; internal {
			continue
		}
		indexed = append(indexed, f)
	}
	return indexed, nil
}

func (r *bleveReader) Searcher() Searcher {
	return &bleveSearcher{idx: r.idx}
}

type bleveSearcher struct {
	idx bleve.Index
}

// Search performs a query-string search against this searcher's view.
func (s *bleveSearcher) Search(ctx context.Context, req *Request) (*ResultPage, error) {
	q := bleve.NewQueryStringQuery(req.Query)
	br := bleve.NewSearchRequestOptions(q, req.Limit, req.From, false)

	if req.SortBy != "" {
		br.SortBy([]string{req.SortBy})
	}
	if len(req.Fields) > 0 {
		br.Fields = req.Fields
	}
	if req.Highlight != "" {
		br.Highlight = bleve.NewHighlight()
		br.Highlight.AddField(req.Highlight)
	}

	serp, err := s.idx.SearchInContext(ctx, br)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	result := &ResultPage{
		Total:     serp.Total,
		Documents: make([]ResultDoc, 0, len(serp.Hits)),
	}
	for _, hit := range serp.Hits {
		d := ResultDoc{
			ID:     hit.ID,
			Score:  hit.Score,
			Fields: hit.Fields,
		}

		if req.Highlight != "" {
			if locations, ok := hit.Locations[req.Highlight]; ok {
				for _, locs := range locations {
					for _, loc := range locs {
						d.Matches = append(d.Matches, TokenMatch{
							Start: loc.Start,
							End:   loc.End,
						})
					}
				}
			}
		}

		result.Documents = append(result.Documents, d)
	}

	return result, nil
}

func (s *bleveSearcher) Close() error {
	// The view is owned by the reader that produced this searcher.
	return nil
}
