// Package index defines the boundary to the underlying index engine.
//
// The engine owns tokenization, the on-disk index format and query
// execution. This package exposes it through three narrow interfaces:
//
//   - Engine opens point-in-time readers and creates empty indexes.
//   - ReaderHandle is one open view of the index. It knows whether it still
//     reflects the latest committed state and can reopen itself.
//   - Searcher executes queries against a single reader's view.
//
// A concrete bleve-backed implementation is provided via NewBleveEngine.
// Readers are opened read-only, so any number of them can coexist with an
// external writer process.
package index
