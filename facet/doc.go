// Package facet counts facet-value occurrences over a query's result set
// and ranks them.
//
// A Map assigns every known facet key a small dense integer index for the
// lifetime of one query. A Counter accumulates occurrence counts for those
// indices in a growable dense array that is cleared in place between
// queries, and produces ranked top-K results via a bounded partial
// selection rather than a full sort.
//
// A Counter is meant for single-query use: one Counter per in-flight
// query, no sharing across concurrent queries.
package facet
