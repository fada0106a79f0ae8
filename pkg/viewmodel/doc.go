// Package viewmodel turns a flat slice of users into the sorted, filtered
// and paginated row window a table shows, and owns the sort/filter/page
// state that drives it.
//
// The visible rows are always recomputed from (records, columns, state) by
// Derive; nothing is cached between reads, so a page can never go stale
// relative to its inputs. A ViewModel is meant to be driven from a single
// UI loop and does no locking.
package viewmodel
