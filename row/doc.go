// Package row implements the per-element attribute row.
//
// A Row is addressed by column position. Static columns hold one value per
// element; dynamic columns hold a timemap.Map keyed by time-index; the
// reserved time set column holds a timemap.Set. Each position is a tagged
// Slot so the payload kinds are handled exhaustively.
//
// Every write is validated before the row is touched: column ownership,
// read-only flag, dynamic flag, time key and value kind. A failed
// operation leaves the row and its collaborators unchanged.
//
// Lock order: the store lock, when needed, is always taken before a row
// lock. Rows never call back into the store.
package row
