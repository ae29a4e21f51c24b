// Package valueindex is the reverse value index of a table: for each
// indexed static column it answers "which elements hold this value".
//
// Rows report every transition (old value, new value, element) while they
// hold their own lock, so the index never lags a completed write.
package valueindex
