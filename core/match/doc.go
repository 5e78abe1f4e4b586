// Package match pairs locally known assets with remote listing entries.
//
// Remote listings render an uploaded file's name inconsistently: some views
// show the original filename with its extension, some append thumbnail or
// processing suffixes, and capitalization is not preserved. Matching is
// therefore performed on a normalized basename (extension stripped, trimmed,
// case-folded) under one of two policies:
//
//   - Exact: the normalized names are equal.
//   - Prefix: the normalized remote name is a prefix of the normalized
//     local name (the remote view truncated or the local name carries a
//     variant suffix).
//
// The Pool type implements the single-pass claim semantics used during
// discovery: each remote entry can claim at most one asset, each asset is
// claimed at most once, and ties resolve to the first match in listing order.
package match
