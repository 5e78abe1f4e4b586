// Package csvx provides a quote-aware tokenizer for delimited text exports.
//
// The marketplace status exports are not strict RFC 4180: rows may have
// uneven widths, fields may contain the delimiter or newlines when wrapped
// in double quotes, and the final row is frequently unterminated. The
// stdlib encoding/csv reader rejects several of these shapes, so this
// package implements the exact tokenization the remote side produces.
//
// Tokenize is a pure function: the same input always yields the same rows.
package csvx
