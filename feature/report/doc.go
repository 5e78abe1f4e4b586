// Package report exposes the run ledger over HTTP.
//
// It is a read-only surface: listing recent pipeline runs and fetching one
// run with its per-asset outcomes. Runs are written by the submit command;
// this feature only serves them.
package report
