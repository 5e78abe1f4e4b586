// Package library is the host side of the submission pipeline: the locally
// tracked collection of media assets and release documents.
//
// Assets, their files and their marker ledger live in MySQL through GORM;
// file payloads live in object storage under "<assetID>/<filename>". The
// package also owns the run ledger, one row per pipeline run with a per-asset
// outcome row for every processed asset, which the report feature serves
// over HTTP.
//
// Host adapts a Library to the submit.Host interface for one marketplace:
// it loads assets, fetches blobs, appends markers, and records terminal
// outcomes. A successful submission is persisted as a "submit" marker whose
// subject is the marketplace name and whose data carries the remote id, so
// later runs can skip the asset without contacting the site.
package library
