// Package submit implements the asset reconciliation and submission engine.
//
// A run takes a batch of locally known assets and drives them through three
// strictly sequential phases against one marketplace:
//
//  1. Discovery: match local assets to remote upload ids, trying the cheap
//     bulk status export first and falling back to the paginated listing.
//     Adapters whose listing filters out failed items additionally get one
//     unfiltered fetch for whatever is still unmatched (StatusLister).
//  2. Release resolution: resolve every linked release document to a remote
//     release id, uploading it when necessary, with a process-lifetime cache
//     so no release is looked up or uploaded twice.
//  3. Save/submit: attach resolved releases and write each asset's metadata,
//     optionally submitting it for review.
//
// Every asset ends a run with exactly one terminal outcome: done, failed,
// not-found or unauthorized. Field-level and per-release errors stay scoped
// to their asset; a bot challenge or other authentication failure aborts the
// remainder of the batch and marks all affected assets unauthorized.
//
// Marketplace specifics live behind the Adapter interface (feature/pond5,
// feature/dreamstime); host-side persistence lives behind Host
// (core/library). The engine depends only on those interfaces.
package submit
