package submit

import (
	"time"

	"stock-submitter/core/asset"
	"stock-submitter/core/match"
)

// FoundAsset pairs an asset with the remote identifier discovered for it.
// The remote id is immutable once matched.
type FoundAsset struct {
	// Asset is the local asset.
	Asset *asset.Asset
	// RemoteID is the marketplace item id.
	RemoteID string
}

// FoundRelease is a release catalog hit.
type FoundRelease struct {
	// RemoteID is the marketplace release id.
	RemoteID string
	// Rejected is true when the catalog shows the release as rejected;
	// a rejected release must be re-uploaded.
	Rejected bool
}

// ResolvedRelease is the cached outcome of resolving a release link.
type ResolvedRelease struct {
	// RemoteID is the marketplace release id.
	RemoteID string
	// Kind distinguishes model and property releases where the marketplace
	// cares; empty when it does not.
	Kind asset.ReleaseKind
}

// ListingEntry is a transient row from an uploads listing or status export.
// Exactly one of RemoteID and Status is meaningful: an entry either carries
// the remote id of a processed item or a textual processing status.
type ListingEntry struct {
	// Basename is the filename the marketplace displays for the entry.
	Basename string
	// RemoteID is the remote item id, empty while the item is unprocessed.
	RemoteID string
	// Status is the textual processing status for unprocessed items.
	Status string
	// Failed marks a status that is terminal on the remote side.
	Failed bool
}

// ListingPage is one page of the paginated uploads listing.
type ListingPage struct {
	// Entries are the rows on this page.
	Entries []ListingEntry
	// MaxPage is the highest page number advertised by the response;
	// zero when the page carries no such hint.
	MaxPage int
}

// Traits describe per-marketplace discovery behavior.
type Traits struct {
	// HistoryMatch is the match policy for bulk status export entries.
	HistoryMatch match.Policy
	// ListingMatch is the match policy for paginated listing entries.
	ListingMatch match.Policy
	// FirstPage is the page number of the first listing page.
	FirstPage int
	// PageCap bounds the number of listing pages fetched per run;
	// zero means no site-imposed cap.
	PageCap int
	// PageDelay is the pause between consecutive listing requests.
	PageDelay time.Duration
}

// Status is a terminal per-asset disposition.
type Status string

const (
	StatusDone         Status = "done"
	StatusFailed       Status = "failed"
	StatusNotFound     Status = "not_found"
	StatusUnauthorized Status = "unauthorized"
)

// Outcome records the terminal disposition of one asset in a run.
type Outcome struct {
	// AssetID is the local asset id.
	AssetID string `json:"asset_id"`
	// Status is the terminal disposition.
	Status Status `json:"status"`
	// Message carries the failure message, if any.
	Message string `json:"message,omitempty"`
	// RemoteID is the marketplace item id for done assets.
	RemoteID string `json:"remote_id,omitempty"`
}

// Report aggregates the outcomes of one run.
type Report struct {
	// Marketplace is the adapter name the run targeted.
	Marketplace string `json:"marketplace"`
	// Submitted is true when assets were submitted for review rather than
	// only saved.
	Submitted bool `json:"submitted"`
	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	// Outcomes holds one entry per input asset.
	Outcomes []Outcome `json:"outcomes"`
}

// Summary provides aggregate outcome counts for a report.
type Summary struct {
	Done         int `json:"done"`
	Failed       int `json:"failed"`
	NotFound     int `json:"not_found"`
	Unauthorized int `json:"unauthorized"`
}

// Summary computes the aggregate counts from the outcomes.
func (r *Report) Summary() Summary {
	var s Summary
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusDone:
			s.Done++
		case StatusFailed:
			s.Failed++
		case StatusNotFound:
			s.NotFound++
		case StatusUnauthorized:
			s.Unauthorized++
		}
	}
	return s
}
