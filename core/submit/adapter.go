package submit

import (
	"context"

	"stock-submitter/core/asset"
)

// Adapter is the per-marketplace catalog surface the engine drives. Each
// implementation performs the site-specific call sequence and translates
// the remote rendering into the neutral types of this package.
//
// Every method must return an *AuthError (possibly wrapped) when the
// response carries a bot challenge: the call succeeded at the transport
// level but the session is no longer trustworthy. Field-level rejections
// are returned as *ValidationError.
type Adapter interface {
	// Name returns the marketplace name (also the marker subject).
	Name() string

	// Traits returns the marketplace's discovery behavior.
	Traits() Traits

	// ListUploads fetches one page of the user's uploads listing.
	// Callers stop paging on an empty page, when the advertised MaxPage is
	// exceeded, or when the Traits page cap is hit.
	ListUploads(ctx context.Context, pageNum int) (*ListingPage, error)

	// ListUploadHistory fetches the bulk status export, when the site has
	// one; otherwise it returns ErrHistoryUnavailable.
	ListUploadHistory(ctx context.Context) ([]ListingEntry, error)

	// FindRelease searches the existing release catalog for an exact
	// normalized-name match, returning ErrReleaseNotFound when absent.
	FindRelease(ctx context.Context, releaseName string) (*FoundRelease, error)

	// UploadRelease validates the release document's required fields and
	// uploads its file blob. Validation failures are *ValidationError and
	// surface as a per-asset warning, never a batch abort.
	UploadRelease(ctx context.Context, blob []byte, filename string, release *asset.Asset) error

	// AttachRelease attaches an uploaded release to a remote item.
	AttachRelease(ctx context.Context, itemRemoteID, releaseRemoteID string) error

	// SaveOrSubmit writes the asset's normalized metadata to the remote
	// item and, when submit is true, submits it for review.
	SaveOrSubmit(ctx context.Context, itemRemoteID string, a *asset.Asset, submit bool) error
}

// StatusLister is implemented by adapters whose paginated listing is
// filtered down to successfully processed items. After paging, the engine
// issues one unfiltered fetch through it for the assets the filter hid, so
// rows that failed remote processing or are still scheduled can be
// classified.
type StatusLister interface {
	// ListUploadStatuses fetches the unfiltered uploads listing once.
	ListUploadStatuses(ctx context.Context) (*ListingPage, error)
}

// Host is the collaborator that owns the assets: it loads them, retrieves
// file blobs, persists markers and records outcomes. Implemented by
// core/library; the engine mutates assets only through these calls.
type Host interface {
	// LoadAsset loads an asset (with files and markers) by id.
	LoadAsset(ctx context.Context, assetID string) (*asset.Asset, error)

	// Blob retrieves the binary payload of one of an asset's files.
	Blob(ctx context.Context, assetID, fileName string) ([]byte, error)

	// AddMarker durably appends a marker to an asset's ledger.
	AddMarker(ctx context.Context, assetID string, marker asset.Marker) error

	// Log and Warn record per-asset progress messages.
	Log(assetID, message string)
	Warn(assetID, message string)

	// Progress reports phase progress for an asset in [0, 1].
	Progress(assetID string, fraction float64)

	// Mark* record the asset's terminal disposition for this run.
	MarkDone(assetID string, data map[string]string)
	MarkFailed(assetID, message string)
	MarkNotFound(assetID string)
	MarkUnauthorized(assetID string)
}
