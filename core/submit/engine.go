package submit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stock-submitter/core/asset"
	"stock-submitter/core/match"
)

// Engine drives one batch at a time through the submission phases. It is
// not safe for concurrent Run calls; create one engine per batch or
// serialize access.
type Engine struct {
	adapter Adapter
	host    Host
	cache   *ReleaseCache
	logger  *zap.Logger
	opts    Options

	// sleep is injectable so tests do not wait out real delays.
	sleep func(ctx context.Context, d time.Duration) error

	// run-local state, reset by Run
	report    *Report
	processed map[string]struct{}
}

// NewEngine creates an engine for one marketplace. A nil cache creates a
// fresh one; passing a shared cache preserves release resolutions across
// batches within the process.
func NewEngine(adapter Adapter, host Host, cache *ReleaseCache, logger *zap.Logger, opts Options) *Engine {
	if cache == nil {
		cache = NewReleaseCache()
	}
	return &Engine{
		adapter: adapter,
		host:    host,
		cache:   cache,
		logger:  logger,
		opts:    opts,
		sleep:   sleepContext,
	}
}

// Run reconciles and submits a batch of assets. Every input asset receives
// exactly one terminal outcome, recorded both through the host and in the
// returned report. The returned error is non-nil only for an
// authentication failure, after all affected assets have already been
// marked unauthorized; callers need no further per-asset handling.
func (e *Engine) Run(ctx context.Context, assets []*asset.Asset) (*Report, error) {
	e.report = &Report{
		Marketplace: e.adapter.Name(),
		Submitted:   e.opts.Submit,
		StartedAt:   time.Now().UTC(),
	}
	e.processed = make(map[string]struct{})
	defer func() {
		e.report.FinishedAt = time.Now().UTC()
	}()

	if len(assets) == 0 {
		return e.report, nil
	}

	e.logger.Info("Starting submission run",
		zap.String("marketplace", e.adapter.Name()),
		zap.Int("assets", len(assets)),
		zap.Bool("submit", e.opts.Submit),
	)

	found, err := e.discover(ctx, assets)
	if err != nil {
		return e.report, err
	}
	if len(found) == 0 {
		return e.report, nil
	}

	e.resolveReleases(ctx, found)

	saved, err := e.saveAssets(ctx, found)
	for _, fa := range saved {
		e.markDone(fa)
	}
	return e.report, err
}

// discover matches local assets against the remote account, trying the
// bulk status export first and the paginated listing second. Assets left
// unmatched by both sources are marked not-found. A bot challenge aborts
// discovery and marks the whole batch unauthorized.
func (e *Engine) discover(ctx context.Context, assets []*asset.Asset) ([]FoundAsset, error) {
	byID := make(map[string]*asset.Asset, len(assets))
	candidates := make([]match.Candidate, 0, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
		basename := a.UploadedBasename
		if basename == "" {
			basename = a.MainBasename()
		}
		candidates = append(candidates, match.Candidate{ID: a.ID, Basename: basename})
	}
	pool := match.NewPool(candidates)
	traits := e.adapter.Traits()

	var found []FoundAsset

	// Cheap source first: the bulk status export.
	entries, err := e.adapter.ListUploadHistory(ctx)
	switch {
	case errors.Is(err, ErrHistoryUnavailable):
		// No such source on this marketplace.
	case IsAuth(err):
		e.markBatchUnauthorized(assets, err)
		return nil, err
	case err != nil:
		e.logger.Warn("Upload history fetch failed, falling back to listing", zap.Error(err))
	default:
		found = e.consumeEntries(pool, byID, entries, traits.HistoryMatch, found)
	}

	// Paginated listing for whatever is still unmatched, then the one
	// unfiltered fetch on sites whose listing filter hides failed rows.
	if !pool.Empty() {
		found, err = e.discoverViaListing(ctx, pool, byID, traits, found)
		if err == nil && !pool.Empty() {
			if lister, ok := e.adapter.(StatusLister); ok {
				found, err = e.discoverViaStatuses(ctx, lister, pool, byID, traits, found)
			}
		}
		if err != nil {
			if IsAuth(err) {
				e.markBatchUnauthorized(assets, err)
				return nil, err
			}
			// Cancellation or a similar run-level stop: the unmatched rest
			// fails individually, anything already found is kept.
			for _, c := range pool.Remaining() {
				e.markFailed(byID[c.ID], err.Error())
			}
		}
	}

	for _, c := range pool.Remaining() {
		e.markNotFound(byID[c.ID])
	}

	for _, fa := range found {
		e.host.Progress(fa.Asset.ID, 0.25)
	}
	return found, nil
}

// discoverViaListing pages through the uploads listing until every asset is
// matched, an empty page is returned, the advertised max page is exceeded
// or the per-site page cap is reached. Authentication failures and
// cancellation are returned; a transport failure on a page fetch fails the
// remaining assets individually and stops paging.
func (e *Engine) discoverViaListing(ctx context.Context, pool *match.Pool, byID map[string]*asset.Asset, traits Traits, found []FoundAsset) ([]FoundAsset, error) {
	pageNum := traits.FirstPage
	maxPage := 0
	fetched := 0

	for !pool.Empty() {
		if fetched > 0 && traits.PageDelay > 0 {
			if err := e.sleep(ctx, traits.PageDelay); err != nil {
				return found, err
			}
		}

		listing, err := e.adapter.ListUploads(ctx, pageNum)
		if err != nil {
			if IsAuth(err) {
				return found, err
			}
			// Transport failure: the remaining assets cannot be resolved in
			// this run, but the batch (and anything already found) survives.
			for _, c := range pool.Remaining() {
				e.markFailed(byID[c.ID], fmt.Sprintf("listing fetch failed: %v", err))
			}
			return found, nil
		}
		fetched++

		found = e.consumeEntries(pool, byID, listing.Entries, traits.ListingMatch, found)

		if len(listing.Entries) == 0 {
			break
		}
		if maxPage == 0 && listing.MaxPage > 0 {
			maxPage = listing.MaxPage
			if traits.PageCap > 0 && maxPage > traits.PageCap {
				maxPage = traits.PageCap
			}
		}
		if maxPage > 0 && pageNum >= maxPage {
			break
		}
		if traits.PageCap > 0 && fetched >= traits.PageCap {
			break
		}
		pageNum++
	}
	return found, nil
}

// discoverViaStatuses issues the one extra unfiltered listing fetch for
// assets the filtered pages never showed. The unfiltered document can
// still match processed items; the rows carrying a processing status
// instead of an item id resolve to failed or still-scheduled.
func (e *Engine) discoverViaStatuses(ctx context.Context, lister StatusLister, pool *match.Pool, byID map[string]*asset.Asset, traits Traits, found []FoundAsset) ([]FoundAsset, error) {
	if traits.PageDelay > 0 {
		if err := e.sleep(ctx, traits.PageDelay); err != nil {
			return found, err
		}
	}

	listing, err := lister.ListUploadStatuses(ctx)
	if err != nil {
		if IsAuth(err) {
			return found, err
		}
		for _, c := range pool.Remaining() {
			e.markFailed(byID[c.ID], fmt.Sprintf("status listing fetch failed: %v", err))
		}
		return found, nil
	}

	return e.consumeEntries(pool, byID, listing.Entries, traits.ListingMatch, found), nil
}

// consumeEntries performs the single left-to-right matching pass over the
// entries: each entry claims at most one unmatched asset, first match wins.
func (e *Engine) consumeEntries(pool *match.Pool, byID map[string]*asset.Asset, entries []ListingEntry, policy match.Policy, found []FoundAsset) []FoundAsset {
	for _, entry := range entries {
		if pool.Empty() {
			break
		}
		candidate, ok := pool.Claim(policy, entry.Basename)
		if !ok {
			continue
		}
		a := byID[candidate.ID]
		switch {
		case entry.RemoteID != "":
			e.host.Log(a.ID, "Asset found with id "+entry.RemoteID)
			found = append(found, FoundAsset{Asset: a, RemoteID: entry.RemoteID})
		case entry.Failed:
			e.markFailed(a, entry.Status)
		default:
			// Still processing on the remote side; a later run will pick
			// it up once the marketplace finishes.
			e.host.Warn(a.ID, "Processing status on marketplace: "+entry.Status)
			e.markNotFound(a)
		}
	}
	return found
}

// resolveReleases resolves every release link of every found asset into a
// remote release id, caching each resolution. Errors are reported as
// warnings on the owning asset: a missing release only becomes fatal at
// the attach step.
func (e *Engine) resolveReleases(ctx context.Context, found []FoundAsset) {
	for _, fa := range found {
		links := fa.Asset.Metadata.Releases
		if len(links) == 0 {
			continue
		}
		e.host.Log(fa.Asset.ID, "Will resolve releases")
		for _, link := range links {
			if err := e.resolveRelease(ctx, fa.Asset, link); err != nil {
				e.host.Warn(fa.Asset.ID, fmt.Sprintf("Cannot resolve release %s: %v", link.Title, err))
			}
		}
		e.host.Progress(fa.Asset.ID, 0.5)
	}
}

// resolveRelease resolves one release link: cache, then the cross-run
// submit marker, then the remote catalog, then upload-and-poll. A
// successful resolution persists a submit marker on the release asset.
func (e *Engine) resolveRelease(ctx context.Context, owner *asset.Asset, link asset.Link) error {
	if _, ok := e.cache.Get(link.AssetID); ok {
		return nil
	}

	_, err := e.cache.Resolve(link.AssetID, func() (ResolvedRelease, error) {
		release, err := e.host.LoadAsset(ctx, link.AssetID)
		if err != nil {
			return ResolvedRelease{}, fmt.Errorf("failed to load release asset: %w", err)
		}

		kind := asset.ReleaseKind("")
		if release.Metadata.Release != nil {
			kind = release.Metadata.Release.Kind
		}

		// A prior run may have recorded the resolution durably; trust it
		// without re-verification.
		if marker := release.FindMarker(asset.MarkerSubmit, e.adapter.Name()); marker != nil {
			if remoteID := marker.Data[asset.MarkerDataRemoteID]; remoteID != "" {
				return ResolvedRelease{RemoteID: remoteID, Kind: kind}, nil
			}
		}

		mainFile := release.MainFile()
		if mainFile == nil {
			return ResolvedRelease{}, errors.New("main file of release not found")
		}
		releaseName := release.MainBasename()

		existing, err := e.adapter.FindRelease(ctx, releaseName)
		if err != nil && !errors.Is(err, ErrReleaseNotFound) {
			return ResolvedRelease{}, err
		}
		remoteID := ""
		if existing != nil {
			if existing.Rejected {
				e.host.Log(owner.ID, "Release "+mainFile.Name+" found but was rejected, will upload it again")
			} else {
				remoteID = existing.RemoteID
			}
		}

		if remoteID == "" {
			e.host.Log(owner.ID, "Will upload release: "+mainFile.Name)
			blob, err := e.host.Blob(ctx, release.ID, mainFile.Name)
			if err != nil {
				return ResolvedRelease{}, fmt.Errorf("failed to load release blob: %w", err)
			}
			if err := e.adapter.UploadRelease(ctx, blob, mainFile.Name, release); err != nil {
				return ResolvedRelease{}, err
			}

			e.host.Log(owner.ID, "Release was uploaded, will try to find it")
			remoteID, err = e.pollRelease(ctx, releaseName, mainFile.Name)
			if err != nil {
				return ResolvedRelease{}, err
			}
		}

		marker := asset.Marker{
			Name:    asset.MarkerSubmit,
			Subject: e.adapter.Name(),
			Data:    map[string]string{asset.MarkerDataRemoteID: remoteID},
		}
		if err := e.host.AddMarker(ctx, release.ID, marker); err != nil {
			return ResolvedRelease{}, fmt.Errorf("failed to persist release marker: %w", err)
		}

		return ResolvedRelease{RemoteID: remoteID, Kind: kind}, nil
	})
	return err
}

// pollRelease waits for a just-uploaded release to appear in the catalog,
// with a bounded number of fixed-delay attempts.
func (e *Engine) pollRelease(ctx context.Context, releaseName, fileName string) (string, error) {
	for attempt := 0; attempt < e.opts.PollAttempts; attempt++ {
		if err := e.sleep(ctx, e.opts.PollDelay); err != nil {
			return "", err
		}
		foundRelease, err := e.adapter.FindRelease(ctx, releaseName)
		if errors.Is(err, ErrReleaseNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		if foundRelease.Rejected {
			return "", fmt.Errorf("release %s was rejected", fileName)
		}
		return foundRelease.RemoteID, nil
	}
	return "", errors.New("uploaded release not found on marketplace")
}

// saveAssets attaches resolved releases and saves/submits each found asset
// in order. Per-asset errors mark that asset failed and continue; an
// authentication failure marks the current and all remaining assets
// unauthorized and aborts.
func (e *Engine) saveAssets(ctx context.Context, found []FoundAsset) ([]FoundAsset, error) {
	var saved []FoundAsset
	for i, fa := range found {
		e.host.Progress(fa.Asset.ID, 0.75)
		err := e.saveOne(ctx, fa)
		if err == nil {
			saved = append(saved, fa)
			continue
		}
		if IsAuth(err) {
			for _, rest := range found[i:] {
				e.markUnauthorized(rest.Asset)
			}
			e.logger.Warn("Authentication failure during save, aborting batch",
				zap.String("marketplace", e.adapter.Name()),
				zap.Error(err),
			)
			return saved, err
		}
		e.markFailed(fa.Asset, err.Error())
	}
	return saved, nil
}

// saveOne attaches every resolved release and runs the save/submit call
// for a single found asset. Save/submit is invoked at most once per asset
// per run.
func (e *Engine) saveOne(ctx context.Context, fa FoundAsset) error {
	for _, link := range fa.Asset.Metadata.Releases {
		resolved, ok := e.cache.Get(link.AssetID)
		if !ok {
			return fmt.Errorf("release %s not found", link.Title)
		}
		e.host.Log(fa.Asset.ID, "Attach release "+link.Title)
		if err := e.adapter.AttachRelease(ctx, fa.RemoteID, resolved.RemoteID); err != nil {
			return fmt.Errorf("failed to attach release %s: %w", link.Title, err)
		}
	}

	e.host.Log(fa.Asset.ID, "Start saving metadata")
	if err := e.adapter.SaveOrSubmit(ctx, fa.RemoteID, fa.Asset, e.opts.Submit); err != nil {
		return err
	}
	if e.opts.Submit {
		e.host.Log(fa.Asset.ID, "Saved and submitted")
	} else {
		e.host.Log(fa.Asset.ID, "Saved")
	}
	return nil
}

// markBatchUnauthorized marks every asset without a terminal outcome yet,
// including ones already found in this phase, as unauthorized.
func (e *Engine) markBatchUnauthorized(assets []*asset.Asset, cause error) {
	e.logger.Warn("Authentication failure, marking batch unauthorized",
		zap.String("marketplace", e.adapter.Name()),
		zap.Error(cause),
	)
	for _, a := range assets {
		e.markUnauthorized(a)
	}
}

func (e *Engine) markDone(fa FoundAsset) {
	if e.terminal(fa.Asset.ID) {
		return
	}
	e.host.Progress(fa.Asset.ID, 1)
	e.host.MarkDone(fa.Asset.ID, map[string]string{asset.MarkerDataRemoteID: fa.RemoteID})
	e.record(Outcome{AssetID: fa.Asset.ID, Status: StatusDone, RemoteID: fa.RemoteID})
}

func (e *Engine) markFailed(a *asset.Asset, message string) {
	if e.terminal(a.ID) {
		return
	}
	e.host.MarkFailed(a.ID, message)
	e.record(Outcome{AssetID: a.ID, Status: StatusFailed, Message: message})
}

func (e *Engine) markNotFound(a *asset.Asset) {
	if e.terminal(a.ID) {
		return
	}
	e.host.MarkNotFound(a.ID)
	e.record(Outcome{AssetID: a.ID, Status: StatusNotFound})
}

func (e *Engine) markUnauthorized(a *asset.Asset) {
	if e.terminal(a.ID) {
		return
	}
	e.host.MarkUnauthorized(a.ID)
	e.record(Outcome{AssetID: a.ID, Status: StatusUnauthorized})
}

func (e *Engine) record(outcome Outcome) {
	e.processed[outcome.AssetID] = struct{}{}
	e.report.Outcomes = append(e.report.Outcomes, outcome)
}

func (e *Engine) terminal(assetID string) bool {
	_, ok := e.processed[assetID]
	return ok
}

// sleepContext pauses for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
