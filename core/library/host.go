package library

import (
	"context"

	"stock-submitter/core/asset"
	"stock-submitter/core/logger"

	"go.uber.org/zap"
)

// Host binds a Library to one marketplace and implements the engine's host
// interface. Terminal outcomes are aggregated by the engine's report; the
// host's responsibility is durability (markers) and operator-facing logs.
type Host struct {
	lib         *Library
	marketplace string
	log         *zap.Logger
}

// Host returns a submission host bound to the given marketplace.
func (l *Library) Host(marketplace string) *Host {
	return &Host{
		lib:         l,
		marketplace: marketplace,
		log:         l.log.With(zap.String("marketplace", marketplace)),
	}
}

// LoadAsset loads an asset (with files and markers) by id.
func (h *Host) LoadAsset(ctx context.Context, assetID string) (*asset.Asset, error) {
	return h.lib.LoadAsset(ctx, assetID)
}

// Blob retrieves the binary payload of one of an asset's files.
func (h *Host) Blob(ctx context.Context, assetID, fileName string) ([]byte, error) {
	return h.lib.Blob(ctx, assetID, fileName)
}

// AddMarker durably appends a marker to an asset's ledger.
func (h *Host) AddMarker(ctx context.Context, assetID string, marker asset.Marker) error {
	return h.lib.AddMarker(ctx, assetID, marker)
}

// Log records a per-asset progress message.
func (h *Host) Log(assetID, message string) {
	logger.WithAsset(h.log, assetID).Info(message)
}

// Warn records a per-asset warning.
func (h *Host) Warn(assetID, message string) {
	logger.WithAsset(h.log, assetID).Warn(message)
}

// Progress reports phase progress for an asset in [0, 1].
func (h *Host) Progress(assetID string, fraction float64) {
	logger.WithAsset(h.log, assetID).Debug("Progress", zap.Float64("fraction", fraction))
}

// MarkDone records a successful submission. When the data payload is present
// it is persisted as a submit marker so later runs skip the asset.
func (h *Host) MarkDone(assetID string, data map[string]string) {
	if len(data) > 0 {
		marker := asset.Marker{Name: asset.MarkerSubmit, Subject: h.marketplace, Data: data}
		if err := h.lib.AddMarker(context.Background(), assetID, marker); err != nil {
			logger.WithAsset(h.log, assetID).Error("Failed to persist submit marker", zap.Error(err))
		}
	}
	logger.WithAsset(h.log, assetID).Info("Asset done")
}

// MarkFailed records a per-asset failure.
func (h *Host) MarkFailed(assetID, message string) {
	logger.WithAsset(h.log, assetID).Warn("Asset failed", zap.String("reason", message))
}

// MarkNotFound records that the asset was not found on the marketplace.
func (h *Host) MarkNotFound(assetID string) {
	logger.WithAsset(h.log, assetID).Info("Asset not found on marketplace")
}

// MarkUnauthorized records that the session was rejected while processing
// the asset.
func (h *Host) MarkUnauthorized(assetID string) {
	logger.WithAsset(h.log, assetID).Warn("Asset unauthorized")
}
