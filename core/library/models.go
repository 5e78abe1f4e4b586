package library

import (
	"time"

	"stock-submitter/core/asset"
)

// AssetRecord is the database row for one asset.
type AssetRecord struct {
	// ID is the asset's stable identifier (a UUID assigned at import).
	ID string `gorm:"primaryKey;size:36"`
	// UploadedBasename is the basename used for remote matching.
	UploadedBasename string `gorm:"size:255"`
	// Type is the media kind (photo, illustration, video, vector).
	Type string `gorm:"size:16"`
	// Metadata is the submission payload, stored as JSON.
	Metadata asset.Metadata `gorm:"serializer:json"`

	Files   []FileRecord   `gorm:"foreignKey:AssetID"`
	Markers []MarkerRecord `gorm:"foreignKey:AssetID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FileRecord is the database row for one file of an asset.
type FileRecord struct {
	ID      uint   `gorm:"primaryKey"`
	AssetID string `gorm:"index;size:36"`
	Name    string `gorm:"size:255"`
	Role    string `gorm:"size:16"`
}

// MarkerRecord is one entry of an asset's durable marker ledger.
type MarkerRecord struct {
	ID      uint   `gorm:"primaryKey"`
	AssetID string `gorm:"index;size:36"`
	Name    string `gorm:"size:32"`
	Subject string `gorm:"size:32"`
	// Data carries the opaque marker payload as JSON.
	Data map[string]string `gorm:"serializer:json"`

	CreatedAt time.Time
}

// RunRecord is the ledger row for one pipeline run.
type RunRecord struct {
	// ID is the run's UUID.
	ID string `gorm:"primaryKey;size:36"`
	// Marketplace names the adapter the run targeted.
	Marketplace string `gorm:"size:32;index"`
	// Submitted records whether items were submitted for review or only saved.
	Submitted  bool
	StartedAt  time.Time
	FinishedAt time.Time

	Outcomes []OutcomeRecord `gorm:"foreignKey:RunID"`
}

// OutcomeRecord is the terminal disposition of one asset within a run.
type OutcomeRecord struct {
	ID      uint   `gorm:"primaryKey"`
	RunID   string `gorm:"index;size:36"`
	AssetID string `gorm:"size:36"`
	// Status is one of done, failed, not_found, unauthorized.
	Status string `gorm:"size:16"`
	// Message carries the failure detail, empty otherwise.
	Message string `gorm:"size:1024"`
	// RemoteID is the marketplace item id for done assets.
	RemoteID string `gorm:"size:64"`

	CreatedAt time.Time
}

func (a *AssetRecord) toAsset() *asset.Asset {
	out := &asset.Asset{
		ID:               a.ID,
		UploadedBasename: a.UploadedBasename,
		Type:             asset.Type(a.Type),
		Metadata:         a.Metadata,
	}
	for _, f := range a.Files {
		out.Files = append(out.Files, asset.File{Name: f.Name, Role: f.Role})
	}
	for _, m := range a.Markers {
		out.Markers = append(out.Markers, asset.Marker{Name: m.Name, Subject: m.Subject, Data: m.Data})
	}
	return out
}
