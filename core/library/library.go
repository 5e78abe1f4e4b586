package library

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"stock-submitter/core/asset"
	"stock-submitter/core/storage"
	"stock-submitter/core/submit"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Library provides access to the asset collection and the run ledger.
type Library struct {
	db     *gorm.DB
	store  storage.Client
	bucket string
	log    *zap.Logger
}

// New creates a Library over the given database, object store and bucket.
func New(db *gorm.DB, store storage.Client, bucket string, log *zap.Logger) *Library {
	return &Library{db: db, store: store, bucket: bucket, log: log}
}

// Migrate creates or updates the library schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AssetRecord{},
		&FileRecord{},
		&MarkerRecord{},
		&RunRecord{},
		&OutcomeRecord{},
	)
}

// EnsureBucket creates the media bucket if it does not exist yet.
func (l *Library) EnsureBucket(ctx context.Context) error {
	exists, err := l.store.BucketExists(ctx, l.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", l.bucket, err)
	}
	if exists {
		return nil
	}
	if err := l.store.MakeBucket(ctx, l.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", l.bucket, err)
	}
	l.log.Info("Created media bucket", zap.String("bucket", l.bucket))
	return nil
}

// LoadAsset loads an asset with its files and markers.
func (l *Library) LoadAsset(ctx context.Context, assetID string) (*asset.Asset, error) {
	var record AssetRecord
	err := l.db.WithContext(ctx).
		Preload("Files").
		Preload("Markers").
		First(&record, "id = ?", assetID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %s: %w", assetID, err)
	}
	return record.toAsset(), nil
}

// PendingAssets returns the assets that have no submit marker for the given
// marketplace, i.e. everything a run against that marketplace should cover.
func (l *Library) PendingAssets(ctx context.Context, marketplace string) ([]*asset.Asset, error) {
	submitted := l.db.Model(&MarkerRecord{}).
		Select("asset_id").
		Where("name = ? AND subject = ?", asset.MarkerSubmit, marketplace)

	var records []AssetRecord
	err := l.db.WithContext(ctx).
		Preload("Files").
		Preload("Markers").
		Where("id NOT IN (?)", submitted).
		Order("created_at").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending assets: %w", err)
	}

	out := make([]*asset.Asset, 0, len(records))
	for i := range records {
		out = append(out, records[i].toAsset())
	}
	return out, nil
}

// Blob retrieves the payload of one of an asset's files from object storage.
func (l *Library) Blob(ctx context.Context, assetID, fileName string) ([]byte, error) {
	key := assetID + "/" + fileName
	obj, err := l.store.GetObject(ctx, l.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// AddMarker durably appends a marker to an asset's ledger.
func (l *Library) AddMarker(ctx context.Context, assetID string, marker asset.Marker) error {
	record := MarkerRecord{
		AssetID: assetID,
		Name:    marker.Name,
		Subject: marker.Subject,
		Data:    marker.Data,
	}
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to add marker %s/%s to asset %s: %w",
			marker.Name, marker.Subject, assetID, err)
	}
	return nil
}

// ImportAsset stores a new asset: its record, its file rows and the main
// file payload in object storage.
func (l *Library) ImportAsset(ctx context.Context, a *asset.Asset, blob []byte) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	record := AssetRecord{
		ID:               a.ID,
		UploadedBasename: a.UploadedBasename,
		Type:             string(a.Type),
		Metadata:         a.Metadata,
	}
	for _, f := range a.Files {
		record.Files = append(record.Files, FileRecord{AssetID: a.ID, Name: f.Name, Role: f.Role})
	}

	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create asset %s: %w", a.ID, err)
	}

	main := a.MainFile()
	if main != nil && len(blob) > 0 {
		key := a.ID + "/" + main.Name
		_, err := l.store.PutObject(ctx, l.bucket, key,
			bytes.NewReader(blob), int64(len(blob)), minio.PutObjectOptions{})
		if err != nil {
			return fmt.Errorf("failed to store blob %s: %w", key, err)
		}
	}
	return nil
}

// SaveRun persists a run report and its per-asset outcomes in one transaction.
func (l *Library) SaveRun(ctx context.Context, report *submit.Report) (string, error) {
	record := RunRecord{
		ID:          uuid.NewString(),
		Marketplace: report.Marketplace,
		Submitted:   report.Submitted,
		StartedAt:   report.StartedAt,
		FinishedAt:  report.FinishedAt,
	}
	for _, o := range report.Outcomes {
		record.Outcomes = append(record.Outcomes, OutcomeRecord{
			RunID:    record.ID,
			AssetID:  o.AssetID,
			Status:   string(o.Status),
			Message:  o.Message,
			RemoteID: o.RemoteID,
		})
	}

	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return record.ID, nil
}

// Runs returns the most recent runs, newest first, without outcomes.
func (l *Library) Runs(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []RunRecord
	err := l.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// RunByID returns one run with its outcomes.
func (l *Library) RunByID(ctx context.Context, id string) (*RunRecord, error) {
	var run RunRecord
	err := l.db.WithContext(ctx).
		Preload("Outcomes").
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}
	return &run, nil
}
