// Package storage provides object storage access for asset media.
//
// It wraps the Minio S3-compatible client behind a small Client interface so
// the library package can fetch and store blobs without binding to the
// concrete SDK, and so tests can substitute the generated mock in
// storage/mocks.
//
// Objects are keyed as "<assetID>/<filename>" inside the configured bucket.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err != nil {
//	    log.Fatal("Storage client failed", err)
//	}
//	blob, err := client.GetObject(ctx, cfg.Storage.Bucket, "a1/photo.jpg", minio.GetObjectOptions{})
package storage
