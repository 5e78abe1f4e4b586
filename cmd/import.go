package cmd

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"stock-submitter/core/asset"
	"stock-submitter/core/config"
	"stock-submitter/core/database"
	"stock-submitter/core/library"
	"stock-submitter/core/logger"
	"stock-submitter/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importType string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import media files into the asset library",
	Long: `Registers media files as library assets and stores their payloads in
object storage. Imported assets are picked up by the next submit run once
their metadata is filled in.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := library.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate library schema", zap.Error(err))
		}

		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		lib := library.New(db, store, cfg.Storage.Bucket, logg)

		ctx := cmd.Context()
		if err := lib.EnsureBucket(ctx); err != nil {
			return err
		}

		for _, path := range args {
			blob, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			name := filepath.Base(path)
			basename := strings.TrimSuffix(name, filepath.Ext(name))

			a := &asset.Asset{
				UploadedBasename: basename,
				Type:             asset.Type(importType),
				Files:            []asset.File{{Name: name, Role: asset.RoleMain}},
			}
			if err := lib.ImportAsset(ctx, a, blob); err != nil {
				return err
			}
			logg.Info("Asset imported",
				zap.String("asset_id", a.ID),
				zap.String("file", name),
			)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importType, "type", "t", string(asset.TypePhoto), "media type (photo, illustration, video, vector)")
	RootCmd.AddCommand(importCmd)
}
