package cmd

import (
	"context"
	"fmt"
	"log"

	"stock-submitter/core/asset"
	"stock-submitter/core/config"
	"stock-submitter/core/database"
	"stock-submitter/core/library"
	"stock-submitter/core/logger"
	"stock-submitter/core/storage"
	"stock-submitter/core/submit"
	"stock-submitter/feature/dreamstime"
	"stock-submitter/feature/pond5"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	submitMarketplace string
	submitForReview   bool
	submitAssetIDs    []string
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Reconcile and submit assets to a marketplace",
	Long: `Runs the submission pipeline against one marketplace: discovers which
assets finished processing remotely, resolves their release documents and
saves (or submits for review) their metadata. Without --asset it covers
every asset not yet submitted to that marketplace.`,
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

		adapter, err := newAdapter(cfg, submitMarketplace, logg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		assets, err := loadBatch(ctx, lib, adapter.Name())
		if err != nil {
			return err
		}
		if len(assets) == 0 {
			logg.Info("Nothing to submit", zap.String("marketplace", adapter.Name()))
			return nil
		}

		engine := submit.NewEngine(
			adapter,
			lib.Host(adapter.Name()),
			nil,
			logg,
			submit.OptionsFromConfig(cfg.Submit, submitForReview),
		)

		report, runErr := engine.Run(ctx, assets)
		if runErr != nil {
			logg.Warn("Run ended with authentication failure", zap.Error(runErr))
		}

		runID, err := lib.SaveRun(ctx, report)
		if err != nil {
			logg.Error("Failed to persist run report", zap.Error(err))
		} else {
			logg.Info("Run recorded", zap.String("run_id", runID))
		}

		summary := report.Summary()
		logg.Info("Run finished",
			zap.String("marketplace", report.Marketplace),
			zap.Bool("submitted", report.Submitted),
			zap.Int("done", summary.Done),
			zap.Int("failed", summary.Failed),
			zap.Int("not_found", summary.NotFound),
			zap.Int("unauthorized", summary.Unauthorized),
		)
		return nil
	},
}

// newAdapter builds the marketplace adapter named by the flag.
func newAdapter(cfg *config.Config, marketplace string, logg *zap.Logger) (submit.Adapter, error) {
	switch marketplace {
	case pond5.Name:
		return pond5.NewAdapter(cfg.Pond5, logg), nil
	case dreamstime.Name:
		return dreamstime.NewAdapter(cfg.Dreamstime, logg), nil
	default:
		return nil, fmt.Errorf("unknown marketplace: %q", marketplace)
	}
}

// loadBatch loads the requested assets, or every pending asset for the
// marketplace when no explicit ids were given.
func loadBatch(ctx context.Context, lib *library.Library, marketplace string) ([]*asset.Asset, error) {
	if len(submitAssetIDs) == 0 {
		return lib.PendingAssets(ctx, marketplace)
	}
	var assets []*asset.Asset
	for _, id := range submitAssetIDs {
		a, err := lib.LoadAsset(ctx, id)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}

func init() {
	submitCmd.Flags().StringVarP(&submitMarketplace, "marketplace", "m", "", "target marketplace (pond5, dreamstime)")
	submitCmd.Flags().BoolVar(&submitForReview, "submit", false, "submit saved items for review instead of only saving")
	submitCmd.Flags().StringSliceVar(&submitAssetIDs, "asset", nil, "asset id to include (repeatable; default: all pending)")
	_ = submitCmd.MarkFlagRequired("marketplace")
	RootCmd.AddCommand(submitCmd)
}
