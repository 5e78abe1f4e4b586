package cmd

import (
	"errors"
	"log"

	"stock-submitter/core/config"
	"stock-submitter/core/logger"
	"stock-submitter/core/submit"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkAuthMarketplace string

// checkAuthCmd represents the check-auth command
var checkAuthCmd = &cobra.Command{
	Use:   "check-auth",
	Short: "Probe whether a marketplace session is still valid",
	Long: `Performs a single listing call against the marketplace and reports
whether the configured session cookie (and security token, where the site
requires one) is still accepted, without touching any asset.`,
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

		adapter, err := newAdapter(cfg, checkAuthMarketplace, logg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		_, err = adapter.ListUploadHistory(ctx)
		if errors.Is(err, submit.ErrHistoryUnavailable) {
			_, err = adapter.ListUploads(ctx, adapter.Traits().FirstPage)
		}

		switch {
		case err == nil:
			logg.Info("Session is valid", zap.String("marketplace", adapter.Name()))
		case submit.IsAuth(err):
			logg.Warn("Session rejected by bot challenge",
				zap.String("marketplace", adapter.Name()),
				zap.Error(err),
			)
		default:
			logg.Warn("Session check failed",
				zap.String("marketplace", adapter.Name()),
				zap.Error(err),
			)
		}
		return nil
	},
}

func init() {
	checkAuthCmd.Flags().StringVarP(&checkAuthMarketplace, "marketplace", "m", "", "target marketplace (pond5, dreamstime)")
	_ = checkAuthCmd.MarkFlagRequired("marketplace")
	RootCmd.AddCommand(checkAuthCmd)
}
