package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/haotianfei/frigate-exports-backup/internal/infra/config"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/frigate"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/metrics"
	"github.com/haotianfei/frigate-exports-backup/internal/usecase"
	"github.com/haotianfei/frigate-exports-backup/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run only the retention sweep of the destination directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		log, err := logger.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		loc, fellBack := cfg.Location()
		if fellBack {
			log.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone))
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		api := frigate.NewClient(cfg.FrigateAPIURL, cfg.FallbackCameras, cfg.HTTPTimeout(), log)
		archiver := usecase.NewArchiver(api, nil, nil, nil, nil, log, usecase.Settings{
			SourceDir:     cfg.SourcePath,
			DestDir:       cfg.DestPath,
			RetentionDays: cfg.ExportRetentionDays,
			Location:      loc,
		})

		_, err = archiver.SweepRetention(ctx, time.Now())
		metrics.PushToGateway(cfg.PushgatewayURL, log)
		return err
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
