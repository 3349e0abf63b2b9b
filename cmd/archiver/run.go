package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/haotianfei/frigate-exports-backup/internal/domain/port"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/config"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/email"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/frigate"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/metrics"
	miniostore "github.com/haotianfei/frigate-exports-backup/internal/infra/minio"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/postgres"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/rabbitmq"
	"github.com/haotianfei/frigate-exports-backup/internal/infra/tracing"
	"github.com/haotianfei/frigate-exports-backup/internal/usecase"
	"github.com/haotianfei/frigate-exports-backup/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runCameras   []string
	runDate      string
	runStartHour int
	runEndHour   int
	runMaxWait   int
	runSkipSweep bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Export, track, relocate and sweep in one pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if runMaxWait > 0 {
			cfg.MaxWaitSeconds = runMaxWait
		}

		log, err := logger.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		defer log.Sync()

		loc, fellBack := cfg.Location()
		if fellBack {
			log.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Timezone))
		} else {
			log.Info("timezone set", zap.String("timezone", cfg.Timezone))
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.OTLPEndpoint != "" {
			tp, err := tracing.InitTracer(ctx, cfg.OTLPEndpoint)
			if err != nil {
				log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
			} else {
				defer tp.Shutdown(context.Background())
			}
		}

		var runs port.RunRepository
		if cfg.DatabaseURL != "" {
			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				log.Warn("run-history database unavailable, continuing without it", zap.Error(err))
			} else {
				defer pool.Close()
				if err := postgres.EnsureSchema(ctx, pool); err != nil {
					log.Warn("run-history schema check failed", zap.Error(err))
				} else {
					runs = postgres.NewRunRepository(pool)
				}
			}
		}

		var publisher port.StatusPublisher
		if cfg.RabbitMQURL != "" {
			conn, err := amqp.Dial(cfg.RabbitMQURL)
			if err != nil {
				log.Warn("rabbitmq unavailable, continuing without status events", zap.Error(err))
			} else {
				defer conn.Close()
				pub, err := rabbitmq.NewStatusPublisher(conn, cfg.RabbitMQExchange)
				if err != nil {
					log.Warn("status publisher init failed", zap.Error(err))
				} else {
					publisher = pub
				}
			}
		}

		var offsite port.OffsiteStore
		if cfg.MinIOEndpoint != "" {
			store, err := miniostore.NewOffsiteStore(miniostore.StorageConfig{
				Endpoint:  cfg.MinIOEndpoint,
				AccessKey: cfg.MinIOAccessKey,
				SecretKey: cfg.MinIOSecretKey,
				UseSSL:    cfg.MinIOUseSSL,
				Bucket:    cfg.MinIOBucket,
			})
			if err != nil {
				log.Warn("offsite store init failed, continuing without mirroring", zap.Error(err))
			} else if err := store.EnsureBucket(ctx); err != nil {
				log.Warn("offsite bucket check failed, continuing without mirroring", zap.Error(err))
			} else {
				offsite = store
			}
		}

		var notifier port.UnresolvedNotifier
		if cfg.SMTPHost != "" && cfg.NotificationTo != "" {
			notifier = email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.NotificationTo, log)
		}

		api := frigate.NewClient(cfg.FrigateAPIURL, cfg.FallbackCameras, cfg.HTTPTimeout(), log)

		archiver := usecase.NewArchiver(api, runs, notifier, publisher, offsite, log, usecase.Settings{
			SourceDir:     cfg.SourcePath,
			DestDir:       cfg.DestPath,
			RetentionDays: cfg.ExportRetentionDays,
			DaysAgo:       cfg.ExportDaysAgo,
			PollInterval:  cfg.PollInterval(),
			MaxWait:       cfg.MaxWait(),
			Location:      loc,
		})

		_, err = archiver.Run(ctx, usecase.RunOptions{
			Cameras:   runCameras,
			Date:      runDate,
			StartHour: runStartHour,
			EndHour:   runEndHour,
			SkipSweep: runSkipSweep,
		})
		metrics.PushToGateway(cfg.PushgatewayURL, log)
		return err
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runCameras, "cameras", nil, "cameras to export (default: discover from Frigate)")
	runCmd.Flags().StringVar(&runDate, "date", "", "target date YYYY-MM-DD (default: configured days ago)")
	runCmd.Flags().IntVar(&runStartHour, "start-hour", 0, "export window start hour (0-23)")
	runCmd.Flags().IntVar(&runEndHour, "end-hour", 23, "export window end hour (0-23)")
	runCmd.Flags().IntVar(&runMaxWait, "max-wait", 0, "max seconds to wait for export completion (default: MAX_WAIT_SECONDS)")
	runCmd.Flags().BoolVar(&runSkipSweep, "skip-sweep", false, "skip the retention sweep")
	rootCmd.AddCommand(runCmd)
}
