package main

import (
	"AdBoard/internal/api/config"
	"AdBoard/internal/pkg/cron"
	"AdBoard/internal/pkg/logger"
	"AdBoard/internal/wire"
	"context"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "Expired ad sweeper",
	Long:  "Deletes ads older than the retention window together with their stored media",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one sweep and print the report as JSON",
	RunE:  runOnce,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run sweeps on the configured cron schedule until interrupted",
	RunE:  runSchedule,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path (default ./configs/config.yaml)")
	scheduleCmd.Flags().String("cron", "", "Override sweep.schedule, six fields with seconds")
	rootCmd.AddCommand(runCmd, scheduleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (*config.Config, *wire.ApplicationContainer, func(), error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if override, _ := cmd.Flags().GetString("cron"); override != "" {
		cfg.Sweep.Schedule = override
	}
	cfg.Sweep.Enabled = true

	flush := logger.InitLogger(cfg.Log)
	app, err := wire.BuildApplication(cmd.Context(), cfg)
	if err != nil {
		flush()
		return nil, nil, nil, fmt.Errorf("failed to create application: %w", err)
	}
	return cfg, app, func() {
		_ = app.Close()
		flush()
	}, nil
}

func runOnce(cmd *cobra.Command, _ []string) error {
	cfg, app, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Sweep.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Sweep.Timeout)
		defer cancel()
	}

	report, err := app.SweepSvc.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	cfg, app, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err = cron.InitCron(app.CronMgr); err != nil {
		return fmt.Errorf("failed to start cron: %w", err)
	}
	log.Info("sweeper scheduled", "schedule", cfg.Sweep.Schedule, "ttlDays", cfg.Ads.RetentionDays)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	app.CronMgr.Stop()
	return nil
}
