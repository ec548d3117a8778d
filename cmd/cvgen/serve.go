package main

import (
	"time"

	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/form"
	"github.com/jonathan/cv-generator/internal/metrics"
	"github.com/jonathan/cv-generator/internal/server"
	"github.com/jonathan/cv-generator/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the preview server",
	Long:  `Start an HTTP server that edits the working document and serves its preview and PDF.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	notifications := server.NewBroadcaster()
	s, err := openSession(cmd, form.WithNotifier(notifications))
	if err != nil {
		return err
	}

	engine, err := newEngine(s.cfg.Export.Engine, s.cfg.EngineOptions())
	if err != nil {
		return err
	}
	m := metrics.New()

	cfg := server.Config{
		Port:            s.cfg.Server.Port,
		MaxImageBytes:   s.cfg.Media.MaxImageBytes,
		ExportTimeout:   s.cfg.Export.Timeout,
		ExportRetention: s.cfg.Export.Retention,
		MaxExportJobs:   s.cfg.Export.MaxJobs,
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if rl := s.cfg.Server.RateLimit; rl.Enabled {
		cfg.RateLimit = &ratelimit.Config{
			Enabled:         true,
			CleanupInterval: 5 * time.Minute,
			Rules:           ratelimit.DefaultRules(rl.Limit, rl.Burst, rl.Window),
		}
	}

	srv := server.New(cfg, server.Deps{
		Controller:    s.ctrl,
		Exporter:      export.NewExporter(engine, s.cfg.Labels(), export.WithObserver(m)),
		Metrics:       m,
		Notifications: notifications,
	})
	return srv.Start()
}
