// Command creditlens summarizes a credit-card statement by category and
// serves it as a local dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"creditlens/internal/backend"
	"creditlens/internal/cli"
	"creditlens/internal/config"
	apphttp "creditlens/internal/http"
	"creditlens/internal/log"
	"creditlens/internal/metrics"
	"creditlens/internal/services"
)

type options struct {
	host      string
	port      int
	noBrowser bool
	logLevel  string
	jsonOut   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "creditlens <statement>",
		Short: "Explore a credit-card statement in the browser",
		Long: `creditlens reads a credit-card statement (.xlsx, .xls, .csv or a
gsheet://<spreadsheet-id>/<tab> reference), totals it by category, compares
it with the other statements next to it and serves the result as a local
dashboard.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, opts, args[0])
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL or info)")
	root.Flags().StringVar(&opts.host, "host", "", "Listen host (default from HOST or 127.0.0.1)")
	root.Flags().IntVar(&opts.port, "port", 0, "Listen port (default from PORT or 8050)")
	root.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "Do not open the dashboard in a browser")

	root.AddCommand(newSummaryCmd(opts))
	return root
}

// setup loads .env and the environment, applies flags that were set
// explicitly and builds the logger.
func setup(cmd *cobra.Command, opts *options) (*config.Config, *log.Logger, error) {
	if err := cli.LoadEnvFile(); err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	cfg, err := cli.LoadAndValidateConfig(func(c *config.Config) {
		if flags.Changed("host") {
			c.Host = opts.host
		}
		if flags.Changed("port") {
			c.Port = opts.port
		}
		if flags.Changed("no-browser") && opts.noBrowser {
			c.OpenBrowser = false
		}
		if flags.Changed("log-level") {
			c.LogLevel = opts.logLevel
		}
	})
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.SetupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func buildReport(ctx context.Context, cfg *config.Config, logger *log.Logger, m *metrics.Recorder, ref string) (*services.Report, error) {
	src, err := backend.NewFactory(logger).CreateSource(ctx, ref)
	if err != nil {
		return nil, err
	}
	svc := services.NewReportService(src, services.Options{
		Logger:   logger,
		Metrics:  m,
		Workers:  cfg.SiblingWorkers,
		ScanRows: cfg.HeaderScanRows,
	})
	return svc.Build(ctx, ref)
}

func serve(cmd *cobra.Command, opts *options, ref string) error {
	cfg, logger, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	m := metrics.New()
	report, err := buildReport(ctx, cfg, logger, m, ref)
	if err != nil {
		return fmt.Errorf("load statement: %w", err)
	}

	srv := apphttp.NewServer(cfg.Addr(), report, apphttp.Options{
		Logger:    logger,
		Metrics:   m,
		BindHost:  cfg.Host,
		CacheSize: cfg.DetailCacheSize,
		CacheTTL:  cfg.DetailCacheTTL,
	})
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	srv.Addr = ln.Addr().String()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctx, done := cli.GracefulShutdown(ctx, logger, cfg.ShutdownTimeout, srv.Shutdown)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	logger.Info("Dashboard ready",
		"url", srv.URL(),
		log.FieldSource, ref,
		log.FieldRecords, len(report.Statement.Records),
		log.FieldSiblings, report.Baseline.Statements)
	if cfg.OpenBrowser {
		cli.OpenBrowser(logger, srv.URL())
	}

	select {
	case err := <-serveErr:
		cancel()
		<-done
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		<-done
	}
	logger.Info("Server stopped gracefully")
	return nil
}
