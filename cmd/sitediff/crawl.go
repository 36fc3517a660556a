package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/sitediff/internal/config"
	"github.com/nao1215/sitediff/internal/crawler"
	"github.com/nao1215/sitediff/internal/database"
	"github.com/nao1215/sitediff/internal/log"
	"github.com/nao1215/sitediff/internal/report"
	"github.com/nao1215/sitediff/internal/snapshot"
	"github.com/nao1215/sitediff/internal/transport"
	"github.com/spf13/cobra"
)

// captureHTMLExt is the extension of the page streamed next to a capture file.
const captureHTMLExt = ".html"

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <domain>",
		Short: "Crawl a site and write a capture snapshot",
		Long: `Crawl visits every page, stylesheet, script and image reachable from the
start page of a domain and records one line per resource:

  Type  URL  Status_Code  Size  Height

Links leaving the domain are never followed, and URLs containing a
denylisted substring (.php, /wp-json/, /wp-admin/ and any configured
entries) are skipped.

The snapshot is written to <dir>/<domain>-capture-<timestamp>.txt as the
crawl progresses, together with an HTML page of the same name. When the
crawl is interrupted the file keeps everything recorded so far.

Examples:
  # Crawl a site with the careful profile (500-3000ms between requests)
  sitediff crawl example.com

  # Crawl a local development server quickly
  sitediff crawl http://localhost:8080 --profile fast

  # Stop after 200 resources
  sitediff crawl example.com --max-pages 200

  # Route requests through a SOCKS5 proxy
  sitediff crawl example.com --proxy 127.0.0.1:1080`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("profile", "p", config.DefaultProfileName,
		"Politeness profile ("+strings.Join(config.ProfileNames(), ", ")+")")
	cmd.Flags().StringP("dir", "d", config.DefaultCaptureDir,
		"Directory for capture snapshots")
	cmd.Flags().IntP("max-pages", "m", config.DefaultMaxPages,
		"Maximum number of resources to record (0 means no limit)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (host:port)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().StringP("config", "c", "",
		"Path to configuration file (default: .sitediff, then XDG config)")
	cmd.Flags().Bool("no-catalog", false,
		"Do not record the crawl in the snapshot catalog")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory holding the snapshot catalog")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, stopping crawl")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCrawlConfig creates a Config from the defaults, the configuration
// file and the command flags, in increasing order of precedence.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	target, domain, err := parseTarget(args[0])
	if err != nil {
		return nil, err
	}
	cfg.Target = target

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.CaptureDir, err = cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}

	noCatalog, err := cmd.Flags().GetBool("no-catalog")
	if err != nil {
		return nil, err
	}
	cfg.UseCatalog = !noCatalog

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}
	if err := cfg.ApplySite(cfg.SiteConfigs.GetSiteConfig(domain)); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", domain, err)
	}

	// Flags set on the command line override the configuration file.
	if cmd.Flags().Changed("profile") {
		name, err := cmd.Flags().GetString("profile")
		if err != nil {
			return nil, err
		}
		if cfg.Profile, err = config.ProfileByName(name); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-pages") {
		if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadSiteConfigs fills cfg.SiteConfigs.
// An explicitly requested file must exist; otherwise a missing file means
// an empty configuration.
func loadSiteConfigs(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		siteConfigs, err := config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.SiteConfigs = siteConfigs
	case explicitConfigPath:
		return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}
	return nil
}

// parseTarget turns a crawl argument into a start URL and the host it is
// scoped to. A bare domain gets the default scheme.
func parseTarget(arg string) (string, string, error) {
	raw := strings.TrimSpace(arg)
	if raw == "" {
		return "", "", config.ErrNoTarget
	}
	if !strings.Contains(raw, "://") {
		raw = config.DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid domain %q: %w", arg, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", fmt.Errorf("invalid domain %q: unsupported scheme %q", arg, u.Scheme)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("invalid domain %q: missing host", arg)
	}
	return u.String(), u.Host, nil
}

// crawlOutputs are the recorders a crawl writes to.
type crawlOutputs struct {
	capture *snapshot.Writer
	page    *report.CaptureHTML
	pageDst string

	catalog    *database.Catalog
	snapshotID int64
}

// openCrawlOutputs creates the capture file, its HTML page and, when
// enabled, the catalog entry.
func openCrawlOutputs(ctx context.Context, cfg *config.Config, domain string, started time.Time) (*crawlOutputs, error) {
	capture, err := snapshot.Create(cfg.CaptureDir, domain, started)
	if err != nil {
		return nil, err
	}
	outputs := &crawlOutputs{capture: capture}

	outputs.pageDst = strings.TrimSuffix(capture.Path(), snapshot.FileExt) + captureHTMLExt
	f, err := os.OpenFile(outputs.pageDst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		outputs.close()
		return nil, fmt.Errorf("failed to create capture page: %w", err)
	}
	outputs.page, err = report.NewCaptureHTML(f, domain, started)
	if err != nil {
		_ = f.Close()
		outputs.close()
		return nil, err
	}

	if !cfg.UseCatalog {
		return outputs, nil
	}

	outputs.catalog, err = database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		outputs.close()
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	outputs.snapshotID, err = outputs.catalog.BeginSnapshot(ctx, database.SnapshotMeta{
		Domain:      domain,
		StartedAt:   started,
		Profile:     cfg.Profile.Name,
		CapturePath: capture.Path(),
	})
	if err != nil {
		outputs.close()
		return nil, err
	}
	return outputs, nil
}

// recorder fans every record out to all outputs. Catalog inserts outlive
// ctx so that an interrupted crawl keeps its rows.
func (o *crawlOutputs) recorder(ctx context.Context) crawler.Recorder {
	recorders := crawler.MultiRecorder{o.capture, o.page}
	if o.catalog != nil {
		recorders = append(recorders, o.catalog.Recorder(context.WithoutCancel(ctx), o.snapshotID))
	}
	return recorders
}

// close flushes and closes every output. It is safe to call more than once.
func (o *crawlOutputs) close() error {
	var errs []error
	if o.capture != nil {
		errs = append(errs, o.capture.Close())
	}
	if o.page != nil {
		errs = append(errs, o.page.Close())
	}
	if o.catalog != nil {
		errs = append(errs, o.catalog.Close())
		o.catalog = nil
	}
	return errors.Join(errs...)
}

// runCrawl crawls cfg.Target and reports what was written to out.
func runCrawl(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	_, domain, err := parseTarget(cfg.Target)
	if err != nil {
		return err
	}

	client, err := transport.NewHTTPClient(transport.Options{
		Timeout:      cfg.Timeout,
		ProxyAddress: cfg.ProxyAddress,
		UserAgent:    cfg.UserAgent,
		Headers:      cfg.Headers,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	started := time.Now()
	outputs, err := openCrawlOutputs(ctx, cfg, domain, started)
	if err != nil {
		return err
	}
	defer outputs.close() //nolint:errcheck // closed explicitly below

	logger.Info("starting crawl",
		"url", cfg.Target,
		"profile", cfg.Profile.String(),
		"max_pages", cfg.MaxPages,
		"capture", outputs.capture.Path(),
	)

	spider := crawler.NewSpider(client,
		crawler.WithDenylist(cfg.Denylist),
		crawler.WithDelayer(crawler.NewRandomDelay(cfg.Profile.MinDelay, cfg.Profile.MaxDelay)),
		crawler.WithRecorder(outputs.recorder(ctx)),
		crawler.WithLogger(logger),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithMaxPages(cfg.MaxPages),
	)

	records, crawlErr := spider.Crawl(ctx, cfg.Target)

	if crawlErr == nil && outputs.catalog != nil {
		if err := outputs.catalog.FinishSnapshot(ctx, outputs.snapshotID, time.Now()); err != nil {
			crawlErr = err
		}
	}
	snapshotID := outputs.snapshotID
	withCatalog := outputs.catalog != nil
	closeErr := outputs.close()

	stats := spider.Stats()
	fmt.Fprintf(out, "Crawled %s: %d resources recorded, %d failed, %d skipped by denylist (%s)\n",
		domain, len(records), stats.Failed, stats.Denylisted, time.Since(started).Round(time.Millisecond))
	fmt.Fprintf(out, "  capture: %s\n", outputs.capture.Path())
	fmt.Fprintf(out, "  page:    %s\n", outputs.pageDst)
	if withCatalog {
		fmt.Fprintf(out, "  catalog: %s\n", database.SnapshotRef(snapshotID))
	}
	if crawlErr == nil && stats.Queued > 0 {
		fmt.Fprintf(out, "  page limit of %d reached with %d queued links left\n", cfg.MaxPages, stats.Queued)
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl of %s stopped after %d resources: %w", domain, len(records), crawlErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to finalize capture: %w", closeErr)
	}
	return nil
}
