package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/julianbeese/luxury_estate/internal/cache"
	"github.com/julianbeese/luxury_estate/internal/catalog"
	"github.com/julianbeese/luxury_estate/internal/config"
	"github.com/julianbeese/luxury_estate/internal/domain"
	"github.com/julianbeese/luxury_estate/internal/filter"
	"github.com/julianbeese/luxury_estate/internal/httpapi"
	"github.com/julianbeese/luxury_estate/internal/leads"
	"github.com/julianbeese/luxury_estate/internal/listing"
	"github.com/julianbeese/luxury_estate/internal/logging"
	"github.com/julianbeese/luxury_estate/internal/messenger"
	"github.com/julianbeese/luxury_estate/internal/notifier/telegram"
	"github.com/julianbeese/luxury_estate/internal/paging"
	"github.com/julianbeese/luxury_estate/internal/ratelimit"
	"github.com/julianbeese/luxury_estate/internal/repository/sqlite"
)

func main() {
	// Load .env file if present (ignores error if not found)
	_ = godotenv.Load()
	_ = godotenv.Load("deployments/.env")

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	seed := flag.Bool("seed", false, "Seed the sqlite catalog from the embedded data and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Log.Format, cfg.Log.Level)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"addr", cfg.HTTP.Addr,
		"catalog_source", cfg.Catalog.Source,
		"page_size", cfg.Listing.PageSize,
		"strict_mode", cfg.StrictMode,
		"redis_enabled", cfg.Redis.Enabled(),
		"telegram_enabled", cfg.TelegramActive(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var listingCache cache.Cache = cache.Noop{}
	if cfg.Redis.Enabled() {
		rc, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, listing cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer rc.Close()
			listingCache = rc
			logger.Info("listing cache connected", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}
	}

	if *seed {
		if err := seedDatabase(ctx, cfg, listingCache, logger); err != nil {
			logger.Error("seed failed", "error", err)
			os.Exit(1)
		}
		return
	}

	cat, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load catalog", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "properties", cat.Len(), "tours", len(cat.Tours()))

	engine := filter.NewEngine(filter.WithStrict(cfg.StrictMode), filter.WithLogger(logger))
	pager := paging.New(cfg.Listing.PageSize)

	sessions := listing.NewRegistry(cat, engine, pager, cfg.Listing.SessionTTL, logger)
	sweeper := listing.NewSweeper(sessions, cfg.Listing.SweepInterval, logger)

	gen, err := messenger.NewGenerator(cfg.Leads.TemplatePath)
	if err != nil {
		logger.Error("failed to initialize acknowledgement templates", "error", err)
		os.Exit(1)
	}

	var (
		notifier      leads.Notifier = leads.NewLogNotifier(logger)
		tg            *telegram.Notifier
		botController *telegram.BotController
	)
	if cfg.TelegramActive() {
		botController, err = telegram.NewBotController(cfg.Telegram.BotToken, cfg.Telegram.ChatID, true)
		if err != nil {
			logger.Error("failed to initialize Telegram bot controller", "error", err)
			os.Exit(1)
		}
		tg = telegram.NewNotifierFromController(botController)
		notifier = tg
	}

	leadService := leads.NewService(cat, notifier, gen, ratelimit.PerMinute(cfg.Leads.MaxPerMinute), cfg.Leads.SubmitDelay, logger)

	if botController != nil {
		botController.SetCallbacks(
			func() string {
				lo, hi := cat.PriceSpan()
				return fmt.Sprintf("<b>Properties:</b> %d (%s to %s)\n<b>Open sessions:</b> %d", cat.Len(), lo, hi, sessions.Len())
			},
			func() string {
				counts := leadService.Counts()
				return fmt.Sprintf(`📊 <b>Leads</b>

<b>Contact:</b> %d
<b>Inquiries:</b> %d
<b>Tour bookings:</b> %d`, counts[domain.LeadContact], counts[domain.LeadInquiry], counts[domain.LeadTourBooking])
			},
		)
	}

	api := httpapi.NewServer(httpapi.Deps{
		Catalog:        cat,
		Engine:         engine,
		Pager:          pager,
		Sessions:       sessions,
		Leads:          leadService,
		Cache:          listingCache,
		CacheTTL:       cfg.Redis.TTL,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		TrustProxy:     cfg.HTTP.TrustProxy,
		Logger:         logger,
	})
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if cfg.Listing.SessionTTL > 0 {
		if err := sweeper.Start(ctx); err != nil {
			logger.Error("session sweeper failed to start", "error", err)
			os.Exit(1)
		}
	}

	if botController != nil {
		botController.StartCommandListener(ctx)
		logger.Info("Telegram command listener started")
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if tg != nil {
		if err := tg.NotifyStartup(ctx, cat.Len(), len(cat.Tours()), cfg.HTTP.Addr); err != nil {
			logger.Warn("startup notification failed", "error", err)
		}
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Error("http server failed", "error", err)
			if tg != nil {
				_ = tg.NotifyError(context.Background(), err.Error())
			}
			cancel()
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	sweeper.Stop()
	if tg != nil {
		_ = tg.SendRawMessage(context.Background(), "🛑 <b>LuxuryEstate stopped</b>")
	}
	logger.Info("shutdown complete")
}

// loadCatalog builds the in-memory catalog from the configured source
func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	switch cfg.Catalog.Source {
	case config.SourceFile:
		return catalog.LoadFile(cfg.Catalog.Path)
	case config.SourceSQLite:
		repo, err := openRepository(cfg, logger)
		if err != nil {
			return nil, err
		}
		defer repo.Close()

		props, err := repo.ListProperties(ctx)
		if err != nil {
			return nil, err
		}
		if len(props) == 0 {
			logger.Warn("sqlite catalog is empty, run with -seed to load the bundled listings", "path", cfg.DatabasePath)
		}
		tours, err := repo.ListTours(ctx)
		if err != nil {
			return nil, err
		}
		return catalog.New(props, tours)
	default:
		return catalog.Embedded()
	}
}

// seedDatabase replaces the sqlite catalog with the embedded data and
// drops cached listing pages
func seedDatabase(ctx context.Context, cfg *config.Config, c cache.Cache, logger *slog.Logger) error {
	doc, err := catalog.EmbeddedDocument()
	if err != nil {
		return err
	}
	repo, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.SeedCatalog(ctx, doc.Properties, doc.Tours); err != nil {
		return err
	}
	stored, err := repo.CountProperties(ctx)
	if err != nil {
		return err
	}
	n, err := c.Invalidate(ctx, httpapi.ListingCachePrefix)
	if err != nil {
		logger.Warn("listing cache invalidation failed", "error", err)
	}
	logger.Info("catalog seeded", "properties", stored, "tours", len(doc.Tours), "invalidated", n)
	return nil
}

func openRepository(cfg *config.Config, logger *slog.Logger) (*sqlite.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	repo, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	logger.Info("database initialized", "path", cfg.DatabasePath)
	return repo, nil
}
