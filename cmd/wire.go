package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"

	catalogtoml "github.com/bnema/academix-cli/internal/adapters/catalog/toml"
	chainstore "github.com/bnema/academix-cli/internal/adapters/kv/chain"
	filestore "github.com/bnema/academix-cli/internal/adapters/kv/file"
	sqlitestore "github.com/bnema/academix-cli/internal/adapters/kv/sqlite"
	watchlistrender "github.com/bnema/academix-cli/internal/adapters/render/watchlist"
	searchhttp "github.com/bnema/academix-cli/internal/adapters/search/http"
	"github.com/bnema/academix-cli/internal/adapters/tui/browse"
	"github.com/bnema/academix-cli/internal/application"
	"github.com/bnema/academix-cli/internal/config"
	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
	"github.com/spf13/viper"
)

const (
	sqliteFileName   = "state.db"
	snapshotsDirName = "snapshots"
)

type app struct {
	cfg               config.Config
	catalog           *catalogtoml.Catalog
	endpoint          ports.SearchEndpoint
	openSnapshots     func(ctx context.Context) (ports.SnapshotStore, func() error, error)
	watchlistRenderer func([]domain.WatchlistItem, watchlistrender.RenderOptions) (string, error)
	matchesRenderer   func(string, []domain.Match, func(domain.ItemID) bool, watchlistrender.RenderOptions) (string, error)
	clock             ports.Clock
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	catalog, err := catalogtoml.NewCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("wire journal catalog: %w", err)
	}

	var endpoint ports.SearchEndpoint = catalog
	if cfg.Search.Endpoint != "" {
		endpoint = searchhttp.Client{
			Endpoint:       cfg.Search.Endpoint,
			RequestTimeout: cfg.Search.Timeout,
		}
	}

	return &app{
		cfg:               cfg,
		catalog:           catalog,
		endpoint:          endpoint,
		openSnapshots:     snapshotOpener(cfg.Storage),
		watchlistRenderer: watchlistrender.RenderWatchlist,
		matchesRenderer:   watchlistrender.RenderMatches,
		clock:             ports.SystemClock{},
	}, nil
}

// snapshotOpener defers opening storage until a command needs the watchlist.
func snapshotOpener(storage config.Storage) func(ctx context.Context) (ports.SnapshotStore, func() error, error) {
	return func(ctx context.Context) (ports.SnapshotStore, func() error, error) {
		files := filestore.NewStore(filepath.Join(storage.Path, snapshotsDirName))
		if storage.Backend == config.BackendFile {
			return files, noopClose, nil
		}

		db, err := sqlitestore.Open(ctx, filepath.Join(storage.Path, sqliteFileName), nil)
		if err != nil {
			return nil, nil, fmt.Errorf("open snapshot database: %w", err)
		}
		if storage.Backend == config.BackendSQLite {
			return db, db.Close, nil
		}

		chain, err := chainstore.NewStore(db, files)
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("wire snapshot store chain: %w", err), db.Close())
		}
		return chain, db.Close, nil
	}
}

func noopClose() error { return nil }

// session is one running core plus the storage it was opened with.
type session struct {
	core  *application.Core
	close func() error
}

func (s *session) Close() error {
	s.core.Close()
	return s.close()
}

func (a *app) coreConfig() application.CoreConfig {
	cfg := application.DefaultCoreConfig()
	cfg.Identity = a.cfg.Identity()
	cfg.Theme = a.cfg.UI.Theme
	cfg.Search = application.SearchOptions{
		Debounce:  a.cfg.Search.Debounce,
		CacheTTL:  a.cfg.Search.CacheTTL,
		CacheSize: a.cfg.Search.CacheSize,
	}
	cfg.Notifications = application.NotificationOptions{
		Capacity:    a.cfg.Notifications.Capacity,
		AutoDismiss: a.cfg.Notifications.AutoDismiss,
		NewestOnTop: a.cfg.Notifications.NewestOnTop,
	}
	cfg.FeatureCount = browse.FeatureCount()
	cfg.FeatureInterval = a.cfg.Carousel.FeaturesInterval
	cfg.TestimonialCount = browse.TestimonialCount()
	cfg.TestimonialInterval = a.cfg.Carousel.TestimonialsInterval
	cfg.StatsDuration = a.cfg.Stats.Duration
	cfg.StatsSteps = a.cfg.Stats.Steps
	cfg.TooltipDelay = a.cfg.Tooltip.Delay
	return cfg
}

func (a *app) openSession(ctx context.Context, logOutput io.Writer) (*session, error) {
	snapshots, closeSnapshots, err := a.openSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	core, err := application.NewCore(ctx, application.CoreDeps{
		Endpoint:  a.endpoint,
		Snapshots: snapshots,
		Clock:     a.clock,
		Logger:    log.New(logOutput, "ax: ", 0),
	}, a.coreConfig())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("start core: %w", err), closeSnapshots())
	}

	return &session{core: core, close: closeSnapshots}, nil
}

func (a *app) renderOptions() watchlistrender.RenderOptions {
	return watchlistrender.RenderOptions{Theme: a.cfg.UI.Theme}
}
