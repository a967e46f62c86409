package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
)

const (
	DefaultFeatureCount        = 4
	DefaultFeatureInterval     = 4 * time.Second
	DefaultTestimonialCount    = 3
	DefaultTestimonialInterval = 5 * time.Second
	DefaultStatsDuration       = 2 * time.Second
	DefaultTooltipDelay        = 5 * time.Second
)

type StatTarget struct {
	Name   string
	Target int
}

// DefaultStatTargets are the landing page figures animated on start.
func DefaultStatTargets() []StatTarget {
	return []StatTarget{
		{Name: "papers", Target: 50000},
		{Name: "researchers", Target: 15000},
		{Name: "journals", Target: 2500},
		{Name: "success", Target: 98},
	}
}

type StatValue struct {
	Name   string
	Value  int
	Target int
	Done   bool
}

type CoreDeps struct {
	Endpoint  ports.SearchEndpoint
	Snapshots ports.SnapshotStore
	Clock     ports.Clock
	Logger    *log.Logger
}

// CoreConfig carries everything the core would otherwise read from ambient
// UI state. Zero durations and counts fall back to the defaults.
type CoreConfig struct {
	Identity domain.Identity
	Theme    domain.Theme

	Search        SearchOptions
	Notifications NotificationOptions

	FeatureCount        int
	FeatureInterval     time.Duration
	TestimonialCount    int
	TestimonialInterval time.Duration

	StatTargets   []StatTarget
	StatsDuration time.Duration
	StatsSteps    int

	TooltipDelay time.Duration
}

func DefaultCoreConfig() CoreConfig {
	return CoreConfig{
		Theme:               domain.ThemeDark,
		Search:              SearchOptions{Debounce: DefaultSearchDebounce, CacheTTL: DefaultSearchCacheTTL, CacheSize: DefaultSearchCacheSize},
		Notifications:       NotificationOptions{Capacity: DefaultNotificationCapacity, AutoDismiss: DefaultNotificationAutoDismiss, NewestOnTop: true},
		FeatureCount:        DefaultFeatureCount,
		FeatureInterval:     DefaultFeatureInterval,
		TestimonialCount:    DefaultTestimonialCount,
		TestimonialInterval: DefaultTestimonialInterval,
		StatTargets:         DefaultStatTargets(),
		StatsDuration:       DefaultStatsDuration,
		StatsSteps:          domain.DefaultCounterSteps,
		TooltipDelay:        DefaultTooltipDelay,
	}
}

func (c CoreConfig) withDefaults() CoreConfig {
	defaults := DefaultCoreConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.FeatureCount <= 0 {
		c.FeatureCount = defaults.FeatureCount
	}
	if c.FeatureInterval <= 0 {
		c.FeatureInterval = defaults.FeatureInterval
	}
	if c.TestimonialCount <= 0 {
		c.TestimonialCount = defaults.TestimonialCount
	}
	if c.TestimonialInterval <= 0 {
		c.TestimonialInterval = defaults.TestimonialInterval
	}
	if c.StatTargets == nil {
		c.StatTargets = defaults.StatTargets
	}
	if c.StatsDuration <= 0 {
		c.StatsDuration = defaults.StatsDuration
	}
	if c.StatsSteps <= 0 {
		c.StatsSteps = defaults.StatsSteps
	}
	if c.TooltipDelay <= 0 {
		c.TooltipDelay = defaults.TooltipDelay
	}
	return c
}

type namedCounter struct {
	name    string
	counter *EasedCounter
}

// Core wires one instance of every component for a single session.
type Core struct {
	identity domain.Identity
	theme    domain.Theme
	logger   *log.Logger

	search        *SearchController
	watchlist     *WatchlistStore
	notifications *NotificationQueue
	features      *Rotation
	testimonials  *Rotation
	counters      []namedCounter
	tooltip       *Debouncer

	unbridge func()

	mu             sync.Mutex
	tooltipVisible bool
	hydrateErr     error
	closed         bool
}

func NewCore(ctx context.Context, deps CoreDeps, cfg CoreConfig) (*Core, error) {
	if deps.Endpoint == nil {
		return nil, errors.New("search endpoint is required")
	}
	if deps.Snapshots == nil {
		return nil, errors.New("snapshot store is required")
	}
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	logger := discardLogger(deps.Logger)
	cfg = cfg.withDefaults()

	searchOpts := cfg.Search
	searchOpts.Logger = logger
	search, err := NewSearchController(deps.Endpoint, deps.Clock, searchOpts)
	if err != nil {
		return nil, err
	}

	notifyOpts := cfg.Notifications
	notifyOpts.Logger = logger

	c := &Core{
		identity:       cfg.Identity,
		theme:          cfg.Theme,
		logger:         logger,
		search:         search,
		watchlist:      NewWatchlistStore(deps.Snapshots, domain.WatchlistKey(cfg.Identity), logger),
		notifications:  NewNotificationQueue(deps.Clock, notifyOpts),
		tooltip:        NewDebouncer(deps.Clock, cfg.TooltipDelay),
		tooltipVisible: true,
	}
	c.unbridge = c.watchlist.Subscribe(c.bridgeWatchlistEvent)

	if err := c.watchlist.Hydrate(ctx); err != nil {
		c.hydrateErr = err
		logger.Printf("core: watchlist degraded to empty: %v", err)
		c.notifications.Enqueue(domain.Notification{
			Kind:    domain.NotificationWarning,
			Title:   "Watchlist unavailable",
			Message: "Saved journals could not be loaded, starting with an empty list",
		})
	}

	if err := c.startTimers(deps.Clock, cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Core) startTimers(clock ports.Clock, cfg CoreConfig) error {
	features, err := StartRotation(clock, cfg.FeatureCount, cfg.FeatureInterval)
	if err != nil {
		return fmt.Errorf("start feature rotation: %w", err)
	}
	c.features = features

	testimonials, err := StartRotation(clock, cfg.TestimonialCount, cfg.TestimonialInterval)
	if err != nil {
		return fmt.Errorf("start testimonial rotation: %w", err)
	}
	c.testimonials = testimonials

	for _, stat := range cfg.StatTargets {
		counter, err := StartEasedCounter(clock, stat.Target, cfg.StatsDuration, cfg.StatsSteps)
		if err != nil {
			return fmt.Errorf("start %s counter: %w", stat.Name, err)
		}
		c.counters = append(c.counters, namedCounter{name: stat.Name, counter: counter})
	}

	c.tooltip.Trigger(c.HideTooltip)
	return nil
}

func (c *Core) bridgeWatchlistEvent(event WatchlistEvent) {
	var n domain.Notification
	switch event.Kind {
	case WatchlistAdded:
		n = domain.Notification{
			Kind:    domain.NotificationSuccess,
			Title:   fmt.Sprintf("%s added to watchlist", event.Item.Name),
			Message: "You can find it in your watchlist section",
		}
	case WatchlistAlreadyPresent:
		n = domain.Notification{
			Kind:    domain.NotificationWarning,
			Title:   fmt.Sprintf("%s is already in watchlist", event.Item.Name),
			Message: "This journal is already saved in your list",
		}
	case WatchlistRemoved:
		n = domain.Notification{
			Kind:  domain.NotificationInfo,
			Title: fmt.Sprintf("%s removed from watchlist", event.Item.Name),
		}
	case WatchlistPersistFailed:
		n = domain.Notification{
			Kind:    domain.NotificationError,
			Title:   "Watchlist not saved",
			Message: "Your change could not be saved, please try again",
		}
	default:
		return
	}
	c.notifications.Enqueue(n)
}

func (c *Core) Search() *SearchController {
	return c.search
}

func (c *Core) Watchlist() *WatchlistStore {
	return c.watchlist
}

func (c *Core) Notifications() *NotificationQueue {
	return c.notifications
}

func (c *Core) Features() *Rotation {
	return c.features
}

func (c *Core) Testimonials() *Rotation {
	return c.testimonials
}

func (c *Core) Identity() domain.Identity {
	return c.identity
}

func (c *Core) Theme() domain.Theme {
	return c.theme
}

// HydrationError reports why the watchlist started empty, if it did.
func (c *Core) HydrationError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hydrateErr
}

func (c *Core) AddToWatchlist(ctx context.Context, item domain.WatchlistItem) (bool, error) {
	return c.watchlist.Add(ctx, item)
}

func (c *Core) RemoveFromWatchlist(ctx context.Context, id domain.ItemID) (bool, error) {
	return c.watchlist.Remove(ctx, id)
}

func (c *Core) Affordance() domain.Affordance {
	return c.identity.Affordance()
}

// WatchlistBadge returns the count to show next to the watchlist link. Guests
// and empty lists get no badge.
func (c *Core) WatchlistBadge() (int, bool) {
	if !c.identity.Authenticated() {
		return 0, false
	}
	n := c.watchlist.Len()
	return n, n > 0
}

func (c *Core) TooltipVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tooltipVisible
}

func (c *Core) HideTooltip() {
	c.tooltip.Cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tooltipVisible = false
}

func (c *Core) Stats() []StatValue {
	out := make([]StatValue, 0, len(c.counters))
	for _, nc := range c.counters {
		state := nc.counter.State()
		out = append(out, StatValue{Name: nc.name, Value: state.Value, Target: state.Target, Done: state.Done})
	}
	return out
}

// Close disposes every component. Safe to call more than once.
func (c *Core) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	if c.unbridge != nil {
		c.unbridge()
	}
	c.tooltip.Cancel()
	c.search.Close()
	c.notifications.Close()
	if c.features != nil {
		c.features.Cancel()
	}
	if c.testimonials != nil {
		c.testimonials.Cancel()
	}
	for _, nc := range c.counters {
		nc.counter.Cancel()
	}
}
