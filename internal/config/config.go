package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/bnema/academix-cli/internal/domain"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".academix"
	envPrefix  = "AX"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendChain  = "chain"
)

const (
	keySearchDebounce              = "search.debounce"
	keySearchCacheTTL              = "search.cache_ttl"
	keySearchCacheSize             = "search.cache_size"
	keySearchEndpoint              = "search.endpoint"
	keySearchTimeout               = "search.timeout"
	keyNotificationsCapacity       = "notifications.capacity"
	keyNotificationsAutoDismiss    = "notifications.auto_dismiss"
	keyNotificationsNewestOnTop    = "notifications.newest_on_top"
	keyCarouselFeaturesInterval    = "carousel.features_interval"
	keyCarouselTestimonialInterval = "carousel.testimonials_interval"
	keyStatsDuration               = "stats.duration"
	keyStatsSteps                  = "stats.steps"
	keyTooltipDelay                = "tooltip.delay"
	keyStorageBackend              = "storage.backend"
	keyStoragePath                 = "storage.path"
	keyCatalogPath                 = "catalog.path"
	keySessionUser                 = "session.user"
	keyUITheme                     = "ui.theme"
)

type Config struct {
	Search        Search
	Notifications Notifications
	Carousel      Carousel
	Stats         Stats
	Tooltip       Tooltip
	Storage       Storage
	Catalog       Catalog
	Session       Session
	UI            UI
}

type Search struct {
	Debounce  time.Duration
	CacheTTL  time.Duration
	CacheSize int
	// Endpoint is the remote search URL. Empty means the local catalog.
	Endpoint string
	Timeout  time.Duration
}

type Notifications struct {
	Capacity    int
	AutoDismiss time.Duration
	NewestOnTop bool
}

type Carousel struct {
	FeaturesInterval     time.Duration
	TestimonialsInterval time.Duration
}

type Stats struct {
	Duration time.Duration
	Steps    int
}

type Tooltip struct {
	Delay time.Duration
}

type Storage struct {
	Backend string
	Path    string
}

type Catalog struct {
	Path string
}

type Session struct {
	User string
}

type UI struct {
	Theme domain.Theme
}

// Identity turns the configured session user into the identity signal.
func (c Config) Identity() domain.Identity {
	user := strings.TrimSpace(c.Session.User)
	if user == "" {
		return domain.Identity{}
	}
	return domain.Identity{User: &domain.User{ID: user, Name: user}}
}

// Dir returns ~/.academix.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir), nil
}

// Load reads ~/.academix/config.toml and AX_* environment overrides on top
// of the defaults. A missing config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	theme, err := domain.ParseTheme(v.GetString(keyUITheme))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Search: Search{
			Debounce:  v.GetDuration(keySearchDebounce),
			CacheTTL:  v.GetDuration(keySearchCacheTTL),
			CacheSize: v.GetInt(keySearchCacheSize),
			Endpoint:  strings.TrimSpace(v.GetString(keySearchEndpoint)),
			Timeout:   v.GetDuration(keySearchTimeout),
		},
		Notifications: Notifications{
			Capacity:    v.GetInt(keyNotificationsCapacity),
			AutoDismiss: v.GetDuration(keyNotificationsAutoDismiss),
			NewestOnTop: v.GetBool(keyNotificationsNewestOnTop),
		},
		Carousel: Carousel{
			FeaturesInterval:     v.GetDuration(keyCarouselFeaturesInterval),
			TestimonialsInterval: v.GetDuration(keyCarouselTestimonialInterval),
		},
		Stats: Stats{
			Duration: v.GetDuration(keyStatsDuration),
			Steps:    v.GetInt(keyStatsSteps),
		},
		Tooltip: Tooltip{Delay: v.GetDuration(keyTooltipDelay)},
		Storage: Storage{
			Backend: strings.ToLower(strings.TrimSpace(v.GetString(keyStorageBackend))),
			Path:    v.GetString(keyStoragePath),
		},
		Catalog: Catalog{Path: v.GetString(keyCatalogPath)},
		Session: Session{User: v.GetString(keySessionUser)},
		UI:      UI{Theme: theme},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(keySearchDebounce, 300*time.Millisecond)
	v.SetDefault(keySearchCacheTTL, 60*time.Second)
	v.SetDefault(keySearchCacheSize, 20)
	v.SetDefault(keySearchEndpoint, "")
	v.SetDefault(keySearchTimeout, 10*time.Second)
	v.SetDefault(keyNotificationsCapacity, 3)
	v.SetDefault(keyNotificationsAutoDismiss, 3*time.Second)
	v.SetDefault(keyNotificationsNewestOnTop, true)
	v.SetDefault(keyCarouselFeaturesInterval, 4*time.Second)
	v.SetDefault(keyCarouselTestimonialInterval, 5*time.Second)
	v.SetDefault(keyStatsDuration, 2*time.Second)
	v.SetDefault(keyStatsSteps, domain.DefaultCounterSteps)
	v.SetDefault(keyTooltipDelay, 5*time.Second)
	v.SetDefault(keyStorageBackend, BackendChain)
	v.SetDefault(keyStoragePath, dir)
	v.SetDefault(keyCatalogPath, filepath.Join(dir, "catalog.toml"))
	v.SetDefault(keySessionUser, "")
	v.SetDefault(keyUITheme, string(domain.ThemeDark))
}

func (c Config) Validate() error {
	var errs []error

	positive := map[string]time.Duration{
		keySearchDebounce:              c.Search.Debounce,
		keySearchCacheTTL:              c.Search.CacheTTL,
		keySearchTimeout:               c.Search.Timeout,
		keyNotificationsAutoDismiss:    c.Notifications.AutoDismiss,
		keyCarouselFeaturesInterval:    c.Carousel.FeaturesInterval,
		keyCarouselTestimonialInterval: c.Carousel.TestimonialsInterval,
		keyStatsDuration:               c.Stats.Duration,
		keyTooltipDelay:                c.Tooltip.Delay,
	}
	for _, key := range sortedKeys(positive) {
		if positive[key] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", key, positive[key]))
		}
	}

	if c.Search.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", keySearchCacheSize, c.Search.CacheSize))
	}
	if c.Notifications.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", keyNotificationsCapacity, c.Notifications.Capacity))
	}
	if c.Stats.Steps <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", keyStatsSteps, c.Stats.Steps))
	}

	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendChain:
	default:
		errs = append(errs, fmt.Errorf("%s: unsupported backend %q", keyStorageBackend, c.Storage.Backend))
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, fmt.Errorf("%s is empty", keyStoragePath))
	}
	if user := strings.TrimSpace(c.Session.User); user != "" {
		if err := domain.ValidateUserID(user); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", keySessionUser, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]time.Duration) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
