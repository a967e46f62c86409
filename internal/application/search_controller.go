package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports"
)

const (
	DefaultSearchDebounce  = 300 * time.Millisecond
	DefaultSearchCacheTTL  = 60 * time.Second
	DefaultSearchCacheSize = 20
)

type SearchStatus string

const (
	SearchIdle       SearchStatus = "idle"
	SearchDebouncing SearchStatus = "debouncing"
	SearchLoading    SearchStatus = "loading"
	SearchReady      SearchStatus = "ready"
	SearchFailed     SearchStatus = "failed"
)

type SearchOptions struct {
	Debounce  time.Duration
	CacheTTL  time.Duration
	CacheSize int
	Logger    *log.Logger
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Debounce <= 0 {
		o.Debounce = DefaultSearchDebounce
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultSearchCacheTTL
	}
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultSearchCacheSize
	}
	return o
}

// SearchState is the read-only view handed to observers. Revision grows with
// every change so late deliveries can be discarded.
type SearchState struct {
	Query      string
	Results    []domain.Match
	Err        error
	Status     SearchStatus
	AppliedSeq uint64
	FromCache  bool
	Revision   uint64
}

type cacheEntry struct {
	query     string
	results   []domain.Match
	expiresAt time.Time
}

type SearchController struct {
	endpoint  ports.SearchEndpoint
	clock     ports.Clock
	opts      SearchOptions
	logger    *log.Logger
	debouncer *Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	ledger     *RequestLedger
	cache      *lru.Cache[string, cacheEntry]
	query      string
	results    []domain.Match
	err        error
	status     SearchStatus
	appliedSeq uint64
	fromCache  bool
	revision   uint64
	inputGen   uint64
	closed     bool

	subs observers[SearchState]
}

func NewSearchController(endpoint ports.SearchEndpoint, clock ports.Clock, opts SearchOptions) (*SearchController, error) {
	if endpoint == nil {
		return nil, errors.New("search endpoint is required")
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	opts = opts.withDefaults()

	cache, err := lru.New[string, cacheEntry](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create search cache: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &SearchController{
		endpoint:  endpoint,
		clock:     clock,
		opts:      opts,
		logger:    discardLogger(opts.Logger),
		debouncer: NewDebouncer(clock, opts.Debounce),
		ctx:       ctx,
		cancel:    cancel,
		ledger:    NewRequestLedger(),
		cache:     cache,
		status:    SearchIdle,
	}, nil
}

// OnQueryChange records text immediately and restarts the dispatch debounce.
// Empty text clears results synchronously and makes in-flight requests stale.
func (c *SearchController) OnQueryChange(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.query = text
	c.inputGen++
	if normalizeQuery(text) == "" {
		c.debouncer.Cancel()
		if n := c.ledger.AbandonAll(); n > 0 {
			c.logger.Printf("search: cleared input, abandoned %d in-flight request(s)", n)
		}
		c.results = nil
		c.err = nil
		c.status = SearchIdle
		c.appliedSeq = 0
		c.fromCache = false
		state := c.changedLocked()
		c.mu.Unlock()

		c.subs.notify(state)
		return
	}

	c.status = SearchDebouncing
	state := c.changedLocked()
	gen := c.inputGen
	c.debouncer.Trigger(func() { c.fire(text, gen) })
	c.mu.Unlock()

	c.subs.notify(state)
}

func (c *SearchController) fire(text string, gen uint64) {
	query := normalizeQuery(text)

	c.mu.Lock()
	if c.closed || gen != c.inputGen {
		c.mu.Unlock()
		return
	}
	if query == "" {
		c.mu.Unlock()
		return
	}

	if entry, ok := c.cache.Get(query); ok {
		if c.clock.Now().Before(entry.expiresAt) {
			c.ledger.Supersede()
			c.results = domain.CloneMatches(entry.results)
			c.err = nil
			c.status = SearchReady
			c.appliedSeq = 0
			c.fromCache = true
			state := c.changedLocked()
			c.mu.Unlock()

			c.subs.notify(state)
			return
		}
		c.cache.Remove(query)
	}

	if req, ok := c.ledger.Coalesce(query); ok {
		c.logger.Printf("search: %q already in flight as #%d", query, req.Seq)
		c.status = SearchLoading
		state := c.changedLocked()
		c.mu.Unlock()

		c.subs.notify(state)
		return
	}

	ctx, cancel := context.WithCancel(c.ctx)
	req := c.ledger.Issue(query, c.clock.Now(), cancel)
	c.status = SearchLoading
	state := c.changedLocked()
	c.mu.Unlock()

	c.subs.notify(state)
	go c.dispatch(ctx, req)
}

func (c *SearchController) dispatch(ctx context.Context, req domain.SearchRequest) {
	matches, err := c.endpoint.Search(ctx, req.Query)
	c.resolve(req, domain.CloneMatches(matches), err)
}

func (c *SearchController) resolve(req domain.SearchRequest, matches []domain.Match, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	_, current := c.ledger.Settle(req.Seq)
	if err == nil {
		c.cache.Add(req.Query, cacheEntry{
			query:     req.Query,
			results:   matches,
			expiresAt: c.clock.Now().Add(c.opts.CacheTTL),
		})
	}

	if !current {
		if err != nil {
			c.logger.Printf("search: dropped stale failure for #%d: %v", req.Seq, err)
		}
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.results = nil
		c.err = fmt.Errorf("%w: %q: %w", domain.ErrSearchFailed, req.Query, err)
		c.status = SearchFailed
	} else {
		c.results = domain.CloneMatches(matches)
		c.err = nil
		c.status = SearchReady
	}
	c.appliedSeq = req.Seq
	c.fromCache = false
	state := c.changedLocked()
	c.mu.Unlock()

	c.subs.notify(state)
}

// VisibleResults returns a copy of the last applied result, empty before any.
func (c *SearchController) VisibleResults() []domain.Match {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.results) == 0 {
		return []domain.Match{}
	}
	return domain.CloneMatches(c.results)
}

func (c *SearchController) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

func (c *SearchController) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *SearchController) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.InFlight()
}

func (c *SearchController) Subscribe(fn func(SearchState)) func() {
	return c.subs.subscribe(fn)
}

// Close stops the debounce and makes every in-flight request irrelevant.
func (c *SearchController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.debouncer.Cancel()
	c.ledger.AbandonAll()
	c.cancel()
	c.mu.Unlock()

	c.subs.clear()
}

func (c *SearchController) changedLocked() SearchState {
	c.revision++
	return c.stateLocked()
}

func (c *SearchController) stateLocked() SearchState {
	return SearchState{
		Query:      c.query,
		Results:    domain.CloneMatches(c.results),
		Err:        c.err,
		Status:     c.status,
		AppliedSeq: c.appliedSeq,
		FromCache:  c.fromCache,
		Revision:   c.revision,
	}
}

func normalizeQuery(text string) string {
	return strings.TrimSpace(text)
}
