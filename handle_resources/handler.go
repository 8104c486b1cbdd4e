package handle_resources

import (
	"context"
	"sync"
	"time"

	"github.com/KincaidYang/whoischain/utils"
	"github.com/KincaidYang/whoischain/whois_tools"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Resolver resolves a domain to its WHOIS response chain.
type Resolver interface {
	Resolve(ctx context.Context, domain string, opts ...whois_tools.Option) (*whois_tools.Result, error)
}

// Options configures a Handler.
type Options struct {
	Resolver Resolver
	Cache    utils.Cache
	// CacheExpiration is the lifetime of cached resolutions.
	CacheExpiration time.Duration
	// RateLimit bounds concurrent uncached resolutions. Zero means unbounded.
	RateLimit    int
	RequireRedis bool
	Logger       *zap.Logger
	Metrics      *utils.Metrics
}

// Handler serves resolutions over HTTP and MCP.
type Handler struct {
	resolver     Resolver
	cache        utils.Cache
	expiration   time.Duration
	rateLimit    int
	limiter      chan struct{}
	requireRedis bool
	logger       *zap.Logger
	metrics      *utils.Metrics
	startTime    time.Time
	wg           sync.WaitGroup
}

// NewHandler returns a Handler. A nil Cache disables caching.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		resolver:     opts.Resolver,
		cache:        opts.Cache,
		expiration:   opts.CacheExpiration,
		rateLimit:    opts.RateLimit,
		requireRedis: opts.RequireRedis,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		startTime:    time.Now(),
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.rateLimit > 0 {
		h.limiter = make(chan struct{}, h.rateLimit)
	}
	return h
}

// acquire takes a resolution slot, waiting until one is free or ctx ends.
// The returned func gives the slot back.
func (h *Handler) acquire(ctx context.Context) (func(), error) {
	if h.limiter != nil {
		if len(h.limiter) == h.rateLimit {
			h.logger.Info("Rate limit reached, waiting for a slot to become available")
		}
		select {
		case h.limiter <- struct{}{}:
		case <-ctx.Done():
			return nil, errors.Wrap(errNoCapacity, ctx.Err().Error())
		}
	}
	h.wg.Add(1)
	return func() {
		if h.limiter != nil {
			<-h.limiter
		}
		h.wg.Done()
	}, nil
}

// Wait blocks until every running resolution has completed or ctx ends.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
