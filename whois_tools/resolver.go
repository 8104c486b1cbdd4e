package whois_tools

import (
	"context"
	"strings"

	"github.com/KincaidYang/whoischain/server_lists"
	"github.com/KincaidYang/whoischain/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultMaxReferrals bounds the number of referrals followed in one
// resolution.
const DefaultMaxReferrals = 16

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	Table     *server_lists.Table
	Transport Requester
	// ProxyTransport is used instead of Transport for domains ending in one
	// of ProxySuffixes.
	ProxyTransport  Requester
	ProxySuffixes   []string
	QueryRules      QueryRules
	RecordSelectors RecordSelectors
	// MaxReferrals defaults to DefaultMaxReferrals. A negative value disables the limit.
	MaxReferrals int
	Logger       *zap.Logger
	Metrics      *utils.Metrics
}

// Resolver follows WHOIS referrals from the root server of a domain down to
// the first server that does not refer any further. It is safe for
// concurrent use.
type Resolver struct {
	table          *server_lists.Table
	transport      Requester
	proxyTransport Requester
	proxySuffixes  []string
	rules          QueryRules
	selectors      RecordSelectors
	maxReferrals   int
	logger         *zap.Logger
	metrics        *utils.Metrics
}

// Result is the outcome of one resolution.
type Result struct {
	// Domain is the query target as sent to the servers.
	Domain string
	// Responses holds the raw responses, most recent first, followed by any
	// responses passed in with WithPreviousResponses.
	Responses []string
	// Servers lists every server queried, oldest first. Only set when
	// WithServerList is given.
	Servers []string
}

// NewResolver validates cfg and returns a Resolver.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Table == nil {
		return nil, errors.New("resolver requires a server table")
	}
	if cfg.Transport == nil {
		return nil, errors.New("resolver requires a transport")
	}

	r := &Resolver{
		table:          cfg.Table,
		transport:      cfg.Transport,
		proxyTransport: cfg.ProxyTransport,
		rules:          cfg.QueryRules,
		selectors:      cfg.RecordSelectors,
		maxReferrals:   cfg.MaxReferrals,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
	}
	for _, suffix := range cfg.ProxySuffixes {
		suffix = strings.Trim(strings.ToLower(strings.TrimSpace(suffix)), ".")
		if suffix != "" {
			r.proxySuffixes = append(r.proxySuffixes, suffix)
		}
	}
	if r.rules == nil {
		r.rules = DefaultQueryRules()
	}
	if r.selectors == nil {
		r.selectors = DefaultRecordSelectors()
	}
	if r.maxReferrals == 0 {
		r.maxReferrals = DefaultMaxReferrals
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r, nil
}

type resolveOptions struct {
	server         string
	previous       []string
	encodeName     bool
	neverCut       bool
	withServerList bool
}

// Option customizes a single resolution.
type Option func(*resolveOptions)

// WithServer starts the resolution at server instead of the root server.
func WithServer(server string) Option {
	return func(o *resolveOptions) { o.server = server }
}

// WithPreviousResponses appends responses (most recent first) from an
// earlier, interrupted resolution to the returned chain.
func WithPreviousResponses(responses []string) Option {
	return func(o *resolveOptions) { o.previous = responses }
}

// WithEncodeName controls IDNA encoding of the domain. It is on by default.
func WithEncodeName(encode bool) Option {
	return func(o *resolveOptions) { o.encodeName = encode }
}

// WithNeverCut keeps the untruncated response in the chain when a record
// selector would otherwise cut it down to the matching record.
func WithNeverCut() Option {
	return func(o *resolveOptions) { o.neverCut = true }
}

// WithServerList fills Result.Servers.
func WithServerList() Option {
	return func(o *resolveOptions) { o.withServerList = true }
}

// Resolve queries the root server for domain and follows referrals until a
// server answers without one. Lookup and transport failures abort the
// resolution.
func (r *Resolver) Resolve(ctx context.Context, domain string, opts ...Option) (*Result, error) {
	o := resolveOptions{encodeName: true}
	for _, opt := range opts {
		opt(&o)
	}

	if o.encodeName {
		normalized, err := NormalizeDomain(domain)
		if err != nil {
			return nil, err
		}
		domain = normalized
	} else if domain == "" {
		return nil, ErrEmptyDomain
	}

	target := o.server
	if target == "" {
		root, err := r.table.RootServer(domain)
		if err != nil {
			r.metrics.ObserveResolution(0, err)
			return nil, err
		}
		target = root
	}

	requester := r.requesterFor(domain)
	visited := make(map[string]bool)
	var hops, servers []string

	for {
		server := strings.ToLower(strings.TrimSpace(target))
		visited[server] = true

		query := r.rules.Query(server, domain)
		r.logger.Info("Querying WHOIS",
			zap.String("domain", domain),
			zap.String("server", server),
			zap.String("query", query),
		)

		raw, err := requester.Request(ctx, query, server)
		r.metrics.ObserveWhoisRequest(server, err)
		if err != nil {
			r.metrics.ObserveResolution(len(servers)+1, err)
			return nil, err
		}
		servers = append(servers, server)

		selected := r.selectors.Select(server, raw, domain)
		if o.neverCut {
			hops = append(hops, raw)
		} else {
			hops = append(hops, selected)
		}

		next, ok := NextReferral(selected, func(s string) bool {
			return visited[strings.ToLower(s)]
		})
		if !ok {
			break
		}
		if r.maxReferrals > 0 && len(servers) > r.maxReferrals {
			r.logger.Warn("Referral limit reached",
				zap.String("domain", domain),
				zap.String("next", next),
				zap.Int("limit", r.maxReferrals),
			)
			break
		}
		r.logger.Debug("Following referral",
			zap.String("domain", domain),
			zap.String("from", server),
			zap.String("to", next),
		)
		target = next
	}

	r.metrics.ObserveResolution(len(servers), nil)

	result := &Result{
		Domain:    domain,
		Responses: make([]string, 0, len(hops)+len(o.previous)),
	}
	for i := len(hops) - 1; i >= 0; i-- {
		result.Responses = append(result.Responses, hops[i])
	}
	result.Responses = append(result.Responses, o.previous...)
	if o.withServerList {
		result.Servers = servers
	}
	return result, nil
}

func (r *Resolver) requesterFor(domain string) Requester {
	if r.proxyTransport == nil {
		return r.transport
	}
	for _, suffix := range r.proxySuffixes {
		if domain == suffix || strings.HasSuffix(domain, "."+suffix) {
			return r.proxyTransport
		}
	}
	return r.transport
}
