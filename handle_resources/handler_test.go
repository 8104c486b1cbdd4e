package handle_resources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/KincaidYang/whoischain/server_lists"
	"github.com/KincaidYang/whoischain/utils"
	"github.com/KincaidYang/whoischain/whois_tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequester answers from a fixed server graph and counts requests.
type fakeRequester struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	queries   []string
}

func (f *fakeRequester) Request(ctx context.Context, query, server string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, server+" "+query)
	if err, ok := f.errs[server]; ok {
		return "", &whois_tools.TransportError{Server: server, Err: err}
	}
	return f.responses[server], nil
}

func (f *fakeRequester) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

const registryResponse = "   Domain Name: EXAMPLE.COM\n   Registrar WHOIS Server: whois.registrar.test\n\n   Domain Name: EXAMPLE.COM.AU\n   Registrar WHOIS Server: whois.other.test\n"

const registrarResponse = "Domain Name: example.com\nRegistrant Organization: Example Org\n"

func newFakeRequester() *fakeRequester {
	return &fakeRequester{
		responses: map[string]string{
			"whois.verisign-grs.com": registryResponse,
			"whois.registrar.test":   registrarResponse,
		},
		errs: map[string]error{},
	}
}

func newTestHandler(t *testing.T, requester whois_tools.Requester, cache utils.Cache) *Handler {
	t.Helper()
	resolver, err := whois_tools.NewResolver(whois_tools.ResolverConfig{
		Table:     server_lists.DefaultTable(),
		Transport: requester,
	})
	require.NoError(t, err)

	return NewHandler(Options{
		Resolver:        resolver,
		Cache:           cache,
		CacheExpiration: time.Minute,
		RateLimit:       4,
	})
}

func newMemoryCache(t *testing.T) *utils.MemoryCache {
	cache := utils.NewMemoryCache(100, time.Minute, nil)
	t.Cleanup(cache.Close)
	return cache
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleDomain(t *testing.T) {
	fake := newFakeRequester()
	h := newTestHandler(t, fake, nil)

	rec := get(h.HandleDomain, "/Example.COM")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp DomainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "example.com", resp.Domain)
	assert.Equal(t, "example.com", resp.RegistrableDomain)
	assert.Equal(t, []string{"whois.verisign-grs.com", "whois.registrar.test"}, resp.Servers)
	require.Len(t, resp.Responses, 2)
	assert.Equal(t, registrarResponse, resp.Responses[0])
	assert.Equal(t, "   Domain Name: EXAMPLE.COM\n   Registrar WHOIS Server: whois.registrar.test", resp.Responses[1])

	assert.Equal(t, []string{
		"whois.verisign-grs.com =example.com",
		"whois.registrar.test example.com",
	}, fake.queries)
}

func TestHandleDomainRegistrableDomain(t *testing.T) {
	fake := &fakeRequester{responses: map[string]string{}}
	h := newTestHandler(t, fake, nil)

	rec := get(h.HandleDomain, "/www.example.co.uk")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DomainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "www.example.co.uk", resp.Domain)
	assert.Equal(t, "example.co.uk", resp.RegistrableDomain)
}

func TestHandleDomainRaw(t *testing.T) {
	h := newTestHandler(t, newFakeRequester(), nil)

	rec := get(h.HandleDomain, "/example.com?raw=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, registrarResponse, rec.Body.String())
}

func TestHandleDomainNeverCut(t *testing.T) {
	h := newTestHandler(t, newFakeRequester(), nil)

	rec := get(h.HandleDomain, "/example.com?nevercut=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DomainResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Responses, 2)
	assert.Equal(t, registryResponse, resp.Responses[1])
	// Referrals are still read from the matching record only.
	assert.Equal(t, "whois.registrar.test", resp.Servers[1])
}

func TestHandleDomainIDN(t *testing.T) {
	fake := &fakeRequester{responses: map[string]string{}}
	h := newTestHandler(t, fake, nil)

	rec := get(h.HandleDomain, "/m%C3%BCnchen.de")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"whois.denic.de -T dn,ace xn--mnchen-3ya.de"}, fake.queries)
}

func TestHandleDomainCache(t *testing.T) {
	fake := newFakeRequester()
	cache := newMemoryCache(t)
	h := newTestHandler(t, fake, cache)

	first := get(h.HandleDomain, "/example.com")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 2, fake.count())

	second := get(h.HandleDomain, "/example.com")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 2, fake.count())
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	cached, err := cache.Get(context.Background(), "whois:example.com")
	require.NoError(t, err)
	assert.True(t, cached.Found)

	// A nevercut resolution is cached separately.
	get(h.HandleDomain, "/example.com?nevercut=1")
	assert.Equal(t, 4, fake.count())
}

func TestHandleDomainErrors(t *testing.T) {
	fake := newFakeRequester()
	fake.errs["whois.pir.org"] = errors.New("connection refused")
	fake.errs["whois.nic.io"] = context.DeadlineExceeded
	h := newTestHandler(t, fake, nil)

	tests := []struct {
		target string
		code   int
	}{
		{"/", http.StatusBadRequest},
		{"/exa_mple.com", http.StatusBadRequest},
		{"/example", http.StatusBadRequest},
		{"/example.c", http.StatusBadRequest},
		{"/-example.com", http.StatusBadRequest},
		{"/example.zzzz", http.StatusNotFound},
		{"/example.org", http.StatusBadGateway},
		{"/example.io", http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(h.HandleDomain, tt.target)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body utils.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHandleDomainErrorIsNotCached(t *testing.T) {
	fake := newFakeRequester()
	fake.errs["whois.pir.org"] = errors.New("connection refused")
	cache := newMemoryCache(t)
	h := newTestHandler(t, fake, cache)

	get(h.HandleDomain, "/example.org")
	assert.Equal(t, 0, cache.Len())
}

func TestIsDomain(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"example.com", true},
		{"sub.example.com", true},
		{"sub.sub.example.com", true},
		{"xn--mnchen-3ya.de", true},
		{"example.xn--p1ai", true},
		{"123.com", true},
		{"-example.com", false},
		{"example-.com", false},
		{"example..com", false},
		{"example", false},
		{"example.c", false},
		{"exa_mple.com", false},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, isDomain(test.input), test.input)
	}
}

// blockingResolver holds every resolution until release is closed.
type blockingResolver struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingResolver) Resolve(ctx context.Context, domain string, opts ...whois_tools.Option) (*whois_tools.Result, error) {
	b.started <- struct{}{}
	<-b.release
	return &whois_tools.Result{Domain: domain, Responses: []string{"ok"}, Servers: []string{"whois.test"}}, nil
}

func TestResolutionSlots(t *testing.T) {
	resolver := &blockingResolver{started: make(chan struct{}, 1), release: make(chan struct{})}
	h := NewHandler(Options{Resolver: resolver, RateLimit: 1})

	done := make(chan int)
	go func() {
		done <- get(h.HandleDomain, "/example.com").Code
	}()
	<-resolver.started

	assert.Equal(t, "warning", h.capacityCheck().Status)

	// A second resolution gives up once its client does.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	rec := httptest.NewRecorder()
	h.HandleDomain(rec, httptest.NewRequest(http.MethodGet, "/example.net", nil).WithContext(ctx))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Shutdown waits no longer than its context while a resolution runs.
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer waitCancel()
	assert.ErrorIs(t, h.Wait(waitCtx), context.DeadlineExceeded)

	close(resolver.release)
	assert.Equal(t, http.StatusOK, <-done)
	require.NoError(t, h.Wait(context.Background()))
	assert.Equal(t, "ok", h.capacityCheck().Status)
}

func TestCacheHitTakesNoSlot(t *testing.T) {
	cache := newMemoryCache(t)
	resolver := &blockingResolver{started: make(chan struct{}, 1), release: make(chan struct{})}
	h := NewHandler(Options{Resolver: resolver, Cache: cache, CacheExpiration: time.Minute, RateLimit: 1})

	require.NoError(t, utils.SetToCache(context.Background(), cache, utils.CacheKey("example.org", false),
		DomainResponse{Domain: "example.org", Responses: []string{"cached"}, Servers: []string{"whois.pir.org"}}, time.Minute))

	go get(h.HandleDomain, "/example.com")
	<-resolver.started
	defer close(resolver.release)

	rec := get(h.HandleDomain, "/example.org?raw=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cached", rec.Body.String())
}
