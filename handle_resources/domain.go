package handle_resources

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/KincaidYang/whoischain/utils"
	"github.com/KincaidYang/whoischain/whois_tools"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

var domainPattern = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z0-9][a-z0-9-]{0,61}[a-z0-9]$`)

// DomainResponse is the JSON body of a resolution.
type DomainResponse struct {
	Domain string `json:"domain"`
	// RegistrableDomain is the public suffix plus one label, when known.
	RegistrableDomain string `json:"registrableDomain,omitempty"`
	// Responses are ordered most recent first.
	Responses []string `json:"responses"`
	// Servers are ordered in query order.
	Servers []string `json:"servers"`
}

// isDomain reports whether domain is a syntactically valid ASCII host name
// with at least two labels.
func isDomain(domain string) bool {
	return len(domain) <= 253 && domainPattern.MatchString(domain)
}

// normalizeInput turns user input into the domain sent to WHOIS servers.
func normalizeInput(resource string) (string, error) {
	domain, err := whois_tools.NormalizeDomain(resource)
	if err != nil {
		if errors.Is(err, whois_tools.ErrEmptyDomain) {
			return "", err
		}
		return "", errors.Wrapf(errInvalidDomain, "%q", resource)
	}
	if !isDomain(domain) {
		return "", errors.Wrapf(errInvalidDomain, "%q", resource)
	}
	return domain, nil
}

// lookup returns the resolution of domain, from cache when possible.
func (h *Handler) lookup(ctx context.Context, domain string, neverCut bool) (*DomainResponse, error) {
	key := utils.CacheKey(domain, neverCut)

	if h.cache != nil {
		cached, err := utils.GetFromCache(ctx, h.cache, h.metrics, key)
		if err != nil {
			h.logger.Warn("Cache lookup failed", zap.String("key", key), zap.Error(err))
		} else if cached.Found {
			var resp DomainResponse
			if err := json.Unmarshal([]byte(cached.Data), &resp); err == nil {
				return &resp, nil
			}
			h.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
		}
	}

	release, err := h.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	opts := []whois_tools.Option{whois_tools.WithServerList()}
	if neverCut {
		opts = append(opts, whois_tools.WithNeverCut())
	}
	result, err := h.resolver.Resolve(ctx, domain, opts...)
	if err != nil {
		return nil, err
	}

	resp := &DomainResponse{
		Domain:    result.Domain,
		Responses: result.Responses,
		Servers:   result.Servers,
	}
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(result.Domain); err == nil {
		resp.RegistrableDomain = registrable
	}

	if h.cache != nil {
		if err := utils.SetToCache(ctx, h.cache, key, resp, h.expiration); err != nil {
			h.logger.Warn("Failed to cache result", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

// HandleDomain serves GET /{domain}. With ?raw=1 the most recent response is
// written as plain text; ?nevercut=1 keeps untruncated responses.
func (h *Handler) HandleDomain(w http.ResponseWriter, r *http.Request) {
	resource := strings.TrimPrefix(r.URL.Path, "/")
	domain, err := normalizeInput(resource)
	if err != nil {
		h.writeError(w, err)
		return
	}

	query := r.URL.Query()
	neverCut := queryFlag(query.Get("nevercut"))

	resp, err := h.lookup(r.Context(), domain, neverCut)
	if err != nil {
		h.logger.Warn("Resolution failed", zap.String("domain", domain), zap.Error(err))
		h.writeError(w, err)
		return
	}

	if queryFlag(query.Get("raw")) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(resp.Responses) > 0 {
			w.Write([]byte(resp.Responses[0]))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	errorType, message := classifyError(err)
	utils.HandleHTTPError(w, errorType, message)
}

func queryFlag(value string) bool {
	if value == "" {
		return false
	}
	b, err := strconv.ParseBool(value)
	return err == nil && b
}
