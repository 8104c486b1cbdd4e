package whois_tools

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

// ErrEmptyDomain is returned when there is nothing left to query after
// trimming.
var ErrEmptyDomain = errors.New("empty domain name")

// NormalizeDomain converts a possibly-Unicode domain into its lower-case
// ASCII-compatible (Punycode) form.
func NormalizeDomain(domain string) (string, error) {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	if domain == "" {
		return "", ErrEmptyDomain
	}

	ascii, err := idna.ToASCII(domain)
	if err != nil {
		return "", errors.Wrapf(err, "invalid domain name %q", domain)
	}
	return strings.ToLower(ascii), nil
}
