package whois_tools

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

var referralPattern = regexp.MustCompile(`(?i)^(refer|whois server|referral url|registrar whois(?: server)?):\s*(\S+\.\S+)`)

// Referral is a directive naming another server with more authoritative data.
type Referral struct {
	Field  string
	Server string
}

// IsURL reports whether the referral target is a URL rather than a WHOIS host.
func (r Referral) IsURL() bool {
	return strings.Contains(r.Server, "://")
}

// FindReferrals returns every referral directive in response, in order.
func FindReferrals(response string) []Referral {
	var referrals []Referral
	for _, line := range strings.Split(response, "\n") {
		m := referralPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		referrals = append(referrals, Referral{Field: m[1], Server: referralHost(m[2])})
	}
	return referrals
}

// referralHost reduces a referral target to the bare host name: an explicit
// port is dropped since every WHOIS query goes to the transport's port, and
// so is the trailing root dot. URLs are returned unchanged.
func referralHost(target string) string {
	if strings.Contains(target, "://") {
		return target
	}
	if host, port, err := net.SplitHostPort(target); err == nil {
		if _, err := strconv.Atoi(port); err == nil && host != "" {
			target = host
		}
	}
	return strings.TrimSuffix(target, ".")
}

// NextReferral returns the first referral in response that points at a WHOIS
// host not rejected by seen.
func NextReferral(response string, seen func(server string) bool) (string, bool) {
	for _, ref := range FindReferrals(response) {
		if ref.IsURL() || seen(ref.Server) {
			continue
		}
		return ref.Server, true
	}
	return "", false
}
