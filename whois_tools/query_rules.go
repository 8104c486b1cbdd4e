package whois_tools

import (
	"regexp"
	"strings"
)

// Registry servers that need special treatment.
const (
	ServerJPRS     = "whois.jprs.jp"
	ServerDENIC    = "whois.denic.de"
	ServerDENICAlt = "de.whois-servers.net"
	ServerVerisign = "whois.verisign-grs.com"
)

// QueryFormatter rewrites domain into the query syntax a registry expects.
// ok is false when the rule does not apply to this domain.
type QueryFormatter func(domain string) (query string, ok bool)

// QueryRules maps a server hostname to its query syntax rule.
type QueryRules map[string]QueryFormatter

// DefaultQueryRules returns the rules for the registries known to need them.
func DefaultQueryRules() QueryRules {
	denic := func(domain string) (string, bool) {
		if !strings.HasSuffix(domain, ".de") {
			return "", false
		}
		// Ask for both the domain name and its ACE form.
		return "-T dn,ace " + domain, true
	}

	return QueryRules{
		// English-only output.
		ServerJPRS: func(domain string) (string, bool) {
			return domain + "/e", true
		},
		ServerDENIC:    denic,
		ServerDENICAlt: denic,
		// Exact match, no partial hits.
		ServerVerisign: func(domain string) (string, bool) {
			return "=" + domain, true
		},
	}
}

// Query returns the query string to send to server for domain.
func (r QueryRules) Query(server, domain string) string {
	if format, ok := r[strings.ToLower(server)]; ok {
		if query, ok := format(domain); ok {
			return query
		}
	}
	return domain
}

// RecordSelector picks the part of a response that belongs to domain.
type RecordSelector func(response, domain string) string

// RecordSelectors maps a server hostname to its record selector.
type RecordSelectors map[string]RecordSelector

// DefaultRecordSelectors returns the selectors for servers known to answer
// with several records at once.
func DefaultRecordSelectors() RecordSelectors {
	return RecordSelectors{
		ServerVerisign: SelectDomainRecord,
	}
}

// Select applies the selector registered for server, if any.
func (s RecordSelectors) Select(server, response, domain string) string {
	if selector, ok := s[strings.ToLower(server)]; ok {
		return selector(response, domain)
	}
	return response
}

var blankLine = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

// SelectDomainRecord splits response on blank lines and returns the record
// whose "Domain Name:" field is the upper-cased domain. The whole response is
// returned when no record matches.
func SelectDomainRecord(response, domain string) string {
	field := regexp.MustCompile(`(?im)^[ \t]*Domain Name:[ \t]*` + regexp.QuoteMeta(strings.ToUpper(domain)) + `[ \t]*\r?$`)
	for _, record := range blankLine.Split(response, -1) {
		if field.MatchString(record) {
			return record
		}
	}
	return response
}
