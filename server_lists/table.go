package server_lists

import (
	"fmt"
	"strings"
)

// MultiLabelSuffixes lists the delegations that span more than one label and
// must be matched as a unit instead of by their last label.
var MultiLabelSuffixes = []string{
	"chirurgiens-dentistes.fr", "in-addr.arpa", "uk.net", "za.org", "mod.uk", "org.za", "za.com", "de.com",
	"us.com", "hk.org", "co.ca", "avocat.fr", "com.uy", "gr.com", "e164.arpa", "hu.net", "us.org", "com.se",
	"aeroport.fr", "gov.uk", "ru.com", "alt.za", "africa.com", "geometre-expert.fr", "in.net", "co.com",
	"kr.com", "bl.uk", "uk.com", "port.fr", "police.uk", "gov.za", "eu.com", "eu.org", "br.com", "web.za",
	"net.za", "co.za", "hk.com", "ae.org", "edu.ru", "ar.com", "jet.uk", "icnet.uk", "com.de", "inc.hk",
	"ltd.hk", "parliament.uk", "jp.net", "gb.com", "veterinaire.fr", "edu.cn", "qc.com", "pharmacien.fr",
	"ac.za", "sa.com", "medecin.fr", "uy.com", "se.net", "co.pl", "cn.com", "hu.com", "no.com", "ac.uk",
	"jpn.com", "priv.at", "za.net", "nls.uk", "nhs.uk", "za.bz", "experts-comptables.fr", "chambagri.fr",
	"gb.net", "in.ua", "notaires.fr", "se.com", "british-library.uk",
}

// Exception overrides the routing table for every domain matching Suffix.
type Exception struct {
	Suffix string `json:"suffix" yaml:"suffix"`
	Server string `json:"server" yaml:"server"`
}

// Exceptions is consulted before the routing table. Some delegations are
// registered directly and some registries return an unhelpful referral when
// queried at the delegation root.
var Exceptions = []Exception{
	{Suffix: ".ac.uk", Server: "whois.ja.net"},
	{Suffix: ".ps", Server: "whois.pnina.ps"},
	{Suffix: ".buzz", Server: "whois.nic.buzz"},
	{Suffix: ".moe", Server: "whois.nic.moe"},
	{Suffix: "example.com", Server: "whois.verisign-grs.com"},
}

// NoRootServerError is returned when no routing entry exists for a domain.
type NoRootServerError struct {
	Domain string
	Suffix string
}

func (e *NoRootServerError) Error() string {
	return fmt.Sprintf("no root WHOIS server found for domain %s (suffix %s)", e.Domain, e.Suffix)
}

// Table holds the routing data used to pick the first server of a resolution.
// A Table is never mutated after construction and is safe for concurrent use.
type Table struct {
	servers    map[string]string
	multiLabel []string
	exceptions []Exception
}

// NewTable builds a Table from the given routing entries, multi-label suffixes
// and exceptions. Keys are matched case-insensitively.
func NewTable(servers map[string]string, multiLabel []string, exceptions []Exception) *Table {
	t := &Table{
		servers:    make(map[string]string, len(servers)),
		multiLabel: make([]string, 0, len(multiLabel)),
		exceptions: make([]Exception, 0, len(exceptions)),
	}
	for suffix, server := range servers {
		t.servers[normalizeSuffix(suffix)] = strings.TrimSpace(server)
	}
	for _, suffix := range multiLabel {
		if s := normalizeSuffix(suffix); s != "" {
			t.multiLabel = append(t.multiLabel, s)
		}
	}
	for _, exc := range exceptions {
		suffix := strings.ToLower(strings.TrimSpace(exc.Suffix))
		if suffix == "" || exc.Server == "" {
			continue
		}
		t.exceptions = append(t.exceptions, Exception{Suffix: suffix, Server: strings.TrimSpace(exc.Server)})
	}
	return t
}

// DefaultTable returns a Table built from the data shipped with this package.
func DefaultTable() *Table {
	return NewTable(TLDToWhoisServer, MultiLabelSuffixes, Exceptions)
}

// Suffix returns the routing key for domain: the last label, unless the
// domain ends with one of the multi-label suffixes, in which case the longest
// such suffix is used.
func (t *Table) Suffix(domain string) string {
	domain = normalizeSuffix(domain)
	suffix := domain
	if i := strings.LastIndexByte(domain, '.'); i >= 0 {
		suffix = domain[i+1:]
	}
	for _, ml := range t.multiLabel {
		if len(ml) > len(suffix) && hasLabelSuffix(domain, ml) {
			suffix = ml
		}
	}
	return suffix
}

// Lookup returns the root WHOIS server registered for the domain's suffix.
func (t *Table) Lookup(domain string) (string, error) {
	suffix := t.Suffix(domain)
	server, ok := t.servers[suffix]
	if !ok || server == "" {
		return "", &NoRootServerError{Domain: domain, Suffix: suffix}
	}
	return server, nil
}

// Exception reports the override server for domain, if any. Exceptions are
// scanned in order and the first match wins. A suffix starting with "." is a
// plain suffix match; any other suffix matches the name itself or one of its
// subdomains.
func (t *Table) Exception(domain string) (string, bool) {
	domain = normalizeSuffix(domain)
	for _, exc := range t.exceptions {
		if strings.HasPrefix(exc.Suffix, ".") {
			if strings.HasSuffix(domain, exc.Suffix) {
				return exc.Server, true
			}
			continue
		}
		if hasLabelSuffix(domain, exc.Suffix) {
			return exc.Server, true
		}
	}
	return "", false
}

// RootServer resolves the first server to query: the exception map first,
// then the routing table.
func (t *Table) RootServer(domain string) (string, error) {
	if server, ok := t.Exception(domain); ok {
		return server, nil
	}
	return t.Lookup(domain)
}

// Len returns the number of routing entries.
func (t *Table) Len() int {
	return len(t.servers)
}

func normalizeSuffix(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
}

// hasLabelSuffix reports whether domain equals suffix or ends with "."+suffix.
func hasLabelSuffix(domain, suffix string) bool {
	if domain == suffix {
		return true
	}
	return strings.HasSuffix(domain, "."+suffix)
}
