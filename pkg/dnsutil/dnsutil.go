// Package dnsutil provides helpers for normalizing and classifying the
// identifiers that appear in recon scan output.
//
// It includes functions to:
//   - Normalize hostnames and IP literals into their canonical form (lowercase, no trailing dot).
//   - Decide whether an identifier is an IPv4 or IPv6 literal or an opaque domain string.
//   - Split hostnames into labels and walk their hierarchical parents.
//   - Test zone membership against a root domain.
package dnsutil

import (
	"net/netip"
	"strings"
)

// NormalizeName canonicalizes an identifier: surrounding whitespace removed,
// lowercased, trailing dot stripped. Applies to both domains and IP literals
// (lowercasing also canonicalizes hex digits in IPv6 text).
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".")
	return name
}

// IsIPLiteral reports whether the identifier parses as an IPv4 or IPv6
// address literal. Anything that merely looks IP-like but does not parse
// (e.g. "300.1.2.3") is treated as a domain string by callers.
func IsIPLiteral(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}

// IsIPv6Literal reports whether the identifier is a valid IPv6 literal.
func IsIPv6Literal(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is6() && !addr.Is4In6()
}

// Label returns the leftmost label of a hostname ("api" for
// "api.dev.example.com"). For a bare name without dots it returns the name
// itself.
func Label(host string) string {
	if i := strings.IndexByte(host, '.'); i >= 0 {
		return host[:i]
	}
	return host
}

// ParentOf returns the hierarchical parent of a hostname
// ("dev.example.com" for "api.dev.example.com") or "" when the name has no
// parent left to strip.
func ParentOf(host string) string {
	if i := strings.IndexByte(host, '.'); i >= 0 {
		return host[i+1:]
	}
	return ""
}

// WithinZone reports whether host sits inside the zone rooted at root:
// either the root itself or any name ending in "." + root. Both arguments
// are expected to be normalized.
//
// This is the registrable-suffix test used to flag external domains. It is a
// zone-suffix heuristic, not a public-suffix-list lookup; "example.org" is
// external to "example.com", "mail.example.com" is not.
func WithinZone(host, root string) bool {
	if root == "" {
		return false
	}
	return host == root || strings.HasSuffix(host, "."+root)
}

// StripZone removes the ".root" suffix from host, yielding the subdomain
// part relative to the zone ("api.dev" for "api.dev.example.com" under
// "example.com"). Names outside the zone are returned unchanged.
func StripZone(host, root string) string {
	if host == root {
		return host
	}
	if strings.HasSuffix(host, "."+root) {
		return strings.TrimSuffix(host, "."+root)
	}
	return host
}
