// Package graph assembles parsed relation tuples into the in-memory
// domain/IP relationship graph consumed by the categorizer, exporters and
// renderers.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/domainmap/domainmap/pkg/dnsutil"
)

// NodeKind classifies a graph node by what its identifier denotes.
type NodeKind string

const (
	// NodeDomain is a fully qualified domain name (apex or subdomain).
	NodeDomain NodeKind = "domain"

	// NodeIP is a resolved IPv4 or IPv6 address.
	NodeIP NodeKind = "ip"

	// NodeOrg is a registry organization attached to an address block.
	NodeOrg NodeKind = "organization"
)

// RelationKind is the typed nature of a discovered link between two nodes.
type RelationKind string

const (
	RelationResolvesIPv4 RelationKind = "resolves-ipv4"
	RelationResolvesIPv6 RelationKind = "resolves-ipv6"
	RelationAlias        RelationKind = "alias"
	RelationMailExchange RelationKind = "mail-exchange"
	RelationNameServer   RelationKind = "name-server"
	RelationParent       RelationKind = "hierarchical-parent"
	RelationManagedBy    RelationKind = "managed-by"
)

// RelationKinds lists every edge kind in a stable order, used by detailed
// exports and renderer legends.
var RelationKinds = []RelationKind{
	RelationParent,
	RelationResolvesIPv4,
	RelationResolvesIPv6,
	RelationAlias,
	RelationMailExchange,
	RelationNameServer,
	RelationManagedBy,
}

// Node is one vertex of the relationship graph.
//
// Identifiers are unique within a ScanResult and case-normalized. Category
// is only meaningful for domain nodes; it is filled in by the categorizer
// after the graph is built.
type Node struct {
	// ID is the normalized identifier (domain name, IP literal, or
	// organization name).
	ID string `yaml:"id" json:"id"`

	// Kind classifies the identifier.
	Kind NodeKind `yaml:"kind" json:"kind"`

	// Category is the functional role assigned to domain nodes.
	Category string `yaml:"category,omitempty" json:"category,omitempty"`
}

// Edge is one directed, typed relation between two nodes. Multiple edges
// between the same pair with different kinds are permitted; identical
// (source, kind, target) triples are de-duplicated at build time.
type Edge struct {
	Source string       `yaml:"source" json:"source"`
	Kind   RelationKind `yaml:"kind" json:"kind"`
	Target string       `yaml:"target" json:"target"`
}

// Summary holds the aggregate counters reported alongside every export and
// rendering.
type Summary struct {
	// Domains is the number of unique domain nodes (root included).
	Domains int `yaml:"domains" json:"domains"`

	// Subdomains counts domain nodes inside the root zone, root excluded.
	Subdomains int `yaml:"subdomains" json:"subdomains"`

	// ExternalDomains counts domain nodes outside the root zone.
	ExternalDomains int `yaml:"external_domains" json:"external_domains"`

	// UniqueIPs is the number of unique resolved addresses.
	UniqueIPs int `yaml:"unique_ips" json:"unique_ips"`

	// Organizations counts registry organization nodes.
	Organizations int `yaml:"organizations,omitempty" json:"organizations,omitempty"`

	// Relations is the total number of de-duplicated edges.
	Relations int `yaml:"relations" json:"relations"`
}

// ScanResult is the root artifact of one run: the apex domain, the ordered
// node and edge collections, and the summary counters. It is built once per
// invocation and treated as immutable by every consumer.
type ScanResult struct {
	Root    string  `yaml:"root" json:"root"`
	Nodes   []Node  `yaml:"nodes" json:"nodes"`
	Edges   []Edge  `yaml:"edges" json:"edges"`
	Summary Summary `yaml:"summary" json:"summary"`
}

// Node returns the node with the given normalized identifier.
func (r *ScanResult) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// DomainNames returns every domain identifier in stable export order: the
// root domain first, then the rest alphabetically.
func (r *ScanResult) DomainNames() []string {
	var names []string
	for _, n := range r.Nodes {
		if n.Kind == NodeDomain && n.ID != r.Root {
			names = append(names, n.ID)
		}
	}
	sort.Strings(names)
	if _, ok := r.Node(r.Root); ok {
		names = append([]string{r.Root}, names...)
	}
	return names
}

// EdgesFrom returns all edges whose source is the given identifier, in
// build order.
func (r *ScanResult) EdgesFrom(id string) []Edge {
	var edges []Edge
	for _, e := range r.Edges {
		if e.Source == id {
			edges = append(edges, e)
		}
	}
	return edges
}

// IPsOf returns the addresses a domain resolves to (IPv4 then-discovered
// order, both families).
func (r *ScanResult) IPsOf(domain string) []string {
	var ips []string
	for _, e := range r.Edges {
		if e.Source != domain {
			continue
		}
		if e.Kind == RelationResolvesIPv4 || e.Kind == RelationResolvesIPv6 {
			ips = append(ips, e.Target)
		}
	}
	return ips
}

// AliasesOf returns the alias targets of a domain (CNAME chain heads).
func (r *ScanResult) AliasesOf(domain string) []string {
	var aliases []string
	for _, e := range r.Edges {
		if e.Source == domain && e.Kind == RelationAlias {
			aliases = append(aliases, e.Target)
		}
	}
	return aliases
}

// IsExternal reports whether a domain node sits outside the root zone.
func (r *ScanResult) IsExternal(domain string) bool {
	return !dnsutil.WithinZone(domain, r.Root)
}

// Validate checks internal consistency of a built result: unique node
// identifiers, edges referencing known nodes, counters matching the
// collections. Exports call it before serializing.
func (r *ScanResult) Validate() error {
	seen := make(map[string]struct{}, len(r.Nodes))
	for _, n := range r.Nodes {
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("duplicate node identifier %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, e := range r.Edges {
		if _, ok := seen[e.Source]; !ok {
			return fmt.Errorf("edge source %q is not a known node", e.Source)
		}
		if _, ok := seen[e.Target]; !ok {
			return fmt.Errorf("edge target %q is not a known node", e.Target)
		}
	}
	if r.Summary.Relations != len(r.Edges) {
		return fmt.Errorf("summary relation count %d does not match %d edges", r.Summary.Relations, len(r.Edges))
	}
	// Every address node enters the graph through at least one kept edge.
	if r.Summary.UniqueIPs > r.Summary.Relations {
		return fmt.Errorf("unique IP count %d exceeds relation count %d", r.Summary.UniqueIPs, r.Summary.Relations)
	}
	if r.Root != "" && strings.ToLower(r.Root) != r.Root {
		return fmt.Errorf("root domain %q is not normalized", r.Root)
	}
	return nil
}
