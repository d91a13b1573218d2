package graph

import (
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domainmap/domainmap/pkg/dnsutil"
	"github.com/domainmap/domainmap/pkg/parse"
)

// ErrEmptyGraph is returned when parsing succeeded but normalization left no
// domain node to build a graph from.
var ErrEmptyGraph = errors.New("scan output contains no domain nodes")

// BuildOptions controls graph construction.
type BuildOptions struct {
	// Root is the scan target domain, when supplied explicitly. Empty
	// means the root is inferred from the node set.
	Root string
}

// relationKinds maps the relation annotations of the typed line format onto
// edge kinds. Relation text outside this table is dropped with a debug log.
var relationKinds = map[string]RelationKind{
	"node":         RelationParent,
	"a_record":     RelationResolvesIPv4,
	"aaaa_record":  RelationResolvesIPv6,
	"cname_record": RelationAlias,
	"mx_record":    RelationMailExchange,
	"ns_record":    RelationNameServer,
	"managed_by":   RelationManagedBy,
}

// Build assembles a ScanResult from the raw tuple sequence.
//
// Identifiers are normalized (lowercase, trailing dot stripped) and
// classified: valid IPv4/IPv6 literals become IP nodes, typed
// RIROrganization entities become organization nodes, everything else is a
// domain. Identical (source, kind, target) edges collapse to one. Returns
// ErrEmptyGraph when no domain node survives normalization.
func Build(tuples []parse.Tuple, opts BuildOptions) (*ScanResult, error) {
	b := &builder{
		nodeIndex: make(map[string]int),
		edgeSeen:  make(map[string]struct{}),
	}

	for _, t := range tuples {
		source := dnsutil.NormalizeName(t.Source)
		target := dnsutil.NormalizeName(t.Target)
		if source == "" || target == "" {
			continue
		}

		// Resolve the edge kind before registering anything: a dropped
		// relation must not leave orphan endpoint nodes behind, or the
		// summary counters drift apart from the edge set.
		kind, ok := edgeKind(t, target)
		if !ok {
			log.Debug().Str("relation", t.Relation).Int("line", t.Line).Msg("dropping relation with unknown kind")
			continue
		}

		b.addNode(source, classify(source, t.SourceType))
		b.addNode(target, classify(target, t.TargetType))
		b.addEdge(source, kind, target)
	}

	result := &ScanResult{
		Nodes: b.nodes,
		Edges: b.edges,
	}

	domains := domainIDs(b.nodes)
	if len(domains) == 0 {
		return nil, ErrEmptyGraph
	}

	if opts.Root != "" {
		result.Root = dnsutil.NormalizeName(opts.Root)
	} else {
		result.Root = inferRoot(domains, b.edges)
	}

	result.Summary = summarize(result)
	return result, nil
}

type builder struct {
	nodes     []Node
	nodeIndex map[string]int
	edges     []Edge
	edgeSeen  map[string]struct{}
}

func (b *builder) addNode(id string, kind NodeKind) {
	if _, ok := b.nodeIndex[id]; ok {
		return
	}
	b.nodeIndex[id] = len(b.nodes)
	b.nodes = append(b.nodes, Node{ID: id, Kind: kind})
}

func (b *builder) addEdge(source string, kind RelationKind, target string) {
	key := source + "|" + string(kind) + "|" + target
	if _, dup := b.edgeSeen[key]; dup {
		return
	}
	b.edgeSeen[key] = struct{}{}
	b.edges = append(b.edges, Edge{Source: source, Kind: kind, Target: target})
}

// classify maps a normalized identifier plus its optional entity annotation
// onto a node kind. Malformed IP-looking tokens fall through to domain.
func classify(id, entityType string) NodeKind {
	switch entityType {
	case "FQDN":
		return NodeDomain
	case "IPAddress":
		if dnsutil.IsIPLiteral(id) {
			return NodeIP
		}
		return NodeDomain
	case "RIROrganization":
		return NodeOrg
	}
	if dnsutil.IsIPLiteral(id) {
		return NodeIP
	}
	return NodeDomain
}

// edgeKind resolves the edge kind for a tuple. Bare tuples (no relation
// annotation) are resolution pairs when the target is an address, alias
// links otherwise.
func edgeKind(t parse.Tuple, target string) (RelationKind, bool) {
	if t.Relation != "" {
		kind, ok := relationKinds[t.Relation]
		return kind, ok
	}
	if dnsutil.IsIPLiteral(target) {
		if dnsutil.IsIPv6Literal(target) {
			return RelationResolvesIPv6, true
		}
		return RelationResolvesIPv4, true
	}
	return RelationAlias, true
}

func domainIDs(nodes []Node) []string {
	var ids []string
	for _, n := range nodes {
		if n.Kind == NodeDomain {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// inferRoot picks the apex of the scan: the shortest domain that contains a
// dot, does not start with "www.", and has no incoming hierarchical-parent
// edge; ties break lexicographically. When every candidate has an incoming
// parent edge the filter is relaxed rather than failing the run.
func inferRoot(domains []string, edges []Edge) string {
	hasParent := make(map[string]struct{})
	for _, e := range edges {
		if e.Kind == RelationParent {
			hasParent[e.Target] = struct{}{}
		}
	}

	pick := func(requireNoParent bool) string {
		best := ""
		for _, d := range domains {
			if !strings.Contains(d, ".") || strings.HasPrefix(d, "www.") {
				continue
			}
			if requireNoParent {
				if _, parented := hasParent[d]; parented {
					continue
				}
			}
			if best == "" || len(d) < len(best) || (len(d) == len(best) && d < best) {
				best = d
			}
		}
		return best
	}

	if root := pick(true); root != "" {
		return root
	}
	if root := pick(false); root != "" {
		return root
	}
	// Degenerate inputs (single-label names only): fall back to the
	// lexicographically first domain so the run stays deterministic.
	sorted := append([]string(nil), domains...)
	sort.Strings(sorted)
	return sorted[0]
}

func summarize(r *ScanResult) Summary {
	var s Summary
	for _, n := range r.Nodes {
		switch n.Kind {
		case NodeDomain:
			s.Domains++
			if dnsutil.WithinZone(n.ID, r.Root) {
				if n.ID != r.Root {
					s.Subdomains++
				}
			} else {
				s.ExternalDomains++
			}
		case NodeIP:
			s.UniqueIPs++
		case NodeOrg:
			s.Organizations++
		}
	}
	s.Relations = len(r.Edges)
	return s
}
