package render

import (
	"fmt"
	"strings"

	"github.com/domainmap/domainmap/pkg/dnsutil"
	"github.com/domainmap/domainmap/pkg/graph"
)

// nodeClass selects the graphviz attribute bundle for a node.
type nodeClass string

const (
	classRoot      nodeClass = "root"
	classSubdomain nodeClass = "subdomain"
	classExternal  nodeClass = "external"
	classIP        nodeClass = "ip"
	classOrg       nodeClass = "org"
)

var nodeAttrs = map[nodeClass]string{
	classRoot:      `shape=box, fillcolor="#e1f5fe", fontsize=14, penwidth=3`,
	classSubdomain: `shape=ellipse, fillcolor="#f3e5f5", fontsize=10`,
	classExternal:  `shape=box, fillcolor="#fce4ec", fontsize=9`,
	classIP:        `shape=diamond, fillcolor="#fff3e0", fontsize=9`,
	classOrg:       `shape=house, fillcolor="#e8f5e8", fontsize=9`,
}

// edgeAttrs are the per-kind decorations beyond the palette color.
var edgeAttrs = map[graph.RelationKind]string{
	graph.RelationParent:       `penwidth=2`,
	graph.RelationResolvesIPv4: `style=dashed, label="IP"`,
	graph.RelationResolvesIPv6: `style=dashed, label="IPv6"`,
	graph.RelationAlias:        `style=dotted, label="CNAME"`,
	graph.RelationMailExchange: `label="MAIL"`,
	graph.RelationNameServer:   `label="DNS"`,
	graph.RelationManagedBy:    `style=dashed, label="ORG"`,
}

// BuildDOT emits the graphviz source for a scan result. The output is fully
// deterministic: nodes and edges appear in the result's build order, filtered
// by the options, so the same result always produces byte-identical source.
func BuildDOT(res *graph.ScanResult, opts Options) string {
	var b strings.Builder

	b.WriteString("digraph domainmap {\n")
	b.WriteString("    rankdir=TB;\n")
	b.WriteString("    splines=ortho;\n")
	b.WriteString(fmt.Sprintf("    label=\"Domain map: %s\";\n", escapeDOT(res.Root)))
	b.WriteString("    labelloc=t;\n")
	b.WriteString("    fontname=\"Arial\";\n")
	b.WriteString("    node [style=filled, fontname=\"Arial\"];\n")
	b.WriteString("    edge [fontname=\"Arial\", fontsize=8];\n\n")

	included := make(map[string]bool, len(res.Nodes))
	for _, n := range res.Nodes {
		if !includeNode(n, opts) {
			continue
		}
		included[n.ID] = true
		class := classify(res, n)
		b.WriteString(fmt.Sprintf("    %s [label=\"%s\", %s];\n",
			nodeID(n.ID), escapeDOT(nodeLabel(res, n, class)), nodeAttrs[class]))
	}

	b.WriteString("\n")
	for _, e := range res.Edges {
		if !included[e.Source] || !included[e.Target] {
			continue
		}
		attrs := edgeAttrs[e.Kind]
		if color, ok := opts.Palette[e.Kind]; ok {
			attrs = fmt.Sprintf("color=\"%s\", %s", color, attrs)
		}
		b.WriteString(fmt.Sprintf("    %s -> %s [%s];\n", nodeID(e.Source), nodeID(e.Target), attrs))
	}

	b.WriteString("}\n")
	return b.String()
}

func includeNode(n graph.Node, opts Options) bool {
	switch n.Kind {
	case graph.NodeIP:
		return opts.ShowIPs
	case graph.NodeOrg:
		return opts.ShowOrgs
	default:
		return true
	}
}

func classify(res *graph.ScanResult, n graph.Node) nodeClass {
	switch n.Kind {
	case graph.NodeIP:
		return classIP
	case graph.NodeOrg:
		return classOrg
	}
	if n.ID == res.Root {
		return classRoot
	}
	if res.IsExternal(n.ID) {
		return classExternal
	}
	return classSubdomain
}

// nodeLabel picks a readable label per class: subdomains drop the root zone
// suffix, long identifiers are shortened so the layout stays legible.
func nodeLabel(res *graph.ScanResult, n graph.Node, class nodeClass) string {
	switch class {
	case classSubdomain:
		return shorten(dnsutil.StripZone(n.ID, res.Root), 20)
	case classExternal:
		return shorten(n.ID, 25)
	case classIP:
		return shorten(n.ID, 20)
	case classOrg:
		return shorten(n.ID, 15)
	default:
		return n.ID
	}
}

func escapeDOT(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
