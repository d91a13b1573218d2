package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/domainmap/domainmap/pkg/dnsutil"
	"github.com/domainmap/domainmap/pkg/graph"
)

// visNode is the vis-network node payload.
type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Group string `json:"group"`
	Title string `json:"title"`
}

// visEdge is the vis-network edge payload.
type visEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Color  string `json:"color,omitempty"`
	Dashes bool   `json:"dashes,omitempty"`
	Label  string `json:"label,omitempty"`
}

var visEdgeLabels = map[graph.RelationKind]string{
	graph.RelationResolvesIPv4: "IP",
	graph.RelationResolvesIPv6: "IPv6",
	graph.RelationAlias:        "CNAME",
	graph.RelationMailExchange: "MAIL",
	graph.RelationNameServer:   "DNS",
	graph.RelationManagedBy:    "ORG",
}

// HTMLRenderer produces the self-contained interactive map page. The page
// embeds its node/edge data and pulls vis-network from a CDN, so a single
// file is enough to share a map.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// RenderFile writes the page as base.html under dir and returns the path.
func (r *HTMLRenderer) RenderFile(res *graph.ScanResult, opts Options, dir, base string) (string, error) {
	path := filepath.Join(dir, base+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := r.Render(f, res, opts); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// Render writes the page to w.
func (r *HTMLRenderer) Render(w io.Writer, res *graph.ScanResult, opts Options) error {
	nodes, edges := visData(res, opts)

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return err
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return err
	}

	return htmlPage.Execute(w, map[string]any{
		"Root":      res.Root,
		"Summary":   res.Summary,
		"NodesJSON": template.JS(nodesJSON),
		"EdgesJSON": template.JS(edgesJSON),
	})
}

func visData(res *graph.ScanResult, opts Options) ([]visNode, []visEdge) {
	included := make(map[string]bool, len(res.Nodes))
	nodes := make([]visNode, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		if !includeNode(n, opts) {
			continue
		}
		included[n.ID] = true
		nodes = append(nodes, visNode{
			ID:    nodeID(n.ID),
			Label: visLabel(res, n),
			Group: string(classify(res, n)),
			Title: visTitle(n),
		})
	}

	edges := make([]visEdge, 0, len(res.Edges))
	for _, e := range res.Edges {
		if !included[e.Source] || !included[e.Target] {
			continue
		}
		edges = append(edges, visEdge{
			From:   nodeID(e.Source),
			To:     nodeID(e.Target),
			Color:  opts.Palette[e.Kind],
			Dashes: e.Kind == graph.RelationResolvesIPv4 || e.Kind == graph.RelationResolvesIPv6,
			Label:  visEdgeLabels[e.Kind],
		})
	}
	return nodes, edges
}

func visLabel(res *graph.ScanResult, n graph.Node) string {
	if n.Kind == graph.NodeDomain && n.ID != res.Root && !res.IsExternal(n.ID) {
		return dnsutil.StripZone(n.ID, res.Root)
	}
	return n.ID
}

func visTitle(n graph.Node) string {
	if n.Category != "" {
		return fmt.Sprintf("%s (%s)", n.ID, n.Category)
	}
	return n.ID
}

var htmlPage = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Domain map: {{.Root}}</title>
<script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
<style>
  body { margin: 0; font-family: Arial, sans-serif; background: #fafafa; }
  header { padding: 12px 20px; background: #263238; color: #fff; display: flex; align-items: center; gap: 20px; }
  header h1 { font-size: 18px; margin: 0; }
  .stats { display: flex; gap: 12px; padding: 10px 20px; }
  .stat { background: #fff; border: 1px solid #e0e0e0; border-radius: 6px; padding: 8px 16px; text-align: center; }
  .stat .value { font-size: 20px; font-weight: bold; color: #1565c0; }
  .stat .label { font-size: 11px; color: #757575; text-transform: uppercase; }
  .controls { padding: 0 20px 10px; display: flex; gap: 8px; }
  .controls button { padding: 6px 14px; border: 1px solid #90a4ae; border-radius: 4px; background: #fff; cursor: pointer; }
  .controls button:hover { background: #eceff1; }
  #network { height: calc(100vh - 170px); border-top: 1px solid #e0e0e0; background: #fff; }
  .legend { position: fixed; right: 16px; bottom: 16px; background: #fff; border: 1px solid #e0e0e0; border-radius: 6px; padding: 10px 14px; font-size: 12px; }
  .legend span { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 6px; }
</style>
</head>
<body>
<header>
  <h1>Domain map: {{.Root}}</h1>
</header>
<div class="stats">
  <div class="stat"><div class="value">{{.Summary.Domains}}</div><div class="label">Domains</div></div>
  <div class="stat"><div class="value">{{.Summary.Subdomains}}</div><div class="label">Subdomains</div></div>
  <div class="stat"><div class="value">{{.Summary.UniqueIPs}}</div><div class="label">Unique IPs</div></div>
  <div class="stat"><div class="value">{{.Summary.Relations}}</div><div class="label">Relations</div></div>
</div>
<div class="controls">
  <button onclick="togglePhysics()">Toggle physics</button>
  <button onclick="toggleIPs()">Toggle IPs</button>
  <button onclick="network.fit()">Re-center</button>
  <button onclick="exportPNG()">Export PNG</button>
  <button onclick="toggleFullscreen()">Fullscreen</button>
</div>
<div id="network"></div>
<div class="legend">
  <div><span style="background:#e1f5fe;border:1px solid #0277bd"></span>Primary domain</div>
  <div><span style="background:#f3e5f5;border:1px solid #7b1fa2"></span>Subdomain</div>
  <div><span style="background:#fce4ec;border:1px solid #c2185b"></span>External</div>
  <div><span style="background:#fff3e0;border:1px solid #ef6c00"></span>IP address</div>
  <div><span style="background:#e8f5e8;border:1px solid #2e7d32"></span>Organization</div>
</div>
<script>
  var allNodes = {{.NodesJSON}};
  var allEdges = {{.EdgesJSON}};

  var nodes = new vis.DataSet(allNodes);
  var edges = new vis.DataSet(allEdges);

  var groups = {
    root:      { shape: "box",     color: { background: "#e1f5fe", border: "#0277bd" }, font: { size: 18 } },
    subdomain: { shape: "ellipse", color: { background: "#f3e5f5", border: "#7b1fa2" } },
    external:  { shape: "box",     color: { background: "#fce4ec", border: "#c2185b" } },
    ip:        { shape: "diamond", color: { background: "#fff3e0", border: "#ef6c00" }, font: { size: 10 } },
    org:       { shape: "triangle", color: { background: "#e8f5e8", border: "#2e7d32" }, font: { size: 10 } }
  };

  var container = document.getElementById("network");
  var physicsOn = true;
  var ipsVisible = true;

  var network = new vis.Network(container, { nodes: nodes, edges: edges }, {
    groups: groups,
    physics: { solver: "forceAtlas2Based", stabilization: { iterations: 200 } },
    edges: { arrows: "to", smooth: { type: "continuous" }, font: { size: 9, align: "middle" } },
    interaction: { hover: true, tooltipDelay: 150 }
  });

  function togglePhysics() {
    physicsOn = !physicsOn;
    network.setOptions({ physics: { enabled: physicsOn } });
  }

  function toggleIPs() {
    ipsVisible = !ipsVisible;
    nodes.forEach(function (n) {
      if (n.group === "ip") {
        nodes.update({ id: n.id, hidden: !ipsVisible });
      }
    });
  }

  function exportPNG() {
    var canvas = container.getElementsByTagName("canvas")[0];
    if (!canvas) { return; }
    var link = document.createElement("a");
    link.download = "domain_map_{{.Root}}.png";
    link.href = canvas.toDataURL("image/png");
    link.click();
  }

  function toggleFullscreen() {
    if (document.fullscreenElement) {
      document.exitFullscreen();
    } else {
      container.requestFullscreen();
    }
  }
</script>
</body>
</html>
`))
