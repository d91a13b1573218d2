package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/domainmap/domainmap/pkg/graph"
)

const (
	// Per-domain IP lines shown in the tree before eliding.
	maxTreeIPs = 2

	// External domains listed before eliding.
	maxTreeExternals = 10
)

var (
	treeTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("105")).
			Bold(true)

	treeSectionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("62")).
				Bold(true)

	treeDomainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	treeLeafStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// TextRenderer writes the console tree view of a scan result. It is the
// always-available fallback for the diagram modes.
type TextRenderer struct {
	colorEnabled bool
}

// NewTextRenderer creates a text renderer. Color is disabled for
// non-terminal destinations.
func NewTextRenderer(colorEnabled bool) *TextRenderer {
	return &TextRenderer{colorEnabled: colorEnabled}
}

// Render writes the tree for res to w, honoring the ShowIPs option.
func (r *TextRenderer) Render(w io.Writer, res *graph.ScanResult, opts Options) error {
	title := fmt.Sprintf("MAP OF %s", res.Root)
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", r.style(treeTitleStyle, title), r.style(treeTitleStyle, rule(len(title)))); err != nil {
		return err
	}

	var subdomains, externals []string
	for _, domain := range res.DomainNames() {
		if domain == res.Root {
			continue
		}
		if res.IsExternal(domain) {
			externals = append(externals, domain)
		} else {
			subdomains = append(subdomains, domain)
		}
	}

	if _, ok := res.Node(res.Root); ok {
		if err := r.section(w, "Primary domain", []string{res.Root}, res, opts); err != nil {
			return err
		}
	}
	if len(subdomains) > 0 {
		header := fmt.Sprintf("Subdomains (%d)", len(subdomains))
		if err := r.section(w, header, subdomains, res, opts); err != nil {
			return err
		}
	}
	if len(externals) > 0 {
		header := fmt.Sprintf("External domains (%d)", len(externals))
		shown := externals
		if len(shown) > maxTreeExternals {
			shown = shown[:maxTreeExternals]
		}
		if err := r.section(w, header, shown, res, Options{}); err != nil {
			return err
		}
		if len(externals) > maxTreeExternals {
			if _, err := fmt.Fprintf(w, "    ... and %d more\n\n", len(externals)-maxTreeExternals); err != nil {
				return err
			}
		}
	}

	return r.summary(w, res)
}

func (r *TextRenderer) section(w io.Writer, header string, domains []string, res *graph.ScanResult, opts Options) error {
	if _, err := fmt.Fprintln(w, r.style(treeSectionStyle, header)); err != nil {
		return err
	}
	for i, domain := range domains {
		branch := "├──"
		stem := "│  "
		if i == len(domains)-1 {
			branch = "└──"
			stem = "   "
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", branch, r.style(treeDomainStyle, domain)); err != nil {
			return err
		}
		if err := r.leaves(w, stem, domain, res, opts); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// leaves prints a domain's resolved addresses and alias targets, eliding
// addresses past the display limit.
func (r *TextRenderer) leaves(w io.Writer, stem, domain string, res *graph.ScanResult, opts Options) error {
	var lines []string
	if opts.ShowIPs {
		ips := res.IPsOf(domain)
		shown := ips
		if len(shown) > maxTreeIPs {
			shown = shown[:maxTreeIPs]
		}
		lines = append(lines, shown...)
		if len(ips) > maxTreeIPs {
			lines = append(lines, fmt.Sprintf("... %d more addresses", len(ips)-maxTreeIPs))
		}
	}
	for _, alias := range res.AliasesOf(domain) {
		lines = append(lines, "→ "+alias)
	}

	for i, line := range lines {
		branch := "├──"
		if i == len(lines)-1 {
			branch = "└──"
		}
		if _, err := fmt.Fprintf(w, "%s%s %s\n", stem, branch, r.style(treeLeafStyle, line)); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) summary(w io.Writer, res *graph.ScanResult) error {
	if _, err := fmt.Fprintln(w, r.style(treeSectionStyle, "Summary")); err != nil {
		return err
	}
	stats := []struct {
		name  string
		value int
	}{
		{"Subdomains", res.Summary.Subdomains},
		{"External domains", res.Summary.ExternalDomains},
		{"Unique IPs", res.Summary.UniqueIPs},
		{"Relations", res.Summary.Relations},
	}
	for i, stat := range stats {
		branch := "├──"
		if i == len(stats)-1 {
			branch = "└──"
		}
		if _, err := fmt.Fprintf(w, "%s %s: %d\n", branch, stat.name, stat.value); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextRenderer) style(style lipgloss.Style, text string) string {
	if !r.colorEnabled {
		return text
	}
	return style.Render(text)
}

func rule(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '='
	}
	return string(b)
}
