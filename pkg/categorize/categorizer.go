// Package categorize assigns each discovered domain exactly one functional
// category using an ordered, first-match keyword ruleset.
//
// Rule order is the system's only conflict-resolution mechanism: a name like
// "api-dev.example.com" matches both the development and the API keyword
// sets, and the earlier rule wins. Rules are evaluated against the leftmost
// hostname label first and the full hostname as fallback.
package categorize

import (
	"strings"

	"github.com/domainmap/domainmap/pkg/dnsutil"
	"github.com/domainmap/domainmap/pkg/graph"
)

// Category is one of the fixed functional roles a domain can carry.
type Category string

const (
	CategoryPrimary  Category = "Primary Domain"
	CategoryMail     Category = "Mail & Communication"
	CategoryAdmin    Category = "Admin & Management"
	CategoryDev      Category = "Development & Testing"
	CategoryAPI      Category = "API & Applications"
	CategoryInfra    Category = "Infrastructure"
	CategoryWeb      Category = "Web Services"
	CategoryExternal Category = "External/Third-Party"
	CategoryOther    Category = "Other"
)

// Categories enumerates every category in its fixed order. Grouped exports
// and legends iterate this slice; the order also encodes rule priority.
var Categories = []Category{
	CategoryPrimary,
	CategoryMail,
	CategoryAdmin,
	CategoryDev,
	CategoryAPI,
	CategoryInfra,
	CategoryWeb,
	CategoryExternal,
	CategoryOther,
}

// Rule pairs a category with the keyword set that selects it.
type Rule struct {
	Category Category
	Keywords []string
}

// Ruleset is the ordered keyword rule list. It is immutable configuration:
// built once (defaults or from config) and never mutated by evaluation.
type Ruleset []Rule

// DefaultRuleset returns the built-in keyword tables. The per-category
// keyword lists merge the classic recon naming conventions; matching is a
// case-insensitive substring test.
func DefaultRuleset() Ruleset {
	return Ruleset{
		{CategoryMail, []string{"mail", "webmail", "smtp", "pop", "imap", "mx", "mta"}},
		{CategoryAdmin, []string{"admin", "panel", "manage", "control", "dashboard"}},
		{CategoryDev, []string{"dev", "test", "stage", "staging", "qa", "demo", "beta", "preprod", "sandbox"}},
		{CategoryAPI, []string{"api", "rest", "graphql", "service", "svc", "backend"}},
		{CategoryInfra, []string{"ns", "dns", "ftp", "sftp", "ssh", "vpn", "proxy", "cdn", "cache"}},
		{CategoryWeb, []string{"www", "web", "app", "portal", "site"}},
	}
}

// Categorizer evaluates the ruleset for one scan's node set. It is a pure
// function of the root domain and the rules; repeated evaluation of the same
// identifier always yields the same category.
type Categorizer struct {
	root  string
	rules Ruleset
}

// New returns a Categorizer for the given root domain. A nil ruleset selects
// the defaults.
func New(root string, rules Ruleset) *Categorizer {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Categorizer{root: root, rules: rules}
}

// Categorize returns the single category for a normalized domain identifier.
//
// Evaluation order: exact root match, then each keyword rule in ruleset
// order, then the external-zone test, then Other.
func (c *Categorizer) Categorize(domain string) Category {
	if domain == c.root {
		return CategoryPrimary
	}

	label := dnsutil.Label(domain)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(label, kw) || strings.Contains(domain, kw) {
				return rule.Category
			}
		}
	}

	if !dnsutil.WithinZone(domain, c.root) {
		return CategoryExternal
	}
	return CategoryOther
}

// Annotate fills in the Category field of every domain node in the result.
// Non-domain nodes are left untouched.
func (c *Categorizer) Annotate(res *graph.ScanResult) {
	for i := range res.Nodes {
		if res.Nodes[i].Kind == graph.NodeDomain {
			res.Nodes[i].Category = string(c.Categorize(res.Nodes[i].ID))
		}
	}
}

// Groups buckets every domain of the result by category, preserving the
// stable export order (root first, then alphabetical) within each bucket.
// Categories with no members are absent from the returned map.
func (c *Categorizer) Groups(res *graph.ScanResult) map[Category][]string {
	groups := make(map[Category][]string)
	for _, domain := range res.DomainNames() {
		cat := c.Categorize(domain)
		groups[cat] = append(groups[cat], domain)
	}
	return groups
}
