// Package export serializes a categorized scan result into the textual
// listing formats: simple, categorized, detailed, clean and with-ips, plus
// YAML/JSON dumps of the full relationship graph.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/domainmap/domainmap/pkg/categorize"
	"github.com/domainmap/domainmap/pkg/graph"
)

// Mode selects one of the listing formats.
type Mode string

const (
	// ModeSimple lists "domain → ip-list" lines, root first then
	// alphabetical.
	ModeSimple Mode = "simple"

	// ModeCategorized groups domains under category headers in the fixed
	// enumeration order, empty groups omitted, with a trailing total.
	ModeCategorized Mode = "categorized"

	// ModeDetailed is categorized plus every edge touching each domain.
	ModeDetailed Mode = "detailed"

	// ModeClean emits bare domain identifiers only, one per line, in the
	// stable sort order. Reproducible across runs.
	ModeClean Mode = "clean"

	// ModeWithIPs is the export-ips variant: identifiers with their
	// resolved addresses inline.
	ModeWithIPs Mode = "with-ips"
)

// ErrUnsupportedFormat is returned for an unknown marshal format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Exporter writes scan results in the listing formats. The categorizer is
// injected so custom rulesets flow through to grouped output.
type Exporter struct {
	categorizer *categorize.Categorizer
}

// New creates an Exporter using the given categorizer.
func New(c *categorize.Categorizer) *Exporter {
	return &Exporter{categorizer: c}
}

// Write serializes res in the requested mode to w.
func (e *Exporter) Write(w io.Writer, res *graph.ScanResult, mode Mode) error {
	switch mode {
	case ModeSimple, ModeWithIPs:
		return e.writeSimple(w, res)
	case ModeCategorized:
		return e.writeCategorized(w, res, false)
	case ModeDetailed:
		return e.writeCategorized(w, res, true)
	case ModeClean:
		return e.writeClean(w, res)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, mode)
	}
}

// WriteFile serializes res to the file at path, creating or truncating it.
func (e *Exporter) WriteFile(path string, res *graph.ScanResult, mode Mode) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.Write(f, res, mode); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (e *Exporter) writeSimple(w io.Writer, res *graph.ScanResult) error {
	for _, domain := range res.DomainNames() {
		if _, err := io.WriteString(w, domainLine(res, domain)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeClean(w io.Writer, res *graph.ScanResult) error {
	for _, domain := range res.DomainNames() {
		if _, err := io.WriteString(w, domain+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeCategorized(w io.Writer, res *graph.ScanResult, detailed bool) error {
	groups := e.categorizer.Groups(res)

	total := 0
	for _, cat := range categorize.Categories {
		members := groups[cat]
		if len(members) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "[%s] (%d)\n", cat, len(members)); err != nil {
			return err
		}
		for _, domain := range members {
			if _, err := io.WriteString(w, domainLine(res, domain)+"\n"); err != nil {
				return err
			}
			if detailed {
				if err := writeEdges(w, res, domain); err != nil {
					return err
				}
			}
			total++
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Total: %d domains\n", total)
	return err
}

func writeEdges(w io.Writer, res *graph.ScanResult, domain string) error {
	for _, e := range res.EdgesFrom(domain) {
		if _, err := fmt.Fprintf(w, "  %s → %s\n", e.Kind, e.Target); err != nil {
			return err
		}
	}
	return nil
}

func domainLine(res *graph.ScanResult, domain string) string {
	ips := res.IPsOf(domain)
	if len(ips) == 0 {
		return domain
	}
	return domain + " → " + strings.Join(ips, ", ")
}

// Marshal dumps the full scan result as "yaml" or "json", validating it
// first.
func Marshal(res *graph.ScanResult, format string) ([]byte, error) {
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scan result: %w", err)
	}
	switch format {
	case "yaml":
		return yaml.Marshal(res)
	case "json":
		return json.MarshalIndent(res, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
