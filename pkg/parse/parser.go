// Package parse extracts raw relation tuples from the textual output of a
// domain reconnaissance scan.
//
// The input is a flat text file where each line encodes one discovered
// relation. Two line formats are recognized, tried in fixed priority order:
//
//	typed:  SOURCE (TYPE) --> RELATION --> TARGET (TYPE)
//	bare:   SOURCE --> TARGET
//
// Lines that match neither format (headers, banners, footers) are skipped
// silently; recon tool output commonly carries such noise. Duplicate tuples
// are preserved at this stage, de-duplication belongs to the graph builder.
package parse

import (
	"bufio"
	"errors"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrNoRelations is returned when an entire input yields no recognizable
// relation line.
var ErrNoRelations = errors.New("no recognizable relation line found in input")

// Tuple is one raw relation extracted from a single input line. SourceType
// and TargetType carry the entity annotations of the typed format (FQDN,
// IPAddress, RIROrganization, ...) and are empty for bare lines. No
// normalization has happened yet.
type Tuple struct {
	Source     string
	SourceType string
	Relation   string
	Target     string
	TargetType string
	Line       int
}

// Line-format patterns in priority order; first match wins.
var (
	// mail.example.com (FQDN) --> mx_record --> 93.184.216.34 (IPAddress)
	typedLineRe = regexp.MustCompile(`^(.+?) \((.+?)\) --> (.+?) --> (.+?) \((.+?)\)$`)

	// mail.example.com --> 93.184.216.34
	bareLineRe = regexp.MustCompile(`^(\S+)\s*(?:-{1,2}>|→)\s*(\S+)$`)
)

// Reader parses scan output from r and returns the ordered tuple sequence.
// It returns ErrNoRelations when no line in the whole stream matches a known
// format.
func Reader(r io.Reader) ([]Tuple, error) {
	var tuples []Tuple
	skipped := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m := typedLineRe.FindStringSubmatch(line); m != nil {
			tuples = append(tuples, Tuple{
				Source:     strings.TrimSpace(m[1]),
				SourceType: strings.TrimSpace(m[2]),
				Relation:   strings.TrimSpace(m[3]),
				Target:     strings.TrimSpace(m[4]),
				TargetType: strings.TrimSpace(m[5]),
				Line:       lineNo,
			})
			continue
		}

		if m := bareLineRe.FindStringSubmatch(line); m != nil {
			tuples = append(tuples, Tuple{
				Source: m[1],
				Target: m[2],
				Line:   lineNo,
			})
			continue
		}

		skipped++
		log.Debug().Int("line", lineNo).Str("text", line).Msg("skipping unrecognized line")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Int("parsed", len(tuples)).Msg("finished parsing scan output")
	}
	if len(tuples) == 0 {
		return nil, ErrNoRelations
	}
	return tuples, nil
}

// File parses the scan output file at path.
func File(path string) ([]Tuple, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Reader(f)
}
