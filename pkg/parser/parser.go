// Package parser extracts {name, description} records from model output.
// It is pure: no logging, no I/O. Callers decide what to do with lines the
// parser could not match.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// Patterns are tried in priority order against each numbered line. Models
// vary between "1. **Name** - desc", "1. **Name**: desc" and the unbolded
// "1. Name - desc"; all three shapes occur in practice.
var (
	boldDash  = regexp.MustCompile(`^\d+\.\s*\*\*(.+?)\*\*\s*[-\x{2013}\x{2014}]\s*(.+)$`)
	boldColon = regexp.MustCompile(`^\d+\.\s*\*\*(.+?)\*\*\s*:?\s*(.+)$`)
	plainDash = regexp.MustCompile(`^\d+\.\s+(.+?)\s+[-\x{2013}\x{2014}]\s+(.+)$`)
)

// Parse scans text line by line and returns the records it recognized, plus
// the non-empty lines it had to drop. A line is dropped when it carries a
// list number but matches none of the patterns; prose lines without a list
// number (preambles, closing remarks) are skipped silently.
func Parse(text string) ([]domain.Record, []string) {
	var (
		records []domain.Record
		dropped []string
	)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if rec, ok := match(line); ok {
			records = append(records, rec)
			continue
		}
		if numbered(line) {
			dropped = append(dropped, line)
		}
	}
	return records, dropped
}

func match(line string) (domain.Record, bool) {
	for _, re := range []*regexp.Regexp{boldDash, boldColon, plainDash} {
		if m := re.FindStringSubmatch(line); m != nil {
			name := clean(m[1])
			desc := clean(m[2])
			if name == "" || desc == "" {
				continue
			}
			return domain.Record{Name: name, Description: desc}, true
		}
	}
	return domain.Record{}, false
}

// numbered reports whether the line starts like a numbered list item.
var numberedRe = regexp.MustCompile(`^\d+\.`)

func numbered(line string) bool {
	return numberedRe.MatchString(line)
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*")
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

// Render writes records back in the canonical numbered-bold form. Used by
// tests and by fixtures that replay stored generations.
func Render(records []domain.Record) string {
	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i+1) + ". **" + r.Name + "**: " + r.Description)
	}
	return b.String()
}
