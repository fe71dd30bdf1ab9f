package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/node"
)

// Severity orders findings by importance.
type Severity uint8

// Severity levels.
const (
	Suggestion Severity = iota
	Warning
	Error
)

var severityNames = [...]string{
	Suggestion: "suggestion",
	Warning:    "warning",
	Error:      "error",
}

func (sev Severity) String() string {
	if int(sev) < len(severityNames) {
		return severityNames[sev]
	}

	return "unknown"
}

// MarshalText renders the severity by name.
func (sev Severity) MarshalText() ([]byte, error) {
	return []byte(sev.String()), nil
}

// UnmarshalText parses a severity name.
func (sev *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}

	*sev = parsed

	return nil
}

// ErrUnknownSeverity is returned by ParseSeverity for unrecognised names.
var ErrUnknownSeverity = errors.New("unknown severity")

// ParseSeverity maps a lowercase severity name to its level.
func ParseSeverity(name string) (Severity, error) {
	for idx, candidate := range severityNames {
		if strings.EqualFold(candidate, name) {
			return Severity(idx), nil //nolint:gosec // index bounded by severityNames
		}
	}

	return Suggestion, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// Edit is a literal replacement of one source span.
type Edit struct {
	Replacement string    `json:"replacement"`
	Span        node.Span `json:"span"`
}

// Fix replaces Span with Replacement. Related edits, such as renamed
// references, belong to the same fix and are applied with it or not at all.
type Fix struct {
	Replacement string    `json:"replacement"`
	Span        node.Span `json:"span"`
	Related     []Edit    `json:"related,omitempty"`
}

// Edits lists every edit of the fix, the primary one first.
func (fix *Fix) Edits() []Edit {
	if fix == nil {
		return nil
	}

	edits := make([]Edit, 0, 1+len(fix.Related))
	edits = append(edits, Edit{Span: fix.Span, Replacement: fix.Replacement})

	return append(edits, fix.Related...)
}

// Finding is one reported match.
type Finding struct {
	Node     *node.Node `json:"-"`
	Fix      *Fix       `json:"fix,omitempty"`
	Rule     string     `json:"rule"`
	Message  string     `json:"message"`
	Span     node.Span  `json:"span"`
	Severity Severity   `json:"severity"`
}

// NewFinding reports message at n.
func NewFinding(n *node.Node, message string) Finding {
	finding := Finding{Node: n, Message: message}
	if n != nil {
		finding.Span = n.Span
	}

	return finding
}

// Newf reports a formatted message at n.
func Newf(n *node.Node, format string, args ...any) Finding {
	return NewFinding(n, fmt.Sprintf(format, args...))
}

// WithFix returns a copy of the finding carrying a replacement of span and
// any related edits.
func (finding Finding) WithFix(span node.Span, replacement string, related ...Edit) Finding {
	finding.Fix = &Fix{Span: span, Replacement: replacement, Related: related}

	return finding
}
