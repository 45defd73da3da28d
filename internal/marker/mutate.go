package marker

import (
	"fmt"
	"strings"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// LocateDefinition finds the 0-indexed line of the definition a task
// targets: the nearest def or class line at or above anchorIdx whose
// indentation matches the marker's. Edits elsewhere in the file shift the
// anchor; the backward search at the recorded indentation absorbs small
// drift without a re-scan.
func LocateDefinition(lines []string, anchorIdx int, indent string, category domain.Category) (int, error) {
	isDef := isFunctionDef
	if category == domain.CategoryClass {
		isDef = isClassDef
	}

	start := anchorIdx
	if start >= len(lines) {
		start = len(lines) - 1
	}
	for i := start; i >= 0; i-- {
		if isDef(strings.TrimSpace(lines[i])) && Extract(lines[i]) == indent {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no %s definition at or above line %d", domain.ErrTargetNotFound, category, anchorIdx+1)
}

// ApplyDocstring replaces the docstring of the definition at defIdx, or
// inserts one right after its signature when none exists. Multi-line
// signatures are skipped to their closing colon first.
func ApplyDocstring(lines []string, defIdx int, doc []string) []string {
	sig := defIdx
	for sig < len(lines)-1 && !strings.HasSuffix(strings.TrimRight(lines[sig], " \t"), ":") {
		sig++
	}

	body := sig + 1
	for body < len(lines) && strings.TrimSpace(lines[body]) == "" {
		body++
	}
	if body < len(lines) {
		if end, ok := docstringSpan(lines, body); ok {
			return spliceLines(lines, body, end+1, doc)
		}
	}
	return spliceLines(lines, sig+1, sig+1, doc)
}

// ApplyModuleDocstring replaces the module docstring at the anchor line,
// or inserts one before it followed by a blank separator.
func ApplyModuleDocstring(lines []string, anchorIdx int, doc []string) []string {
	if anchorIdx < len(lines) {
		if end, ok := docstringSpan(lines, anchorIdx); ok {
			return spliceLines(lines, anchorIdx, end+1, doc)
		}
	}
	if anchorIdx > len(lines) {
		anchorIdx = len(lines)
	}
	insert := make([]string, 0, len(doc)+1)
	insert = append(insert, doc...)
	insert = append(insert, "")
	return spliceLines(lines, anchorIdx, anchorIdx, insert)
}

// ApplyComment replaces the contiguous comment lines directly above the
// anchor, or inserts new ones when there are none. Delimiter lines are
// never treated as part of the existing comment.
func ApplyComment(lines []string, anchorIdx int, comment []string) []string {
	if anchorIdx > len(lines) {
		anchorIdx = len(lines)
	}
	start := anchorIdx
	for start > 0 {
		stripped := strings.TrimSpace(lines[start-1])
		if !strings.HasPrefix(stripped, "#") {
			break
		}
		if _, _, isDelimiter := matchDelimiter(lines[start-1]); isDelimiter {
			break
		}
		start--
	}
	return spliceLines(lines, start, anchorIdx, comment)
}

// StripMarkers removes every delimiter line from content and reports how
// many were dropped.
func StripMarkers(content string) (string, int) {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	removed := 0
	for _, line := range lines {
		if _, _, isDelimiter := matchDelimiter(line); isDelimiter {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), removed
}

// docstringSpan reports the 0-indexed last line of the string literal
// starting at start, or false if start does not open one.
func docstringSpan(lines []string, start int) (int, bool) {
	stripped := strings.TrimSpace(lines[start])
	var quote string
	switch {
	case strings.HasPrefix(stripped, `"""`):
		quote = `"""`
	case strings.HasPrefix(stripped, "'''"):
		quote = "'''"
	default:
		return 0, false
	}

	if strings.Count(stripped, quote) >= 2 {
		return start, true
	}
	for j := start + 1; j < len(lines); j++ {
		if strings.Contains(lines[j], quote) {
			return j, true
		}
	}
	return 0, false
}

// spliceLines replaces lines[from:to] with replacement.
func spliceLines(lines []string, from, to int, replacement []string) []string {
	out := make([]string, 0, len(lines)-(to-from)+len(replacement))
	out = append(out, lines[:from]...)
	out = append(out, replacement...)
	out = append(out, lines[to:]...)
	return out
}
