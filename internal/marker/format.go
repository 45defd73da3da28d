package marker

import "strings"

// sectionHeaders are docstring section labels that keep their own
// indentation level, with their bodies indented one step further.
var sectionHeaders = map[string]bool{
	"Args:":       true,
	"Arguments:":  true,
	"Attributes:": true,
	"Examples:":   true,
	"Note:":       true,
	"Notes:":      true,
	"Raises:":     true,
	"Returns:":    true,
	"Yields:":     true,
}

// FormatDocstring renders suggestion text as triple-quoted docstring lines
// at the given indentation. A single short line collapses to one line;
// anything longer gets the summary on the opening line and a closing quote
// on its own line. Section headers sit at the docstring's base indentation
// and their bodies four spaces deeper.
func FormatDocstring(text, indent string) []string {
	lines := normalizeLines(text)
	if len(lines) == 0 {
		return nil
	}

	if len(lines) == 1 && len(indent)+len(lines[0])+6 <= 88 {
		return []string{indent + `"""` + lines[0] + `"""`}
	}

	out := make([]string, 0, len(lines)+2)
	out = append(out, indent+`"""`+lines[0])
	inSection := false
	for _, line := range lines[1:] {
		switch {
		case line == "":
			out = append(out, "")
		case sectionHeaders[line]:
			out = append(out, indent+line)
			inSection = true
		case inSection:
			out = append(out, indent+"    "+line)
		default:
			out = append(out, indent+line)
		}
	}
	out = append(out, indent+`"""`)
	return out
}

// FormatComment renders suggestion text as '#' comment lines at the given
// indentation.
func FormatComment(text, indent string) []string {
	lines := normalizeLines(text)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			out = append(out, indent+"#")
			continue
		}
		out = append(out, indent+"# "+line)
	}
	return out
}

// normalizeLines trims the text, splits it, strips per-line indentation,
// and collapses leading/trailing blank lines. A blank line between
// paragraphs survives; section structure is re-derived from the headers.
func normalizeLines(text string) []string {
	raw := strings.Split(strings.TrimSpace(text), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimSpace(line))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}
