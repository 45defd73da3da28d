package marker

import "strings"

// Extract returns the leading run of spaces and tabs on a line.
func Extract(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Nest derives one additional nesting level from a base indentation,
// following the file's own convention instead of a global setting. Tabs
// deepen by one tab. Space runs that are even but not a multiple of four
// deepen by two spaces; everything else, including an empty base, deepens
// by four.
func Nest(base string) string {
	if strings.Contains(base, "\t") {
		return base + "\t"
	}
	if n := len(base); n > 0 && n%2 == 0 && n%4 != 0 {
		return base + "  "
	}
	return base + "    "
}
