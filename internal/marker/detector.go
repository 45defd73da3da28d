// Package marker locates delimiter-bounded documentation blocks in source
// text. It works on a reduced marker+line model: no syntax tree is built,
// and malformed pairings surface as imbalance issues rather than aborting
// the file.
package marker

import (
	"sort"
	"strings"

	"github.com/yonekura-dev/docmark/internal/domain"
)

// Detector scans raw file text for paired start/end delimiter comments.
// The zero value is ready to use.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// openMarker tracks an unclosed start delimiter during detection.
type openMarker struct {
	indent string
	line   int // 0-indexed
}

// Detect slices all well-formed marker blocks out of content. Pairing is a
// strict per-category stack: an end delimiter closes the nearest open start
// of its category, both delimiters must carry identical indentation, and a
// start at the same indentation as an already-open start of the same
// category is rejected. Violations are returned as imbalances; blocks from
// intact pairs in the same file are still returned.
func (d *Detector) Detect(content, filePath string) ([]domain.Block, []domain.Imbalance) {
	lines := strings.Split(content, "\n")

	var blocks []domain.Block
	var issues []domain.Imbalance
	stacks := make(map[domain.Category][]openMarker)

	for i, line := range lines {
		category, isStart, ok := matchDelimiter(line)
		if !ok {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

		if isStart {
			stack := stacks[category]
			if n := len(stack); n > 0 && stack[n-1].indent == indent {
				issues = append(issues, domain.Imbalance{
					FilePath: filePath,
					Category: category,
					Line:     i + 1,
					Reason:   "start delimiter opened before the previous one was closed",
				})
				continue
			}
			stacks[category] = append(stack, openMarker{line: i, indent: indent})
			continue
		}

		stack := stacks[category]
		if len(stack) == 0 {
			issues = append(issues, domain.Imbalance{
				FilePath: filePath,
				Category: category,
				Line:     i + 1,
				Reason:   "end delimiter without a matching start",
			})
			continue
		}
		open := stack[len(stack)-1]
		stacks[category] = stack[:len(stack)-1]

		if open.indent != indent {
			issues = append(issues, domain.Imbalance{
				FilePath: filePath,
				Category: category,
				Line:     open.line + 1,
				Reason:   "start and end delimiters have different indentation",
			})
			continue
		}

		block := domain.Block{
			FilePath:  filePath,
			Category:  category,
			Indent:    open.indent,
			Text:      strings.Join(lines[open.line+1:i], "\n"),
			StartLine: open.line + 1,
			EndLine:   i + 1,
		}
		analyzeBlock(&block, lines[open.line+1:i], open.line+1)
		blocks = append(blocks, block)
	}

	for category, stack := range stacks {
		for _, open := range stack {
			issues = append(issues, domain.Imbalance{
				FilePath: filePath,
				Category: category,
				Line:     open.line + 1,
				Reason:   "start delimiter never closed before end of file",
			})
		}
	}

	sort.Slice(blocks, func(a, b int) bool { return blocks[a].StartLine < blocks[b].StartLine })
	sort.Slice(issues, func(a, b int) bool { return issues[a].Line < issues[b].Line })
	return blocks, issues
}

// matchDelimiter reports whether the line is exactly one delimiter token
// after stripping leading whitespace. Trailing content disqualifies it.
func matchDelimiter(line string) (category domain.Category, isStart, ok bool) {
	stripped := strings.TrimLeft(line, " \t")
	for _, c := range domain.AllCategories() {
		switch stripped {
		case domain.StartToken(c):
			return c, true, true
		case domain.EndToken(c):
			return c, false, true
		}
	}
	return "", false, false
}

// analyzeBlock fills in name, anchor, and documentation facts for a block.
// blockLines are the lines strictly between the delimiters and firstLine is
// the 1-indexed file line of blockLines[0].
func analyzeBlock(b *domain.Block, blockLines []string, firstLine int) {
	switch b.Category {
	case domain.CategoryFunction:
		analyzeDefinition(b, blockLines, firstLine, isFunctionDef)
	case domain.CategoryClass:
		analyzeDefinition(b, blockLines, firstLine, isClassDef)
	case domain.CategoryModule:
		analyzeModule(b, blockLines, firstLine)
	case domain.CategoryComment:
		analyzeComment(b, blockLines, firstLine)
	}
}

// analyzeDefinition locates the first matching definition line, extracts
// the declared name, and captures any documentation literal that
// immediately follows it.
func analyzeDefinition(b *domain.Block, blockLines []string, firstLine int, isDef func(string) bool) {
	defIdx := -1
	for i, line := range blockLines {
		if isDef(strings.TrimSpace(line)) {
			defIdx = i
			break
		}
	}
	if defIdx < 0 {
		b.Doc = domain.DocAbsent
		return
	}

	b.AnchorLine = firstLine + defIdx
	b.Name = declaredName(strings.TrimSpace(blockLines[defIdx]))

	doc, found := ExtractDocLiteral(blockLines, defIdx)
	if !found {
		b.Doc = domain.DocAbsent
		return
	}
	b.CurrentDoc = doc
	b.Doc = domain.ClassifyDoc(doc)
}

// analyzeModule anchors the block at its first code line. Module blocks
// carry no declared name; an existing module docstring is a documentation
// literal before any code.
func analyzeModule(b *domain.Block, blockLines []string, firstLine int) {
	for i, line := range blockLines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}
		b.AnchorLine = firstLine + i
		break
	}
	doc, found := ExtractDocLiteral(blockLines, -1)
	if !found {
		b.Doc = domain.DocAbsent
		return
	}
	b.CurrentDoc = doc
	b.Doc = domain.ClassifyDoc(doc)
}

// analyzeComment anchors the block at its first code line and collects any
// existing comment lines as the current documentation.
func analyzeComment(b *domain.Block, blockLines []string, firstLine int) {
	var comments []string
	for i, line := range blockLines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if strings.HasPrefix(stripped, "#") {
			if text := strings.TrimSpace(strings.TrimPrefix(stripped, "#")); text != "" {
				comments = append(comments, text)
			}
			continue
		}
		if b.AnchorLine == 0 {
			b.AnchorLine = firstLine + i
		}
	}
	if len(comments) == 0 {
		b.Doc = domain.DocAbsent
		return
	}
	b.CurrentDoc = strings.Join(comments, "\n")
	b.Doc = domain.ClassifyDoc(b.CurrentDoc)
}

// ExtractDocLiteral finds a triple-quoted documentation literal in lines
// after index defIdx (pass -1 to search from the beginning). Only blank
// lines may sit between the definition and the opening quote; any other
// content means the construct is undocumented. The returned text has the
// quotes stripped.
func ExtractDocLiteral(lines []string, defIdx int) (string, bool) {
	start, quote := -1, ""
	for i := defIdx + 1; i < len(lines); i++ {
		stripped := strings.TrimSpace(lines[i])
		if stripped == "" {
			continue
		}
		switch {
		case strings.HasPrefix(stripped, `"""`):
			start, quote = i, `"""`
		case strings.HasPrefix(stripped, "'''"):
			start, quote = i, "'''"
		}
		break
	}
	if start < 0 {
		return "", false
	}

	first := strings.TrimSpace(lines[start])
	if strings.Count(first, quote) >= 2 {
		return strings.TrimSpace(strings.Trim(first, quote[:1])), true
	}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		if strings.Contains(lines[i], quote) {
			end = i
			break
		}
	}
	if end < 0 {
		return "", false
	}

	text := strings.Join(lines[start:end+1], "\n")
	text = strings.TrimSpace(text)
	text = strings.Trim(text, quote[:1])
	return strings.TrimSpace(text), true
}

// isFunctionDef reports whether a stripped line starts a function or
// method definition.
func isFunctionDef(stripped string) bool {
	return strings.HasPrefix(stripped, "def ") || strings.HasPrefix(stripped, "async def ")
}

// isClassDef reports whether a stripped line starts a class definition.
func isClassDef(stripped string) bool {
	return strings.HasPrefix(stripped, "class ")
}

// declaredName extracts the identifier from a stripped definition line.
func declaredName(stripped string) string {
	stripped = strings.TrimPrefix(stripped, "async ")
	stripped = strings.TrimPrefix(stripped, "def ")
	stripped = strings.TrimPrefix(stripped, "class ")
	for i := 0; i < len(stripped); i++ {
		c := stripped[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			continue
		}
		return stripped[:i]
	}
	return stripped
}
