package domain

import (
	"fmt"
	"strings"
)

// Delimiter tokens. A source line is a delimiter only if stripping its
// leading whitespace leaves exactly one of these strings.
const (
	TokenModuleStart   = "# @llm-module-start"
	TokenModuleEnd     = "# @llm-module-end"
	TokenClassStart    = "# @llm-class-start"
	TokenClassEnd      = "# @llm-class-end"
	TokenFunctionStart = "# @llm-doc-start"
	TokenFunctionEnd   = "# @llm-doc-end"
	TokenCommentStart  = "# @llm-comm-start"
	TokenCommentEnd    = "# @llm-comm-end"
)

// StartToken returns the start delimiter for a category.
func StartToken(c Category) string {
	switch c {
	case CategoryModule:
		return TokenModuleStart
	case CategoryClass:
		return TokenClassStart
	case CategoryFunction:
		return TokenFunctionStart
	case CategoryComment:
		return TokenCommentStart
	default:
		return ""
	}
}

// EndToken returns the end delimiter for a category.
func EndToken(c Category) string {
	switch c {
	case CategoryModule:
		return TokenModuleEnd
	case CategoryClass:
		return TokenClassEnd
	case CategoryFunction:
		return TokenFunctionEnd
	case CategoryComment:
		return TokenCommentEnd
	default:
		return ""
	}
}

// AllDelimiterTokens returns every start and end token.
func AllDelimiterTokens() []string {
	tokens := make([]string, 0, 8)
	for _, c := range AllCategories() {
		tokens = append(tokens, StartToken(c), EndToken(c))
	}
	return tokens
}

// Block is a span of source text between a matched start/end delimiter
// pair. Blocks are produced fresh on every scan and never persisted.
// Fields are ordered to minimize memory padding.
type Block struct {
	FilePath   string
	Category   Category
	Indent     string      // Leading whitespace shared by the two delimiter lines
	Text       string      // Everything strictly between the delimiter lines
	Name       string      // Declared name from the first definition line (best effort)
	CurrentDoc string      // Existing documentation literal, if any
	Doc        DocPresence // Classification of the existing documentation
	StartLine  int         // 1-indexed line of the start delimiter
	EndLine    int         // 1-indexed line of the end delimiter
	AnchorLine int         // 1-indexed line of the definition (or first code line for comments); 0 if none
}

// MarkerLine returns the start delimiter exactly as it appears in the file.
func (b *Block) MarkerLine() string {
	return b.Indent + StartToken(b.Category)
}

// Subject returns the fingerprint subject key for the block. Named blocks
// key on the declared name so unchanged blocks survive line drift; unnamed
// blocks fall back to their start line.
func (b *Block) Subject() string {
	name := b.Name
	if name == "" {
		name = fmt.Sprintf("block@%d", b.StartLine)
	}
	return b.FilePath + "|" + string(b.Category) + "|" + name
}

// DocPresence classifies the documentation state of a construct inside a
// marker block.
type DocPresence int

const (
	DocAbsent      DocPresence = iota // No documentation literal found
	DocPlaceholder                    // A literal exists but holds only a stand-in token
	DocPresent                        // A real documentation literal exists
)

// String returns the lower-case name of the presence value.
func (p DocPresence) String() string {
	switch p {
	case DocAbsent:
		return "absent"
	case DocPlaceholder:
		return "placeholder"
	case DocPresent:
		return "present"
	default:
		return "unknown"
	}
}

// placeholderTokens are stand-in strings that mark documentation as not yet
// written. Compared case-insensitively against the whole trimmed content.
var placeholderTokens = map[string]bool{
	"todo":             true,
	"to do":            true,
	"to_do":            true,
	"fixme":            true,
	"to_review":        true,
	"to review":        true,
	"placeholder":      true,
	"add description":  true,
	"description here": true,
}

// ClassifyDoc classifies raw documentation text. Quotes and surrounding
// whitespace are trimmed before comparison; the placeholder check is a
// whole-content match, not a substring search.
func ClassifyDoc(doc string) DocPresence {
	trimmed := strings.TrimSpace(doc)
	trimmed = strings.Trim(trimmed, `"'`)
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return DocAbsent
	}
	if placeholderTokens[strings.ToLower(trimmed)] {
		return DocPlaceholder
	}
	return DocPresent
}

// Imbalance reports a malformed delimiter pairing in one file. Imbalances
// isolate to the dangling pair: well-formed blocks in the same file are
// still usable.
type Imbalance struct {
	FilePath string
	Category Category
	Reason   string
	Line     int // 1-indexed line of the offending delimiter
}

// Error implements the error interface.
func (i Imbalance) Error() string {
	return fmt.Sprintf("%s:%d: unbalanced %s marker: %s", i.FilePath, i.Line, i.Category, i.Reason)
}
