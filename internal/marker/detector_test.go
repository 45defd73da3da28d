package marker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/yonekura-dev/docmark/internal/domain"
)

func TestDetect_FunctionBlock(t *testing.T) {
	content := strings.Join([]string{
		"import os",
		"",
		"# @llm-doc-start",
		"def load_config(path):",
		"    return os.path.join(path)",
		"# @llm-doc-end",
	}, "\n")

	blocks, issues := NewDetector().Detect(content, "app.py")

	require.Empty(t, issues)
	require.Len(t, blocks, 1)
	b := blocks[0]
	assert.Equal(t, domain.CategoryFunction, b.Category)
	assert.Equal(t, "app.py", b.FilePath)
	assert.Equal(t, "", b.Indent)
	assert.Equal(t, 3, b.StartLine)
	assert.Equal(t, 6, b.EndLine)
	assert.Equal(t, 4, b.AnchorLine)
	assert.Equal(t, "load_config", b.Name)
	assert.Equal(t, "def load_config(path):\n    return os.path.join(path)", b.Text)
	assert.Equal(t, domain.DocAbsent, b.Doc)
}

func TestDetect_MethodBlockIndented(t *testing.T) {
	content := strings.Join([]string{
		"class Store:",
		"    # @llm-doc-start",
		"    def get(self, key):",
		"        return self.data[key]",
		"    # @llm-doc-end",
	}, "\n")

	blocks, issues := NewDetector().Detect(content, "store.py")

	require.Empty(t, issues)
	require.Len(t, blocks, 1)
	assert.Equal(t, "    ", blocks[0].Indent)
	assert.Equal(t, "get", blocks[0].Name)
	assert.Equal(t, 3, blocks[0].AnchorLine)
}

func TestDetect_DocPresence(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want domain.DocPresence
	}{
		{"real docstring", `"""Load the config from disk."""`, domain.DocPresent},
		{"placeholder", `"""TODO"""`, domain.DocPlaceholder},
		{"placeholder mixed case", `"""To Review"""`, domain.DocPlaceholder},
		{"empty literal", `""""""`, domain.DocAbsent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Join([]string{
				"# @llm-doc-start",
				"def f():",
				"    " + tt.doc,
				"    pass",
				"# @llm-doc-end",
			}, "\n")

			blocks, issues := NewDetector().Detect(content, "a.py")

			require.Empty(t, issues)
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.want, blocks[0].Doc)
		})
	}
}

func TestDetect_MultilineDocstring(t *testing.T) {
	content := strings.Join([]string{
		"# @llm-doc-start",
		"def f():",
		`    """Summary line.`,
		"",
		"    Longer explanation.",
		`    """`,
		"    pass",
		"# @llm-doc-end",
	}, "\n")

	blocks, issues := NewDetector().Detect(content, "a.py")

	require.Empty(t, issues)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.DocPresent, blocks[0].Doc)
	assert.Contains(t, blocks[0].CurrentDoc, "Summary line.")
	assert.Contains(t, blocks[0].CurrentDoc, "Longer explanation.")
}

func TestDetect_DanglingStartIsolated(t *testing.T) {
	content := strings.Join([]string{
		"# @llm-doc-start",
		"def ok():",
		"    pass",
		"# @llm-doc-end",
		"",
		"# @llm-class-start",
		"class Dangling:",
		"    pass",
	}, "\n")

	blocks, issues := NewDetector().Detect(content, "a.py")

	require.Len(t, blocks, 1)
	assert.Equal(t, "ok", blocks[0].Name)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.CategoryClass, issues[0].Category)
	assert.Equal(t, 6, issues[0].Line)
	assert.Contains(t, issues[0].Reason, "never closed")
}

func TestDetect_OrphanEnd(t *testing.T) {
	blocks, issues := NewDetector().Detect("x = 1\n# @llm-doc-end\n", "a.py")

	assert.Empty(t, blocks)
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Line)
	assert.Contains(t, issues[0].Reason, "without a matching start")
}

func TestDetect_IndentMismatch(t *testing.T) {
	content := strings.Join([]string{
		"# @llm-doc-start",
		"def f():",
		"    pass",
		"    # @llm-doc-end",
	}, "\n")

	blocks, issues := NewDetector().Detect(content, "a.py")

	assert.Empty(t, blocks)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Reason, "different indentation")
}

func TestDetect_DoubleStartSameIndent(t *testing.T) {
	content := strings.Join([]string{
		"# @llm-doc-start",
		"def f():",
		"# @llm-doc-start",
		"    pass",
		"# @llm-doc-end",
	}, "\n")

	blocks, issues := NewDetector().Detect(content, "a.py")

	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].StartLine)
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].Line)
}

func TestDetect_NestedCategories(t *testing.T) {
	content := strings.Join([]string{
		"# @llm-class-start",
		"class Store:",
		"    # @llm-doc-start",
		"    def get(self):",
		"        pass",
		"    # @llm-doc-end",
		"# @llm-class-end",
	}, "\n")

	blocks, issues := NewDetector().Detect(content, "store.py")

	require.Empty(t, issues)
	require.Len(t, blocks, 2)
	assert.Equal(t, domain.CategoryClass, blocks[0].Category)
	assert.Equal(t, "Store", blocks[0].Name)
	assert.Equal(t, domain.CategoryFunction, blocks[1].Category)
	assert.Equal(t, "get", blocks[1].Name)
}

func TestDetect_TrailingContentDisqualifies(t *testing.T) {
	content := "# @llm-doc-start here\ndef f():\n    pass\n# @llm-doc-end\n"

	blocks, issues := NewDetector().Detect(content, "a.py")

	assert.Empty(t, blocks)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Reason, "without a matching start")
}

func TestDetect_CommentBlock(t *testing.T) {
	content := strings.Join([]string{
		"# @llm-comm-start",
		"# parse the header first",
		"header = parse(raw)",
		"# @llm-comm-end",
	}, "\n")

	blocks, issues := NewDetector().Detect(content, "a.py")

	require.Empty(t, issues)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.CategoryComment, blocks[0].Category)
	assert.Equal(t, 3, blocks[0].AnchorLine)
	assert.Equal(t, "parse the header first", blocks[0].CurrentDoc)
	assert.Equal(t, domain.DocPresent, blocks[0].Doc)
}

func TestDetect_ModuleBlock(t *testing.T) {
	content := strings.Join([]string{
		"# @llm-module-start",
		`"""Utilities for path handling."""`,
		"import os",
		"# @llm-module-end",
	}, "\n")

	blocks, issues := NewDetector().Detect(content, "util.py")

	require.Empty(t, issues)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.CategoryModule, blocks[0].Category)
	assert.Equal(t, "", blocks[0].Name)
	assert.Equal(t, 2, blocks[0].AnchorLine)
	assert.Equal(t, domain.DocPresent, blocks[0].Doc)
	assert.Equal(t, "Utilities for path handling.", blocks[0].CurrentDoc)
}

func TestDetect_AsyncDef(t *testing.T) {
	content := "# @llm-doc-start\nasync def fetch(url):\n    pass\n# @llm-doc-end"

	blocks, issues := NewDetector().Detect(content, "a.py")

	require.Empty(t, issues)
	require.Len(t, blocks, 1)
	assert.Equal(t, "fetch", blocks[0].Name)
}

// Rendering a block between its delimiters and detecting it again must
// recover the exact text and indentation.
func TestDetect_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		category := rapid.SampledFrom(domain.AllCategories()).Draw(t, "category")
		indent := rapid.StringMatching(`( {0,8}|\t{0,3})`).Draw(t, "indent")
		body := rapid.SliceOfN(rapid.StringMatching(`[a-z ()_:=.]{0,20}`), 1, 6).Draw(t, "body")

		content := indent + domain.StartToken(category) + "\n" +
			strings.Join(body, "\n") + "\n" +
			indent + domain.EndToken(category)

		blocks, issues := NewDetector().Detect(content, "gen.py")

		require.Empty(t, issues)
		require.Len(t, blocks, 1)
		assert.Equal(t, category, blocks[0].Category)
		assert.Equal(t, indent, blocks[0].Indent)
		assert.Equal(t, strings.Join(body, "\n"), blocks[0].Text)
	})
}
