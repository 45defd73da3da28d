package marker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonekura-dev/docmark/internal/domain"
)

func TestLocateDefinition(t *testing.T) {
	lines := []string{
		"class Store:",
		"    def get(self):",
		"        pass",
		"",
		"    def put(self, v):",
		"        self.v = v",
	}

	// Anchor drifted two lines below the definition
	idx, err := LocateDefinition(lines, 5, "    ", domain.CategoryFunction)
	require.NoError(t, err)
	assert.Equal(t, 4, idx)

	// Indentation must match: the class is at column zero
	idx, err = LocateDefinition(lines, 5, "", domain.CategoryClass)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	// No function definition at column zero anywhere above
	_, err = LocateDefinition(lines, 5, "", domain.CategoryFunction)
	assert.ErrorIs(t, err, domain.ErrTargetNotFound)

	// Anchor beyond end of file clamps to the last line
	idx, err = LocateDefinition(lines, 99, "    ", domain.CategoryFunction)
	require.NoError(t, err)
	assert.Equal(t, 4, idx)
}

func TestApplyDocstring_Insert(t *testing.T) {
	lines := []string{
		"def f():",
		"    return 1",
	}

	got := ApplyDocstring(lines, 0, []string{`    """Do the thing."""`})

	assert.Equal(t, []string{
		"def f():",
		`    """Do the thing."""`,
		"    return 1",
	}, got)
}

func TestApplyDocstring_Replace(t *testing.T) {
	lines := []string{
		"def f():",
		`    """TODO"""`,
		"    return 1",
	}

	got := ApplyDocstring(lines, 0, []string{`    """Return one."""`})

	assert.Equal(t, []string{
		"def f():",
		`    """Return one."""`,
		"    return 1",
	}, got)
}

func TestApplyDocstring_ReplaceMultiline(t *testing.T) {
	lines := []string{
		"def f():",
		"",
		`    """Old summary.`,
		"",
		"    Old detail.",
		`    """`,
		"    return 1",
	}

	got := ApplyDocstring(lines, 0, []string{`    """New."""`})

	assert.Equal(t, []string{
		"def f():",
		"",
		`    """New."""`,
		"    return 1",
	}, got)
}

func TestApplyDocstring_MultilineSignature(t *testing.T) {
	lines := []string{
		"def f(",
		"    x,",
		"):",
		"    return x",
	}

	got := ApplyDocstring(lines, 0, []string{`    """Doc."""`})

	assert.Equal(t, `    """Doc."""`, got[3])
	assert.Equal(t, "    return x", got[4])
}

func TestApplyModuleDocstring(t *testing.T) {
	lines := []string{
		"# @llm-module-start",
		"import os",
		"# @llm-module-end",
	}

	got := ApplyModuleDocstring(lines, 1, []string{`"""Path helpers."""`})

	assert.Equal(t, []string{
		"# @llm-module-start",
		`"""Path helpers."""`,
		"",
		"import os",
		"# @llm-module-end",
	}, got)

	// Replacing keeps no duplicate blank separator
	got = ApplyModuleDocstring(got, 1, []string{`"""Better."""`})
	assert.Equal(t, `"""Better."""`, got[1])
	assert.Equal(t, "", got[2])
	assert.Equal(t, "import os", got[3])
}

func TestApplyComment_InsertAndReplace(t *testing.T) {
	lines := []string{
		"# @llm-comm-start",
		"header = parse(raw)",
		"# @llm-comm-end",
	}

	got := ApplyComment(lines, 1, []string{"# parse the header first"})
	assert.Equal(t, []string{
		"# @llm-comm-start",
		"# parse the header first",
		"header = parse(raw)",
		"# @llm-comm-end",
	}, got)

	// Replacement swallows the old comment but never the delimiter
	got = ApplyComment(got, 2, []string{"# new explanation", "# spanning two lines"})
	assert.Equal(t, []string{
		"# @llm-comm-start",
		"# new explanation",
		"# spanning two lines",
		"header = parse(raw)",
		"# @llm-comm-end",
	}, got)
}

func TestStripMarkers(t *testing.T) {
	content := strings.Join([]string{
		"# @llm-doc-start",
		"def f():",
		`    """Doc."""`,
		"    pass",
		"# @llm-doc-end",
		"x = 1",
	}, "\n")

	stripped, removed := StripMarkers(content)

	assert.Equal(t, 2, removed)
	assert.Equal(t, strings.Join([]string{
		"def f():",
		`    """Doc."""`,
		"    pass",
		"x = 1",
	}, "\n"), stripped)
}

func TestStripMarkers_LeavesTrailingContentLines(t *testing.T) {
	content := "# @llm-doc-start trailing words\nx = 1\n"

	stripped, removed := StripMarkers(content)

	assert.Equal(t, 0, removed)
	assert.Equal(t, content, stripped)
}

func TestFormatDocstring_SingleLine(t *testing.T) {
	got := FormatDocstring("Return the merged config.", "    ")
	assert.Equal(t, []string{`    """Return the merged config."""`}, got)
}

func TestFormatDocstring_Sections(t *testing.T) {
	text := "Load a config file.\n\nArgs:\npath: File to read.\n\nReturns:\nThe parsed config."

	got := FormatDocstring(text, "    ")

	assert.Equal(t, []string{
		`    """Load a config file.`,
		"",
		"    Args:",
		"        path: File to read.",
		"",
		"    Returns:",
		"        The parsed config.",
		`    """`,
	}, got)
}

func TestFormatDocstring_Empty(t *testing.T) {
	assert.Nil(t, FormatDocstring("   \n  ", "    "))
}

func TestFormatComment(t *testing.T) {
	got := FormatComment("first line\nsecond line", "    ")
	assert.Equal(t, []string{
		"    # first line",
		"    # second line",
	}, got)
}
