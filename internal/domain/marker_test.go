package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDoc(t *testing.T) {
	tests := []struct {
		doc  string
		want DocPresence
	}{
		{"", DocAbsent},
		{"   ", DocAbsent},
		{`""""""`, DocAbsent},
		{"TODO", DocPlaceholder},
		{"todo", DocPlaceholder},
		{"To Review", DocPlaceholder},
		{"add description", DocPlaceholder},
		{"Returns the TODO list.", DocPresent}, // substring is not a placeholder
		{"Load the config.", DocPresent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDoc(tt.doc), "doc %q", tt.doc)
	}
}

func TestKindFor(t *testing.T) {
	assert.Equal(t, KindGenerateFunctionDoc, KindFor(CategoryFunction, DocAbsent))
	assert.Equal(t, KindGenerateFunctionDoc, KindFor(CategoryFunction, DocPlaceholder))
	assert.Equal(t, KindValidateFunctionDoc, KindFor(CategoryFunction, DocPresent))
	assert.Equal(t, KindGenerateModuleDoc, KindFor(CategoryModule, DocAbsent))
	assert.Equal(t, KindValidateComment, KindFor(CategoryComment, DocPresent))
}

func TestTaskKind_Category(t *testing.T) {
	for _, k := range AllKinds() {
		assert.True(t, k.IsValid())
		assert.True(t, k.Category().IsValid())
	}
	assert.False(t, TaskKind("bogus").IsValid())
}

func TestBlock_Subject(t *testing.T) {
	named := Block{FilePath: "a.py", Category: CategoryFunction, Name: "load"}
	assert.Equal(t, "a.py|function|load", named.Subject())

	unnamed := Block{FilePath: "a.py", Category: CategoryComment, StartLine: 12}
	assert.Equal(t, "a.py|comment|block@12", unnamed.Subject())
}

func TestBlock_MarkerLine(t *testing.T) {
	b := Block{Category: CategoryFunction, Indent: "    "}
	assert.Equal(t, "    # @llm-doc-start", b.MarkerLine())
}

func TestCategory_Rank(t *testing.T) {
	assert.True(t, CategoryModule.Rank() < CategoryClass.Rank())
	assert.True(t, CategoryClass.Rank() < CategoryFunction.Rank())
	assert.True(t, CategoryFunction.Rank() < CategoryComment.Rank())
}
