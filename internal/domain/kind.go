package domain

// Category identifies which construct a marker pair wraps. It is fixed by
// the delimiter spelling, never inferred from block content.
type Category string

const (
	CategoryModule   Category = "module"
	CategoryClass    Category = "class"
	CategoryFunction Category = "function"
	CategoryComment  Category = "comment"
)

// AllCategories returns categories in processing order: documentation for
// outer constructs is catalogued before inner ones.
func AllCategories() []Category {
	return []Category{CategoryModule, CategoryClass, CategoryFunction, CategoryComment}
}

// Rank returns the fixed processing order of the category. Lower ranks are
// processed first.
func (c Category) Rank() int {
	switch c {
	case CategoryModule:
		return 0
	case CategoryClass:
		return 1
	case CategoryFunction:
		return 2
	case CategoryComment:
		return 3
	default:
		return 4
	}
}

// IsValid returns true if the category is a known value.
func (c Category) IsValid() bool {
	return c.Rank() < 4
}

// TaskKind names the work a task carries: generate or validate
// documentation for one of the four marker categories.
type TaskKind string

const (
	KindGenerateModuleDoc   TaskKind = "generate_module_doc"
	KindValidateModuleDoc   TaskKind = "validate_module_doc"
	KindGenerateClassDoc    TaskKind = "generate_class_doc"
	KindValidateClassDoc    TaskKind = "validate_class_doc"
	KindGenerateFunctionDoc TaskKind = "generate_function_doc"
	KindValidateFunctionDoc TaskKind = "validate_function_doc"
	KindGenerateComment     TaskKind = "generate_inline_comment"
	KindValidateComment     TaskKind = "validate_inline_comment"
)

// AllKinds returns all valid task kinds in processing order.
func AllKinds() []TaskKind {
	return []TaskKind{
		KindGenerateModuleDoc, KindValidateModuleDoc,
		KindGenerateClassDoc, KindValidateClassDoc,
		KindGenerateFunctionDoc, KindValidateFunctionDoc,
		KindGenerateComment, KindValidateComment,
	}
}

// Category returns the marker category the kind operates on.
func (k TaskKind) Category() Category {
	switch k {
	case KindGenerateModuleDoc, KindValidateModuleDoc:
		return CategoryModule
	case KindGenerateClassDoc, KindValidateClassDoc:
		return CategoryClass
	case KindGenerateFunctionDoc, KindValidateFunctionDoc:
		return CategoryFunction
	case KindGenerateComment, KindValidateComment:
		return CategoryComment
	default:
		return ""
	}
}

// IsGenerate returns true for generate-* kinds.
func (k TaskKind) IsGenerate() bool {
	switch k {
	case KindGenerateModuleDoc, KindGenerateClassDoc, KindGenerateFunctionDoc, KindGenerateComment:
		return true
	default:
		return false
	}
}

// IsValid returns true if the kind is a known value.
func (k TaskKind) IsValid() bool {
	return k.Category() != ""
}

// KindFor decides the task kind for a block: constructs without usable
// documentation get generate-*, documented ones get validate-*.
func KindFor(category Category, doc DocPresence) TaskKind {
	generate := doc != DocPresent
	switch category {
	case CategoryModule:
		if generate {
			return KindGenerateModuleDoc
		}
		return KindValidateModuleDoc
	case CategoryClass:
		if generate {
			return KindGenerateClassDoc
		}
		return KindValidateClassDoc
	case CategoryFunction:
		if generate {
			return KindGenerateFunctionDoc
		}
		return KindValidateFunctionDoc
	case CategoryComment:
		if generate {
			return KindGenerateComment
		}
		return KindValidateComment
	default:
		return ""
	}
}
