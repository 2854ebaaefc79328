package transformer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractConcepts_Rust(t *testing.T) {
	t.Parallel()

	src := `
struct User { id: usize }
trait Auth { fn login(&self); }
impl Auth for User { fn login(&self) {} }
fn helper() {}
`
	concepts := ExtractConcepts(src, "rs")

	assert.Contains(t, concepts, "struct User")
	assert.Contains(t, concepts, "trait Auth")
	assert.Contains(t, concepts, "fn helper")
}

func TestExtractConcepts_Python(t *testing.T) {
	t.Parallel()

	src := "class MyClass:\n    def method(self):\n        pass\n\ndef global_func():\n    pass\n"

	concepts := ExtractConcepts(src, "py")

	assert.Contains(t, concepts, "class MyClass")
	assert.Contains(t, concepts, "fn global_func")
}

func TestExtractConcepts_UnsupportedLanguageReturnsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ExtractConcepts("anything", "txt"))
}

func TestConceptComment_EmptyReturnsEmptyString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ConceptComment(nil, "go"))
}

func TestConceptComment_UsesLanguageSyntax(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "// concepts: fn helper\n", ConceptComment([]string{"fn helper"}, "go"))
	assert.Equal(t, "# concepts: class Foo\n", ConceptComment([]string{"class Foo"}, "py"))
}
