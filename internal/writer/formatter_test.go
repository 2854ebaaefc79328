package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kj114022/abyss/internal/model"
)

func TestRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		root string
		want string
	}{
		{"strips root with slash", "/repo/src/main.go", "/repo", "src/main.go"},
		{"no shared prefix keeps path", "/other/main.go", "/repo", "/other/main.go"},
		{"empty root keeps path", "/repo/main.go", "", "/repo/main.go"},
		{"exact match of root keeps path", "/repo", "/repo", "/repo"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, relativePath(tt.path, tt.root))
		})
	}
}

func TestLanguageHint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rust", languageHint("rs"))
	assert.Equal(t, "python", languageHint("py"))
	assert.Equal(t, "go", languageHint("go"))
	assert.Equal(t, "cpp", languageHint("hpp"))
	assert.Equal(t, "", languageHint("unknownext"))
}

func TestNew_ReturnsDistinctFormatterPerFormat(t *testing.T) {
	t.Parallel()

	_, isXML := New(model.FormatXML).(*xmlFormatter)
	assert.True(t, isXML)

	_, isJSON := New(model.FormatJSON).(*jsonFormatter)
	assert.True(t, isJSON)

	_, isMarkdown := New(model.FormatMarkdown).(*markdownFormatter)
	assert.True(t, isMarkdown)

	_, isPlain := New(model.FormatPlain).(*plainFormatter)
	assert.True(t, isPlain)
}

func TestNew_ResetsJSONStateOnEachCall(t *testing.T) {
	t.Parallel()

	first := New(model.FormatJSON).(*jsonFormatter)
	first.firstFile = false

	second := New(model.FormatJSON).(*jsonFormatter)
	assert.True(t, second.firstFile)
}
