package writer

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXMLFormatter_ProducesParseableDocument(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	f := &xmlFormatter{}

	require.NoError(t, f.WriteHeader(&buf, Context{Prompt: "p", HasPrompt: true, TokenCount: 10, HasTokens: true}))
	require.NoError(t, f.WriteDirectoryStructure(&buf, []string{"/repo/a.go", "/repo/b.go"}, "/repo"))
	require.NoError(t, f.WriteFile(&buf, "/repo/a.go", "if x < y && y > 0 {}\nfoo]]>bar\n", "summary", "/repo"))
	require.NoError(t, f.WriteFile(&buf, "/repo/b.go", "package b", "", "/repo"))
	require.NoError(t, f.WriteFooter(&buf, []string{"dropped.bin"}))

	var doc struct {
		XMLName xml.Name `xml:"abyss"`
		Files   []struct {
			Path string `xml:"path,attr"`
		} `xml:"file"`
	}

	err := xml.Unmarshal([]byte(buf.String()), &doc)
	require.NoError(t, err, "output must be valid XML: %s", buf.String())

	require.Len(t, doc.Files, 2)
	assert.Equal(t, "a.go", doc.Files[0].Path)
	assert.Equal(t, "b.go", doc.Files[1].Path)
}

func TestXMLFormatter_WriteHeader(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	f := &xmlFormatter{}

	err := f.WriteHeader(&buf, Context{
		Prompt:     "summarize the auth flow",
		HasPrompt:  true,
		TokenCount: 42,
		HasTokens:  true,
		Overview: &Overview{
			Purpose:  "a context compiler",
			KeyFiles: []KeyFile{{Path: "main.go", Summary: "entrypoint"}},
			Changes:  []string{"add redaction"},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<abyss>")
	assert.Contains(t, out, "summarize the auth flow")
	assert.Contains(t, out, "<token_count>42</token_count>")
	assert.Contains(t, out, "<key_file path=\"main.go\">entrypoint</key_file>")
}

func TestXMLFormatter_WriteFile_EscapesCDATATerminator(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	f := &xmlFormatter{}

	err := f.WriteFile(&buf, "/repo/a.go", "if x]]>y {}", "", "/repo")
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "]]>y") // the raw terminator must not survive inside the CDATA body
	assert.Contains(t, out, "]]]]><![CDATA[>")
	assert.Contains(t, out, "<file path=\"a.go\">")
}

func TestXMLFormatter_WriteFile_EscapesAttributeQuotes(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	f := &xmlFormatter{}

	err := f.WriteFile(&buf, `/repo/weird"name.go`, "content", "", "/repo")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `path="weird&quot;name.go"`)
}

func TestXMLFormatter_WriteFooter_ListsDropped(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	f := &xmlFormatter{}

	err := f.WriteFooter(&buf, []string{"big.bin"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<dropped_files>")
	assert.Contains(t, out, "<path>big.bin</path>")
	assert.Contains(t, out, "</abyss>")
}

func TestXMLFormatter_WriteFooter_NoDropped(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	f := &xmlFormatter{}

	err := f.WriteFooter(&buf, nil)
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "<dropped_files>")
}
