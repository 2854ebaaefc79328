package transformer

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// encodingName is the BPE encoding abyss counts tokens with. cl100k_base
// is used as a cl100k_base-class approximation across every supported
// model family, matching the spec's choice of a single fixed encoding.
const encodingName = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

// loadEncoding lazily resolves the shared tiktoken encoding once per
// process; tiktoken-go's own internal cache makes repeated calls
// cheap, but this avoids paying the lookup cost per file.
func loadEncoding() (*tiktoken.Tiktoken, error) {
	encodingOnce.Do(func() {
		encoding, encodingErr = tiktoken.GetEncoding(encodingName)
	})

	return encoding, encodingErr
}

// CountTokens returns the accurate BPE token count for content. On any
// encoding failure it returns false so the caller can keep the
// Analyzer's fast estimate instead.
func CountTokens(content string) (int, bool) {
	enc, err := loadEncoding()
	if err != nil {
		return 0, false
	}

	tokens := enc.Encode(content, nil, nil)

	return len(tokens), true
}
