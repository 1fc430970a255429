package tokenizer

import (
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding matches the tokenizer of current OpenAI chat models and is
// close enough for Gemini input limits.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens with tiktoken, or approximates when the encoding
// cannot be loaded (tiktoken fetches BPE ranks on first use).
type Counter struct {
	enc *tiktoken.Tiktoken
}

// New loads the encoding, falling back to approximate counts on failure.
func New(encoding string, logger *slog.Logger) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using approximate token counts", "encoding", encoding, "error", err)
		return &Counter{}
	}
	return &Counter{enc: enc}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c == nil || c.enc == nil {
		return approximate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// approximate assumes roughly four characters per token.
func approximate(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}
