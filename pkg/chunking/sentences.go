package chunking

import (
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

var (
	sentenceTokOnce sync.Once
	sentenceTok     *sentences.DefaultSentenceTokenizer
)

// sentenceTokenizer returns the shared English sentence tokenizer,
// loading its trained data on first use. A nil return means the
// embedded training data failed to load; callers fall back to cruder
// splitting.
func sentenceTokenizer() *sentences.DefaultSentenceTokenizer {
	sentenceTokOnce.Do(func() {
		if tok, err := english.NewSentenceTokenizer(nil); err == nil {
			sentenceTok = tok
		}
	})
	return sentenceTok
}
