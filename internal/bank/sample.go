package bank

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"sanskrit-quiz-service/internal/domain"
)

// SampleName is the name the embedded corpus is served under.
const SampleName = "sample"

//go:embed sample_corpus.json
var sampleCorpus []byte

// SampleCorpus decodes the corpus bundled with the binary.
func SampleCorpus() (domain.Corpus, error) {
	return ParseCorpus(sampleCorpus)
}

// ParseCorpus decodes a corpus document.
func ParseCorpus(data []byte) (domain.Corpus, error) {
	var c domain.Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Corpus{}, fmt.Errorf("decode corpus: %w", err)
	}
	return c, nil
}
