// Package skipgram trains skip-gram word embeddings with negative sampling.
//
// The package operates on integer token IDs throughout. Text handling lives
// with the caller: build a Vocabulary over a token stream, encode the stream
// to IDs, then feed batches from a Generator to Step. All randomness flows
// through explicitly passed *rand.Rand sources, so a run is reproducible
// from its seed alone.
package skipgram

import (
	"fmt"
	"sort"
)

// OOVToken is the display string reserved for out-of-vocabulary tokens.
const OOVToken = "<unk>"

// OOVID is the vocabulary ID reserved for out-of-vocabulary tokens.
const OOVID = 0

// ConfigError reports a hyperparameter that failed validation. It is
// returned by constructors and by Step before any work is done.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// Vocabulary maps between token strings and dense integer IDs. ID 0 is
// reserved for the out-of-vocabulary sentinel and never corresponds to a
// real token. A Vocabulary is immutable after construction.
type Vocabulary struct {
	ToID  map[string]int
	ToStr []string
}

// BuildVocabulary counts token occurrences and assigns IDs to the maxSize-1
// most frequent tokens, most frequent first, with ties broken by order of
// first appearance. ID 0 holds the OOV sentinel. The returned frequency
// table is aligned with the IDs; the sentinel's slot is zero so that a
// sampling distribution built from the table never draws it.
//
// Tokens equal to OOVToken are not given an ID of their own; they encode
// to the sentinel like any other unknown token.
func BuildVocabulary(tokens []string, maxSize int) (*Vocabulary, []int, error) {
	if maxSize < 1 {
		return nil, nil, &ConfigError{Param: "vocab_size", Reason: "must be >= 1"}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, tok := range tokens {
		if tok == OOVToken {
			continue
		}
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = i
		}
		counts[tok]++
	}

	kept := make([]string, 0, len(counts))
	for tok := range counts {
		kept = append(kept, tok)
	}
	sort.Slice(kept, func(i, j int) bool {
		if counts[kept[i]] != counts[kept[j]] {
			return counts[kept[i]] > counts[kept[j]]
		}
		return firstSeen[kept[i]] < firstSeen[kept[j]]
	})
	if len(kept) > maxSize-1 {
		kept = kept[:maxSize-1]
	}

	v := &Vocabulary{
		ToID:  make(map[string]int, len(kept)),
		ToStr: make([]string, 1, len(kept)+1),
	}
	v.ToStr[0] = OOVToken
	freqs := make([]int, 1, len(kept)+1)
	for _, tok := range kept {
		v.ToID[tok] = len(v.ToStr)
		v.ToStr = append(v.ToStr, tok)
		freqs = append(freqs, counts[tok])
	}
	return v, freqs, nil
}

// ID returns the vocabulary ID for token, or OOVID if the token has none.
func (v *Vocabulary) ID(token string) int {
	if id, ok := v.ToID[token]; ok {
		return id
	}
	return OOVID
}

// Token returns the string for id. The sentinel and out-of-range IDs both
// map to OOVToken, so decoding never fabricates an in-vocabulary token.
func (v *Vocabulary) Token(id int) string {
	if id <= 0 || id >= len(v.ToStr) {
		return OOVToken
	}
	return v.ToStr[id]
}

// Size returns the number of IDs including the OOV sentinel.
func (v *Vocabulary) Size() int {
	return len(v.ToStr)
}

// Has reports whether token has an ID of its own.
func (v *Vocabulary) Has(token string) bool {
	_, ok := v.ToID[token]
	return ok
}

// Encode maps tokens to IDs, substituting OOVID for unknown tokens.
func (v *Vocabulary) Encode(tokens []string) []int {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = v.ID(tok)
	}
	return ids
}
