package skipgram

import (
	"math"
	"math/rand/v2"
	"sort"
)

// samplingPower smooths the unigram distribution. 0.75 is the word2vec
// value: it lifts rare words and damps very frequent ones.
const samplingPower = 0.75

// Sampler draws negative-sample IDs from a smoothed unigram distribution,
// P(id) proportional to freq(id)^0.75. Zero-frequency IDs (the OOV slot in
// particular) carry zero probability and are never drawn. Draws consume the
// *rand.Rand passed at construction, so two samplers built from equal
// tables and equally seeded sources produce identical sequences.
type Sampler struct {
	// Probs is the normalized probability per vocabulary ID. It sums to 1
	// up to float rounding.
	Probs []float64

	cum []float64
	rng *rand.Rand
}

// NewSampler builds the sampling distribution from an ID-aligned frequency
// table. The table must contain at least one positive count.
func NewSampler(freqs []int, rng *rand.Rand) (*Sampler, error) {
	if len(freqs) == 0 {
		return nil, &ConfigError{Param: "frequency_table", Reason: "must not be empty"}
	}

	probs := make([]float64, len(freqs))
	total := 0.0
	for id, f := range freqs {
		if f > 0 {
			probs[id] = math.Pow(float64(f), samplingPower)
			total += probs[id]
		}
	}
	if total == 0 {
		return nil, &ConfigError{Param: "frequency_table", Reason: "must contain a positive count"}
	}

	cum := make([]float64, len(probs))
	running := 0.0
	for id := range probs {
		probs[id] /= total
		running += probs[id]
		cum[id] = running
	}
	// A draw must resolve at or before the last positive-probability ID.
	// Pin that ID's cumulative value to 1 so rounding can't push a draw
	// past it onto a zero-probability tail.
	for id := len(cum) - 1; id >= 0; id-- {
		cum[id] = 1
		if probs[id] > 0 {
			break
		}
	}

	return &Sampler{Probs: probs, cum: cum, rng: rng}, nil
}

// Sample draws k IDs independently, with replacement, by inverting the
// cumulative distribution. Duplicate draws are possible and expected.
func (s *Sampler) Sample(k int) []int {
	ids := make([]int, k)
	for i := range ids {
		x := s.rng.Float64()
		ids[i] = sort.Search(len(s.cum), func(j int) bool { return s.cum[j] > x })
	}
	return ids
}
