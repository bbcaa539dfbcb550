package skipgram

import "math"

// sigmoid computes 1/(1+exp(-z)) without overflow: the exponential is only
// ever taken of a non-positive argument.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus computes log(1+exp(z)) in the stable form
// max(z,0) + log1p(exp(-|z|)), exact for large |z| where the naive
// formula overflows or rounds to zero.
func softplus(z float64) float64 {
	return math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
}

// score is the dot product of a center vector h with the WOut column of id.
func score(m *Model, h []float64, id int) float64 {
	s := 0.0
	for d, hv := range h {
		s += hv * m.WOut[d*m.VocabSize+id]
	}
	return s
}

// Loss returns the mean negative-sampling loss of the batch under the
// model's current weights: per example, softplus(-positive score) plus the
// sum of softplus(negative score) over its negatives, averaged over the
// batch. An empty batch has loss 0. The model is not modified.
func Loss(m *Model, b *Batch) float64 {
	if b.Len() == 0 {
		return 0
	}
	total := 0.0
	for i := range b.Len() {
		h := m.InRow(b.Centers[i])
		total += softplus(-score(m, h, b.Positive(i)))
		for _, neg := range b.Negatives(i) {
			total += softplus(score(m, h, neg))
		}
	}
	return total / float64(b.Len())
}
