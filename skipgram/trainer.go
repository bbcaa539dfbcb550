package skipgram

import "gonum.org/v1/gonum/floats"

// Step applies one SGD update to the model from one batch. The gradients
// are derived by hand from the negative-sampling objective: with s the
// sigmoid,
//
//	d loss / d positive score = s(score) - 1
//	d loss / d negative score = s(score)
//
// so each example pushes its positive context column toward the center
// vector and its negative columns away from it.
//
// Every score is computed against the weights as they stood at the start
// of the call: per-example contributions accumulate in sparse buffers
// keyed by row or column ID, where examples touching the same ID sum
// rather than overwrite, and the buffered sums are divided by the batch
// length and applied only at the end. A batched step therefore equals the
// average of the isolated per-example updates.
//
// Step is not safe for concurrent use on one model: the scatter into
// shared rows loses writes without coordination. Parallel training would
// have to run whole batches independently and merge their gradients
// before a single update.
func Step(m *Model, b *Batch, learningRate float64) error {
	if learningRate <= 0 {
		return &ConfigError{Param: "learning_rate", Reason: "must be > 0"}
	}
	if b.Len() == 0 {
		return nil
	}

	gradIn := make(map[int][]float64)  // WIn row gradient by center ID
	gradOut := make(map[int][]float64) // WOut column gradient by target ID
	col := make([]float64, m.Dim)      // scratch copy of one WOut column

	accumOut := func(id int, g float64, h []float64) {
		buf := gradOut[id]
		if buf == nil {
			buf = make([]float64, m.Dim)
			gradOut[id] = buf
		}
		floats.AddScaled(buf, g, h)
	}

	for i := range b.Len() {
		center := b.Centers[i]
		h := m.InRow(center)

		gin := gradIn[center]
		if gin == nil {
			gin = make([]float64, m.Dim)
			gradIn[center] = gin
		}

		pos := b.Positive(i)
		g := sigmoid(score(m, h, pos)) - 1
		accumOut(pos, g, h)
		m.outColumn(pos, col)
		floats.AddScaled(gin, g, col)

		for _, neg := range b.Negatives(i) {
			g := sigmoid(score(m, h, neg))
			accumOut(neg, g, h)
			m.outColumn(neg, col)
			floats.AddScaled(gin, g, col)
		}
	}

	scale := learningRate / float64(b.Len())
	for id, g := range gradIn {
		floats.AddScaled(m.InRow(id), -scale, g)
	}
	for id, g := range gradOut {
		for d, gv := range g {
			m.WOut[d*m.VocabSize+id] -= scale * gv
		}
	}
	return nil
}
