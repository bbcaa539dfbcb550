package skipgram

import "math/rand/v2"

// initStddev scales the Gaussian weight initialization.
const initStddev = 0.02

// Model holds the two embedding matrices as flat float64 slices.
//
// Weight layout:
//   - WIn is vocab_size x dim, row-major: the input ("center") vector of
//     word id occupies WIn[id*dim : (id+1)*dim].
//   - WOut is dim x vocab_size, row-major: the output ("context") vector
//     of word id is the strided column WOut[d*vocab_size+id] for d in
//     0..dim-1. WOut is stored transposed relative to WIn.
//
// Step mutates both matrices in place; they are never resized.
type Model struct {
	WIn       []float64
	WOut      []float64
	VocabSize int
	Dim       int
}

// NewModel allocates a model with every weight drawn independently from
// N(0, initStddev^2) using rng.
func NewModel(vocabSize, dim int, rng *rand.Rand) (*Model, error) {
	if vocabSize < 1 {
		return nil, &ConfigError{Param: "vocab_size", Reason: "must be >= 1"}
	}
	if dim < 1 {
		return nil, &ConfigError{Param: "embedding_dim", Reason: "must be >= 1"}
	}
	m := &Model{
		WIn:       make([]float64, vocabSize*dim),
		WOut:      make([]float64, vocabSize*dim),
		VocabSize: vocabSize,
		Dim:       dim,
	}
	for i := range m.WIn {
		m.WIn[i] = rng.NormFloat64() * initStddev
	}
	for i := range m.WOut {
		m.WOut[i] = rng.NormFloat64() * initStddev
	}
	return m, nil
}

// InRow returns the WIn row of word id as a view into the model's memory.
// The row stays valid across Step calls; only Step may write to it.
func (m *Model) InRow(id int) []float64 {
	return m.WIn[id*m.Dim : (id+1)*m.Dim]
}

// Lookup gathers the WIn rows for ids. Rows are views, not copies; the
// model retains ownership of the memory.
func (m *Model) Lookup(ids []int) [][]float64 {
	rows := make([][]float64, len(ids))
	for i, id := range ids {
		rows[i] = m.InRow(id)
	}
	return rows
}

// outColumn copies WOut's strided column for word id into dst, which must
// have length Dim.
func (m *Model) outColumn(id int, dst []float64) {
	for d := range dst {
		dst[d] = m.WOut[d*m.VocabSize+id]
	}
}
