package skipgram

// Batch is a block of training examples. Centers[i] is the center word ID
// of example i. Targets is a flat row-major matrix with one row of 1+K
// IDs per example: column 0 is the true context ID, columns 1..K are
// negative samples. A negative may coincide with the positive; that is
// accepted sampling noise, not an error.
type Batch struct {
	Centers []int
	Targets []int
	K       int
}

// Len returns the number of examples in the batch.
func (b *Batch) Len() int { return len(b.Centers) }

// Positive returns the true context ID of example i.
func (b *Batch) Positive(i int) int { return b.Targets[i*(b.K+1)] }

// Negatives returns the negative-sample IDs of example i as a view into
// the batch's backing array.
func (b *Batch) Negatives(i int) []int {
	row := i * (b.K + 1)
	return b.Targets[row+1 : row+1+b.K]
}

// Generator slides a context window over an encoded corpus and emits
// training batches. The scan is strictly left to right: each center
// position pairs with every position at most windowSize away, positions
// clipped at the corpus boundaries, left contexts before right. Next picks
// up exactly where the previous call stopped, mid-window if the batch
// boundary fell there. The generator never wraps on its own; callers
// wanting another pass over the corpus use Reset.
type Generator struct {
	corpus    []int
	window    int
	batchSize int
	k         int
	sampler   *Sampler

	pos int // next center position
	off int // context offsets already consumed at pos, 0..2*window-1
}

// NewGenerator validates the window and batch geometry and prepares a scan
// over corpus. Negative samples for each example are drawn from sampler at
// generation time, in scan order.
func NewGenerator(corpus []int, windowSize, batchSize, numNegatives int, sampler *Sampler) (*Generator, error) {
	if windowSize < 1 {
		return nil, &ConfigError{Param: "window_size", Reason: "must be >= 1"}
	}
	if batchSize < 1 {
		return nil, &ConfigError{Param: "batch_size", Reason: "must be >= 1"}
	}
	if numNegatives < 1 {
		return nil, &ConfigError{Param: "num_negatives", Reason: "must be >= 1"}
	}
	return &Generator{
		corpus:    corpus,
		window:    windowSize,
		batchSize: batchSize,
		k:         numNegatives,
		sampler:   sampler,
	}, nil
}

// Next produces the next batch. When the corpus runs out mid-batch the
// returned batch holds only the examples actually produced, so its length
// can fall short of the configured batch size; there are no padding rows.
// After exhaustion Next returns empty batches until Reset is called.
func (g *Generator) Next() *Batch {
	b := &Batch{
		Centers: make([]int, 0, g.batchSize),
		Targets: make([]int, 0, g.batchSize*(g.k+1)),
		K:       g.k,
	}
	for g.pos < len(g.corpus) && len(b.Centers) < g.batchSize {
		d := g.off - g.window
		if d >= 0 {
			d++ // skip offset 0, the center itself
		}
		if ctx := g.pos + d; ctx >= 0 && ctx < len(g.corpus) {
			b.Centers = append(b.Centers, g.corpus[g.pos])
			b.Targets = append(b.Targets, g.corpus[ctx])
			b.Targets = append(b.Targets, g.sampler.Sample(g.k)...)
		}
		g.off++
		if g.off == 2*g.window {
			g.off = 0
			g.pos++
		}
	}
	return b
}

// Reset rewinds the scan to the start of the corpus.
func (g *Generator) Reset() {
	g.pos, g.off = 0, 0
}
