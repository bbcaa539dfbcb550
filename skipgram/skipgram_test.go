package skipgram

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestBuildVocabulary(t *testing.T) {
	tokens := []string{"b", "a", "b", "c", "a", "b"}
	vocab, freqs, err := BuildVocabulary(tokens, 10)
	if err != nil {
		t.Fatal(err)
	}

	// Counts: b=3, a=2, c=1. IDs follow descending count after the
	// sentinel at 0.
	if vocab.Size() != 4 {
		t.Fatalf("Size = %d, want 4", vocab.Size())
	}
	if got := vocab.Token(0); got != OOVToken {
		t.Errorf("Token(0) = %q, want %q", got, OOVToken)
	}
	if got := vocab.ID("b"); got != 1 {
		t.Errorf("ID(b) = %d, want 1", got)
	}
	if got := vocab.ID("a"); got != 2 {
		t.Errorf("ID(a) = %d, want 2", got)
	}
	if got := vocab.ID("c"); got != 3 {
		t.Errorf("ID(c) = %d, want 3", got)
	}

	want := []int{0, 3, 2, 1}
	if len(freqs) != len(want) {
		t.Fatalf("freqs = %v, want %v", freqs, want)
	}
	for id := range want {
		if freqs[id] != want[id] {
			t.Errorf("freqs[%d] = %d, want %d", id, freqs[id], want[id])
		}
	}
}

func TestBuildVocabularyCap(t *testing.T) {
	// Equal counts everywhere: first appearance breaks the tie, and the
	// cap includes the sentinel slot.
	vocab, freqs, err := BuildVocabulary([]string{"z", "y", "x"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if vocab.Size() != 3 {
		t.Errorf("Size = %d, want 3", vocab.Size())
	}
	if vocab.ID("z") != 1 || vocab.ID("y") != 2 {
		t.Errorf("IDs = %d, %d; want 1, 2", vocab.ID("z"), vocab.ID("y"))
	}
	if got := vocab.ID("x"); got != OOVID {
		t.Errorf("ID(x) = %d, want %d", got, OOVID)
	}
	if freqs[OOVID] != 0 {
		t.Errorf("freqs[%d] = %d, want 0 for the sentinel", OOVID, freqs[OOVID])
	}
}

func TestBuildVocabularyInvalidSize(t *testing.T) {
	_, _, err := BuildVocabulary([]string{"a"}, 0)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want ConfigError", err)
	}
}

func TestEncodeOOV(t *testing.T) {
	vocab, _, err := BuildVocabulary([]string{"a", "b", "a"}, 10)
	if err != nil {
		t.Fatal(err)
	}

	ids := vocab.Encode([]string{"a", "missing", "b"})
	want := []int{1, 0, 2}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}

	// Decoding the sentinel must not produce an in-vocabulary token, and
	// a literal sentinel token never gets its own ID.
	if vocab.Has(vocab.Token(OOVID)) {
		t.Errorf("Token(%d) = %q is in the vocabulary", OOVID, vocab.Token(OOVID))
	}
	if vocab.Token(-1) != OOVToken || vocab.Token(99) != OOVToken {
		t.Error("out-of-range IDs should decode to the sentinel")
	}
	if got := vocab.ID(OOVToken); got != OOVID {
		t.Errorf("ID(%q) = %d, want %d", OOVToken, got, OOVID)
	}
}

func TestSamplerDistribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	s, err := NewSampler([]int{0, 8, 1, 1}, rng)
	if err != nil {
		t.Fatal(err)
	}

	sum := 0.0
	for _, p := range s.Probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}
	if s.Probs[0] != 0 {
		t.Errorf("Probs[0] = %v, want 0 for a zero count", s.Probs[0])
	}

	// 8^0.75 / (8^0.75 + 1 + 1), with 1^0.75 = 1.
	want := math.Pow(8, 0.75) / (math.Pow(8, 0.75) + 2)
	if math.Abs(s.Probs[1]-want) > 1e-12 {
		t.Errorf("Probs[1] = %v, want %v", s.Probs[1], want)
	}
}

func TestSamplerRejectsEmptyTables(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	if _, err := NewSampler(nil, rng); err == nil {
		t.Error("empty table accepted")
	}
	if _, err := NewSampler([]int{0, 0, 0}, rng); err == nil {
		t.Error("all-zero table accepted")
	}
}

func TestSamplerDeterminism(t *testing.T) {
	a, err := NewSampler([]int{0, 5, 3, 2}, rand.New(rand.NewPCG(42, 42)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSampler([]int{0, 5, 3, 2}, rand.New(rand.NewPCG(42, 42)))
	if err != nil {
		t.Fatal(err)
	}

	x, y := a.Sample(200), b.Sample(200)
	for i := range x {
		if x[i] != y[i] {
			t.Fatalf("draw %d: %d vs %d, want identical sequences for one seed", i, x[i], y[i])
		}
		if x[i] == OOVID {
			t.Fatalf("draw %d returned the zero-probability sentinel", i)
		}
	}
}

func TestSamplerMarginals(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	s, err := NewSampler([]int{0, 9, 3}, rng)
	if err != nil {
		t.Fatal(err)
	}

	const n = 20000
	counts := make([]int, 3)
	for _, id := range s.Sample(n) {
		counts[id]++
	}
	if counts[0] != 0 {
		t.Errorf("sentinel drawn %d times", counts[0])
	}
	for id := 1; id < 3; id++ {
		got := float64(counts[id]) / n
		if math.Abs(got-s.Probs[id]) > 0.02 {
			t.Errorf("empirical P(%d) = %.3f, want about %.3f", id, got, s.Probs[id])
		}
	}
}

func TestGeneratorPairs(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	sampler, err := NewSampler([]int{0, 2, 2, 1}, rng)
	if err != nil {
		t.Fatal(err)
	}
	gen, err := NewGenerator([]int{1, 2, 3, 2, 1}, 1, 16, 2, sampler)
	if err != nil {
		t.Fatal(err)
	}
	b := gen.Next()

	// Window 1, boundaries clipped, left context before right:
	// pos 0: (1,2)
	// pos 1: (2,1) (2,3)
	// pos 2: (3,2) (3,2)
	// pos 3: (2,3) (2,1)
	// pos 4: (1,2)
	wantCenters := []int{1, 2, 2, 3, 3, 2, 2, 1}
	wantContexts := []int{2, 1, 3, 2, 2, 3, 1, 2}
	if b.Len() != len(wantCenters) {
		t.Fatalf("Len = %d, want %d", b.Len(), len(wantCenters))
	}
	for i := range wantCenters {
		if b.Centers[i] != wantCenters[i] || b.Positive(i) != wantContexts[i] {
			t.Errorf("pair %d = (%d,%d), want (%d,%d)",
				i, b.Centers[i], b.Positive(i), wantCenters[i], wantContexts[i])
		}
		if negs := b.Negatives(i); len(negs) != 2 {
			t.Errorf("example %d has %d negatives, want 2", i, len(negs))
		}
	}
}

func TestGeneratorReproducibleNegatives(t *testing.T) {
	gen := func() *Batch {
		rng := rand.New(rand.NewPCG(9, 9))
		sampler, err := NewSampler([]int{0, 2, 2, 1}, rng)
		if err != nil {
			t.Fatal(err)
		}
		g, err := NewGenerator([]int{1, 2, 3, 2, 1}, 1, 16, 2, sampler)
		if err != nil {
			t.Fatal(err)
		}
		return g.Next()
	}

	a, b := gen(), gen()
	if a.Len() != b.Len() {
		t.Fatalf("lengths differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Targets {
		if a.Targets[i] != b.Targets[i] {
			t.Fatalf("Targets[%d] = %d vs %d, want identical batches for one seed",
				i, a.Targets[i], b.Targets[i])
		}
	}
}

func TestGeneratorTruncationAndReset(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	sampler, err := NewSampler([]int{0, 1, 1, 1}, rng)
	if err != nil {
		t.Fatal(err)
	}
	// 8 pairs total with window 1; batch size 3 splits them 3, 3, 2.
	gen, err := NewGenerator([]int{1, 2, 3, 2, 1}, 1, 3, 1, sampler)
	if err != nil {
		t.Fatal(err)
	}

	first := gen.Next()
	if first.Len() != 3 {
		t.Fatalf("first Len = %d, want 3", first.Len())
	}
	second := gen.Next()
	if second.Len() != 3 {
		t.Fatalf("second Len = %d, want 3", second.Len())
	}
	// The scan resumed mid-corpus: the fourth pair overall is (3,2).
	if second.Centers[0] != 3 || second.Positive(0) != 2 {
		t.Errorf("resume pair = (%d,%d), want (3,2)", second.Centers[0], second.Positive(0))
	}
	third := gen.Next()
	if third.Len() != 2 {
		t.Errorf("third Len = %d, want 2 with no padding rows", third.Len())
	}
	if tail := gen.Next(); tail.Len() != 0 {
		t.Errorf("exhausted Len = %d, want 0", tail.Len())
	}

	gen.Reset()
	again := gen.Next()
	if again.Len() != 3 || again.Centers[0] != 1 {
		t.Errorf("after Reset: Len = %d, Centers[0] = %d; want 3 and 1",
			again.Len(), again.Centers[0])
	}
}

func TestGeneratorInvalidConfig(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	sampler, err := NewSampler([]int{0, 1}, rng)
	if err != nil {
		t.Fatal(err)
	}
	corpus := []int{1, 1}

	if _, err := NewGenerator(corpus, 0, 4, 2, sampler); err == nil {
		t.Error("window size 0 accepted")
	}
	if _, err := NewGenerator(corpus, 1, 0, 2, sampler); err == nil {
		t.Error("batch size 0 accepted")
	}
	if _, err := NewGenerator(corpus, 1, 4, 0, sampler); err == nil {
		t.Error("negative count 0 accepted")
	}
}
