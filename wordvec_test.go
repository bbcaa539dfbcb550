package wordvec

import (
	"errors"
	"math"
	"testing"

	"github.com/happyhackingspace/wordvec/skipgram"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.VocabSize = 50
	cfg.EmbeddingDim = 8
	cfg.WindowSize = 1
	cfg.NumNegatives = 2
	cfg.BatchSize = 16
	cfg.LearningRate = 0.1
	cfg.NumSteps = 200
	cfg.Seed = 7
	return cfg
}

// testCorpus repeats a six-word sentence so every adjacent pair recurs.
func testCorpus() []string {
	sentence := []string{"the", "quick", "brown", "fox", "jumps", "high"}
	var tokens []string
	for range 30 {
		tokens = append(tokens, sentence...)
	}
	return tokens
}

func TestTrainReducesLoss(t *testing.T) {
	var first, last float64
	var steps int

	cfg := testConfig()
	cfg.StepFunc = func(step int, loss float64) {
		if step == 1 {
			first = loss
		}
		last = loss
		steps = step
	}

	emb, err := Train(testCorpus(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if steps != cfg.NumSteps {
		t.Errorf("StepFunc saw %d steps, want %d", steps, cfg.NumSteps)
	}
	if math.IsNaN(last) || math.IsInf(last, 0) {
		t.Fatalf("final loss = %v", last)
	}
	if last >= first {
		t.Errorf("loss went from %v to %v, want a decrease", first, last)
	}
	if emb.Dim() != cfg.EmbeddingDim {
		t.Errorf("Dim = %d, want %d", emb.Dim(), cfg.EmbeddingDim)
	}
	// Six words plus the sentinel.
	if emb.Vocab().Size() != 7 {
		t.Errorf("vocabulary size = %d, want 7", emb.Vocab().Size())
	}
}

func TestTrainDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.NumSteps = 50

	a, err := Train(testCorpus(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Train(testCorpus(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	va, vb := a.Vector("fox"), b.Vector("fox")
	for d := range va {
		if va[d] != vb[d] {
			t.Fatalf("dim %d: %v vs %v, want identical runs for one seed", d, va[d], vb[d])
		}
	}
}

func TestTrainConfigValidation(t *testing.T) {
	corpus := testCorpus()
	var ce *skipgram.ConfigError

	cfg := testConfig()
	cfg.LearningRate = 0
	if _, err := Train(corpus, cfg); !errors.As(err, &ce) {
		t.Errorf("learning rate 0: err = %v, want ConfigError", err)
	}

	cfg = testConfig()
	cfg.VocabSize = 0
	if _, err := Train(corpus, cfg); !errors.As(err, &ce) {
		t.Errorf("vocab size 0: err = %v, want ConfigError", err)
	}

	cfg = testConfig()
	cfg.NumSteps = -1
	if _, err := Train(corpus, cfg); !errors.As(err, &ce) {
		t.Errorf("negative step count: err = %v, want ConfigError", err)
	}

	cfg = testConfig()
	cfg.NumSteps = 0
	if _, err := Train(corpus, cfg); err != nil {
		t.Errorf("zero steps should train nothing and succeed, got %v", err)
	}
}

func TestTrainShortCorpus(t *testing.T) {
	cfg := testConfig()
	if _, err := Train(nil, cfg); err == nil {
		t.Error("empty corpus accepted")
	}
	if _, err := Train([]string{"solo"}, cfg); err == nil {
		t.Error("single-token corpus accepted")
	}
}

func TestTrainCapsVocabulary(t *testing.T) {
	cfg := testConfig()
	cfg.VocabSize = 3
	cfg.NumSteps = 10

	emb, err := Train(testCorpus(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if emb.Vocab().Size() != 3 {
		t.Errorf("vocabulary size = %d, want 3", emb.Vocab().Size())
	}
	// Words beyond the cap share the sentinel's vector.
	if !emb.Vocab().Has("the") {
		t.Error("expected most frequent words to stay in a capped vocabulary")
	}
}

func TestEmbeddingQueries(t *testing.T) {
	cfg := testConfig()
	cfg.NumSteps = 50
	emb, err := Train(testCorpus(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	oov := emb.Vector("never-seen")
	if oov == nil {
		t.Fatal("OOV Vector returned nil")
	}
	byID := emb.VectorByID(skipgram.OOVID)
	for d := range oov {
		if oov[d] != byID[d] {
			t.Fatalf("OOV vector mismatch at dim %d", d)
		}
	}
	if emb.VectorByID(-1) != nil || emb.VectorByID(1<<20) != nil {
		t.Error("out-of-range IDs should return nil")
	}

	v := emb.Vector("fox")
	v[0] += 100
	if emb.Vector("fox")[0] == v[0] {
		t.Error("Vector must return a copy, not a view")
	}

	if got := emb.Similarity("fox", "fox"); math.Abs(got-1) > 1e-12 {
		t.Errorf("self similarity = %v, want 1", got)
	}

	matches := emb.MostSimilar("fox", 3)
	if len(matches) != 3 {
		t.Fatalf("MostSimilar returned %d matches, want 3", len(matches))
	}
	for _, m := range matches {
		if m.Token == "fox" || m.Token == skipgram.OOVToken {
			t.Errorf("MostSimilar included %q", m.Token)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("matches out of order: %v", matches)
		}
	}

	analogy := emb.Analogy("the", "quick", "brown", 2)
	if len(analogy) != 2 {
		t.Errorf("Analogy returned %d matches, want 2", len(analogy))
	}
	for _, m := range analogy {
		if m.Token == "the" || m.Token == "quick" || m.Token == "brown" {
			t.Errorf("Analogy included query token %q", m.Token)
		}
	}
}
