package wordvec

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/happyhackingspace/wordvec/skipgram"
)

// Config holds the training hyperparameters. Train validates every field
// before any work starts; a bad value surfaces as a skipgram.ConfigError.
type Config struct {
	VocabSize    int     // vocabulary cap, including the OOV sentinel
	EmbeddingDim int     // dimensionality of the vectors
	WindowSize   int     // context positions taken on each side of a center
	NumNegatives int     // negative samples per training example
	BatchSize    int     // examples per SGD step
	LearningRate float64 // SGD step size
	NumSteps     int     // number of batches to train on
	Seed         uint64  // seeds all randomness; equal seeds give equal runs

	// StepFunc, when set, receives each step's batch loss measured before
	// the weight update. Useful for progress reporting and convergence
	// checks.
	StepFunc func(step int, loss float64)
}

// DefaultConfig returns hyperparameters that behave reasonably on small
// corpora.
func DefaultConfig() Config {
	return Config{
		VocabSize:    10000,
		EmbeddingDim: 100,
		WindowSize:   5,
		NumNegatives: 5,
		BatchSize:    128,
		LearningRate: 0.025,
		NumSteps:     10000,
		Seed:         1,
	}
}

func (c Config) validate() error {
	switch {
	case c.VocabSize < 1:
		return &skipgram.ConfigError{Param: "vocab_size", Reason: "must be >= 1"}
	case c.EmbeddingDim < 1:
		return &skipgram.ConfigError{Param: "embedding_dim", Reason: "must be >= 1"}
	case c.WindowSize < 1:
		return &skipgram.ConfigError{Param: "window_size", Reason: "must be >= 1"}
	case c.NumNegatives < 1:
		return &skipgram.ConfigError{Param: "num_negatives", Reason: "must be >= 1"}
	case c.BatchSize < 1:
		return &skipgram.ConfigError{Param: "batch_size", Reason: "must be >= 1"}
	case c.LearningRate <= 0:
		return &skipgram.ConfigError{Param: "learning_rate", Reason: "must be > 0"}
	case c.NumSteps < 0:
		return &skipgram.ConfigError{Param: "num_steps", Reason: "must be >= 0"}
	}
	return nil
}

// Train builds a vocabulary over tokens, sized by cfg.VocabSize, and trains
// embeddings for cfg.NumSteps batches. The corpus is rescanned from the
// start whenever it runs out with steps still to go. With NumSteps 0 the
// returned embedding carries the untouched random initialization.
func Train(tokens []string, cfg Config) (*Embedding, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("wordvec: %w", err)
	}

	vocab, freqs, err := skipgram.BuildVocabulary(tokens, cfg.VocabSize)
	if err != nil {
		return nil, fmt.Errorf("wordvec: %w", err)
	}
	corpus := vocab.Encode(tokens)
	if len(corpus) < 2 {
		return nil, fmt.Errorf("wordvec: corpus has %d tokens, need at least 2", len(corpus))
	}

	// One seeded source drives initialization and sampling, so the whole
	// run replays from the seed alone.
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

	model, err := skipgram.NewModel(vocab.Size(), cfg.EmbeddingDim, rng)
	if err != nil {
		return nil, fmt.Errorf("wordvec: %w", err)
	}
	sampler, err := skipgram.NewSampler(freqs, rng)
	if err != nil {
		return nil, fmt.Errorf("wordvec: %w", err)
	}
	gen, err := skipgram.NewGenerator(corpus, cfg.WindowSize, cfg.BatchSize, cfg.NumNegatives, sampler)
	if err != nil {
		return nil, fmt.Errorf("wordvec: %w", err)
	}

	slog.Info("Training embeddings",
		"vocab", vocab.Size(), "dim", cfg.EmbeddingDim,
		"corpus", len(corpus), "steps", cfg.NumSteps)

	for step := range cfg.NumSteps {
		batch := gen.Next()
		if batch.Len() == 0 {
			gen.Reset()
			batch = gen.Next()
		}

		loss := skipgram.Loss(model, batch)
		if err := skipgram.Step(model, batch, cfg.LearningRate); err != nil {
			return nil, fmt.Errorf("wordvec: %w", err)
		}

		slog.Debug("Training step", "step", step+1, "loss", loss, "examples", batch.Len())
		if cfg.StepFunc != nil {
			cfg.StepFunc(step+1, loss)
		}
	}

	return &Embedding{vocab: vocab, model: model}, nil
}
