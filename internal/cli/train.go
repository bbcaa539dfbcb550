package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/happyhackingspace/wordvec"
	"github.com/happyhackingspace/wordvec/internal/corpus"
	"github.com/spf13/cobra"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	cfg := wordvec.DefaultConfig()
	var probes []string
	var topN int
	var output string

	cmd := &cobra.Command{
		Use:   "train [url-or-file...]",
		Short: "Train word embeddings on text or HTML corpora",
		Example: `  # Train on a local text file and inspect nearest neighbors
  wordvec train corpus.txt --similar king,queen

  # Train on HTML pages with custom hyperparameters
  wordvec train pages/a.html pages/b.html --dim 50 --steps 20000

  # Fetch a page and train on its visible text
  wordvec train https://en.wikipedia.org/wiki/Entropy -v

  # Pipe text from stdin and dump vectors in word2vec text format
  cat corpus.txt | wordvec train --output vectors.txt

  # Pipe a URL from stdin
  echo "https://example.com" | wordvec train --similar example`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tokens []string
			if len(args) == 0 {
				if isStdinTerminal() {
					return cmd.Help()
				}
				var err error
				tokens, err = readFromStdin(cmd.Context())
				if err != nil {
					return err
				}
			} else {
				for _, target := range args {
					slog.Debug("Loading corpus", "target", target)
					t, err := corpus.Load(cmd.Context(), target)
					if err != nil {
						return err
					}
					tokens = append(tokens, t...)
				}
			}
			slog.Info("Corpus loaded", "tokens", len(tokens))

			start := time.Now()
			emb, err := wordvec.Train(tokens, cfg)
			if err != nil {
				return err
			}
			slog.Info("Training completed", "duration", time.Since(start))

			for _, probe := range probes {
				printNeighbors(emb, strings.TrimSpace(probe), topN)
			}
			if output != "" {
				if err := writeVectors(emb, output); err != nil {
					return err
				}
				slog.Info("Vectors saved", "path", output)
			}
			return nil
		},
	}

	addTrainingFlags(cmd, &cfg)
	cmd.Flags().StringSliceVar(&probes, "similar", nil, "Report nearest neighbors for these tokens after training")
	cmd.Flags().IntVar(&topN, "top", 10, "Neighbors to report per --similar token")
	cmd.Flags().StringVar(&output, "output", "", "Write vectors in word2vec text format to this file")
	return cmd
}

func addTrainingFlags(cmd *cobra.Command, cfg *wordvec.Config) {
	cmd.Flags().IntVar(&cfg.VocabSize, "vocab", cfg.VocabSize, "Maximum vocabulary size including the OOV sentinel")
	cmd.Flags().IntVar(&cfg.EmbeddingDim, "dim", cfg.EmbeddingDim, "Embedding dimensionality")
	cmd.Flags().IntVar(&cfg.WindowSize, "window", cfg.WindowSize, "Context window size per side")
	cmd.Flags().IntVar(&cfg.NumNegatives, "negatives", cfg.NumNegatives, "Negative samples per example")
	cmd.Flags().IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "Examples per training step")
	cmd.Flags().Float64Var(&cfg.LearningRate, "lr", cfg.LearningRate, "Learning rate")
	cmd.Flags().IntVar(&cfg.NumSteps, "steps", cfg.NumSteps, "Number of training steps")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
}

func readFromStdin(ctx context.Context) ([]string, error) {
	slog.Debug("Reading from stdin")
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	content := strings.TrimSpace(string(body))
	if content == "" {
		return nil, fmt.Errorf("stdin is empty")
	}
	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		slog.Debug("Stdin contains URL", "url", content)
		return corpus.Load(ctx, content)
	}
	return corpus.LoadText(content), nil
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func printNeighbors(emb *wordvec.Embedding, token string, n int) {
	if !emb.Vocab().Has(token) {
		fmt.Printf("%s: not in vocabulary\n", token)
		return
	}
	fmt.Printf("%s:\n", token)
	for _, m := range emb.MostSimilar(token, n) {
		fmt.Printf("  %-24s %.4f\n", m.Token, m.Score)
	}
}

// writeVectors dumps the embedding in word2vec text format: a header line
// with vocabulary size and dimensionality, then one token per line
// followed by its vector components.
func writeVectors(emb *wordvec.Embedding, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	vocab := emb.Vocab()
	fmt.Fprintf(w, "%d %d\n", vocab.Size(), emb.Dim())
	for id := range vocab.Size() {
		fmt.Fprint(w, vocab.Token(id))
		for _, x := range emb.VectorByID(id) {
			fmt.Fprintf(w, " %g", x)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
