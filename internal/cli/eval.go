package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/happyhackingspace/wordvec"
	"github.com/happyhackingspace/wordvec/internal/corpus"
	"github.com/spf13/cobra"
)

func (c *CLI) newEvalCommand() *cobra.Command {
	cfg := wordvec.DefaultConfig()
	var analogyFile string
	var topN int

	cmd := &cobra.Command{
		Use:   "eval [url-or-file...]",
		Short: "Train embeddings and score them on word analogies",
		Example: `  # Train on a corpus and evaluate against an analogy file
  wordvec eval corpus.txt --analogies questions-words.txt

  # Count an analogy as solved when the answer is in the top 5
  wordvec eval corpus.txt --analogies questions-words.txt --top 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("eval needs at least one corpus file or URL")
			}

			analogies, err := loadAnalogies(analogyFile)
			if err != nil {
				return fmt.Errorf("load analogies: %w", err)
			}
			slog.Info("Loaded analogies", "count", len(analogies))

			var tokens []string
			for _, target := range args {
				t, err := corpus.Load(cmd.Context(), target)
				if err != nil {
					return err
				}
				tokens = append(tokens, t...)
			}
			slog.Info("Corpus loaded", "tokens", len(tokens))

			start := time.Now()
			emb, err := wordvec.Train(tokens, cfg)
			if err != nil {
				return err
			}
			slog.Debug("Training completed", "duration", time.Since(start))

			correct, total, skipped := scoreAnalogies(emb, analogies, topN)
			if total == 0 {
				return fmt.Errorf("no analogy had all four words in the vocabulary")
			}
			fmt.Printf("Analogy accuracy@%d: %.1f%% (%d/%d, %d skipped)\n",
				topN, float64(correct)/float64(total)*100, correct, total, skipped)
			return nil
		},
	}

	addTrainingFlags(cmd, &cfg)
	cmd.Flags().StringVar(&analogyFile, "analogies", "", "File with one analogy per line: a b c expected")
	cmd.Flags().IntVar(&topN, "top", 1, "Count an analogy as solved when the answer is in the top N")
	_ = cmd.MarkFlagRequired("analogies")
	return cmd
}

// loadAnalogies reads "a b c expected" lines. Blank lines, comments and
// ": section" headers (as in the word2vec questions-words file) are skipped.
func loadAnalogies(path string) ([][4]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var analogies [][4]string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ":") {
			continue
		}
		fields := strings.Fields(strings.ToLower(line))
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %q: want 4 words, got %d", line, len(fields))
		}
		analogies = append(analogies, [4]string{fields[0], fields[1], fields[2], fields[3]})
	}
	return analogies, scanner.Err()
}

// scoreAnalogies counts analogies whose expected word appears among the
// top n candidates. Analogies with any word outside the vocabulary are
// skipped rather than counted as wrong.
func scoreAnalogies(emb *wordvec.Embedding, analogies [][4]string, n int) (correct, total, skipped int) {
	vocab := emb.Vocab()
	for _, q := range analogies {
		if !vocab.Has(q[0]) || !vocab.Has(q[1]) || !vocab.Has(q[2]) || !vocab.Has(q[3]) {
			skipped++
			continue
		}
		total++
		for _, m := range emb.Analogy(q[0], q[1], q[2], n) {
			if m.Token == q[3] {
				correct++
				break
			}
		}
	}
	return correct, total, skipped
}
