package collect

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) newFetchCommand() *cobra.Command {
	var (
		urlsFile  string
		outputDir string
		timeout   int
		delay     int
		userAgent string
		maxPages  int
		minWords  int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch pages from a URL list and save their visible text",
		Example: `  wordvec-collect fetch --urls urls.txt --output data/corpus
  wordvec-collect fetch --urls urls.txt --output data/corpus --max 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := loadLines(urlsFile)
			if err != nil {
				return fmt.Errorf("load urls: %w", err)
			}
			slog.Info("Loaded URLs", "count", len(urls))

			index, err := loadIndex(outputDir)
			if err != nil {
				return fmt.Errorf("load index: %w", err)
			}

			client := newHTTPClient(timeout)
			if err := os.MkdirAll(filepath.Join(outputDir, "text"), 0755); err != nil {
				return fmt.Errorf("create text dir: %w", err)
			}

			collected := 0
			for _, rawURL := range urls {
				if maxPages > 0 && collected >= maxPages {
					break
				}

				if !strings.HasPrefix(rawURL, "http") {
					rawURL = "https://" + rawURL
				}

				text, words, status, err := fetchText(client, rawURL, userAgent)
				switch {
				case err != nil:
					slog.Warn("Failed to fetch", "url", rawURL, "error", err)
				case status != 200:
					slog.Warn("Skipped page", "url", rawURL, "status", status)
				case words < minWords:
					slog.Debug("Skipped thin page", "url", rawURL, "words", words)
				default:
					filename := saveTextFile(text, rawURL, outputDir)
					index[filename] = indexEntry{URL: rawURL, Words: words}
					collected++
					slog.Info("Collected", "url", rawURL, "words", words, "total", collected)
				}

				if delay > 0 {
					time.Sleep(time.Duration(delay) * time.Millisecond)
				}
			}

			if err := saveIndex(outputDir, index); err != nil {
				return fmt.Errorf("save index: %w", err)
			}
			slog.Info("Collection complete", "total", collected, "index_entries", len(index))
			return nil
		},
	}

	cmd.Flags().StringVar(&urlsFile, "urls", "", "File with URL list (one per line)")
	cmd.Flags().StringVar(&outputDir, "output", "data/corpus", "Output directory")
	cmd.Flags().IntVar(&timeout, "timeout", 30, "HTTP timeout in seconds")
	cmd.Flags().IntVar(&delay, "delay", 1000, "Delay between requests in ms")
	cmd.Flags().StringVar(&userAgent, "user-agent", "Mozilla/5.0 (compatible; wordvec-collect/1.0)", "User-Agent header")
	cmd.Flags().IntVar(&maxPages, "max", 0, "Max pages to collect (0=unlimited)")
	cmd.Flags().IntVar(&minWords, "min-words", 50, "Skip pages with fewer visible words")
	_ = cmd.MarkFlagRequired("urls")
	return cmd
}
