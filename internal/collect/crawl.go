package collect

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

func (c *CLI) newCrawlCommand() *cobra.Command {
	var (
		sitesFile  string
		outputDir  string
		timeout    int
		delay      int
		userAgent  string
		maxTotal   int
		maxPerSite int
		minWords   int
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl websites and save the visible text of discovered pages",
		Example: `  wordvec-collect crawl --sites sites.txt --output data/corpus
  wordvec-collect crawl --sites sites.txt --output data/corpus --max-total 1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := loadLines(sitesFile)
			if err != nil {
				return fmt.Errorf("load sites: %w", err)
			}
			slog.Info("Loaded sites", "count", len(sites))

			index, err := loadIndex(outputDir)
			if err != nil {
				return fmt.Errorf("load index: %w", err)
			}

			client := newHTTPClient(timeout)
			if err := os.MkdirAll(filepath.Join(outputDir, "text"), 0755); err != nil {
				return fmt.Errorf("create text dir: %w", err)
			}

			totalCollected := 0

			for _, site := range sites {
				if maxTotal > 0 && totalCollected >= maxTotal {
					break
				}

				site = strings.TrimSpace(site)
				if site == "" {
					continue
				}
				if !strings.HasPrefix(site, "http") {
					site = "https://" + site
				}

				n, err := crawlSite(client, site, userAgent, outputDir, index, crawlOpts{
					maxPerSite: maxPerSite,
					maxTotal:   maxTotal,
					total:      &totalCollected,
					minWords:   minWords,
					delay:      time.Duration(delay) * time.Millisecond,
				})
				if err != nil {
					slog.Warn("Failed to crawl site", "site", site, "error", err)
					continue
				}

				slog.Info("Finished site", "site", site, "collected", n, "total", totalCollected)

				// Save index periodically
				if totalCollected%50 == 0 {
					if err := saveIndex(outputDir, index); err != nil {
						slog.Warn("Failed to save index", "error", err)
					}
				}
			}

			if err := saveIndex(outputDir, index); err != nil {
				return fmt.Errorf("save index: %w", err)
			}
			slog.Info("Crawl complete", "total", totalCollected, "index_entries", len(index))
			return nil
		},
	}

	cmd.Flags().StringVar(&sitesFile, "sites", "", "File with domain list (one per line)")
	cmd.Flags().StringVar(&outputDir, "output", "data/corpus", "Output directory")
	cmd.Flags().IntVar(&timeout, "timeout", 30, "HTTP timeout in seconds")
	cmd.Flags().IntVar(&delay, "delay", 800, "Delay between requests in ms")
	cmd.Flags().StringVar(&userAgent, "user-agent", "Mozilla/5.0 (compatible; wordvec-collect/1.0)", "User-Agent header")
	cmd.Flags().IntVar(&maxTotal, "max-total", 0, "Max total pages (0=unlimited)")
	cmd.Flags().IntVar(&maxPerSite, "max-per-site", 20, "Max pages per site")
	cmd.Flags().IntVar(&minWords, "min-words", 50, "Skip pages with fewer visible words")
	_ = cmd.MarkFlagRequired("sites")
	return cmd
}

type crawlOpts struct {
	maxPerSite int
	maxTotal   int
	total      *int
	minWords   int
	delay      time.Duration
}

func crawlSite(client httpClient, siteURL, userAgent, outputDir string, index map[string]indexEntry, opts crawlOpts) (int, error) {
	siteU, err := url.Parse(siteURL)
	if err != nil {
		return 0, err
	}
	siteHost := siteU.Hostname()

	visited := make(map[string]bool)
	collected := 0

	// 1. Fetch the homepage
	html, status, err := fetchHTML(client, siteURL, userAgent)
	if err != nil {
		return 0, fmt.Errorf("homepage: %w", err)
	}
	if status >= 400 || len(html) < 100 {
		return 0, fmt.Errorf("homepage HTTP %d (%d bytes)", status, len(html))
	}
	visited[siteURL] = true

	if text, words, err := extractText(html); err == nil && words >= opts.minWords {
		filename := saveTextFile(text, siteURL, outputDir)
		index[filename] = indexEntry{URL: siteURL, Words: words}
		collected++
		*opts.total++
		slog.Debug("Collected homepage", "url", siteURL, "words", words)
	}

	// 2. Extract links from the homepage
	links := extractLinks(html, siteU)

	rand.Shuffle(len(links), func(i, j int) { links[i], links[j] = links[j], links[i] })

	// 3. Follow links on the same host
	for _, link := range links {
		if collected >= opts.maxPerSite {
			break
		}
		if opts.maxTotal > 0 && *opts.total >= opts.maxTotal {
			break
		}

		linkU, err := url.Parse(link)
		if err != nil {
			continue
		}

		if linkU.Hostname() != siteHost {
			continue
		}

		normalized := normalizeURL(link)
		if visited[normalized] {
			continue
		}
		visited[normalized] = true

		if skipURL(linkU) {
			continue
		}

		time.Sleep(opts.delay)

		linkHTML, linkStatus, err := fetchHTML(client, link, userAgent)
		if err != nil {
			slog.Debug("Failed to fetch link", "url", link, "error", err)
			continue
		}
		if linkStatus != 200 || len(linkHTML) < 100 {
			continue
		}

		text, words, err := extractText(linkHTML)
		if err != nil || words < opts.minWords {
			slog.Debug("Skipped thin page", "url", link, "words", words)
		} else {
			fn := saveTextFile(text, link, outputDir)
			index[fn] = indexEntry{URL: link, Words: words}
			collected++
			*opts.total++
			slog.Debug("Collected link", "url", link, "words", words)
		}

		// Extract links from this page for deeper crawling
		subLinks := extractLinks(linkHTML, siteU)
		links = append(links, subLinks...)
	}

	return collected, nil
}

// extractLinks extracts all <a href> links from HTML, resolving relative URLs.
func extractLinks(htmlStr string, base *url.URL) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
			return
		}

		u, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(u).String()

		if !seen[resolved] {
			seen[resolved] = true
			links = append(links, resolved)
		}
	})

	return links
}

// skipURL filters out non-page URLs (images, scripts, archives).
func skipURL(u *url.URL) bool {
	path := strings.ToLower(u.Path)
	for _, ext := range []string{".js", ".css", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".pdf", ".zip", ".xml", ".json", ".woff", ".woff2", ".ttf", ".mp4", ".mp3", ".webp", ".avif"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// normalizeURL strips the fragment and trailing slash for dedup.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	s := u.String()
	return strings.TrimRight(s, "/")
}
