package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/bestintern/internal/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var parseJobsCmd = &cobra.Command{
	Use:   "parse-jobs",
	Short: "Extract structured metadata from a list of job posting URLs",
	Long: "Read job posting URLs from a file (one per line, # comments allowed) and parse them concurrently. " +
		"A failing URL is reported in the output and does not stop the others.",
	RunE: runParseJobs,
}

var (
	parseJobsFile        string
	parseJobsConcurrency int
	parseJobsSave        bool
)

func init() {
	parseJobsCmd.Flags().StringVar(&parseJobsFile, "file", "", "File with one URL per line (required)")
	parseJobsCmd.Flags().IntVar(&parseJobsConcurrency, "concurrency", 4, "Maximum pages parsed at once")
	parseJobsCmd.Flags().BoolVar(&parseJobsSave, "save", false, "Store each job and its description embedding in the database")
	addBrowserFlags(parseJobsCmd)
	_ = parseJobsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(parseJobsCmd)
}

type batchEntry struct {
	URL    string     `json:"url"`
	Result *jobOutput `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
}

type batchOutput struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Jobs      []batchEntry `json:"jobs"`
}

// readURLs returns the non-empty, non-comment lines of path in order.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open url file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read url file: %w", err)
	}
	return urls, nil
}

func runParseJobs(cmd *cobra.Command, _ []string) error {
	if parseJobsConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}
	urls, err := readURLs(parseJobsFile)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no urls in %s", parseJobsFile)
	}

	ctx := cmd.Context()
	session, err := newJobSession(ctx, cmd, parseJobsSave)
	if err != nil {
		return err
	}
	defer session.Close()

	log := logger.Component("cli")
	entries := make([]batchEntry, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parseJobsConcurrency)
	for i, url := range urls {
		g.Go(func() error {
			entries[i].URL = url
			out, err := session.parse(gctx, url)
			if err != nil {
				log.Warn().Err(err).Str("url", url).Msg("failed to parse job")
				entries[i].Error = err.Error()
				return nil
			}
			entries[i].Result = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := batchOutput{Jobs: entries}
	for _, e := range entries {
		if e.Error != "" {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}
	log.Info().Int("succeeded", out.Succeeded).Int("failed", out.Failed).Msg("parsed jobs")
	return writeOutput(cmd.OutOrStdout(), out)
}
