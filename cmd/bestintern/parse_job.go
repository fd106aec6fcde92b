package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/bestintern/internal/db"
	"github.com/jonathan/bestintern/internal/fetch"
	"github.com/jonathan/bestintern/internal/llm"
	"github.com/jonathan/bestintern/internal/parsing"
	"github.com/spf13/cobra"
)

var parseJobCmd = &cobra.Command{
	Use:   "parse-job",
	Short: "Extract structured metadata from a job posting URL",
	Long: "Read a job posting page, statically or with a headless browser, extract JobMetadata with the " +
		"configured model and print it with the page's meta/h1/h2/p text.",
	RunE: runParseJob,
}

var (
	parseJobURL  string
	parseJobSave bool
	noCache      bool

	useBrowser    bool
	waitElementID string
	waitClassName string
	waitText      string
	waitTag       string
	waitAttribute string
	waitTimeout   time.Duration
)

// addBrowserFlags registers the rendering flags shared by page-reading commands.
func addBrowserFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&useBrowser, "browser", false, "Render the page in a headless browser (default from fetch.use_browser)")
	cmd.Flags().StringVar(&waitElementID, "wait-id", "", "Wait for an element with this id")
	cmd.Flags().StringVar(&waitClassName, "wait-class", "", "Wait for an element with this class")
	cmd.Flags().StringVar(&waitText, "wait-text", "", "Wait for this text to appear")
	cmd.Flags().StringVar(&waitTag, "wait-tag", "", "Wait for an element with this tag")
	cmd.Flags().StringVar(&waitAttribute, "wait-attr", "", "With --wait-tag, require this attribute")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 0, "Maximum wait (default from fetch.wait_timeout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the page cache")
}

func init() {
	parseJobCmd.Flags().StringVar(&parseJobURL, "url", "", "Job posting URL (required)")
	parseJobCmd.Flags().BoolVar(&parseJobSave, "save", false, "Store the job and its description embedding in the database")
	addBrowserFlags(parseJobCmd)
	_ = parseJobCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(parseJobCmd)
}

func browserEnabled(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("browser") {
		return useBrowser
	}
	return appConfig.Fetch.UseBrowser
}

func waitOptions() *fetch.WaitOptions {
	timeout := waitTimeout
	if timeout == 0 {
		timeout = appConfig.Fetch.WaitTimeout
	}
	return &fetch.WaitOptions{
		ElementID:     waitElementID,
		ClassName:     waitClassName,
		TextContent:   waitText,
		HTMLTag:       waitTag,
		HTMLAttribute: waitAttribute,
		Timeout:       timeout,
	}
}

// jobSession holds what parsing one or more jobs needs.
type jobSession struct {
	parser   *parsing.JobParser
	database *db.DB
	embedder llm.Embedder
	closers  []func()
}

func newJobSession(ctx context.Context, cmd *cobra.Command, save bool) (*jobSession, error) {
	s := &jobSession{}
	model, err := newModel(ctx, "extraction-system")
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	s.closers = append(s.closers, func() { _ = model.Close() })

	fetcher, closeFetcher, err := newFetcher(noCache)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.closers = append(s.closers, closeFetcher)

	s.parser = &parsing.JobParser{
		Model:       model,
		Fetcher:     fetcher,
		UseBrowser:  browserEnabled(cmd),
		AutoBrowser: appConfig.Fetch.AutoBrowser,
		Wait:        waitOptions(),
		MaxAttempts: appConfig.LLM.MaxAttempts,
	}

	if save {
		database, err := openDB(ctx)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.database = database
		s.closers = append(s.closers, database.Close)
		s.embedder, _ = llm.AsEmbedder(model)
	}
	return s, nil
}

func (s *jobSession) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

type jobOutput struct {
	*parsing.JobResult
	Saved *parsing.SavedJob `json:"saved,omitempty"`
}

func (s *jobSession) parse(ctx context.Context, url string) (*jobOutput, error) {
	result, err := s.parser.ParseJob(ctx, url)
	if err != nil {
		return nil, err
	}
	out := &jobOutput{JobResult: result}
	if s.database != nil {
		saved, err := parsing.SaveJob(ctx, s.database, result, s.embedder)
		if err != nil {
			return nil, err
		}
		out.Saved = saved
	}
	return out, nil
}

func runParseJob(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	session, err := newJobSession(ctx, cmd, parseJobSave)
	if err != nil {
		return err
	}
	defer session.Close()

	out, err := session.parse(ctx, parseJobURL)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), out)
}
