package main

import (
	"strings"

	"github.com/jonathan/bestintern/internal/ingestion"
	"github.com/jonathan/bestintern/internal/parsing"
	"github.com/spf13/cobra"
)

var readWebCmd = &cobra.Command{
	Use:   "read-web <url>",
	Short: "Print the text and tag metadata of a web page",
	Long:  "Read a web page without calling a model and print its text and the joined text of selected tags.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReadWeb,
}

var (
	readWebTags      string
	readWebDelimiter string
	readWebMain      bool
	readWebRaw       bool
)

func init() {
	readWebCmd.Flags().StringVar(&readWebTags, "tags", strings.Join(parsing.PageTags, ","), "Comma-separated tags to report")
	readWebCmd.Flags().StringVar(&readWebDelimiter, "delimiter", ingestion.DefaultDelimiter, "Separator for the text of repeated tags")
	readWebCmd.Flags().BoolVar(&readWebMain, "main", false, "Print only the main posting body")
	readWebCmd.Flags().BoolVar(&readWebRaw, "keep-newlines", false, "Keep runs of blank lines in the text")
	addBrowserFlags(readWebCmd)

	rootCmd.AddCommand(readWebCmd)
}

type webReport struct {
	Text     string              `json:"text"`
	Tags     map[string]*string  `json:"tags"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func runReadWeb(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fetcher, closeFetcher, err := newFetcher(noCache)
	if err != nil {
		return err
	}
	defer closeFetcher()

	reader := ingestion.NewWebpageReader(args[0], ingestion.WithFetcher(fetcher))
	if err := reader.Read(ctx, browserEnabled(cmd), waitOptions()); err != nil {
		return err
	}

	var text string
	if readWebMain {
		text, err = reader.MainText(ctx)
	} else {
		text, err = reader.Text(ctx, !readWebRaw)
	}
	if err != nil {
		return err
	}

	tags, err := reader.ExtractMetadata(ctx, splitTags(readWebTags), readWebDelimiter)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), webReport{Text: text, Tags: tags, Metadata: reader.Metadata()})
}
