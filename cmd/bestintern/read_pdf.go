package main

import (
	"fmt"

	"github.com/jonathan/bestintern/internal/pdf"
	"github.com/spf13/cobra"
)

var readPDFCmd = &cobra.Command{
	Use:   "read-pdf <file>",
	Short: "Print text, statistics and pattern matches from a PDF",
	Long: "Read a PDF without calling a model. By default prints document statistics and the emails, " +
		"phone numbers, locations, education, work experience and skills found by pattern matching.",
	Args: cobra.ExactArgs(1),
	RunE: runReadPDF,
}

var (
	readPDFPage   int
	readPDFSearch string
	readPDFText   bool
)

func init() {
	readPDFCmd.Flags().IntVar(&readPDFPage, "page", -1, "Print the text of this page (0-based)")
	readPDFCmd.Flags().StringVar(&readPDFSearch, "search", "", "List pages containing this term")
	readPDFCmd.Flags().BoolVar(&readPDFText, "text", false, "Print the full text")

	rootCmd.AddCommand(readPDFCmd)
}

type pdfReport struct {
	File       string             `json:"file"`
	Statistics pdf.Statistics     `json:"statistics"`
	Metadata   *pdf.Metadata      `json:"metadata,omitempty"`
	Page       *string            `json:"page,omitempty"`
	Matches    []pdf.SearchResult `json:"matches,omitempty"`
	Text       string             `json:"text,omitempty"`
}

func runReadPDF(cmd *cobra.Command, args []string) error {
	reader, err := pdf.Open(args[0])
	if err != nil {
		return err
	}

	report := pdfReport{File: args[0], Statistics: reader.Statistics()}
	switch {
	case readPDFPage >= 0:
		text, err := reader.TextByPage(readPDFPage)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		report.Page = &text
	case readPDFSearch != "":
		report.Matches = reader.SearchText(readPDFSearch)
	case readPDFText:
		report.Text = reader.FullText()
	default:
		metadata := reader.ExtractMetadata()
		report.Metadata = &metadata
	}
	return writeOutput(cmd.OutOrStdout(), report)
}
