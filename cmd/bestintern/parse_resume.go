package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/bestintern/internal/parsing"
	"github.com/spf13/cobra"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Extract structured metadata from a PDF resume",
	Long: "Read a PDF resume from disk (--pdf) or object storage (--object), extract ResumeMetadata " +
		"with the configured model and print it with the fields the model could not fill.",
	RunE: runParseResume,
}

var (
	parseResumePDF    string
	parseResumeObject string
	parseResumeSave   bool
)

func init() {
	parseResumeCmd.Flags().StringVar(&parseResumePDF, "pdf", "", "Path to a PDF resume")
	parseResumeCmd.Flags().StringVar(&parseResumeObject, "object", "", "Object key of a PDF resume in the configured bucket")
	parseResumeCmd.Flags().BoolVar(&parseResumeSave, "save", false, "Store the result in the database")

	rootCmd.AddCommand(parseResumeCmd)
}

type resumeOutput struct {
	*parsing.ResumeResult
	ID *uuid.UUID `json:"id,omitempty"`
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	if (parseResumePDF == "") == (parseResumeObject == "") {
		return fmt.Errorf("exactly one of --pdf or --object is required")
	}
	ctx := cmd.Context()

	model, err := newModel(ctx, "extraction-system")
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = model.Close() }()

	parser := &parsing.ResumeParser{Model: model, MaxAttempts: appConfig.LLM.MaxAttempts}

	var (
		result *parsing.ResumeResult
		source string
	)
	if parseResumePDF != "" {
		source = parseResumePDF
		result, err = parser.ParseResume(ctx, parseResumePDF)
	} else {
		store, storeErr := newObjectStore()
		if storeErr != nil {
			return storeErr
		}
		parser.Store = store
		source = store.Bucket() + "/" + parseResumeObject
		result, err = parser.ParseResumeObject(ctx, parseResumeObject)
	}
	if err != nil {
		return err
	}

	out := resumeOutput{ResumeResult: result}
	if parseResumeSave {
		database, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		id, err := parsing.SaveResume(ctx, database, result, source)
		if err != nil {
			return err
		}
		out.ID = &id
	}
	return writeOutput(cmd.OutOrStdout(), out)
}
