package main

import (
	"fmt"
	"os"

	"github.com/jonathan/bestintern/internal/schemas"
	"github.com/jonathan/bestintern/internal/types"
	"github.com/spf13/cobra"
)

var summarizeSchemaCmd = &cobra.Command{
	Use:   "summarize-schema",
	Short: "Print the field summary given to the model for a schema",
	Long: "Print the compact field table used in extraction prompts, for a built-in target type " +
		"(--type resume|job) or a JSON Schema file (--schema). With --full the schema itself is printed.",
	RunE: runSummarizeSchema,
}

var (
	summarizeType   string
	summarizeSchema string
	summarizeFull   bool
)

func init() {
	summarizeSchemaCmd.Flags().StringVar(&summarizeType, "type", "", "Built-in target: resume or job")
	summarizeSchemaCmd.Flags().StringVar(&summarizeSchema, "schema", "", "Path to a JSON Schema file")
	summarizeSchemaCmd.Flags().BoolVar(&summarizeFull, "full", false, "Print the full schema instead of the summary")

	rootCmd.AddCommand(summarizeSchemaCmd)
}

// targetSchema returns the schema of a built-in extraction target.
func targetSchema(name string) (*schemas.Schema, error) {
	switch name {
	case "resume":
		return schemas.For[types.ResumeMetadata]()
	case "job":
		return schemas.For[types.JobMetadata]()
	default:
		return nil, fmt.Errorf("unknown type %q (want resume or job)", name)
	}
}

func runSummarizeSchema(cmd *cobra.Command, _ []string) error {
	if (summarizeType == "") == (summarizeSchema == "") {
		return fmt.Errorf("exactly one of --type or --schema is required")
	}

	var (
		schema *schemas.Schema
		err    error
	)
	if summarizeType != "" {
		schema, err = targetSchema(summarizeType)
	} else {
		var data []byte
		data, err = os.ReadFile(summarizeSchema)
		if err != nil {
			return &schemas.SchemaLoadError{Path: summarizeSchema, Message: "failed to read schema file", Cause: err}
		}
		schema, err = schemas.Parse(data)
	}
	if err != nil {
		return err
	}

	if summarizeFull {
		return writeOutput(cmd.OutOrStdout(), schema)
	}
	return writeOutput(cmd.OutOrStdout(), schemas.Summarize(schema))
}
