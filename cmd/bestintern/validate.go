package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/bestintern/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against a schema",
	Long: "Validate a JSON file against a JSON Schema file (--schema) or a built-in target type " +
		"(--type resume|job). Exits non-zero when the document does not conform.",
	RunE: runValidate,
}

var (
	validateJSON   string
	validateSchema string
	validateType   string
)

type validationReport struct {
	Valid  bool                 `json:"valid"`
	Errors []schemas.FieldError `json:"errors,omitempty"`
}

func init() {
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON document (required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to a JSON Schema file")
	validateCmd.Flags().StringVar(&validateType, "type", "", "Built-in target: resume or job")
	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if (validateType == "") == (validateSchema == "") {
		return fmt.Errorf("exactly one of --type or --schema is required")
	}

	var err error
	if validateSchema != "" {
		err = schemas.ValidateJSON(validateSchema, validateJSON)
	} else {
		err = validateAgainstType(validateType, validateJSON)
	}

	var invalid *schemas.ValidationError
	switch {
	case err == nil:
		return writeOutput(cmd.OutOrStdout(), validationReport{Valid: true})
	case errors.As(err, &invalid):
		if werr := writeOutput(cmd.OutOrStdout(), validationReport{Errors: invalid.Errors}); werr != nil {
			return werr
		}
		return fmt.Errorf("%s does not match the schema (%d errors)", validateJSON, len(invalid.Errors))
	default:
		return err
	}
}

func validateAgainstType(name, jsonPath string) error {
	schema, err := targetSchema(name)
	if err != nil {
		return err
	}
	schemaJSON, err := schema.JSON()
	if err != nil {
		return err
	}
	doc, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", jsonPath, err)
	}
	return schemas.ValidateJSONString(string(schemaJSON), string(doc))
}
