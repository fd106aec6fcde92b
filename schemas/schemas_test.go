package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/bestintern/internal/schemas"
	"github.com/jonathan/bestintern/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = map[string]func() (*schemas.Schema, error){
	"resume_metadata.schema.json": schemas.For[types.ResumeMetadata],
	"job_metadata.schema.json":    schemas.For[types.JobMetadata],
}

func loadSchemaFile(t *testing.T, name string) *schemas.Schema {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(".", name))
	require.NoError(t, err, "should be able to read schema file")

	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON: %s", name)

	s, err := schemas.Parse(data)
	require.NoError(t, err)
	return s
}

func TestSchemaFiles_MatchGeneratedSchemas(t *testing.T) {
	for name, generate := range schemaFiles {
		t.Run(name, func(t *testing.T) {
			file := loadSchemaFile(t, name)
			generated, err := generate()
			require.NoError(t, err)

			assert.Equal(t, generated.Title, file.Title)
			assert.Equal(t, generated.PropertyNames(), file.PropertyNames())
			assert.Equal(t, generated.Required, file.Required)
			assert.Equal(t, generated.Defs.Names(), file.Defs.Names())
			assert.JSONEq(t, schemas.Summarize(generated).String(), schemas.Summarize(file).String(),
				"prompt summary of %s drifted from the Go type", name)
		})
	}
}

func TestResumeSchemaFile_ValidatesDocuments(t *testing.T) {
	s := loadSchemaFile(t, "resume_metadata.schema.json")

	valid := map[string]any{
		"name":   "Ada Lovelace",
		"email":  "ada@example.com",
		"phone":  "555-0100",
		"skills": []any{"Go"},
		"education": []any{map[string]any{
			"institution": "UCL", "degree": "BSc", "field_of_study": "Mathematics",
			"start_date": "2019-09-01", "gpa": 3.9,
		}},
		"experience": []any{},
		"summary":    nil,
	}
	assert.NoError(t, schemas.ValidateDocument(s, valid))

	delete(valid, "email")
	err := schemas.ValidateDocument(s, valid)
	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestJobSchemaFile_RequiresEveryFieldButAllowsNull(t *testing.T) {
	s := loadSchemaFile(t, "job_metadata.schema.json")

	doc := map[string]any{}
	for _, name := range s.PropertyNames() {
		doc[name] = nil
	}
	doc["remote"] = false
	doc["skills_required"] = []any{"Go"}
	assert.NoError(t, schemas.ValidateDocument(s, doc))

	delete(doc, "company")
	assert.Error(t, schemas.ValidateDocument(s, doc))

	doc["company"] = 42
	assert.Error(t, schemas.ValidateDocument(s, doc))
}
