package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("extraction.json", "extract-data")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "{{.FieldsInfo}}")
	assert.Contains(t, prompt, "{{.Text}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("extraction.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("extraction.json", "extract-data")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("extraction.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"correction", "extract-data"}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("extraction.json", "extract-data")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("extraction.json", "extract-data")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}

func TestFormat_SinglePass(t *testing.T) {
	template := "Fields: {{.FieldsInfo}}\nText: {{.Text}}"
	data := map[string]string{
		"FieldsInfo": "{\"name\": {\"type\": \"string\"}}",
		"Text":       "resume mentions {{.FieldsInfo}} literally",
	}

	result := Format(template, data)
	assert.Equal(t, "Fields: {\"name\": {\"type\": \"string\"}}\nText: resume mentions {{.FieldsInfo}} literally", result)
}

func TestRender_Correction(t *testing.T) {
	ClearCache()

	prompt, err := Render("extraction.json", "correction", map[string]string{"Reason": "missing field email"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, "The previous attempt failed due to: missing field email."))
	assert.Contains(t, prompt, "Provide only the JSON object")
}

func TestRender_SystemPrompts(t *testing.T) {
	ClearCache()

	for _, key := range []string{"default-system", "extraction-system"} {
		prompt, err := Render("assistant.json", key, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, prompt)
	}
}
