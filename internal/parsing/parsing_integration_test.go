//go:build integration

package parsing

import (
	"context"
	"os"
	"testing"

	"github.com/jonathan/bestintern/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResume_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping integration test")
	}

	ctx := context.Background()
	model, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	require.NoError(t, err)
	t.Cleanup(func() { _ = model.Close() })

	parser := &ResumeParser{Model: model, MaxAttempts: 3}
	result, err := parser.ParseResumeBytes(ctx, buildPDF(
		"Ada Lovelace - ada@example.com - 555-0100",
		"Education: University College London, BSc Mathematics, September 2019 to June 2022",
		"Skills: Go, SQL, Python",
	))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", result.Data.Name)
	assert.Equal(t, "ada@example.com", result.Data.Email)
	assert.NotEmpty(t, result.Data.Skills)
	assert.NotEmpty(t, result.Data.Education)
}
