package extraction

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceMarkers = regexp.MustCompile("```json\\s*|\\s*```")

// ExtractJSON returns the span from the first '{' to the last '}' of a model
// response with markdown fence markers removed.
func ExtractJSON(response string) (string, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || start >= end {
		return "", &AttemptError{Kind: ErrNoJSONFound}
	}

	span := fenceMarkers.ReplaceAllString(response[start:end+1], "")
	return strings.TrimSpace(span), nil
}

// ParseResponse extracts and decodes the JSON object in a model response.
func ParseResponse(response string) (map[string]any, string, error) {
	span, err := ExtractJSON(response)
	if err != nil {
		return nil, "", err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(span), &data); err != nil {
		return nil, span, &AttemptError{Kind: ErrMalformedJSON, Cause: err}
	}
	return data, span, nil
}
