package extraction

import (
	"sort"

	"github.com/jonathan/bestintern/internal/schemas"
)

// MissingFields lists the top-level schema properties that the parsed output
// left absent, null, or empty ("", [], {}). false and 0 are values, not gaps.
// The result is sorted.
func MissingFields(schema *schemas.Schema, data map[string]any) []string {
	missing := []string{}
	for _, name := range schema.PropertyNames() {
		value, ok := data[name]
		if !ok || isEmptyValue(value) {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}
