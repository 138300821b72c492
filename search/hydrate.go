package search

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/i-dot-ai/lex/legislation"
)

// hydrateDocument and hydrateSection round-trip a Qdrant payload through
// JSON into the normalized model: the payload was built from exactly these
// structs' json tags (pipeline.documentPayload/sectionPayload), and
// Section's own UnmarshalJSON already handles the inference-envelope text
// shape a partially migrated corpus may still contain.
func hydrateDocument(payload map[string]any) (legislation.Document, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return legislation.Document{}, fmt.Errorf("marshal document payload: %w", err)
	}
	var doc legislation.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return legislation.Document{}, fmt.Errorf("unmarshal document payload: %w", err)
	}
	return doc, nil
}

func hydrateSection(payload map[string]any) (legislation.Section, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return legislation.Section{}, fmt.Errorf("marshal section payload: %w", err)
	}
	var s legislation.Section
	if err := json.Unmarshal(data, &s); err != nil {
		return legislation.Section{}, fmt.Errorf("unmarshal section payload: %w", err)
	}
	return s, nil
}

// formatNumber renders a section's numeric payload field as the string
// form act-search results expose, tolerating whichever numeric Go type the
// vector store's value conversion produced.
func formatNumber(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatInt(int64(n), 10)
	default:
		return fmt.Sprintf("%v", n)
	}
}
