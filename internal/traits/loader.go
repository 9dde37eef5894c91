// Package traits flattens trait documents into an ordered list of trait units
// and validates the JSON documents consumed during setup.
package traits

import (
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/rcliao/trait-trainer/internal/model"
)

// Entry is one trait type from a traits document with its raw value.
type Entry struct {
	Type  string
	Value gjson.Result
}

// Mapping is a traits document in source order.
type Mapping []Entry

// ParseMapping decodes a traits document, keeping the order of its keys.
// A key that appears twice keeps its first position and its last value.
func ParseMapping(data []byte) (Mapping, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("expected a JSON object, got %s", kindOf(doc))
	}

	var m Mapping
	pos := make(map[string]int)
	doc.ForEach(func(k, v gjson.Result) bool {
		if i, ok := pos[k.String()]; ok {
			m[i].Value = v
			return true
		}
		pos[k.String()] = len(m)
		m = append(m, Entry{Type: k.String(), Value: v})
		return true
	})
	return m, nil
}

// Load flattens m into trait units ordered by type, then by value.
// Entries whose value is not an array, and non-string array items, are
// skipped with a warning. Repeated values within a type are dropped so
// that every key stays unique.
func Load(m Mapping, logger *slog.Logger) []model.TraitUnit {
	if logger == nil {
		logger = slog.Default()
	}

	var units []model.TraitUnit
	seen := make(map[string]bool)
	for _, e := range m {
		if !e.Value.IsArray() {
			logger.Warn("trait values are not an array, skipping",
				"type", e.Type, "kind", kindOf(e.Value))
			continue
		}
		for i, v := range e.Value.Array() {
			if v.Type != gjson.String {
				logger.Warn("trait value is not a string, skipping",
					"type", e.Type, "index", i, "kind", kindOf(v))
				continue
			}
			u := model.NewTraitUnit(e.Type, v.String())
			if seen[u.Key] {
				logger.Debug("duplicate trait value dropped", "key", u.Key)
				continue
			}
			seen[u.Key] = true
			units = append(units, u)
		}
	}
	return units
}

func kindOf(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "object"
	case r.IsArray():
		return "array"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	return "unknown"
}
