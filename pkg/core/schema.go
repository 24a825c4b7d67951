package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var scalar = map[string]any{"type": []string{"string", "number", "boolean", "null"}}

var identifierList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

var integerish = map[string]any{"type": []string{"integer", "string"}}

var filterProperties = map[string]any{
	"combine_type":         map[string]any{"type": "string"},
	"search":               scalar,
	"search_field":         map[string]any{"type": "string"},
	"auto_exclude_deleted": map[string]any{"type": "boolean"},
}

var orderProperties = map[string]any{
	"sort_column": map[string]any{"type": "string"},
	"sort":        map[string]any{"type": "string"},
	"direction":   map[string]any{"type": "string"},
	"limit":       integerish,
	"offset":      integerish,
}

var aggregateProperties = map[string]any{
	"aggregates": map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"function": map[string]any{"type": "string"},
				"field":    map[string]any{"type": "string"},
				"alias":    map[string]any{"type": "string"},
			},
			"required":             []string{"function", "field"},
			"additionalProperties": false,
		},
	},
	"group_by": identifierList,
}

var filterSlotPatterns = map[string]any{
	"^search_field[1-8]$":    map[string]any{"type": "string"},
	"^search_value[1-8]$":    scalar,
	"^search_operator[1-8]$": map[string]any{"type": "string"},
}

// actionSchema returns the JSON schema a request for action must satisfy.
// Every schema closes its property set so keys an action does not use are
// rejected.
func actionSchema(action Action) map[string]any {
	props := map[string]any{
		"action": map[string]any{"type": "string"},
		"table":  map[string]any{"type": "string"},
	}
	schema := map[string]any{
		"type":                 "object",
		"required":             []string{"action", "table"},
		"additionalProperties": false,
	}

	merge := func(src map[string]any) {
		for k, v := range src {
			props[k] = v
		}
	}

	switch action {
	case ActionList:
		merge(filterProperties)
		merge(orderProperties)
		props["fields"] = identifierList
		schema["patternProperties"] = filterSlotPatterns
	case ActionCount:
		merge(filterProperties)
		schema["patternProperties"] = filterSlotPatterns
	case ActionAggregate:
		merge(filterProperties)
		merge(orderProperties)
		merge(aggregateProperties)
		schema["patternProperties"] = filterSlotPatterns
	case ActionCreate, ActionUpdate, ActionDelete:
		props["payload"] = map[string]any{"type": "object"}
	case ActionBatchCreate:
		props["payload"] = map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "object"},
		}
	}
	schema["properties"] = props
	return schema
}

// AllowedKeys lists the top-level keys accepted for action, with the numbered
// filter slots folded into a single pattern entry.
func AllowedKeys(action Action) []string {
	schema := actionSchema(action)
	var keys []string
	for k := range schema["properties"].(map[string]any) {
		keys = append(keys, k)
	}
	if _, ok := schema["patternProperties"]; ok {
		keys = append(keys, "search_field{1..8}", "search_value{1..8}", "search_operator{1..8}")
	}
	sort.Strings(keys)
	return keys
}

var (
	schemaOnce  sync.Once
	schemaErr   error
	schemaCache map[Action]*gojsonschema.Schema
)

func compiledSchema(action Action) (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schemaCache = make(map[Action]*gojsonschema.Schema, len(Actions))
		for _, a := range Actions {
			s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(actionSchema(a)))
			if err != nil {
				schemaErr = fmt.Errorf("compile %s schema: %w", a, err)
				return
			}
			schemaCache[a] = s
		}
	})
	if schemaErr != nil {
		return nil, schemaErr
	}
	return schemaCache[action], nil
}
