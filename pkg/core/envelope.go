package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/xeipuuv/gojsonschema"
)

// DecodeEnvelope parses a JSON request into an Envelope. The action is read
// first; the whole object is then checked against that action's schema, so
// keys the action does not use are rejected rather than ignored.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, WrapError(KindInvalidRequest, "request must be a JSON object", err)
	}
	if doc == nil {
		return nil, NewError(KindInvalidRequest, "request must be a JSON object")
	}

	actionName, _ := doc["action"].(string)
	action := Action(actionName)
	if !action.Valid() {
		return nil, NewError(KindUnknownAction, "unknown action %q", actionName)
	}

	schema, err := compiledSchema(action)
	if err != nil {
		return nil, err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, WrapError(KindInvalidRequest, "request could not be validated", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, NewError(KindInvalidRequest, "%s request: %s", action, strings.Join(msgs, "; "))
	}

	return envelopeFromDocument(action, doc)
}

func envelopeFromDocument(action Action, doc map[string]any) (*Envelope, error) {
	env := &Envelope{
		Action:             action,
		Table:              cast.ToString(doc["table"]),
		Search:             scalarString(doc["search"]),
		SearchField:        cast.ToString(doc["search_field"]),
		SortColumn:         cast.ToString(doc["sort_column"]),
		Sort:               cast.ToString(doc["sort"]),
		Direction:          cast.ToString(doc["direction"]),
		AutoExcludeDeleted: cast.ToBool(doc["auto_exclude_deleted"]),
		Fields:             stringList(doc["fields"]),
		GroupBy:            stringList(doc["group_by"]),
	}

	combine, err := parseCombine(cast.ToString(doc["combine_type"]))
	if err != nil {
		return nil, err
	}
	env.Combine = combine

	for i := range env.Filters {
		n := i + 1
		slot := &env.Filters[i]
		slot.Field = cast.ToString(doc[fmt.Sprintf("search_field%d", n)])
		slot.Operator = cast.ToString(doc[fmt.Sprintf("search_operator%d", n)])
		if v, ok := doc[fmt.Sprintf("search_value%d", n)]; ok && v != nil {
			slot.Value = normalizeValue(v)
			slot.HasValue = true
		}
	}

	if env.Limit, err = pagination("limit", doc["limit"]); err != nil {
		return nil, err
	}
	if env.Offset, err = pagination("offset", doc["offset"]); err != nil {
		return nil, err
	}

	if aggs, ok := doc["aggregates"].([]any); ok {
		for _, item := range aggs {
			m, _ := item.(map[string]any)
			env.Aggregates = append(env.Aggregates, Aggregate{
				Function: cast.ToString(m["function"]),
				Field:    cast.ToString(m["field"]),
				Alias:    cast.ToString(m["alias"]),
			})
		}
	}

	switch payload := doc["payload"].(type) {
	case map[string]any:
		env.Payload = toRecord(payload)
	case []any:
		for _, item := range payload {
			if m, ok := item.(map[string]any); ok {
				env.Rows = append(env.Rows, toRecord(m))
			}
		}
	}

	return env, nil
}

func parseCombine(s string) (CombineType, error) {
	switch CombineType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", CombineAnd:
		return CombineAnd, nil
	case CombineOr:
		return CombineOr, nil
	default:
		return "", NewError(KindInvalidRequest, "combine_type must be AND or OR, got %q", s)
	}
}

// pagination coerces limit/offset from a JSON integer or a base-10 numeric
// string. Values that do not fit in an int are rejected.
func pagination(name string, v any) (int, error) {
	var n int64
	switch t := v.(type) {
	case nil:
		return 0, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, WrapError(KindInvalidRequest, name+" must be a base-10 integer", err)
		}
		n = parsed
	case json.Number:
		parsed, err := t.Int64()
		if err != nil {
			return 0, WrapError(KindInvalidRequest, name+" must be an integer that fits in 64 bits", err)
		}
		n = parsed
	default:
		parsed, err := cast.ToInt64E(t)
		if err != nil {
			return 0, WrapError(KindInvalidRequest, name+" must be an integer", err)
		}
		n = parsed
	}
	if n < 0 {
		return 0, NewError(KindInvalidRequest, "%s must not be negative, got %d", name, n)
	}
	if n > math.MaxInt {
		return 0, NewError(KindInvalidRequest, "%s is too large, got %d", name, n)
	}
	return int(n), nil
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, cast.ToString(item))
	}
	return out
}

func scalarString(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(normalizeValue(v))
}

func toRecord(m map[string]any) Record {
	rec := make(Record, len(m))
	for k, v := range m {
		rec[k] = normalizeValue(v)
	}
	return rec
}

// normalizeValue turns json.Number into int64 when integral and float64
// otherwise, recursing into arrays and objects.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
