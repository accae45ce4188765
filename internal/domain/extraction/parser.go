package extraction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// ParseFields decodes a model response into field values. Models often
// wrap their JSON in markdown fences or lead-in prose, so parsing is
// lenient: strip fences, try a strict decode, then fall back to the
// first balanced JSON object in the text. Anything still unparseable
// yields an empty map rather than an error, since a bad extraction
// must never stall the pipeline.
func ParseFields(raw string) map[string]string {
	clean := stripFences(raw)

	var decoded map[string]any
	if err := sonic.UnmarshalString(clean, &decoded); err != nil {
		obj := firstJSONObject(clean)
		if obj == "" {
			return map[string]string{}
		}
		if err := sonic.UnmarshalString(obj, &decoded); err != nil {
			return map[string]string{}
		}
	}

	fields := make(map[string]string, len(decoded))
	for k, v := range decoded {
		if s := stringify(v); s != "" {
			fields[k] = s
		}
	}
	return fields
}

// stripFences removes a surrounding markdown code block, with or
// without the json language tag.
func stripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	if strings.HasPrefix(clean, "```json") {
		clean = clean[len("```json"):]
	} else if strings.HasPrefix(clean, "```") {
		clean = clean[len("```"):]
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

// firstJSONObject extracts the first balanced {...} span, ignoring
// braces inside string literals.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stringify flattens a decoded JSON value into the record's string
// representation. Lists become comma-joined, numbers lose their
// trailing zeros, and null or nested objects are dropped.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		var parts []string
		for _, item := range val {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any, nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
