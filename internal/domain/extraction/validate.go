package extraction

import (
	"strings"
	"unicode"
)

// validators holds per-field sanity checks applied before a merge.
// They guard against extractions that are well-formed JSON but
// semantically wrong for the field. Fields without a validator accept
// any non-empty value.
var validators = map[string]func(string) bool{
	"name":             looksLikeName,
	"years_experience": containsDigit,
	"salary_expectation": func(v string) bool {
		return containsDigit(v) || strings.Contains(strings.ToLower(v), "negotiable")
	},
	"work_preference": oneOfFold("remote", "hybrid", "onsite", "on-site", "office", "flexible"),
	"employment_type": oneOfFold("full-time", "full time", "part-time", "part time", "contract", "internship", "temporary"),
	"salary_range":    containsDigit,
}

// Validate reports whether a value is plausible for a field.
func Validate(field, value string) bool {
	fn, ok := validators[field]
	if !ok {
		return value != ""
	}
	return fn(value)
}

func containsDigit(v string) bool {
	return strings.IndexFunc(v, unicode.IsDigit) >= 0
}

func looksLikeName(v string) bool {
	if containsDigit(v) {
		return false
	}
	// Reject things the model sometimes puts in the name slot.
	lower := strings.ToLower(v)
	for _, bad := range []string{"unknown", "not mentioned", "n/a", "user"} {
		if lower == bad {
			return false
		}
	}
	return len(strings.Fields(v)) <= 5
}

// oneOfFold matches when the value contains any of the given terms,
// case-insensitively.
func oneOfFold(terms ...string) func(string) bool {
	return func(v string) bool {
		lower := strings.ToLower(v)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				return true
			}
		}
		return false
	}
}
