package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  bool
	}{
		{"name", "John Smith", true},
		{"name", "John Smith the 3rd of 42 Elm Street", false},
		{"name", "not mentioned", false},
		{"years_experience", "5", true},
		{"years_experience", "five-ish but really quite senior", false},
		{"salary_expectation", "120k-140k", true},
		{"salary_expectation", "negotiable", true},
		{"salary_expectation", "a lot", false},
		{"work_preference", "Remote", true},
		{"work_preference", "I like working from the beach", false},
		{"employment_type", "full-time", true},
		{"employment_type", "whenever", false},
		{"skills", "Go, Postgres", true},
		{"skills", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Validate(tt.field, tt.value),
			"field %s value %q", tt.field, tt.value)
	}
}
