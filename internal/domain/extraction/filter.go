package extraction

import "strings"

var skipPhrases = map[string]bool{
	"hello": true, "hi": true, "yeah": true, "yes": true, "no": true,
	"ok": true, "okay": true, "um": true, "uh": true, "thanks": true,
	"thank you": true, "sure": true,
}

// Filter gates which utterances are worth an extraction call. Short
// fillers and content-free acknowledgements never reach the model.
type Filter struct {
	minChars int
	keywords []string
}

func NewFilter(minChars int, keywords []string) *Filter {
	if minChars <= 0 {
		minChars = 5
	}
	return &Filter{minChars: minChars, keywords: keywords}
}

// InterviewKeywords hint at content relevant to a screening call.
var InterviewKeywords = []string{
	"name", "experience", "year", "work", "skill", "salary", "remote",
	"hybrid", "onsite", "on-site", "developer", "engineer", "role",
}

// JobDescriptionKeywords hint at content relevant to an open position.
var JobDescriptionKeywords = []string{
	"title", "company", "role", "position", "require", "benefit",
	"salary", "location", "remote", "hybrid", "full-time", "part-time",
	"contract", "hiring",
}

// ShouldExtract reports whether an utterance is likely to carry
// extractable content.
func (f *Filter) ShouldExtract(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) < f.minChars {
		return false
	}

	lower := strings.ToLower(text)
	words := strings.Fields(text)
	if skipPhrases[lower] || len(words) < 2 {
		return false
	}

	hasHint := false
	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			hasHint = true
			break
		}
	}
	// Short utterances need a keyword hint; longer ones get the
	// benefit of the doubt.
	if !hasHint && len(words) < 3 {
		return false
	}
	return true
}
