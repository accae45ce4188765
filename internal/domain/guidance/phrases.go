package guidance

import (
	"fmt"

	"github.com/Divyendra-S/sasha/internal/domain/record"
)

// phrasing holds the two wordings for one field: focused for early
// attempts, escalated once the same field has gone unanswered too
// many times.
type phrasing struct {
	focused   string
	escalated string
}

var fieldPhrasings = map[string]phrasing{
	"name": {
		focused:   "Let's start with your full name please.",
		escalated: "I need to get your full name for our records. Please tell me your first and last name.",
	},
	"years_experience": {
		focused:   "How many years of professional experience do you have? Please give me a specific number.",
		escalated: "I need the exact number of years of professional experience you have. Please give me a specific number.",
	},
	"current_role": {
		focused:   "What's your current job title or what specific position are you looking for?",
		escalated: "I need to know your current job title or the specific position you're applying for. What is your exact role?",
	},
	"skills": {
		focused:   "What specific programming languages and technologies do you work with?",
		escalated: "I need specific technical skills. Please list the programming languages, frameworks, or technologies you work with.",
	},
	"work_preference": {
		focused:   "For this role, do you prefer remote work, hybrid, or working onsite?",
		escalated: "I need to know your work arrangement preference. Do you want remote, hybrid, or onsite work? Please choose one.",
	},
	"salary_expectation": {
		focused:   "What salary range are you looking for in this position?",
		escalated: "I need your salary expectations. Please give me a specific range or amount you're looking for.",
	},
}

const wrapUpMessage = "Great! I have all the information I need. Is there anything else you'd like to discuss?"

// phraseFor returns the guidance wording for a field. Fields without
// a canned phrasing fall back to a wording built from the schema
// label, so new schemas work without a phrase table.
func phraseFor(field record.Field, escalated bool) string {
	if p, ok := fieldPhrasings[field.Name]; ok {
		if escalated {
			return p.escalated
		}
		return p.focused
	}
	if escalated {
		return fmt.Sprintf("I still need %s to continue. Please tell me %s now.", field.Label, field.Label)
	}
	return fmt.Sprintf("Could you tell me %s?", field.Label)
}
