package extraction

import (
	"fmt"
	"strings"

	"github.com/Divyendra-S/sasha/internal/domain/record"
)

// BuildPrompt renders the extraction instruction for a schema. The
// model sees every field with its hint, plus the values collected so
// far so it favors the still-missing fields, and is told to answer
// with a bare JSON object, empty when nothing relevant was said.
func BuildPrompt(schema *record.Schema, collected map[string]string, utterance string) string {
	var sb strings.Builder
	sb.WriteString("You are an information extraction system. ")
	sb.WriteString("Extract structured information from the user's spoken response.\n\n")
	sb.WriteString("Extract the following fields, only if explicitly mentioned:\n")
	for _, f := range schema.Fields {
		fmt.Fprintf(&sb, "- %s: %s\n", f.Name, f.Hint)
	}

	if len(collected) > 0 {
		sb.WriteString("\nAlready collected (only report these again if the user corrects them):\n")
		for _, f := range schema.Fields {
			if v, ok := collected[f.Name]; ok {
				fmt.Fprintf(&sb, "- %s: %s\n", f.Name, v)
			}
		}
	}

	sb.WriteString("\nReturn ONLY a JSON object with the extracted fields. ")
	sb.WriteString("If no relevant information is found, return an empty JSON object {}.\n")
	sb.WriteString("Do not invent values and do not include fields that were not mentioned.\n\n")
	sb.WriteString("Examples:\n")
	sb.WriteString("User: \"Hi, I'm John Smith and I have 5 years of experience\"\n")
	sb.WriteString("Response: {\"name\": \"John Smith\", \"years_experience\": 5}\n")
	sb.WriteString("User: \"Yes, that sounds good\"\n")
	sb.WriteString("Response: {}\n\n")
	fmt.Fprintf(&sb, "User response: %q", utterance)
	return sb.String()
}
