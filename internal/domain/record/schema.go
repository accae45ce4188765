package record

// Field describes one slot in a collection schema. Declaration order
// doubles as the priority order used when deciding which missing field
// to ask about next.
type Field struct {
	// Name is the canonical key the extraction model writes to.
	Name string
	// Label is the human phrasing used in guidance prompts.
	Label string
	// Hint tells the extraction model what to look for.
	Hint string
	// SnapshotKey is the camelCase key used in published snapshots.
	SnapshotKey string
	// List marks fields whose value is rendered as a list in snapshots.
	List bool
}

// Schema is an ordered set of fields to collect over a conversation.
type Schema struct {
	Name   string
	Fields []Field
}

// FieldNames returns the canonical field keys in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the field definition for a canonical key.
func (s *Schema) Lookup(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// InterviewSchema collects candidate details during a screening call.
func InterviewSchema() *Schema {
	return &Schema{
		Name: "interview",
		Fields: []Field{
			{Name: "name", Label: "your name", Hint: "the candidate's full name", SnapshotKey: "name"},
			{Name: "years_experience", Label: "your years of experience", Hint: "total years of professional experience, as a number or range", SnapshotKey: "yearsExperience"},
			{Name: "current_role", Label: "your current role", Hint: "current or most recent job title", SnapshotKey: "currentRole"},
			{Name: "skills", Label: "your key skills", Hint: "technical and professional skills, comma separated", SnapshotKey: "skills", List: true},
			{Name: "work_preference", Label: "your work preference", Hint: "remote, hybrid, or on-site preference", SnapshotKey: "workPreference"},
			{Name: "salary_expectation", Label: "your salary expectation", Hint: "expected salary or salary range", SnapshotKey: "salaryExpectation"},
		},
	}
}

// JobDescriptionSchema collects the details of an open position.
func JobDescriptionSchema() *Schema {
	return &Schema{
		Name: "job_description",
		Fields: []Field{
			{Name: "title", Label: "the job title", Hint: "the title of the open position", SnapshotKey: "title"},
			{Name: "company", Label: "the company name", Hint: "the hiring company's name", SnapshotKey: "company"},
			{Name: "description", Label: "a short description of the role", Hint: "a one or two sentence summary of the role", SnapshotKey: "description"},
			{Name: "requirements", Label: "the requirements", Hint: "required qualifications and experience, comma separated", SnapshotKey: "requirements", List: true},
			{Name: "benefits", Label: "the benefits", Hint: "benefits and perks offered, comma separated", SnapshotKey: "benefits", List: true},
			{Name: "location", Label: "the location", Hint: "where the role is based, including remote or hybrid", SnapshotKey: "location"},
			{Name: "salary_range", Label: "the salary range", Hint: "the compensation range for the role", SnapshotKey: "salaryRange"},
			{Name: "employment_type", Label: "the employment type", Hint: "full-time, part-time, or contract", SnapshotKey: "employmentType"},
		},
	}
}

// SchemaByName resolves a configured schema name.
func SchemaByName(name string) (*Schema, bool) {
	switch name {
	case "interview":
		return InterviewSchema(), true
	case "job_description":
		return JobDescriptionSchema(), true
	default:
		return nil, false
	}
}
