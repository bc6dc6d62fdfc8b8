package model

// Attribute names shared by profiles and job posts.
const (
	FieldRole         = "role"
	FieldLocation     = "location"
	FieldSkills       = "skills"
	FieldWorkStyle    = "work_style"
	FieldAvailability = "availability"
	FieldExperience   = "experience"
)

// Attribute is the value an entity exposes for a named field.
// Absent attributes never satisfy a constraint.
type Attribute struct {
	Present bool
	Text    string
	List    []string
}

// Absent is the zero Attribute.
var Absent = Attribute{}

// TextAttr wraps an optional string. A nil pointer is absent.
func TextAttr(s *string) Attribute {
	if s == nil {
		return Absent
	}
	return Attribute{Present: true, Text: *s}
}

// ListAttr wraps a sequence. A nil or empty sequence is still present, just with nothing to intersect.
func ListAttr(list []string) Attribute {
	return Attribute{Present: true, List: list}
}

// Attributed is implemented by every entity the match engine can evaluate.
type Attributed interface {
	Attribute(field string) Attribute
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
