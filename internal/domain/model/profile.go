package model

import "time"

// Profile is a person listed in the directory.
// Optional strings are pointers so that an absent value differs from "".
type Profile struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Email               *string           `json:"email"`
	Role                Role              `json:"role"`
	Skills              []string          `json:"skills"`
	Location            *string           `json:"location"`
	TimeZone            *string           `json:"time_zone"`
	Availability        *string           `json:"availability"`
	Headline            *string           `json:"headline"`
	Bio                 *string           `json:"bio"`
	Experience          *string           `json:"experience"`
	Startups            *string           `json:"startups"`
	ResumeURL           *string           `json:"resume_url"`
	ProfilePhoto        *string           `json:"profile_photo"`
	Portfolio           []string          `json:"portfolio"`
	LookingForCofounder bool              `json:"looking_for_cofounder"`
	Preferences         map[string]string `json:"preferences"`
	CreatedAt           time.Time         `json:"created_at"`
	Version             int64             `json:"version"`
}

// Attribute implements Attributed. work_style lives in preferences.
func (p Profile) Attribute(field string) Attribute {
	switch field {
	case FieldRole:
		return Attribute{Present: true, Text: string(p.Role)}
	case FieldLocation:
		return TextAttr(p.Location)
	case FieldAvailability:
		return TextAttr(p.Availability)
	case FieldExperience:
		return TextAttr(p.Experience)
	case FieldSkills:
		return ListAttr(p.Skills)
	case FieldWorkStyle:
		if ws, ok := p.Preferences["work_style"]; ok {
			return Attribute{Present: true, Text: ws}
		}
	}
	return Absent
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	out := p
	out.Email = cloneString(p.Email)
	out.Skills = cloneStrings(p.Skills)
	out.Location = cloneString(p.Location)
	out.TimeZone = cloneString(p.TimeZone)
	out.Availability = cloneString(p.Availability)
	out.Headline = cloneString(p.Headline)
	out.Bio = cloneString(p.Bio)
	out.Experience = cloneString(p.Experience)
	out.Startups = cloneString(p.Startups)
	out.ResumeURL = cloneString(p.ResumeURL)
	out.ProfilePhoto = cloneString(p.ProfilePhoto)
	out.Portfolio = cloneStrings(p.Portfolio)
	if p.Preferences != nil {
		out.Preferences = make(map[string]string, len(p.Preferences))
		for k, v := range p.Preferences {
			out.Preferences[k] = v
		}
	}
	return out
}
