package model

import "time"

// JobPost is an opening published by a profile. Job posts are never mutated.
// OwnerName is filled on read from the owner profile and never stored.
type JobPost struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Role         Role      `json:"role"`
	OwnerID      string    `json:"owner_id"`
	OwnerName    *string   `json:"owner_name"`
	Skills       []string  `json:"skills"`
	Location     *string   `json:"location"`
	TimeZone     *string   `json:"time_zone"`
	WorkStyle    *string   `json:"work_style"`
	Availability *string   `json:"availability"`
	Timeline     *string   `json:"timeline"`
	Compensation *string   `json:"compensation"`
	Headline     *string   `json:"headline"`
	Description  *string   `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// Attribute implements Attributed. Jobs carry no experience attribute.
func (j JobPost) Attribute(field string) Attribute {
	switch field {
	case FieldRole:
		return Attribute{Present: true, Text: string(j.Role)}
	case FieldLocation:
		return TextAttr(j.Location)
	case FieldWorkStyle:
		return TextAttr(j.WorkStyle)
	case FieldAvailability:
		return TextAttr(j.Availability)
	case FieldSkills:
		return ListAttr(j.Skills)
	}
	return Absent
}

// Clone returns a deep copy.
func (j JobPost) Clone() JobPost {
	out := j
	out.OwnerName = cloneString(j.OwnerName)
	out.Skills = cloneStrings(j.Skills)
	out.Location = cloneString(j.Location)
	out.TimeZone = cloneString(j.TimeZone)
	out.WorkStyle = cloneString(j.WorkStyle)
	out.Availability = cloneString(j.Availability)
	out.Timeline = cloneString(j.Timeline)
	out.Compensation = cloneString(j.Compensation)
	out.Headline = cloneString(j.Headline)
	out.Description = cloneString(j.Description)
	return out
}
