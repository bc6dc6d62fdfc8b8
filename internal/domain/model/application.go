package model

import "time"

// ApplicationStatus tracks where an application is in review.
type ApplicationStatus string

// Application statuses.
const (
	StatusApplied      ApplicationStatus = "applied"
	StatusReviewed     ApplicationStatus = "reviewed"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusRejected     ApplicationStatus = "rejected"
	StatusAccepted     ApplicationStatus = "accepted"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusReviewed, StatusInterviewing, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// Application links an applicant profile to a job post. ApplicantName and
// JobTitle are filled on read.
type Application struct {
	ID            string            `json:"id"`
	JobPostID     string            `json:"job_post_id"`
	ApplicantID   string            `json:"applicant_id"`
	Status        ApplicationStatus `json:"status"`
	CoverLetter   *string           `json:"cover_letter"`
	CreatedAt     time.Time         `json:"created_at"`
	ApplicantName *string           `json:"applicant_name"`
	JobTitle      *string           `json:"job_title"`
}

// Clone returns a deep copy.
func (a Application) Clone() Application {
	out := a
	out.CoverLetter = cloneString(a.CoverLetter)
	out.ApplicantName = cloneString(a.ApplicantName)
	out.JobTitle = cloneString(a.JobTitle)
	return out
}
