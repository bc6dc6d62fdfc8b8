// Package loadcheck drives a running directory API with generated profiles
// and verifies that filter and search results agree with local matching.
package loadcheck

import (
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
)

// Config holds configuration for a load check run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumProfiles  int           // Number of profiles to generate
	Workers      int           // Number of concurrent workers
	InvalidEvery int           // Every n-th payload is invalid; 0 disables
	PatchSample  int           // Number of created profiles to patch
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Output file for generated payloads
	LogFile      string        // Log file for run output
	Verbose      bool          // Enable verbose logging
}

// Payload is one generated profile and what the service made of it.
type Payload struct {
	Index   int                 `json:"index"`
	Request model.ProfileCreate `json:"request"`
	Invalid bool                `json:"invalid"`
	Status  int                 `json:"status"`
	Profile *model.Profile      `json:"profile,omitempty"`
}

// Check is one filter query compared against local matching.
type Check struct {
	Path     string `json:"path"`
	Query    string `json:"query"`
	Expected int    `json:"expected"`
	Got      int    `json:"got"`
}

// Passed reports whether the service returned the expected count.
func (c Check) Passed() bool { return c.Expected == c.Got }

// Stats holds run statistics.
type Stats struct {
	ProfilesGenerated int
	Submitted         int
	Created           int
	Rejected          int
	Failed            int
	Patched           int
	PatchFailed       int
	ChecksRun         int
	ChecksFailed      int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
