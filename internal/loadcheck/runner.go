package loadcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// ErrChecksFailed reports that at least one verification did not hold.
var ErrChecksFailed = errors.New("load check verification failed")

// Report is the outcome of a run.
type Report struct {
	Tag    string  `json:"tag"`
	Checks []Check `json:"checks"`
	Stats  Stats   `json:"-"`
}

// Run executes the complete load check.
func Run(ctx context.Context, config *Config) (*Report, error) {
	stats := &Stats{StartTime: time.Now()}
	tag := newRunTag()

	logger.Get().Info(ctx, "starting launchcircle load check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("profiles", config.NumProfiles),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("tag", tag),
		logger.Bool("verbose", config.Verbose))

	if config.Workers < 1 {
		config.Workers = 1
	}

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate profiles
	payloads, err := generateProfiles(ctx, config, tag, stats)
	if err != nil {
		return nil, fmt.Errorf("profile generation failed: %w", err)
	}

	// Step 3: Submit concurrently
	if err := submitProfiles(ctx, config, payloads, stats); err != nil {
		return nil, fmt.Errorf("profile submission failed: %w", err)
	}

	// Step 4: Sparse updates with If-Match
	patchProfiles(ctx, config, payloads, stats)

	// Step 5: Verify filter and search counts
	checks, err := verifyResults(ctx, config, tag, payloads, stats)
	if err != nil {
		return nil, fmt.Errorf("result verification failed: %w", err)
	}

	// Step 6: Save payloads to file
	if config.OutputFile != "" {
		if err := savePayloadsToFile(ctx, config.OutputFile, payloads); err != nil {
			logger.Get().Warn(ctx, "failed to save payloads to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	report := &Report{Tag: tag, Checks: checks, Stats: *stats}
	if stats.Failed > 0 || stats.PatchFailed > 0 || stats.ChecksFailed > 0 {
		return report, ErrChecksFailed
	}
	logger.Get().Info(ctx, "load check completed successfully")
	return report, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	var health struct {
		Status string `json:"status"`
	}
	status, err := newHTTPClient(config.Timeout).Get(ctx, config.BaseURL+"/api/health", &health)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK || health.Status != "ok" {
		return fmt.Errorf("service health check failed with status: %d", status)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// savePayloadsToFile writes the generated payloads and their outcomes as JSON.
func savePayloadsToFile(ctx context.Context, filename string, payloads []*Payload) error {
	if len(payloads) == 0 {
		return fmt.Errorf("no payloads to save")
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal payloads: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "payloads saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, profilesPerSecond float64

	if stats.Submitted > 0 {
		successRate = float64(stats.Created+stats.Rejected) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		profilesPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("profilesGenerated", stats.ProfilesGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("created", stats.Created),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("patched", stats.Patched),
		logger.Int("checksRun", stats.ChecksRun),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("profilesPerSecond", profilesPerSecond))
}
