package main

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/loadcheck"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumProfiles  = 1000
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultInvalidEvery = 10
	defaultPatchSample  = 25
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	config := &loadcheck.Config{}

	cmd := &cobra.Command{
		Use:   "loadcheck",
		Short: "Drive a LaunchCircle API with generated profiles and verify filters",
		Long: `loadcheck creates profiles concurrently, patches a sample of them with
If-Match and compares /api/users and /api/search counts against local matching.

  loadcheck --url http://localhost:8000 --profiles 5000 --workers 16`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			closer, err := loadcheck.SetupLogging(config.LogFile)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTimeout)
			defer cancel()

			if _, err := loadcheck.Run(ctx, config); err != nil {
				logger.Get().Error(ctx, "load check failed", logger.Error(err))
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&config.BaseURL, "url", "http://localhost:8000", "Base URL of the service")
	f.IntVar(&config.NumProfiles, "profiles", defaultNumProfiles, "Number of profiles to generate and submit")
	f.IntVar(&config.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
	f.IntVar(&config.InvalidEvery, "invalid-every", defaultInvalidEvery, "Make every n-th payload invalid (0 disables)")
	f.IntVar(&config.PatchSample, "patch", defaultPatchSample, "Number of created profiles to patch")
	f.DurationVar(&config.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.StringVar(&config.OutputFile, "output", "", "Write generated payloads to this JSON file")
	f.StringVar(&config.LogFile, "log", "", "Log file for run output (default: loadcheck_TIMESTAMP.log)")
	f.BoolVar(&config.Verbose, "verbose", false, "Enable verbose logging")
	return cmd
}
