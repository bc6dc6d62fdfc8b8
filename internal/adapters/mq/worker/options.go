package worker

import (
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithLogger sets a custom logger for the pool and its workers.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRateInterval sets how often the messages-per-second gauge is refreshed.
func WithRateInterval(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.rateInterval = d
		}
	}
}
