package search

import "github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for degraded filters.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}
