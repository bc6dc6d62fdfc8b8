package service

import (
	"time"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/adapters/mq/worker"
	"github.com/IbrahimAli333/LaunchCircle-New/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of event publishing goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many event ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithUpdateRetries sets how often a conflicting update is retried.
func WithUpdateRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.updateRetries = n
		}
	}
}

// WithStoreTimeout bounds every store call. Zero disables the bound.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.storeTimeout = d
		}
	}
}

// WithPublisher sets where queued events are delivered.
func WithPublisher(p worker.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
