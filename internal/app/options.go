package service

import (
	"github.com/okian/scoutops/internal/adapters/repository"
	"github.com/okian/scoutops/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPersistWorkers sets the number of persist worker goroutines.
func WithPersistWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the persist queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many mutation request ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxMatchCount caps the match count a schedule request may ask for.
func WithMaxMatchCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxMatchCount = n
		}
	}
}

// WithMaxRobotsPerMatch caps the robots tracked per match.
func WithMaxRobotsPerMatch(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRobotsPerMatch = n
		}
	}
}

// WithStore replaces the default in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
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
