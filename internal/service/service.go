// Package service provides business logic for the CRM platform.
package service

import (
	"time"
)

// Option configures a service.
type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock sets the time source used for event timestamps. Tests
// inject a fixed clock for deterministic audit entries.
func WithClock(fn func() time.Time) Option {
	return func(o *options) { o.clock = fn }
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
