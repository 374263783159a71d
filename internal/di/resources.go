package di

import (
	"errors"
	"fmt"
	"sync"
)

// Resources collects what has to be released once a command finishes.
// Only dependencies the container actually built are tracked.
type Resources struct {
	mu      sync.Mutex
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

func newResources() *Resources {
	return &Resources{}
}

func (r *Resources) track(name string, closer func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closers = append(r.closers, namedCloser{name: name, close: closer})
}

// Close releases tracked resources, newest first. Every resource is
// closed even when an earlier one fails.
func (r *Resources) Close() error {
	r.mu.Lock()
	closers := r.closers
	r.closers = nil
	r.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", closers[i].name, err))
		}
	}
	return errors.Join(errs...)
}
