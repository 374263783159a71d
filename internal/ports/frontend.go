package ports

import (
	"context"
)

// Frontend defines the interface for an interactive user front-end
type Frontend interface {
	// Run drives the front-end until the user quits or ctx is cancelled
	Run(ctx context.Context) error
}
