// Package search defines the external image search collaborator and its
// Google Custom Search implementation.
package search

import (
	"context"
	"errors"
)

// ErrNoResult is returned when the provider completed the search but found
// no image for the query. It is distinct from transport or provider errors.
var ErrNoResult = errors.New("no image found")

// Provider maps an opaque text query to at most one image URL. A provider
// returns ErrNoResult when the search succeeds but yields nothing.
type Provider interface {
	Search(ctx context.Context, query string) (string, error)
}
