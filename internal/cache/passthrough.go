package cache

import (
	"context"
	"errors"

	"github.com/goliatone/go-translations/bundle"
)

// Passthrough adapts a repository to the Getter surface without caching,
// for deployments that disable the shared layer. Missing bundles read as
// nil rather than an error to match BundleCache semantics.
type Passthrough struct {
	repo bundle.Repository
}

// NewPassthrough wraps a repository as a Getter.
func NewPassthrough(repo bundle.Repository) *Passthrough {
	return &Passthrough{repo: repo}
}

// Get loads the bundle directly from persistence.
func (p *Passthrough) Get(ctx context.Context, key bundle.Key) (*bundle.Bundle, error) {
	b, err := p.repo.Load(ctx, key)
	if err != nil {
		if errors.Is(err, bundle.ErrBundleNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}
