package bundle

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrBundleNotFound indicates no bundle is stored under the requested key.
	ErrBundleNotFound = errors.New("bundle: not found")
	// ErrProgressNotFound indicates no progress record is stored for the resource.
	ErrProgressNotFound = errors.New("bundle: progress not found")
)

// NotFoundError describes a missing record and unwraps to the matching
// sentinel so callers can branch with errors.Is.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bundle: %s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	if e.Kind == "progress" {
		return ErrProgressNotFound
	}
	return ErrBundleNotFound
}

// Repository persists translation bundles keyed by the bundle key string.
//
// Absent records are reported with ErrBundleNotFound and are functionally
// equivalent to blank bundles; callers that need create-on-miss semantics
// use LoadOrCreate.
type Repository interface {
	Load(ctx context.Context, key Key) (*Bundle, error)
	LoadAll(ctx context.Context) ([]*Bundle, error)
	LoadAllForLocale(ctx context.Context, locale string) ([]*Bundle, error)
	Save(ctx context.Context, b *Bundle) error
	SaveAll(ctx context.Context, bundles []*Bundle) error
	DeleteAllForLocale(ctx context.Context, locale string) (int, error)
}

// ProgressRepository persists progress records keyed by the resource key
// string. Progress records are locale-independent.
type ProgressRepository interface {
	Load(ctx context.Context, key ResourceKey) (*ProgressRecord, error)
	LoadAll(ctx context.Context) ([]*ProgressRecord, error)
	Save(ctx context.Context, record *ProgressRecord) error
	SaveAll(ctx context.Context, records []*ProgressRecord) error
}

// LoadOrCreate returns the stored bundle or a blank one when absent. Any
// error other than not-found is returned as-is.
func LoadOrCreate(ctx context.Context, repo Repository, key Key) (*Bundle, error) {
	b, err := repo.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrBundleNotFound) {
			return New(key), nil
		}
		return nil, err
	}
	return b, nil
}

// LoadOrCreateProgress returns the stored progress record or a blank one
// when absent.
func LoadOrCreateProgress(ctx context.Context, repo ProgressRepository, key ResourceKey) (*ProgressRecord, error) {
	record, err := repo.Load(ctx, key)
	if err != nil {
		if errors.Is(err, ErrProgressNotFound) {
			return NewProgressRecord(key), nil
		}
		return nil, err
	}
	return record, nil
}
