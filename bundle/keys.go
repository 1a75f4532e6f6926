package bundle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidResourceKey indicates a resource key string could not be parsed.
	ErrInvalidResourceKey = errors.New("bundle: invalid resource key")
	// ErrInvalidKey indicates a bundle key string could not be parsed.
	ErrInvalidKey = errors.New("bundle: invalid bundle key")
)

// ResourceKey identifies one translatable unit of content within a document
// collection, independent of locale. The canonical string form is "type:key".
type ResourceKey struct {
	Type string
	Key  string
}

// NewResourceKey constructs a resource key from its components.
func NewResourceKey(typ, key string) ResourceKey {
	return ResourceKey{Type: typ, Key: key}
}

// ParseResourceKey parses the canonical "type:key" form. The key portion may
// itself contain ':' characters; only the first separator is significant.
func ParseResourceKey(s string) (ResourceKey, error) {
	typ, key, ok := strings.Cut(s, ":")
	if !ok || typ == "" {
		return ResourceKey{}, fmt.Errorf("%w: %q", ErrInvalidResourceKey, s)
	}
	return ResourceKey{Type: typ, Key: key}, nil
}

// String returns the canonical "type:key" form used as a map key.
func (k ResourceKey) String() string {
	return k.Type + ":" + k.Key
}

// IsZero reports whether the key has no components set.
func (k ResourceKey) IsZero() bool {
	return k.Type == "" && k.Key == ""
}

// Key identifies one resource's translation state for one target locale. The
// canonical string form is "type:key:locale". Two keys are equal iff their
// canonical strings are equal.
type Key struct {
	Resource ResourceKey
	Locale   string
}

// NewKey constructs a bundle key from a resource key and target locale.
func NewKey(resource ResourceKey, locale string) Key {
	return Key{Resource: resource, Locale: locale}
}

// ParseKey parses the canonical "type:key:locale" form. The type is the text
// before the first ':' and the locale the text after the last ':', so the key
// portion may itself contain ':' characters.
func ParseKey(s string) (Key, error) {
	typ, rest, ok := strings.Cut(s, ":")
	if !ok || typ == "" {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	idx := strings.LastIndex(rest, ":")
	if idx < 0 {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	key, locale := rest[:idx], rest[idx+1:]
	if locale == "" {
		return Key{}, fmt.Errorf("%w: missing locale in %q", ErrInvalidKey, s)
	}
	return Key{Resource: ResourceKey{Type: typ, Key: key}, Locale: locale}, nil
}

// String returns the canonical "type:key:locale" form.
func (k Key) String() string {
	return k.Resource.String() + ":" + k.Locale
}
