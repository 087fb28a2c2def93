package metadata

import (
	"context"
	"encoding/json"
	"fmt"
)

// LoadJSON decodes the value stored under key into v. It reports false,
// leaving v untouched, when the key is absent.
func LoadJSON(ctx context.Context, r Repository, key string, v any) (bool, error) {
	b, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("metadata decode %q: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, r Repository, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("metadata encode %q: %w", key, err)
	}
	return r.Set(ctx, key, b)
}
