package flagx

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadJSON decodes the config file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Overlay copies *v into dst when v is set. Config files decode into
// pointer fields so that a missing key leaves dst alone.
func Overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
