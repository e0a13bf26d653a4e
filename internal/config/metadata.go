package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeMetadata decodes a free-form metadata map from the manifest into a
// typed options struct. The manifest keeps installer options as loose
// key/value pairs so platform-specific knobs do not leak into the core
// schema; the consumer declares the shape it understands.
func DecodeMetadata(meta map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to build metadata decoder: %w", err)
	}
	if err := dec.Decode(meta); err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}
	return nil
}
