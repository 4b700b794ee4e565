package experiment

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// WriteJSON saves a sweep next to the plots rendered from it.
func WriteJSON(res *Results, path string) error {
	data, err := jsoniter.ConfigFastest.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
