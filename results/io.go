package results

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON persists a run document to disk as indented JSON, so the output
// stays readable and diffable without tooling
func WriteJSON(r *Results, filename string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run document: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write run document: %w", err)
	}
	return nil
}

// ReadJSON loads a previously written run document
func ReadJSON(filename string) (*Results, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read run document: %w", err)
	}
	var r Results
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode run document: %w", err)
	}
	return &r, nil
}
