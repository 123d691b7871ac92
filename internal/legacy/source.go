package legacy

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadExport reads a legacy dump from disk. The file is the JSON export of
// the old per-user collections: {"transactions": [...], "cards": [...]}.
// The source is read-only; the importer never writes back to it.
func LoadExport(path string) (Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Export{}, fmt.Errorf("read legacy export: %w", err)
	}
	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return Export{}, fmt.Errorf("decode legacy export: %w", err)
	}
	return export, nil
}
