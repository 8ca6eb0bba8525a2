package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"mdceval/internal/model"
)

// WriteResults stores the result bundle as a JSON document. An existing
// file is only replaced when force is set.
func WriteResults(path string, res *model.Results, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, pass force to overwrite", path)
		}
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
