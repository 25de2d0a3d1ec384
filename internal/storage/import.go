// ABOUTME: Parsing of JSON exports for restoring readings.
// ABOUTME: Accepts the document produced by ExportJSON.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/harperreed/bp/internal/models"
)

// ParseJSONExport decodes an ExportJSON document. IDs in the document are
// kept on the returned readings but Create assigns fresh ones.
func ParseJSONExport(data []byte) ([]*models.Reading, error) {
	var doc ExportData
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	if doc.Tool != "" && doc.Tool != "bp" {
		return nil, fmt.Errorf("parse export: unsupported tool %q", doc.Tool)
	}
	readings := make([]*models.Reading, 0, len(doc.Readings))
	for i, r := range doc.Readings {
		if r == nil {
			return nil, fmt.Errorf("parse export: reading %d is null", i)
		}
		readings = append(readings, r)
	}
	return readings, nil
}
