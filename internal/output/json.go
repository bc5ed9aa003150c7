package output

import (
	"encoding/json"

	"reposcope/internal/core/model"
)

// MarshalModel serializes the model for machine consumers. The model's
// containers are sorted at assembly time, so the bytes are reproducible.
func MarshalModel(m *model.StructuralModel) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
