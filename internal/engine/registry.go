// File: internal/engine/registry.go
package engine

// ModelRecord describes one model the engine can load. VRAM and the
// low-resource flag come from the engine's own model list and are
// re-exposed verbatim for client-side filtering.
type ModelRecord struct {
	ModelID             string  `json:"model_id"`
	VRAMRequiredMB      float64 `json:"vram_required_mb"`
	LowResourceRequired bool    `json:"low_resource_required"`
}

// Registry is the engine-adjacent list of available model descriptors.
type Registry struct {
	records []ModelRecord
}

func NewRegistry(records []ModelRecord) *Registry {
	return &Registry{records: records}
}

func (r *Registry) Register(record ModelRecord) {
	r.records = append(r.records, record)
}

// List returns a copy of the registered descriptors.
func (r *Registry) List() []ModelRecord {
	out := make([]ModelRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Registry) Contains(modelID string) bool {
	for _, rec := range r.records {
		if rec.ModelID == modelID {
			return true
		}
	}
	return false
}
