// File: internal/handlers/models.go
package handlers

import (
	"net/http"
	"time"

	"llmgate/internal/engine"
	"llmgate/internal/router"
)

// ModelHandler re-exposes the engine registry through the models route.
type ModelHandler struct {
	registry *engine.Registry
	created  int64
}

func NewModelHandler(registry *engine.Registry) *ModelHandler {
	return &ModelHandler{registry: registry, created: time.Now().Unix()}
}

// List handles GET /v1/models.
func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request, _ router.Params) {
	records := h.registry.List()
	data := make([]ModelObject, 0, len(records))
	for _, rec := range records {
		data = append(data, ModelObject{
			ID:                  rec.ModelID,
			Object:              "model",
			Created:             h.created,
			OwnedBy:             "local",
			Root:                rec.ModelID,
			Parent:              nil,
			VRAMRequiredMB:      rec.VRAMRequiredMB,
			LowResourceRequired: rec.LowResourceRequired,
		})
	}
	writeJSON(w, http.StatusOK, ListEnvelope{Object: "list", Data: data})
}
