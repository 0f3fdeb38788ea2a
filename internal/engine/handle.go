// File: internal/engine/handle.go
package engine

// Handle is the shared reference to "whichever engine is currently
// active" and the model loaded into it. It is passed explicitly to the
// router and handlers at construction time instead of living in module
// globals, so tests can run several instances side by side.
//
// No locking is applied around the fields: the target environment is a
// single user issuing one inference at a time, and swapping the active
// model while a request is in flight is undefined behavior.
type Handle struct {
	engine  Engine
	modelID string
}

func NewHandle(engine Engine, modelID string) *Handle {
	return &Handle{engine: engine, modelID: modelID}
}

// Swap replaces the active engine and model id. Existing holders of the
// Handle see the new engine on their next call.
func (h *Handle) Swap(engine Engine, modelID string) {
	h.engine = engine
	h.modelID = modelID
}

func (h *Handle) Engine() Engine { return h.engine }

func (h *Handle) ModelID() string { return h.modelID }

// Ready reports whether a model is loaded and completions can be served.
func (h *Handle) Ready() bool {
	return h != nil && h.engine != nil && h.modelID != ""
}
