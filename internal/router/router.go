// File: internal/router/router.go

// Package router classifies OpenAI-shaped calls by URL path and
// dispatches them to registered handlers. It serves two surfaces with
// the same table: an http.Handler for a real server, and an
// http.RoundTripper that serves tracked routes in-process and forwards
// everything else to the previous transport.
package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"llmgate/internal/engine"
	"llmgate/internal/logging"
)

// HandlerFunc handles one classified request. Params carries the
// dynamic path segments (the conversation id).
type HandlerFunc func(w http.ResponseWriter, r *http.Request, p Params)

type routeKey struct {
	kind   RouteKind
	method string
}

// Router dispatches classified requests. The engine handle is held here
// so that a repeat install can refresh the active engine without
// replacing the wrapper itself.
type Router struct {
	handlers map[routeKey]HandlerFunc
	methods  map[RouteKind][]string
	handle   *engine.Handle
	fallback http.RoundTripper
	logger   logging.Logger
}

func New(handle *engine.Handle, logger logging.Logger) *Router {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &Router{
		handlers: make(map[routeKey]HandlerFunc),
		methods:  make(map[RouteKind][]string),
		handle:   handle,
		logger:   logger,
	}
}

// Handle registers a handler for a route kind and HTTP method.
func (rt *Router) Handle(kind RouteKind, method string, h HandlerFunc) {
	rt.handlers[routeKey{kind, method}] = h
	rt.methods[kind] = append(rt.methods[kind], method)
}

// EngineHandle returns the engine handle shared with the handlers.
func (rt *Router) EngineHandle() *engine.Handle { return rt.handle }

// ServeHTTP is the server surface: unmatched paths get a 404 envelope
// rather than passthrough, since there is no "real network" behind a
// listening socket.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind, params := ClassifyPath(r.URL.Path)
	if kind == RouteNone {
		writeRouterError(w, http.StatusNotFound, "invalid_request_error", fmt.Sprintf("unknown route %s", r.URL.Path))
		return
	}
	rt.dispatch(w, r, kind, params)
}

func (rt *Router) dispatch(w http.ResponseWriter, r *http.Request, kind RouteKind, params Params) {
	h, ok := rt.handlers[routeKey{kind, r.Method}]
	if !ok {
		writeRouterError(w, http.StatusMethodNotAllowed, "invalid_request_error",
			fmt.Sprintf("method %s not allowed for %s", r.Method, kind))
		return
	}
	h(w, r, params)
}

// RoundTrip is the interception surface. Tracked routes are served
// in-process; everything else is forwarded to the fallback transport
// exactly once, untouched. Classification never fails a request: what
// cannot be classified is forwarded.
func (rt *Router) RoundTrip(req *http.Request) (*http.Response, error) {
	kind, params := classifyRequest(req)
	if kind == RouteNone {
		return rt.transport().RoundTrip(req)
	}

	rt.logger.Debug("intercepted request", "route", kind.String(), "method", req.Method)
	return serveInProcess(req, func(w http.ResponseWriter, r *http.Request) {
		rt.dispatch(w, r, kind, params)
	})
}

func classifyRequest(req *http.Request) (RouteKind, Params) {
	if req == nil || req.URL == nil {
		return RouteNone, nil
	}
	return ClassifyPath(req.URL.Path)
}

func (rt *Router) transport() http.RoundTripper {
	if rt.fallback != nil {
		return rt.fallback
	}
	return http.DefaultTransport
}

// SetFallback sets the transport used for passthrough calls.
func (rt *Router) SetFallback(t http.RoundTripper) { rt.fallback = t }

func writeRouterError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"message": message, "type": errType},
	})
}

// --- install/uninstall shim ---
//
// The shim is the outermost compatibility boundary for code that talks
// to http.DefaultTransport and cannot take an injected Router.

var (
	installMu sync.Mutex
	installed *Router
	saved     http.RoundTripper
)

// Install wraps http.DefaultTransport with the router. Installing while
// a router is already installed does not double-wrap: the installed
// wrapper keeps its identity and only its engine reference is updated
// from the new router's handle.
func (rt *Router) Install() {
	installMu.Lock()
	defer installMu.Unlock()

	if installed != nil {
		if rt != installed && rt.handle != nil && installed.handle != nil {
			installed.handle.Swap(rt.handle.Engine(), rt.handle.ModelID())
		}
		return
	}

	saved = http.DefaultTransport
	rt.fallback = saved
	http.DefaultTransport = rt
	installed = rt
}

// Uninstall restores the exact transport that existed before the first
// Install. Uninstalling when not installed is a no-op.
func Uninstall() {
	installMu.Lock()
	defer installMu.Unlock()

	if installed == nil {
		return
	}
	http.DefaultTransport = saved
	installed = nil
	saved = nil
}

// Installed reports whether the shim is currently in place.
func Installed() bool {
	installMu.Lock()
	defer installMu.Unlock()
	return installed != nil
}
