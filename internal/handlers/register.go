// File: internal/handlers/register.go
package handlers

import (
	"net/http"

	"llmgate/internal/router"
)

// Register wires the full route table onto a router. Both surfaces
// (in-process interception and the HTTP server) share this table.
func Register(rt *router.Router, completion *CompletionHandler, conv *ConversationHandler, models *ModelHandler) {
	rt.Handle(router.RouteChatCompletions, http.MethodPost, completion.ChatCompletions)
	rt.Handle(router.RouteModels, http.MethodGet, models.List)
	rt.Handle(router.RouteConversations, http.MethodGet, conv.List)
	rt.Handle(router.RouteConversations, http.MethodPost, conv.Create)
	rt.Handle(router.RouteConversationDetail, http.MethodGet, conv.Get)
	rt.Handle(router.RouteConversationDetail, http.MethodPatch, conv.Update)
	rt.Handle(router.RouteConversationDetail, http.MethodDelete, conv.Delete)
	rt.Handle(router.RouteConversationMessages, http.MethodGet, conv.Messages)
}
