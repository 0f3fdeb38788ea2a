// File: internal/router/routes.go
package router

import (
	"net/url"
	"strings"
)

// RouteKind identifies one logical route in the intercepted API surface.
type RouteKind int

const (
	RouteNone RouteKind = iota
	RouteChatCompletions
	RouteModels
	RouteConversations
	RouteConversationDetail
	RouteConversationMessages
)

func (k RouteKind) String() string {
	switch k {
	case RouteChatCompletions:
		return "chat-completions"
	case RouteModels:
		return "models"
	case RouteConversations:
		return "conversations"
	case RouteConversationDetail:
		return "conversation-detail"
	case RouteConversationMessages:
		return "conversation-messages"
	default:
		return "passthrough"
	}
}

// Params carries the dynamic path segments extracted during matching.
type Params map[string]string

// pattern is a structured path matcher: a sequence of literal segments
// and {name} captures, matched against the trailing segments of a URL
// path. Matching only the tail makes a same-origin relative path and an
// absolute vendor URL with the same suffix classify identically.
type pattern struct {
	kind     RouteKind
	segments []string
}

// routeTable is ordered: more specific patterns first so that
// /v1/conversations/{id}/messages wins over /v1/conversations/{id}.
var routeTable = []pattern{
	{RouteChatCompletions, []string{"v1", "chat", "completions"}},
	{RouteModels, []string{"v1", "models"}},
	{RouteConversationMessages, []string{"v1", "conversations", "{id}", "messages"}},
	{RouteConversationDetail, []string{"v1", "conversations", "{id}"}},
	{RouteConversations, []string{"v1", "conversations"}},
}

// ClassifyPath matches a URL path component against the route table.
// Unmatched paths classify as RouteNone with nil params.
func ClassifyPath(path string) (RouteKind, Params) {
	segs := splitPath(path)
	for _, p := range routeTable {
		if params, ok := p.match(segs); ok {
			return p.kind, params
		}
	}
	return RouteNone, nil
}

// ClassifyURL parses a raw URL and classifies its path. A URL that
// fails to parse is treated as non-matching, never as an error: the
// router forwards what it cannot classify.
func ClassifyURL(rawURL string) (RouteKind, Params) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return RouteNone, nil
	}
	return ClassifyPath(u.Path)
}

func (p pattern) match(segs []string) (Params, bool) {
	if len(segs) < len(p.segments) {
		return nil, false
	}
	tail := segs[len(segs)-len(p.segments):]

	var params Params
	for i, want := range p.segments {
		if strings.HasPrefix(want, "{") && strings.HasSuffix(want, "}") {
			if params == nil {
				params = make(Params, 1)
			}
			params[want[1:len(want)-1]] = tail[i]
			continue
		}
		if tail[i] != want {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	segs := raw[:0]
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
