// Package router maps navigation paths onto the three marking views.
package router

import (
	"net/url"
	"strings"
)

type Kind int

const (
	KindNotFound Kind = iota
	KindHome
	KindEssayList
	KindMarkingTool
)

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindEssayList:
		return "essay_list"
	case KindMarkingTool:
		return "marking_tool"
	default:
		return "not_found"
	}
}

// Route is a resolved navigation target. ID is set for the essay list
// (subject id) and the marking tool (essay id).
type Route struct {
	Kind Kind
	ID   string
}

func (r Route) String() string {
	if r.ID == "" {
		return r.Kind.String()
	}
	return r.Kind.String() + ":" + r.ID
}

// ParseHash turns a location fragment like "#/essays/3" into a path.
func ParseHash(fragment string) string {
	path := strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if path == "" {
		return "/"
	}
	return path
}

// Resolve dispatches a path. Only "/", "/subjects/{id}" and "/essays/{id}"
// are recognised; anything else is KindNotFound.
func Resolve(path string) Route {
	if path == "/" {
		return Route{Kind: KindHome}
	}
	parts := strings.Split(path, "/")
	if len(parts) != 3 || parts[0] != "" || parts[2] == "" {
		return Route{Kind: KindNotFound}
	}
	id, err := url.PathUnescape(parts[2])
	if err != nil {
		return Route{Kind: KindNotFound}
	}
	switch parts[1] {
	case "subjects":
		return Route{Kind: KindEssayList, ID: id}
	case "essays":
		return Route{Kind: KindMarkingTool, ID: id}
	default:
		return Route{Kind: KindNotFound}
	}
}

// Href builds the navigation path for a view.
func Href(kind Kind, id string) string {
	switch kind {
	case KindEssayList:
		return "/subjects/" + url.PathEscape(id)
	case KindMarkingTool:
		return "/essays/" + url.PathEscape(id)
	default:
		return "/"
	}
}
