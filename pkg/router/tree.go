package router

import "strings"

// routeNode is a node in the route matching tree.
type routeNode struct {
	// segment is the path segment this node matches.
	segment string

	// paramName is the parameter name (without : or *).
	paramName string

	// route is the record registered at this node, if any.
	route *RouteRecord

	// children are static segment children.
	children []*routeNode

	// paramChild is the dynamic parameter child (:id).
	paramChild *routeNode

	// catchAllChild is the catch-all child (*rest).
	catchAllChild *routeNode
}

func newRouteNode(segment string) *routeNode {
	return &routeNode{segment: segment}
}

// findChild finds a child node with an exact segment match.
func (n *routeNode) findChild(segment string) *routeNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a child node for the given segment.
func (n *routeNode) addChild(segment string) *routeNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := newRouteNode(segment)
	n.children = append(n.children, child)
	return child
}

func (n *routeNode) addParamChild(name string) *routeNode {
	if n.paramChild == nil {
		n.paramChild = &routeNode{paramName: name}
	}
	return n.paramChild
}

func (n *routeNode) addCatchAllChild(name string) *routeNode {
	if n.catchAllChild == nil {
		n.catchAllChild = &routeNode{paramName: name}
	}
	return n.catchAllChild
}

// insert registers route at path. A route already registered at the same
// path is replaced.
func (n *routeNode) insert(path string, route *RouteRecord) {
	current := n
	for _, seg := range splitPath(path) {
		switch {
		case strings.HasPrefix(seg, "*"):
			current = current.addCatchAllChild(seg[1:])
			current.route = route
			return
		case strings.HasPrefix(seg, ":"):
			current = current.addParamChild(seg[1:])
		default:
			current = current.addChild(seg)
		}
	}
	current.route = route
}

// match finds the route for the given path segments, filling params.
// Static segments win over parameters, parameters over catch-alls.
func (n *routeNode) match(segments []string, params map[string]string) (*RouteRecord, bool) {
	if len(segments) == 0 {
		if n.route != nil {
			return n.route, true
		}
		return nil, false
	}

	segment := segments[0]
	remaining := segments[1:]

	if child := n.findChild(segment); child != nil {
		if route, ok := child.match(remaining, params); ok {
			return route, true
		}
	}

	if n.paramChild != nil {
		params[n.paramChild.paramName] = segment
		if route, ok := n.paramChild.match(remaining, params); ok {
			return route, true
		}
		delete(params, n.paramChild.paramName)
	}

	if n.catchAllChild != nil && n.catchAllChild.route != nil {
		params[n.catchAllChild.paramName] = strings.Join(segments, "/")
		return n.catchAllChild.route, true
	}

	return nil, false
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
