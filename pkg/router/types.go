package router

import "net/url"

// Names and paths of the routes every router registers.
const (
	HomeName     = "home"
	WebviewName  = "webview"
	NotFoundName = "NotFound"

	HomePath     = "/"
	WebviewPath  = "/webview"
	NotFoundPath = "/*pathMatch"

	// WebviewSourceParam is the query parameter holding the embedded URL.
	WebviewSourceParam = "src"
)

// Component is the page rendered for a route.
type Component interface {
	// ComponentName identifies the component, usually its package name.
	ComponentName() string
}

// Controller is implemented by components backed by a server controller.
type Controller interface {
	Controller() string
}

// PageFile is the component loaded from a page file.
type PageFile struct {
	// File is the page file key (e.g., "./user/index.go").
	File string

	// Package is the Go package name declared by the file, if parsed.
	Package string

	// ControllerName is the value of the file's Controller constant.
	ControllerName string
}

// ComponentName implements Component.
func (p *PageFile) ComponentName() string {
	if p.Package != "" {
		return p.Package
	}
	return p.File
}

// Controller implements Controller.
func (p *PageFile) Controller() string {
	return p.ControllerName
}

// NamedComponent is a Component identified only by name.
type NamedComponent string

// ComponentName implements Component.
func (c NamedComponent) ComponentName() string { return string(c) }

// RouteRecord describes one route of the table.
type RouteRecord struct {
	// Name is the route name (e.g., "user-detail").
	Name string `json:"name" yaml:"name"`

	// Path is the URL pattern (e.g., "/user", "/*pathMatch").
	Path string `json:"path" yaml:"path"`

	// File is the page file key the route was derived from.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Component is rendered when the route matches.
	Component Component `json:"-" yaml:"-"`

	// Controller is the component's controller, if it declares one.
	Controller string `json:"controller,omitempty" yaml:"controller,omitempty"`

	// Children are the nested pages found under the page's children directory.
	Children []RouteRecord `json:"children,omitempty" yaml:"children,omitempty"`

	// Exact requests exact path matching.
	Exact bool `json:"exact,omitempty" yaml:"exact,omitempty"`
}

// Location is a resolved navigation target.
type Location struct {
	// PageKey is the visited-page cache key of this location.
	PageKey string `json:"pageKey" yaml:"pageKey"`

	// Name is the matched route name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Path is the URL path, without query or hash.
	Path string `json:"path" yaml:"path"`

	// FullPath is the path with encoded query and hash.
	FullPath string `json:"fullPath" yaml:"fullPath"`

	// Query holds the query parameters.
	Query url.Values `json:"query,omitempty" yaml:"query,omitempty"`

	// Params holds the route parameters extracted by the matcher.
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`

	// Hash is the fragment, including the leading '#'.
	Hash string `json:"hash,omitempty" yaml:"hash,omitempty"`

	// Matched is the route the location resolved to.
	Matched *RouteRecord `json:"-" yaml:"-"`
}

// StartLocation is the "from" location of the first navigation.
var StartLocation = Location{Path: "/", FullPath: "/"}

// Clone returns a deep copy of l. Matched is shared.
func (l Location) Clone() Location {
	c := l
	if l.Query != nil {
		c.Query = make(url.Values, len(l.Query))
		for k, v := range l.Query {
			c.Query[k] = append([]string(nil), v...)
		}
	}
	if l.Params != nil {
		c.Params = make(map[string]string, len(l.Params))
		for k, v := range l.Params {
			c.Params[k] = v
		}
	}
	return c
}
