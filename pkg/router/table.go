package router

import (
	"context"
	"strings"

	"github.com/vango-dev/pageroute/internal/errors"
)

// BuildTable turns page file keys into route records.
//
// Files are grouped by their first directory, in order of first appearance.
// Within a group only index files are routes: those outside a children
// directory become top-level records, the others are attached as Children
// of the root page whose directory holds their children directory. Records
// with the same name or path are not deduplicated.
//
// loader may be nil, in which case components are bare PageFiles.
func BuildTable(ctx context.Context, files []string, conv Convention, loader ComponentLoader) ([]RouteRecord, error) {
	var order []string
	groups := make(map[string][]string)
	for _, file := range files {
		key, err := conv.group(file)
		if err != nil {
			return nil, err
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], file)
	}

	var routes []RouteRecord
	for _, key := range order {
		var pages, children []string
		for _, file := range groups[key] {
			if !conv.IsIndexFile(file) {
				continue
			}
			if conv.IsChildFile(file) {
				children = append(children, file)
			} else {
				pages = append(pages, file)
			}
		}

		for _, page := range pages {
			route, err := buildRoute(ctx, page, conv, loader)
			if err != nil {
				return nil, err
			}
			dir := strings.TrimSuffix(page, "/"+conv.Index+conv.Extension)
			for _, child := range children {
				if !strings.HasPrefix(child, dir+"/"+conv.Children+"/") {
					continue
				}
				childRoute, err := buildRoute(ctx, child, conv, loader)
				if err != nil {
					return nil, err
				}
				route.Children = append(route.Children, childRoute)
			}
			routes = append(routes, route)
		}
	}

	return routes, nil
}

func buildRoute(ctx context.Context, file string, conv Convention, loader ComponentLoader) (RouteRecord, error) {
	name, err := conv.RouteName(file)
	if err != nil {
		return RouteRecord{}, err
	}

	route := RouteRecord{
		Name:  name,
		Path:  conv.RoutePath(file),
		File:  file,
		Exact: true,
	}

	if loader == nil {
		route.Component = &PageFile{File: file}
	} else {
		component, err := loader.Load(ctx, file)
		if err != nil {
			return RouteRecord{}, errors.FromError(err, "E203").WithFile(file)
		}
		route.Component = component
	}

	if c, ok := route.Component.(Controller); ok {
		route.Controller = c.Controller()
	}
	return route, nil
}
