package router

import "testing"

func TestTreeMatch(t *testing.T) {
	root := newRouteNode("")
	home := &RouteRecord{Name: "home", Path: "/"}
	user := &RouteRecord{Name: "user", Path: "/user"}
	show := &RouteRecord{Name: "user-show", Path: "/user/:id"}
	edit := &RouteRecord{Name: "user-edit", Path: "/user/:id/edit"}
	notFound := &RouteRecord{Name: "NotFound", Path: "/*pathMatch"}

	for _, r := range []*RouteRecord{home, user, show, edit, notFound} {
		root.insert(r.Path, r)
	}

	tests := []struct {
		path   string
		want   string
		params map[string]string
	}{
		{"/", "home", nil},
		{"/user", "user", nil},
		{"/user/", "user", nil},
		{"/user/42", "user-show", map[string]string{"id": "42"}},
		{"/user/42/edit", "user-edit", map[string]string{"id": "42"}},
		{"/user/42/delete", "NotFound", map[string]string{"pathMatch": "user/42/delete"}},
		{"/missing/page", "NotFound", map[string]string{"pathMatch": "missing/page"}},
	}

	for _, tt := range tests {
		params := make(map[string]string)
		got, ok := root.match(splitPath(tt.path), params)
		if !ok {
			t.Errorf("match(%q) failed", tt.path)
			continue
		}
		if got.Name != tt.want {
			t.Errorf("match(%q) = %q, want %q", tt.path, got.Name, tt.want)
		}
		if len(params) != len(tt.params) {
			t.Errorf("match(%q) params = %v, want %v", tt.path, params, tt.params)
			continue
		}
		for k, v := range tt.params {
			if params[k] != v {
				t.Errorf("match(%q) params[%q] = %q, want %q", tt.path, k, params[k], v)
			}
		}
	}
}

func TestTreeInsertReplaces(t *testing.T) {
	root := newRouteNode("")
	root.insert("/", &RouteRecord{Name: "home"})
	root.insert("/", &RouteRecord{Name: "index"})

	got, ok := root.match(nil, map[string]string{})
	if !ok || got.Name != "index" {
		t.Errorf("match(/) = %v, want the later registration", got)
	}
}

func TestTreeNoMatch(t *testing.T) {
	root := newRouteNode("")
	root.insert("/user", &RouteRecord{Name: "user"})

	if _, ok := root.match(splitPath("/role"), map[string]string{}); ok {
		t.Error("match(/role) should fail without a catch-all")
	}
	if _, ok := root.match(nil, map[string]string{}); ok {
		t.Error("match(/) should fail without a root route")
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/", 0},
		{"", 0},
		{"/a", 1},
		{"/a/b/", 2},
	}
	for _, tt := range tests {
		if got := len(splitPath(tt.path)); got != tt.want {
			t.Errorf("len(splitPath(%q)) = %d, want %d", tt.path, got, tt.want)
		}
	}
}
