package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"

	"github.com/vango-dev/pageroute/pkg/i18n"
	"github.com/vango-dev/pageroute/pkg/middleware"
	"github.com/vango-dev/pageroute/pkg/router"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T) *router.Router {
	t.Helper()
	registry := router.Registry{
		"./user/index.go": &router.PageFile{File: "./user/index.go", Package: "user", ControllerName: "UserController"},
		"./role/index.go": &router.PageFile{File: "./role/index.go", Package: "role"},
	}
	routes, err := router.BuildTable(context.Background(), []string{
		"./user/index.go",
		"./role/index.go",
	}, router.DefaultConvention(), registry)
	if err != nil {
		t.Fatalf("BuildTable() error: %v", err)
	}
	return router.NewRouter(routes, router.WithLogger(testLogger()))
}

func do(t *testing.T, h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleRoutes(t *testing.T) {
	srv := New(newTestRouter(t), WithLogger(testLogger()))

	rec := do(t, srv, http.MethodGet, "/routes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var routes []router.RouteRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &routes); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var names []string
	for _, r := range routes {
		names = append(names, r.Name)
	}
	if strings.Join(names, ",") != "home,webview,user,role,NotFound" {
		t.Errorf("route names = %v", names)
	}
}

func TestHandleNavigate(t *testing.T) {
	r := newTestRouter(t)
	srv := New(r, WithLogger(testLogger()))

	rec := do(t, srv, http.MethodPost, "/navigate?to=/user", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var loc router.Location
	if err := json.Unmarshal(rec.Body.Bytes(), &loc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loc.Name != "user" || loc.PageKey != "/user" {
		t.Errorf("location = %+v", loc)
	}

	rec = do(t, srv, http.MethodPost, "/navigate?to=/webview&src=https://a.example", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	keys := r.Cache().Keys()
	if strings.Join(keys, ",") != "/,/user,/webview_https://a.example" {
		t.Errorf("cache keys = %v", keys)
	}
}

func TestHandleNavigateErrors(t *testing.T) {
	r := newTestRouter(t)
	r.BeforeEach(func(ctx context.Context, to, from *router.Location) error {
		if to.Name == "role" {
			return errors.New("role pages are locked")
		}
		return nil
	})
	srv := New(r, WithLogger(testLogger()))

	tests := []struct {
		target string
		status int
		code   string
	}{
		{"/navigate", http.StatusBadRequest, ""},
		{"/navigate?to=/role", http.StatusConflict, "E210"},
		{"/navigate?to=%25zz", http.StatusBadRequest, "E211"},
	}

	for _, tt := range tests {
		rec := do(t, srv, http.MethodPost, tt.target, nil)
		if rec.Code != tt.status {
			t.Errorf("%s: status = %d, want %d (body %s)", tt.target, rec.Code, tt.status, rec.Body.String())
			continue
		}
		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: decode: %v", tt.target, err)
			continue
		}
		if body.Code != tt.code {
			t.Errorf("%s: code = %q, want %q", tt.target, body.Code, tt.code)
		}
	}

	rec := do(t, srv, http.MethodPost, "/navigate?to=/role", nil)
	if !strings.Contains(rec.Body.String(), "role pages are locked") {
		t.Errorf("body should carry the guard error: %s", rec.Body.String())
	}
}

func TestHandlePages(t *testing.T) {
	r := newTestRouter(t)
	srv := New(r, WithLogger(testLogger()))
	r.Navigate(context.Background(), "/role")

	rec := do(t, srv, http.MethodGet, "/pages", nil)
	var pages []router.Location
	if err := json.Unmarshal(rec.Body.Bytes(), &pages); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pages) != 2 || pages[0].PageKey != "/" || pages[1].PageKey != "/role" {
		t.Errorf("pages = %+v", pages)
	}
}

func TestHandleControllers(t *testing.T) {
	bundle, err := i18n.NewBundle(i18n.DefaultLanguage)
	if err != nil {
		t.Fatal(err)
	}
	if err := bundle.Add("en", []byte("PageName:\n  user: Users\n")); err != nil {
		t.Fatal(err)
	}
	if err := bundle.Add("zh-CN", []byte("PageName:\n  user: 用户\n")); err != nil {
		t.Fatal(err)
	}
	srv := New(newTestRouter(t), WithLogger(testLogger()), WithBundle(bundle))

	tests := []struct {
		target string
		header http.Header
		label  string
	}{
		{"/controllers", nil, "Users"},
		{"/controllers?lang=zh-CN", nil, "用户"},
		{"/controllers", http.Header{"Accept-Language": {"zh-CN,zh;q=0.9"}}, "用户"},
	}

	for _, tt := range tests {
		rec := do(t, srv, http.MethodGet, tt.target, tt.header)
		var pages []router.ControllerPage
		if err := json.Unmarshal(rec.Body.Bytes(), &pages); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(pages) != 1 {
			t.Fatalf("pages = %+v, want 1", pages)
		}
		if pages[0].Label != tt.label || pages[0].Value != "UserController" {
			t.Errorf("%s: page = %+v, want label %q", tt.target, pages[0], tt.label)
		}
	}

	if bundle.Match("zh-CN") != language.MustParse("zh-CN") {
		t.Error("bundle should match zh-CN")
	}
}

func TestHandleControllersWithoutBundle(t *testing.T) {
	srv := New(newTestRouter(t), WithLogger(testLogger()))

	rec := do(t, srv, http.MethodGet, "/controllers", nil)
	var pages []router.ControllerPage
	if err := json.Unmarshal(rec.Body.Bytes(), &pages); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pages) != 1 || pages[0].Label != "PageName.user" {
		t.Errorf("pages = %+v", pages)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(middleware.WithRegistry(reg))
	r := newTestRouter(t)
	r.Use(m.Middleware())
	srv := New(r, WithLogger(testLogger()), WithMetrics(m, reg))

	r.Navigate(context.Background(), "/user")

	rec := do(t, srv, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `pageroute_navigations_total{route="user",status="committed"} 1`) {
		t.Errorf("metrics output missing navigation counter:\n%s", rec.Body.String())
	}

	srv = New(newTestRouter(t), WithLogger(testLogger()))
	if rec := do(t, srv, http.MethodGet, "/metrics", nil); rec.Code != http.StatusNotFound {
		t.Errorf("metrics without gatherer: status = %d, want 404", rec.Code)
	}
}

func readSnapshot(t *testing.T, conn *websocket.Conn) []router.Location {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error: %v", err)
	}
	var pages []router.Location
	if err := json.Unmarshal(data, &pages); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return pages
}

func TestPagesStream(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := middleware.NewMetrics(middleware.WithRegistry(reg))
	r := newTestRouter(t)
	srv := New(r, WithLogger(testLogger()), WithMetrics(m, reg))

	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/pages/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()

	if pages := readSnapshot(t, conn); len(pages) != 1 || pages[0].PageKey != "/" {
		t.Fatalf("initial snapshot = %+v", pages)
	}

	if _, err := r.Navigate(context.Background(), "/user"); err != nil {
		t.Fatal(err)
	}
	if pages := readSnapshot(t, conn); len(pages) != 2 || pages[1].PageKey != "/user" {
		t.Fatalf("snapshot after navigation = %+v", pages)
	}

	if srv.Hub().ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", srv.Hub().ClientCount())
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.Hub().ClientCount() != 0 {
		t.Errorf("ClientCount() after close = %d, want 0", srv.Hub().ClientCount())
	}
}

func TestPagesStreamRejectsCrossOrigin(t *testing.T) {
	srv := New(newTestRouter(t), WithLogger(testLogger()))
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/pages/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	if err == nil {
		t.Fatal("expected cross-origin dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %+v, want 403", resp)
	}
}

func TestServeAndShutdown(t *testing.T) {
	srv := New(newTestRouter(t), WithLogger(testLogger()), WithConfig(&Config{ShutdownTimeout: time.Second}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/routes")
	if err != nil {
		t.Fatalf("GET /routes: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		origin string
		host   string
		want   bool
	}{
		{"", "example.com", true},
		{"http://example.com", "example.com", true},
		{"http://evil.com", "example.com", false},
		{"http://example.com:8080", "example.com", false},
		{"://bad", "example.com", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = tt.host
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := SameOriginCheck(req); got != tt.want {
			t.Errorf("SameOriginCheck(origin=%q, host=%q) = %v, want %v", tt.origin, tt.host, got, tt.want)
		}
	}
}
