package serve

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/rview/pkg/telemetry"
	"github.com/vango-dev/rview/pkg/view"
	"github.com/vango-dev/rview/pkg/vtest"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, config Config) *httptest.Server {
	t.Helper()
	config.ViewOptions = append(config.ViewOptions, vtest.Quiet)
	config.Logger = quietLogger
	s := New(config)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestPages(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		path   string
		status int
		want   []string
	}{
		{"/", http.StatusOK, []string{
			`<a href="/examples/counter">counter</a>`,
			`<a href="/examples/todo">todo</a>`,
		}},
		{"/examples/counter", http.StatusOK, []string{
			`<div id="counter">`,
			`<script src="/live.js" data-example="counter"></script>`,
		}},
		{"/examples/chart", http.StatusOK, []string{`id="chart"`}},
		{"/examples/nope", http.StatusNotFound, []string{"Unknown example"}},
		{"/live.js", http.StatusOK, []string{"new WebSocket"}},
		{"/healthz", http.StatusNoContent, nil},
		{"/metrics", http.StatusNotFound, nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, ts.URL+tt.path)
			if status != tt.status {
				t.Fatalf("status = %d, want %d", status, tt.status)
			}
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %s:\n%s", want, body)
				}
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
	ts := newTestServer(t, Config{Gatherer: reg, ViewOptions: []view.Option{view.WithMetrics(m)}})

	if status, _ := get(t, ts.URL+"/examples/chart"); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	status, body := get(t, ts.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, `rview_views_built_total{backend="ssr",mode="build"}`) {
		t.Errorf("metrics missing build counter:\n%s", body)
	}
}

func dialLive(t *testing.T, ts *httptest.Server, name string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/examples/" + name + "/live"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn, want string) serverUpdate {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		var up serverUpdate
		if err := conn.ReadJSON(&up); err != nil {
			t.Fatalf("waiting for %q: %v", want, err)
		}
		if strings.Contains(up.HTML, want) {
			return up
		}
	}
}

func TestLiveCounter(t *testing.T) {
	ts := newTestServer(t, Config{SyncInterval: 5 * time.Millisecond})
	conn := dialLive(t, ts, "counter")

	if err := conn.WriteJSON(clientEvent{Type: "click", Target: "inc"}); err != nil {
		t.Fatal(err)
	}
	up := readUpdate(t, conn, `<p id="count" class="odd">1</p>`)
	if up.ID != "counter" {
		t.Errorf("update id = %q, want counter", up.ID)
	}

	// Events for unknown ids are ignored.
	if err := conn.WriteJSON(clientEvent{Type: "click", Target: "missing"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(clientEvent{Type: "click", Target: "inc"}); err != nil {
		t.Fatal(err)
	}
	readUpdate(t, conn, `<p id="count" class="even">2</p>`)
}

func TestLiveTodo(t *testing.T) {
	ts := newTestServer(t, Config{SyncInterval: 5 * time.Millisecond})
	conn := dialLive(t, ts, "todo")

	if err := conn.WriteJSON(clientEvent{Type: "click", Target: "add", Raw: "milk"}); err != nil {
		t.Fatal(err)
	}
	readUpdate(t, conn, `<li id="todo-3"><span>milk</span>`)

	if err := conn.WriteJSON(clientEvent{Type: "click", Target: "todo-1-done"}); err != nil {
		t.Fatal(err)
	}
	up := readUpdate(t, conn, "2 items left")
	if strings.Contains(up.HTML, `id="todo-1"`) {
		t.Errorf("todo-1 still present:\n%s", up.HTML)
	}
}

func TestLiveUnknownExample(t *testing.T) {
	ts := newTestServer(t, Config{})
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/examples/nope/live"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("Dial() succeeded for an unknown example")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, want 404", resp)
	}
}

func TestRunShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", http.NotFoundHandler(), quietLogger)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
