package devtools

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hart-dev/hart/pkg/dom/memdom"
	"github.com/hart-dev/hart/pkg/oplog"
	"github.com/hart-dev/hart/pkg/telemetry"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()
	cfg.Logger = quiet
	s := New(cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return s, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestServer_Routes(t *testing.T) {
	target := memdom.NewElement("body")
	doc := memdom.NewDocument()
	p := doc.CreateElement("p")
	p.AppendChild(doc.CreateTextNode("hi"))
	target.AppendChild(p)

	reg := prometheus.NewRegistry()
	telemetry.NewMetrics(telemetry.WithRegistry(reg)).ObservePass(&telemetry.Pass{Mount: true})

	s, ts := newTestServer(t, Config{Target: target, Gatherer: reg, History: 2})
	for seq := uint64(1); seq <= 3; seq++ {
		s.ObservePass(&telemetry.Pass{Seq: seq, Mount: seq == 1})
	}

	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "ok"},
		{"/", "hart inspector"},
		{"/snapshot.html", "<p>hi</p>"},
		{"/metrics", "hart_passes_total"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := get(t, ts.URL+tt.path)
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body does not contain %q:\n%s", tt.want, body)
			}
		})
	}

	_, body := get(t, ts.URL+"/passes")
	var passes []oplog.Record
	if err := json.Unmarshal([]byte(body), &passes); err != nil {
		t.Fatalf("decode /passes: %v", err)
	}
	if len(passes) != 2 || passes[0].Seq != 2 || passes[1].Seq != 3 {
		t.Errorf("/passes = %+v, want seq 2 and 3", passes)
	}
}

func TestServer_WebSocketBroadcast(t *testing.T) {
	s, ts := newTestServer(t, Config{})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.ObservePass(&telemetry.Pass{
		Seq: 7,
		Ops: []telemetry.Op{{Type: "REORDER", Keys: []string{"b", "a"}}},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Errorf("message type = %d, want binary", kind)
	}
	rec, err := oplog.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rec.Seq != 7 || len(rec.Ops) != 1 || rec.Ops[0].Type != "REORDER" {
		t.Errorf("record = %+v", rec)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for s.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
