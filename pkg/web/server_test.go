package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/facewatch/pkg/alert"
	"github.com/teslashibe/facewatch/pkg/camera"
	"github.com/teslashibe/facewatch/pkg/monitor"
)

type fakeLoop struct {
	mu        sync.Mutex
	status    monitor.Status
	submitted []monitor.Command
	full      bool
}

func (f *fakeLoop) Status() monitor.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeLoop) Submit(cmd monitor.Command) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.submitted = append(f.submitted, cmd)
	return true
}

func newTestServer(t *testing.T) (*Server, *fakeLoop, *camera.Manager) {
	t.Helper()
	loop := &fakeLoop{status: monitor.Status{Session: "s-1", Frame: 42, Hits: 4, Window: 5, Confirmed: true}}
	mgr := camera.NewManager(camera.DefaultConfig())
	return NewServer(DefaultConfig(), loop, mgr), loop, mgr
}

func decode[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestServer_Status(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status code = %d", resp.StatusCode)
	}

	st := decode[monitor.Status](t, resp.Body)
	if st.Session != "s-1" || st.Frame != 42 || !st.Confirmed {
		t.Errorf("status = %+v", st)
	}
}

func TestServer_Commands(t *testing.T) {
	tests := []struct {
		name     string
		full     bool
		wantCode int
		want     []monitor.Command
	}{
		{"quit", false, 202, []monitor.Command{monitor.CommandQuit}},
		{"reset", false, 202, []monitor.Command{monitor.CommandReset}},
		{"dance", false, 400, nil},
		{"reset", true, 503, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, loop, _ := newTestServer(t)
			loop.full = tc.full

			resp, err := s.App().Test(httptest.NewRequest("POST", "/api/commands/"+tc.name, nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.wantCode {
				t.Errorf("status code = %d, want %d", resp.StatusCode, tc.wantCode)
			}
			if len(loop.submitted) != len(tc.want) {
				t.Fatalf("submitted = %v, want %v", loop.submitted, tc.want)
			}
			for i := range tc.want {
				if loop.submitted[i] != tc.want[i] {
					t.Errorf("submitted[%d] = %v, want %v", i, loop.submitted[i], tc.want[i])
				}
			}
		})
	}
}

func TestServer_AlertFeed(t *testing.T) {
	s, _, _ := newTestServer(t)

	base := time.Date(2026, 2, 3, 4, 5, 6, 0, time.Local)
	for i := 0; i < maxAlerts+5; i++ {
		s.OnAlert(alert.Event{Kind: alert.KindMissing, At: base.Add(time.Duration(i) * time.Second)})
	}
	s.OnAlert(alert.Event{Kind: alert.KindMismatch, At: base.Add(time.Hour), Similarity: 0.31})

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/alerts", nil))
	if err != nil {
		t.Fatal(err)
	}
	entries := decode[[]map[string]any](t, resp.Body)
	if len(entries) != maxAlerts {
		t.Fatalf("entries = %d, want %d", len(entries), maxAlerts)
	}

	last := entries[len(entries)-1]
	if last["kind"] != "mismatch" || last["title"] != "Different Person Detected!" {
		t.Errorf("last entry = %v", last)
	}
	if id, _ := last["id"].(string); len(id) != 36 {
		t.Errorf("entry id %q is not a uuid", id)
	}

	first := s.Alerts()[0]
	if want := base.Add(6 * time.Second); !first.At.Equal(want) {
		t.Errorf("oldest kept alert at %v, want %v", first.At, want)
	}
}

func TestServer_SubscribeAlertsMatchesFeed(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.alertHub.Run(ctx)

	base := time.Date(2026, 2, 3, 4, 5, 6, 0, time.Local)
	raised := make(chan struct{})
	go func() {
		defer close(raised)
		for i := 0; i < 100; i++ {
			s.OnAlert(alert.Event{Kind: alert.KindMissing, At: base.Add(time.Duration(i) * time.Second)})
		}
	}()

	for i := 0; i < 5; i++ {
		backlog, client := s.subscribeAlerts(nil)
		if uint64(len(backlog)) != client.After() {
			t.Errorf("backlog has %d alerts but client skips the first %d broadcasts", len(backlog), client.After())
		}
		client.Close()
	}
	<-raised

	backlog, client := s.subscribeAlerts(nil)
	defer client.Close()
	if len(backlog) != 100 || client.After() != 100 {
		t.Errorf("after all alerts: backlog %d, after %d, want 100 and 100", len(backlog), client.After())
	}
}

func TestServer_CameraConfig(t *testing.T) {
	s, _, mgr := newTestServer(t)

	var applied []camera.Config
	mgr.OnConfigChange = func(cfg camera.Config) error {
		applied = append(applied, cfg)
		return nil
	}

	req := httptest.NewRequest("PUT", "/api/camera", strings.NewReader(`{"preset":"lowlight","width":800}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status code = %d: %s", resp.StatusCode, body)
	}

	got := decode[camera.Config](t, resp.Body)
	want := camera.LowLightConfig()
	want.Device = camera.DefaultConfig().Device
	want.Width = 800
	if got != want {
		t.Errorf("config = %+v, want %+v", got, want)
	}
	if len(applied) != 1 || applied[0] != want {
		t.Errorf("OnConfigChange calls = %+v", applied)
	}

	resp, err = s.App().Test(httptest.NewRequest("GET", "/api/camera", nil))
	if err != nil {
		t.Fatal(err)
	}
	if cur := decode[camera.Config](t, resp.Body); cur != want {
		t.Errorf("GET /api/camera = %+v", cur)
	}
}

func TestServer_CameraConfigRejected(t *testing.T) {
	s, _, mgr := newTestServer(t)
	before := mgr.GetConfig()

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"width":`},
		{"unknown preset", `{"preset":"infrared"}`},
		{"invalid width", `{"width":-5}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := s.App().Test(httptest.NewRequest("PUT", "/api/camera", strings.NewReader(tc.body)))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != 400 {
				t.Errorf("status code = %d, want 400", resp.StatusCode)
			}
		})
	}

	if mgr.GetConfig() != before {
		t.Error("rejected updates changed the config")
	}
}

func TestServer_Presets(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/camera/presets", nil))
	if err != nil {
		t.Fatal(err)
	}
	body := decode[struct {
		Names   []string                 `json:"names"`
		Presets map[string]camera.Config `json:"presets"`
	}](t, resp.Body)

	for _, name := range []string{"default", "lowlight", "hd"} {
		if _, ok := body.Presets[name]; !ok {
			t.Errorf("preset %q missing", name)
		}
	}
	if len(body.Names) != len(body.Presets) {
		t.Errorf("names %v do not match presets", body.Names)
	}
}

func TestServer_ApplyPreset(t *testing.T) {
	tests := []struct {
		name      string
		wantCode  int
		wantWidth int
	}{
		{"hd", 200, 1280},
		{"nope", 400, 640},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _, mgr := newTestServer(t)

			req := httptest.NewRequest("POST", "/api/camera/presets/"+tc.name, nil)
			resp, err := s.App().Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.wantCode {
				t.Errorf("status code = %d, want %d", resp.StatusCode, tc.wantCode)
			}
			if got := mgr.GetConfig().Width; got != tc.wantWidth {
				t.Errorf("width = %d, want %d", got, tc.wantWidth)
			}
		})
	}
}

func TestServer_NoCameraManager(t *testing.T) {
	s := NewServer(DefaultConfig(), &fakeLoop{}, nil)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/api/camera", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("status code = %d, want 404", resp.StatusCode)
	}
}

func TestServer_WebsocketRequiresUpgrade(t *testing.T) {
	s, _, _ := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/ws/status", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 426 {
		t.Errorf("status code = %d, want 426", resp.StatusCode)
	}
}
