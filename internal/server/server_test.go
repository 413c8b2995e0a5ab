package server

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/letterfall/internal/glyph"
	"github.com/san-kum/letterfall/internal/menu"
)

func testServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	font, err := glyph.NewLoader(glyph.DefaultSize, nil).LoadSync(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	labels := []string{"Home", "Work"}
	m, err := menu.New(menu.Options{
		Variant: menu.Sticky(),
		Labels:  labels,
		Font:    glyph.Resolved(font, nil),
		Rand:    rand.New(rand.NewSource(7)),
	})
	if err != nil {
		t.Fatal(err)
	}
	s := New(m, Options{Labels: labels})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, s *Server, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var hello Hello
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != TypeHello || hello.Variant != "sticky" || len(hello.Labels) != 2 {
		t.Fatalf("unexpected hello %+v", hello)
	}
	waitFor(t, func() bool { return s.Clients() == 1 })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) FrameMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f FrameMessage
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if f.Type != TypeFrame {
		t.Fatalf("expected frame, got %q", f.Type)
	}
	return f
}

func TestFrameStream(t *testing.T) {
	s, ts := testServer(t)
	conn := dial(t, s, ts)

	s.step()
	f := readFrame(t, conn)
	if f.Seq != 1 || len(f.Letters) != 8 {
		t.Fatalf("unexpected frame seq=%d letters=%d", f.Seq, len(f.Letters))
	}
	if len(f.Events) != 1 || f.Events[0].Kind != "built" {
		t.Errorf("expected built event, got %+v", f.Events)
	}
	for _, l := range f.Letters {
		if l.W <= 0 || l.H <= 0 || !strings.HasPrefix(l.Color, "#") {
			t.Errorf("bad letter %+v", l)
		}
	}

	s.step()
	if f := readFrame(t, conn); f.Seq != 2 || len(f.Events) != 0 {
		t.Errorf("expected quiet second frame, got %+v", f)
	}
}

func TestPointerAppliedAtTick(t *testing.T) {
	s, ts := testServer(t)
	conn := dial(t, s, ts)
	s.step()
	first := readFrame(t, conn)

	target := first.Letters[2]
	msg := Inbound{Type: TypePointer, Action: ActionClick, X: target.X, Y: target.Y}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(s.inbox) == 1 })

	s.step()
	f := readFrame(t, conn)
	var impulses int
	for _, e := range f.Events {
		if e.Kind == "impulse" {
			impulses++
			if e.Label != target.Label || e.Letter != target.Index {
				t.Errorf("struck %d/%d, expected %d/%d", e.Label, e.Letter, target.Label, target.Index)
			}
		}
	}
	if impulses != 1 {
		t.Errorf("expected one impulse, got %d", impulses)
	}
	if !f.Hover {
		t.Error("expected hover after clicking a letter")
	}
}

func TestResizeMessage(t *testing.T) {
	s, ts := testServer(t)
	conn := dial(t, s, ts)

	if err := conn.WriteJSON(Inbound{Type: TypeResize, Width: 600, Height: 900}); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return len(s.inbox) == 1 })
	s.step()
	readFrame(t, conn)

	if !s.menu.Viewport().IsMobile || s.menu.Viewport().W != 600 {
		t.Errorf("expected mobile 600px viewport, got %+v", s.menu.Viewport())
	}
}

func TestInvalidMessage(t *testing.T) {
	s, ts := testServer(t)
	conn := dial(t, s, ts)

	for _, raw := range []string{`{"type":"pointer","action":"poke"}`, `not json`, `{"type":"resize","width":0}`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
			t.Fatal(err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var e ErrorMessage
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatal(err)
		}
		if e.Type != TypeError {
			t.Errorf("expected error reply for %q, got %+v", raw, e)
		}
	}
	if len(s.inbox) != 0 {
		t.Errorf("invalid messages reached the inbox")
	}
}

func TestClientDisconnect(t *testing.T) {
	s, ts := testServer(t)
	conn := dial(t, s, ts)
	conn.Close()
	waitFor(t, func() bool { return s.Clients() == 0 })
	s.step()
}

func TestIndexPage(t *testing.T) {
	_, ts := testServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "/ws") {
		t.Errorf("unexpected index response %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := testServer(t)
	s.addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestFrameJSONShape(t *testing.T) {
	s, _ := testServer(t)
	s.menu.Tick(s.dt)
	data, err := json.Marshal(encodeFrame(s.menu, 1, nil))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"type":"frame"`, `"seq":1`, `"letters":[`, `"grounds":[]`, `"hover":false`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("frame json missing %s: %s", key, data)
		}
	}
}
