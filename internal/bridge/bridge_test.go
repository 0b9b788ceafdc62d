package bridge

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/muurk/fairyctl/internal/light"
	"github.com/muurk/fairyctl/internal/protocol"
)

// fakeSession stands in for the BLE link: it records written frames and
// lets tests push notifications as the light would.
type fakeSession struct {
	mu      sync.Mutex
	writes  [][]byte
	notify  func(data []byte)
	stateCb func(connected bool)
}

func (f *fakeSession) Connect(ctx context.Context) error { return nil }
func (f *fakeSession) Close() error                      { return nil }
func (f *fakeSession) Connected() bool                   { return true }
func (f *fakeSession) Address() string                   { return "AA:BB:CC:DD:EE:FF" }

func (f *fakeSession) WriteCommand(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, len(frame))
	copy(buf, frame)
	f.writes = append(f.writes, buf)
	return nil
}

func (f *fakeSession) OnNotification(callback func(data []byte)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notify = callback
}

func (f *fakeSession) OnStateChange(callback func(connected bool)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateCb = callback
}

func (f *fakeSession) push(data []byte) {
	f.mu.Lock()
	callback := f.notify
	f.mu.Unlock()
	if callback != nil {
		callback(data)
	}
}

func (f *fakeSession) lastWrite() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return nil
	}
	return f.writes[len(f.writes)-1]
}

func colorStatus(power byte, h, s, v uint16) []byte {
	frame := make([]byte, 14)
	frame[0] = 0xAA
	frame[6] = power
	frame[7] = 0x01
	binary.BigEndian.PutUint16(frame[8:10], h)
	binary.BigEndian.PutUint16(frame[10:12], s)
	binary.BigEndian.PutUint16(frame[12:14], v)
	return frame
}

func presetStatus(power byte, index byte, brightness uint16) []byte {
	frame := make([]byte, 11)
	frame[0] = 0xAA
	frame[6] = power
	frame[7] = 0x02
	frame[8] = index
	binary.BigEndian.PutUint16(frame[9:11], brightness)
	return frame
}

// newTestBridge wires a bridge to a fake BLE session behind an httptest
// server. The returned URL dials the /ws endpoint.
func newTestBridge(t *testing.T) (*Bridge, *fakeSession, string, func()) {
	t.Helper()

	session := &fakeSession{}
	controller := light.NewController(session)

	b, err := New(&Config{LogLevel: "error"}, controller)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.handleWS)
	mux.HandleFunc("/healthz", b.handleHealth)
	server := httptest.NewServer(mux)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	return b, session, wsURL, server.Close
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial(%s) error = %v", wsURL, err)
	}
	return conn
}

// readEvent reads one JSON event with a deadline.
func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var event map[string]interface{}
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("event is not JSON: %v (%s)", err, data)
	}
	return event
}

// waitForEvent reads until an event of the wanted type arrives, skipping
// interleaved status broadcasts.
func waitForEvent(t *testing.T, conn *websocket.Conn, want string) map[string]interface{} {
	t.Helper()
	for i := 0; i < 10; i++ {
		event := readEvent(t, conn)
		if event["event"] == want {
			return event
		}
	}
	t.Fatalf("no %q event within 10 messages", want)
	return nil
}

func send(t *testing.T, conn *websocket.Conn, req string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(req)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
}

func TestBridge_InitialSnapshot(t *testing.T) {
	_, _, wsURL, cleanup := newTestBridge(t)
	defer cleanup()

	conn := dial(t, wsURL)
	defer conn.Close()

	event := readEvent(t, conn)
	if event["event"] != "status" {
		t.Fatalf("first event = %v, want status", event["event"])
	}
	if event["known"] != false {
		t.Errorf("known = %v before any notification, want false", event["known"])
	}
}

func TestBridge_SetPower(t *testing.T) {
	_, session, wsURL, cleanup := newTestBridge(t)
	defer cleanup()

	conn := dial(t, wsURL)
	defer conn.Close()
	readEvent(t, conn) // initial snapshot

	send(t, conn, `{"op":"set_power","on":true}`)

	event := waitForEvent(t, conn, "ok")
	if event["op"] != "set_power" {
		t.Errorf("ok op = %v, want set_power", event["op"])
	}
	if got := session.lastWrite(); !bytes.Equal(got, []byte{0xAA, 0x02, 0x01, 0x01, 0xAE}) {
		t.Errorf("frame = % X, want AA 02 01 01 AE", got)
	}
}

func TestBridge_SetColorHex(t *testing.T) {
	_, session, wsURL, cleanup := newTestBridge(t)
	defer cleanup()

	// The light reports itself on so set_color skips the power-on write
	session.push(colorStatus(0x01, 0, 0, 1000))

	conn := dial(t, wsURL)
	defer conn.Close()
	readEvent(t, conn)

	send(t, conn, `{"op":"set_color","hex":"#FF0000"}`)
	waitForEvent(t, conn, "ok")

	want, err := protocol.BuildColorFrame(protocol.ColorHSV{Hue: 0, Saturation: 1000, Value: 1000})
	if err != nil {
		t.Fatalf("BuildColorFrame() error = %v", err)
	}
	if got := session.lastWrite(); !bytes.Equal(got, want) {
		t.Errorf("frame = % X, want % X", got, want)
	}
}

func TestBridge_SetColorValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     string
		wantMsg string
	}{
		{"no encoding", `{"op":"set_color"}`, "exactly one"},
		{"two encodings", `{"op":"set_color","hex":"#FF0000","rgb":[1,2,3]}`, "exactly one"},
		{"rgb out of range", `{"op":"set_color","rgb":[300,0,0]}`, "out of range"},
		{"rgb wrong arity", `{"op":"set_color","rgb":[1,2]}`, "three components"},
		{"hsv out of range", `{"op":"set_color","hsv":[400,0,0]}`, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, wsURL, cleanup := newTestBridge(t)
			defer cleanup()

			conn := dial(t, wsURL)
			defer conn.Close()
			readEvent(t, conn)

			send(t, conn, tt.req)
			event := waitForEvent(t, conn, "error")
			msg, _ := event["message"].(string)
			if !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("error message = %q, want it to contain %q", msg, tt.wantMsg)
			}
		})
	}
}

func TestBridge_GetStatus(t *testing.T) {
	_, session, wsURL, cleanup := newTestBridge(t)
	defer cleanup()

	session.push(presetStatus(0x01, 17, 500))

	conn := dial(t, wsURL)
	defer conn.Close()
	readEvent(t, conn)

	send(t, conn, `{"op":"get_status"}`)
	event := waitForEvent(t, conn, "status")

	if event["known"] != true {
		t.Error("known = false, want true")
	}
	if event["power"] != "on" {
		t.Errorf("power = %v, want on", event["power"])
	}
	if event["mode"] != "preset" {
		t.Errorf("mode = %v, want preset", event["mode"])
	}
	if preset, _ := event["preset"].(float64); int(preset) != 17 {
		t.Errorf("preset = %v, want 17", event["preset"])
	}
	if event["preset_name"] != "Fireworks" {
		t.Errorf("preset_name = %v, want Fireworks", event["preset_name"])
	}
	if brightness, _ := event["brightness"].(float64); int(brightness) != 50 {
		t.Errorf("brightness = %v, want 50", event["brightness"])
	}
}

func TestBridge_UnknownOp(t *testing.T) {
	_, _, wsURL, cleanup := newTestBridge(t)
	defer cleanup()

	conn := dial(t, wsURL)
	defer conn.Close()
	readEvent(t, conn)

	send(t, conn, `{"op":"warp_drive"}`)
	event := waitForEvent(t, conn, "error")
	msg, _ := event["message"].(string)
	if !strings.Contains(msg, "unknown op") {
		t.Errorf("error message = %q, want it to name the unknown op", msg)
	}
}

func TestBridge_StateErrorCarriesHint(t *testing.T) {
	_, _, wsURL, cleanup := newTestBridge(t)
	defer cleanup()

	conn := dial(t, wsURL)
	defer conn.Close()
	readEvent(t, conn)

	// Brightness needs a known on-state; nothing was pushed yet
	send(t, conn, `{"op":"set_brightness","brightness":40}`)
	event := waitForEvent(t, conn, "error")

	msg, _ := event["message"].(string)
	if !strings.Contains(msg, "unknown") {
		t.Errorf("error message = %q, want the unknown-state explanation", msg)
	}
	hint, _ := event["hint"].(string)
	if hint == "" {
		t.Error("state error event carries no hint")
	}
}

func TestBridge_BroadcastOnChange(t *testing.T) {
	_, session, wsURL, cleanup := newTestBridge(t)
	defer cleanup()

	first := dial(t, wsURL)
	defer first.Close()
	second := dial(t, wsURL)
	defer second.Close()
	readEvent(t, first)
	readEvent(t, second)

	session.push(colorStatus(0x01, 210, 820, 300))

	for _, conn := range []*websocket.Conn{first, second} {
		event := waitForEvent(t, conn, "status")
		if event["power"] != "on" {
			t.Errorf("broadcast power = %v, want on", event["power"])
		}
		changed, _ := event["changed"].([]interface{})
		found := false
		for _, field := range changed {
			if field == "power" {
				found = true
			}
		}
		if !found {
			t.Errorf("changed = %v, want it to include power", changed)
		}
	}
}

func TestBridge_ClientCount(t *testing.T) {
	b, _, wsURL, cleanup := newTestBridge(t)
	defer cleanup()

	if b.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d before any client, want 0", b.ClientCount())
	}

	conn := dial(t, wsURL)
	readEvent(t, conn)
	if b.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d with one client, want 1", b.ClientCount())
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if b.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after disconnect, want 0", b.ClientCount())
	}
}

func TestBridge_Health(t *testing.T) {
	_, _, wsURL, cleanup := newTestBridge(t)
	defer cleanup()

	healthURL := "http" + strings.TrimPrefix(strings.TrimSuffix(wsURL, "/ws"), "ws") + "/healthz"
	resp, err := http.Get(healthURL)
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("health body is not JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["light_address"] != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("light_address = %v, want the session address", body["light_address"])
	}
	if body["light_connected"] != true {
		t.Errorf("light_connected = %v, want true", body["light_connected"])
	}
}
