package ble

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/muurk/fairyctl/internal/gatt"
)

func testOptions() ClientOptions {
	return ClientOptions{
		ConnectTimeout:    time.Second,
		AutoReconnect:     false,
		ReconnectMaxDelay: 10 * time.Millisecond,
	}
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}

func TestClientConnect(t *testing.T) {
	adapter := newMockAdapter()
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", testOptions())

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.Connected() {
		t.Error("Connected() = false after successful connect")
	}

	conn := adapter.latestConnection()
	if conn == nil {
		t.Fatal("adapter never received a connect")
	}
	if conn.characteristic(gatt.CommandCharUUID) == nil {
		t.Error("command characteristic was not discovered")
	}
	notify := conn.characteristic(gatt.NotifyCharUUID)
	if notify == nil {
		t.Fatal("notify characteristic was not discovered")
	}
	if !notify.subscribed() {
		t.Error("notify characteristic has no subscription")
	}
}

func TestClientConnectDiscoveryFailure(t *testing.T) {
	adapter := newMockAdapter()
	adapter.nextDiscoverErr = errors.New("service not found")
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", testOptions())

	if err := client.Connect(context.Background()); err == nil {
		t.Fatal("Connect() succeeded, want discovery error")
	}
	if client.Connected() {
		t.Error("Connected() = true after failed discovery")
	}

	// A connection that failed discovery must be torn down, not leaked.
	if conn := adapter.latestConnection(); conn == nil || !conn.isDisconnected() {
		t.Error("failed connection was not disconnected")
	}
}

func TestClientWriteCommand(t *testing.T) {
	adapter := newMockAdapter()
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", testOptions())

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	frame := []byte{0xAA, 0x02, 0x01, 0x01, 0xAE}
	if err := client.WriteCommand(frame); err != nil {
		t.Fatalf("WriteCommand() error = %v", err)
	}

	char := adapter.latestConnection().characteristic(gatt.CommandCharUUID)
	if char.writeCount() != 1 {
		t.Fatalf("write count = %d, want 1", char.writeCount())
	}
	if !bytes.Equal(char.lastWrite(), frame) {
		t.Errorf("written frame = % X, want % X", char.lastWrite(), frame)
	}
}

func TestClientWriteCommandNotConnected(t *testing.T) {
	adapter := newMockAdapter()
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", testOptions())

	err := client.WriteCommand([]byte{0xAA, 0x02, 0x01, 0x01, 0xAE})
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("WriteCommand() error = %v, want ErrNotConnected", err)
	}
}

func TestClientNotificationDispatch(t *testing.T) {
	adapter := newMockAdapter()
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", testOptions())

	received := make(chan []byte, 1)
	client.OnNotification(func(data []byte) {
		received <- data
	})

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	status := []byte{0xAA, 0x01, 0x0A, 0x00, 0x00, 0x00, 0x01, 0x01, 0x00, 0xD2, 0x03, 0x52, 0x03, 0xE8}
	adapter.latestConnection().characteristic(gatt.NotifyCharUUID).SimulateNotification(status)

	select {
	case data := <-received:
		if !bytes.Equal(data, status) {
			t.Errorf("notification = % X, want % X", data, status)
		}
	case <-time.After(time.Second):
		t.Fatal("notification was not dispatched")
	}
}

func TestClientDropMarksDisconnected(t *testing.T) {
	adapter := newMockAdapter()
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", testOptions())

	states := make(chan bool, 4)
	client.OnStateChange(func(connected bool) {
		states <- connected
	})

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	select {
	case up := <-states:
		if !up {
			t.Error("first state change = down, want up")
		}
	case <-time.After(time.Second):
		t.Fatal("no state change after connect")
	}

	adapter.latestConnection().SimulateDrop()

	select {
	case up := <-states:
		if up {
			t.Error("state change after drop = up, want down")
		}
	case <-time.After(time.Second):
		t.Fatal("no state change after drop")
	}

	if client.Connected() {
		t.Error("Connected() = true after drop")
	}
	if err := client.WriteCommand([]byte{0xAA}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("WriteCommand() after drop error = %v, want ErrNotConnected", err)
	}
}

func TestClientAutoReconnect(t *testing.T) {
	adapter := newMockAdapter()
	opts := testOptions()
	opts.AutoReconnect = true
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", opts)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	first := adapter.latestConnection()
	first.SimulateDrop()

	if !waitFor(t, 2*time.Second, func() bool { return client.Connected() }) {
		t.Fatal("client did not reconnect after drop")
	}

	second := adapter.latestConnection()
	if second == first {
		t.Fatal("reconnect reused the dropped connection")
	}

	// The new session must be subscribed again.
	notify := second.characteristic(gatt.NotifyCharUUID)
	if notify == nil || !notify.subscribed() {
		t.Error("reconnected session is not subscribed to notifications")
	}
	if adapter.connectCount() < 2 {
		t.Errorf("connect count = %d, want at least 2", adapter.connectCount())
	}
}

func TestClientClose(t *testing.T) {
	adapter := newMockAdapter()
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", testOptions())

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !adapter.latestConnection().isDisconnected() {
		t.Error("Close() did not disconnect the connection")
	}
	if client.Connected() {
		t.Error("Connected() = true after Close")
	}

	// Close is idempotent.
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// A closed client refuses to connect again.
	if err := client.Connect(context.Background()); err == nil {
		t.Error("Connect() after Close succeeded, want error")
	}
}

func TestClientCloseStopsReconnect(t *testing.T) {
	adapter := newMockAdapter()
	opts := testOptions()
	opts.AutoReconnect = true
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", opts)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	connects := adapter.connectCount()
	time.Sleep(50 * time.Millisecond)
	if adapter.connectCount() != connects {
		t.Error("client kept connecting after Close")
	}
}

func TestClientConnectError(t *testing.T) {
	adapter := newMockAdapter()
	adapter.connectErr = errors.New("radio off")
	client := NewClient(adapter, "AA:BB:CC:DD:EE:FF", testOptions())

	if err := client.Connect(context.Background()); err == nil {
		t.Error("Connect() succeeded, want error")
	}
	if client.Connected() {
		t.Error("Connected() = true after failed connect")
	}
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		max     time.Duration
		want    time.Duration
	}{
		{name: "first attempt", attempt: 1, max: 30 * time.Second, want: time.Second},
		{name: "second attempt", attempt: 2, max: 30 * time.Second, want: 2 * time.Second},
		{name: "third attempt", attempt: 3, max: 30 * time.Second, want: 4 * time.Second},
		{name: "capped", attempt: 10, max: 30 * time.Second, want: 30 * time.Second},
		{name: "small cap", attempt: 1, max: 10 * time.Millisecond, want: 10 * time.Millisecond},
		{name: "zero max uses default", attempt: 20, max: 0, want: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := backoffDelay(tt.attempt, tt.max); got != tt.want {
				t.Errorf("backoffDelay(%d, %v) = %v, want %v", tt.attempt, tt.max, got, tt.want)
			}
		})
	}
}
