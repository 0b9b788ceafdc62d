package ble

import (
	"context"
	"strings"
	"sync"
)

// mockCharacteristic records writes and lets tests push notifications.
type mockCharacteristic struct {
	mu             sync.Mutex
	writes         [][]byte
	writeErr       error
	notifyCallback func(data []byte)
	subscribeErr   error
}

func (m *mockCharacteristic) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.writes = append(m.writes, buf)
	return nil
}

func (m *mockCharacteristic) Subscribe(callback func(data []byte)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribeErr != nil {
		return m.subscribeErr
	}
	m.notifyCallback = callback
	return nil
}

// SimulateNotification delivers a notification as the device would.
func (m *mockCharacteristic) SimulateNotification(data []byte) {
	m.mu.Lock()
	callback := m.notifyCallback
	m.mu.Unlock()
	if callback != nil {
		callback(data)
	}
}

func (m *mockCharacteristic) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

func (m *mockCharacteristic) lastWrite() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return nil
	}
	return m.writes[len(m.writes)-1]
}

func (m *mockCharacteristic) subscribed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifyCallback != nil
}

// mockConnection hands out characteristics keyed by UUID and lets
// tests simulate unexpected drops.
type mockConnection struct {
	mu           sync.Mutex
	chars        map[string]*mockCharacteristic
	discoverErr  error
	disconnected bool
	onDisconnect func()
}

func newMockConnection() *mockConnection {
	return &mockConnection{chars: make(map[string]*mockCharacteristic)}
}

func (m *mockConnection) DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.discoverErr != nil {
		return nil, m.discoverErr
	}
	char, ok := m.chars[charUUID]
	if !ok {
		char = &mockCharacteristic{}
		m.chars[charUUID] = char
	}
	return char, nil
}

func (m *mockConnection) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnected = true
	return nil
}

func (m *mockConnection) OnDisconnect(callback func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDisconnect = callback
}

// SimulateDrop fires the disconnect callback as the platform stack
// would on an unexpected link loss.
func (m *mockConnection) SimulateDrop() {
	m.mu.Lock()
	callback := m.onDisconnect
	m.mu.Unlock()
	if callback != nil {
		callback()
	}
}

func (m *mockConnection) characteristic(charUUID string) *mockCharacteristic {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chars[charUUID]
}

func (m *mockConnection) isDisconnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disconnected
}

// mockAdapter reports a fixed set of peripherals and hands out a fresh
// mockConnection per Connect call.
type mockAdapter struct {
	mu          sync.Mutex
	peripherals []Peripheral
	// services lists advertised service UUIDs per address for filter
	// matching.
	services   map[string][]string
	enableErr  error
	scanErr    error
	connectErr error
	// nextDiscoverErr is installed on the next connection handed out.
	nextDiscoverErr error
	latest          *mockConnection
	connects        int
}

func newMockAdapter() *mockAdapter {
	return &mockAdapter{services: make(map[string][]string)}
}

func (m *mockAdapter) Enable() error {
	return m.enableErr
}

func (m *mockAdapter) Scan(ctx context.Context, filter ScanFilter, found func(Peripheral)) error {
	m.mu.Lock()
	peripherals := m.peripherals
	scanErr := m.scanErr
	m.mu.Unlock()

	if scanErr != nil {
		return scanErr
	}

	for _, p := range peripherals {
		if ctx.Err() != nil {
			return nil
		}
		if m.matches(p, filter) {
			found(p)
		}
	}
	return nil
}

func (m *mockAdapter) matches(p Peripheral, filter ScanFilter) bool {
	if filter.ServiceUUID == "" && filter.NamePrefix == "" {
		return true
	}
	if filter.NamePrefix != "" && strings.HasPrefix(p.Name, filter.NamePrefix) {
		return true
	}
	if filter.ServiceUUID != "" {
		m.mu.Lock()
		advertised := m.services[p.Address]
		m.mu.Unlock()
		for _, uuid := range advertised {
			if strings.EqualFold(uuid, filter.ServiceUUID) {
				return true
			}
		}
	}
	return false
}

func (m *mockAdapter) Connect(ctx context.Context, address string) (Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connects++
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	conn := newMockConnection()
	conn.discoverErr = m.nextDiscoverErr
	m.nextDiscoverErr = nil
	m.latest = conn
	return conn, nil
}

func (m *mockAdapter) latestConnection() *mockConnection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

func (m *mockAdapter) connectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connects
}

// Compile-time interface checks for the mocks.
var (
	_ Adapter        = (*mockAdapter)(nil)
	_ Connection     = (*mockConnection)(nil)
	_ Characteristic = (*mockCharacteristic)(nil)
)
