package ble

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"tinygo.org/x/bluetooth"

	"github.com/muurk/fairyctl/internal/logging"
)

// NativeAdapter implements Adapter on top of the platform BLE stack
// (BlueZ on Linux, CoreBluetooth on macOS, WinRT on Windows).
type NativeAdapter struct {
	adapter *bluetooth.Adapter

	mu          sync.Mutex
	connections map[string]*nativeConnection
	addrs       map[string]bluetooth.Address
}

var _ Adapter = (*NativeAdapter)(nil)

// NewNativeAdapter creates an adapter backed by the default system radio.
func NewNativeAdapter() *NativeAdapter {
	return &NativeAdapter{
		adapter:     bluetooth.DefaultAdapter,
		connections: make(map[string]*nativeConnection),
		addrs:       make(map[string]bluetooth.Address),
	}
}

// Enable powers on the radio and installs the disconnect handler that
// routes connection drops to the owning Connection.
func (a *NativeAdapter) Enable() error {
	if err := a.adapter.Enable(); err != nil {
		return fmt.Errorf("enabling bluetooth adapter: %w", err)
	}

	a.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		if connected {
			return
		}
		address := device.Address.String()

		a.mu.Lock()
		conn := a.connections[address]
		delete(a.connections, address)
		a.mu.Unlock()

		if conn != nil {
			conn.dropped()
		}
	})

	return nil
}

// Scan reports matching advertisements until ctx is done. Repeated
// advertisements from the same peripheral are reported each time so
// callers can track RSSI changes; dedupe where that matters.
func (a *NativeAdapter) Scan(ctx context.Context, filter ScanFilter, found func(Peripheral)) error {
	var serviceUUID bluetooth.UUID
	haveService := filter.ServiceUUID != ""
	if haveService {
		var err error
		serviceUUID, err = bluetooth.ParseUUID(filter.ServiceUUID)
		if err != nil {
			return fmt.Errorf("parsing service uuid %q: %w", filter.ServiceUUID, err)
		}
	}

	logging.Debug("Starting BLE scan",
		zap.String("service_uuid", filter.ServiceUUID),
		zap.String("name_prefix", filter.NamePrefix))

	return a.rawScan(ctx, func(result bluetooth.ScanResult) {
		name := result.LocalName()

		match := !haveService && filter.NamePrefix == ""
		if haveService && result.HasServiceUUID(serviceUUID) {
			match = true
		}
		if filter.NamePrefix != "" && strings.HasPrefix(name, filter.NamePrefix) {
			match = true
		}
		if !match {
			return
		}

		found(Peripheral{
			Name:    name,
			Address: result.Address.String(),
			RSSI:    int(result.RSSI),
		})
	})
}

// rawScan runs an unfiltered scan, caching every observed address so a
// later Connect can reuse the platform address value.
func (a *NativeAdapter) rawScan(ctx context.Context, callback func(bluetooth.ScanResult)) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		a.adapter.StopScan()
	}()

	err := a.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		a.mu.Lock()
		a.addrs[result.Address.String()] = result.Address
		a.mu.Unlock()

		callback(result)
	})
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}
	return nil
}

// Connect establishes a connection to the peripheral with the given
// address. The address must have been observed in a scan on platforms
// where addresses cannot be constructed from strings; when it has not
// been, Connect runs a scan first to resolve it.
func (a *NativeAdapter) Connect(ctx context.Context, address string) (Connection, error) {
	addr, err := a.resolveAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	logging.Debug("Connecting to peripheral", zap.String("address", address))

	type connectResult struct {
		device bluetooth.Device
		err    error
	}
	ch := make(chan connectResult, 1)
	go func() {
		device, err := a.adapter.Connect(addr, bluetooth.ConnectionParams{})
		ch <- connectResult{device: device, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", address, res.err)
		}

		canonical := addr.String()
		conn := &nativeConnection{device: res.device, address: canonical}

		a.mu.Lock()
		a.connections[canonical] = conn
		a.mu.Unlock()

		return conn, nil
	}
}

// resolveAddress maps an address string to the platform address value.
// Addresses observed during a scan are cached; an unseen address is
// resolved by scanning until the peripheral advertises.
func (a *NativeAdapter) resolveAddress(ctx context.Context, address string) (bluetooth.Address, error) {
	a.mu.Lock()
	addr, ok := a.addrs[address]
	a.mu.Unlock()
	if ok {
		return addr, nil
	}

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := a.rawScan(scanCtx, func(result bluetooth.ScanResult) {
		if strings.EqualFold(result.Address.String(), address) {
			cancel()
		}
	}); err != nil {
		return bluetooth.Address{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for seen, saved := range a.addrs {
		if strings.EqualFold(seen, address) {
			return saved, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return bluetooth.Address{}, fmt.Errorf("resolving address %s: %w", address, err)
	}
	return bluetooth.Address{}, fmt.Errorf("peripheral %s not found during scan", address)
}

type nativeConnection struct {
	device  bluetooth.Device
	address string

	mu           sync.Mutex
	onDisconnect func()
}

func (c *nativeConnection) DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error) {
	svcUUID, err := bluetooth.ParseUUID(serviceUUID)
	if err != nil {
		return nil, fmt.Errorf("parsing service uuid %q: %w", serviceUUID, err)
	}
	chUUID, err := bluetooth.ParseUUID(charUUID)
	if err != nil {
		return nil, fmt.Errorf("parsing characteristic uuid %q: %w", charUUID, err)
	}

	services, err := c.device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil {
		return nil, fmt.Errorf("discovering service %s: %w", serviceUUID, err)
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("service %s not found on %s", serviceUUID, c.address)
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{chUUID})
	if err != nil {
		return nil, fmt.Errorf("discovering characteristic %s: %w", charUUID, err)
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("characteristic %s not found on %s", charUUID, c.address)
	}

	return &nativeCharacteristic{char: chars[0]}, nil
}

// Disconnect terminates the connection. The OnDisconnect callback is
// reserved for unexpected drops and does not fire for an intentional
// disconnect.
func (c *nativeConnection) Disconnect() error {
	logging.Debug("Disconnecting from peripheral", zap.String("address", c.address))

	c.mu.Lock()
	c.onDisconnect = nil
	c.mu.Unlock()

	return c.device.Disconnect()
}

func (c *nativeConnection) OnDisconnect(callback func()) {
	c.mu.Lock()
	c.onDisconnect = callback
	c.mu.Unlock()
}

func (c *nativeConnection) dropped() {
	c.mu.Lock()
	callback := c.onDisconnect
	c.mu.Unlock()

	if callback != nil {
		callback()
	}
}

type nativeCharacteristic struct {
	char bluetooth.DeviceCharacteristic
}

func (c *nativeCharacteristic) Write(data []byte) error {
	if _, err := c.char.WriteWithoutResponse(data); err != nil {
		return fmt.Errorf("writing characteristic: %w", err)
	}
	return nil
}

func (c *nativeCharacteristic) Subscribe(callback func(data []byte)) error {
	if err := c.char.EnableNotifications(callback); err != nil {
		return fmt.Errorf("enabling notifications: %w", err)
	}
	return nil
}
