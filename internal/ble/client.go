package ble

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fairyctl/internal/gatt"
	"github.com/muurk/fairyctl/internal/logging"
)

// ErrNotConnected is returned by WriteCommand when no connection is
// established. Commands are never queued for later delivery; a lighting
// command replayed after a reconnect would override whatever the user
// did with the remote in the meantime.
var ErrNotConnected = errors.New("not connected")

// ClientOptions configures a Client.
type ClientOptions struct {
	// ConnectTimeout bounds a single connection attempt. Zero means
	// the caller's context is the only bound.
	ConnectTimeout time.Duration

	// AutoReconnect keeps the link supervised: after an unexpected
	// drop the client reconnects with exponential backoff until Close.
	AutoReconnect bool

	// ReconnectMaxDelay caps the backoff between reconnect attempts.
	ReconnectMaxDelay time.Duration
}

// DefaultClientOptions returns the options used by the CLI commands.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		ConnectTimeout:    10 * time.Second,
		AutoReconnect:     false,
		ReconnectMaxDelay: 30 * time.Second,
	}
}

// Client manages the BLE session with a single light: connection
// lifecycle, command writes and status notifications.
type Client struct {
	adapter Adapter
	address string
	opts    ClientOptions

	mu        sync.Mutex
	conn      Connection
	cmdChar   Characteristic
	connected bool
	closed    bool

	notifyCallback func(data []byte)
	stateCallback  func(connected bool)
}

// NewClient creates a client for the light at the given address. The
// adapter must be enabled before Connect is called.
func NewClient(adapter Adapter, address string, opts ClientOptions) *Client {
	return &Client{
		adapter: adapter,
		address: address,
		opts:    opts,
	}
}

// Address returns the peripheral address this client targets.
func (c *Client) Address() string {
	return c.address
}

// Connected reports whether the session is currently established.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// OnNotification registers the callback invoked for every status
// notification pushed by the light. Register before Connect so no
// notification is missed; the callback must not block.
func (c *Client) OnNotification(callback func(data []byte)) {
	c.mu.Lock()
	c.notifyCallback = callback
	c.mu.Unlock()
}

// OnStateChange registers a callback invoked when the link goes up or
// down. Used by the TUI and the bridge to surface link status.
func (c *Client) OnStateChange(callback func(connected bool)) {
	c.mu.Lock()
	c.stateCallback = callback
	c.mu.Unlock()
}

// Connect establishes the session: connects to the peripheral,
// discovers the command characteristic and subscribes to status
// notifications.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New("client is closed")
	}
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if c.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.ConnectTimeout)
		defer cancel()
	}

	conn, err := c.adapter.Connect(ctx, c.address)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", c.address, err)
	}

	if err := c.establish(conn); err != nil {
		conn.Disconnect()
		return err
	}

	logging.LogConnection(c.address, "connected")
	c.signalState(true)
	return nil
}

// establish discovers the characteristics on a fresh connection and
// installs the notification and disconnect handlers.
func (c *Client) establish(conn Connection) error {
	cmdChar, err := conn.DiscoverCharacteristic(gatt.ServiceUUID, gatt.CommandCharUUID)
	if err != nil {
		return fmt.Errorf("discovering command characteristic: %w", err)
	}

	notifyChar, err := conn.DiscoverCharacteristic(gatt.ServiceUUID, gatt.NotifyCharUUID)
	if err != nil {
		return fmt.Errorf("discovering notify characteristic: %w", err)
	}

	if err := notifyChar.Subscribe(c.dispatchNotification); err != nil {
		return fmt.Errorf("subscribing to status notifications: %w", err)
	}

	conn.OnDisconnect(func() {
		logging.LogConnection(c.address, "disconnected")

		c.mu.Lock()
		c.conn = nil
		c.cmdChar = nil
		c.connected = false
		reconnect := c.opts.AutoReconnect && !c.closed
		c.mu.Unlock()

		c.signalState(false)

		if reconnect {
			go c.reconnectLoop()
		}
	})

	c.mu.Lock()
	c.conn = conn
	c.cmdChar = cmdChar
	c.connected = true
	c.mu.Unlock()

	return nil
}

func (c *Client) dispatchNotification(data []byte) {
	logging.LogFrame(c.address, "notify", data)

	c.mu.Lock()
	callback := c.notifyCallback
	c.mu.Unlock()

	if callback != nil {
		callback(data)
	}
}

func (c *Client) signalState(connected bool) {
	c.mu.Lock()
	callback := c.stateCallback
	c.mu.Unlock()

	if callback != nil {
		callback(connected)
	}
}

// WriteCommand sends a protocol frame to the command characteristic.
// Writes are without response; the light reports the applied state via
// a status notification.
func (c *Client) WriteCommand(frame []byte) error {
	c.mu.Lock()
	char := c.cmdChar
	connected := c.connected
	c.mu.Unlock()

	if !connected || char == nil {
		return ErrNotConnected
	}

	logging.LogFrame(c.address, "write", frame)

	if err := char.Write(frame); err != nil {
		return fmt.Errorf("writing command to %s: %w", c.address, err)
	}
	return nil
}

// reconnectLoop re-establishes the session after an unexpected drop,
// backing off exponentially between attempts. It exits when the client
// is closed or a connection succeeds.
func (c *Client) reconnectLoop() {
	for attempt := 1; ; attempt++ {
		c.mu.Lock()
		closed := c.closed
		connected := c.connected
		c.mu.Unlock()
		if closed || connected {
			return
		}

		delay := backoffDelay(attempt, c.opts.ReconnectMaxDelay)
		logging.Info("Reconnecting to light",
			zap.String("address", c.address),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay))
		time.Sleep(delay)

		ctx := context.Background()
		if err := c.Connect(ctx); err != nil {
			logging.Warn("Reconnect attempt failed",
				zap.String("address", c.address),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}
		return
	}
}

// backoffDelay returns the delay before the given reconnect attempt:
// 1s, 2s, 4s, ... capped at max.
func backoffDelay(attempt int, max time.Duration) time.Duration {
	if max <= 0 {
		max = 30 * time.Second
	}
	seconds := math.Pow(2, float64(attempt-1))
	delay := time.Duration(seconds * float64(time.Second))
	if delay > max || delay <= 0 {
		return max
	}
	return delay
}

// Close tears down the session and stops any reconnect supervision.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.cmdChar = nil
	wasConnected := c.connected
	c.connected = false
	c.mu.Unlock()

	if wasConnected {
		c.signalState(false)
	}

	if conn != nil {
		if err := conn.Disconnect(); err != nil {
			return fmt.Errorf("disconnecting from %s: %w", c.address, err)
		}
	}
	return nil
}
