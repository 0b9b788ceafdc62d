package light

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/fairyctl/internal/ble"
	"github.com/muurk/fairyctl/internal/logging"
	"github.com/muurk/fairyctl/internal/presets"
	"github.com/muurk/fairyctl/internal/protocol"
	"github.com/muurk/fairyctl/internal/state"
)

const (
	// DefaultBrightness is assumed when no brightness has been seen
	// yet, as a percentage.
	DefaultBrightness = 50

	// powerOnSettle is how long the firmware needs between a power-on
	// write and the payload write that follows it.
	powerOnSettle = 100 * time.Millisecond
)

// Session is the BLE session a controller drives. *ble.Client
// implements it.
type Session interface {
	Connect(ctx context.Context) error
	Close() error
	Connected() bool
	Address() string
	WriteCommand(frame []byte) error
	OnNotification(callback func(data []byte))
	OnStateChange(callback func(connected bool))
}

// Controller implements the device semantics of a Hello Fairy light on
// top of the frame codec and the BLE session: range checking, unit
// scaling, power sequencing and status reconciliation.
type Controller struct {
	session Session
	tracker *state.Tracker
	layout  protocol.StatusLayout

	mu       sync.Mutex
	onChange func(status state.DeviceStatus, changes state.ChangeSet)
	waiters  []chan state.DeviceStatus
}

// NewController creates a controller over the given session using the
// default status frame layout.
func NewController(session Session) *Controller {
	return NewControllerWithLayout(session, protocol.DefaultLayout)
}

// NewControllerWithLayout creates a controller that decodes status
// notifications with a custom frame layout. Useful when a firmware
// revision moves the status fields.
func NewControllerWithLayout(session Session, layout protocol.StatusLayout) *Controller {
	c := &Controller{
		session: session,
		tracker: state.NewTracker(),
		layout:  layout,
	}
	session.OnNotification(c.handleNotification)
	return c
}

// Connect establishes the BLE session. The light pushes its current
// status shortly after the notification subscription is active.
func (c *Controller) Connect(ctx context.Context) error {
	if err := c.session.Connect(ctx); err != nil {
		return NewConnectionError(c.session.Address(), "failed to connect to light", err)
	}
	return nil
}

// Close tears down the BLE session.
func (c *Controller) Close() error {
	return c.session.Close()
}

// Address returns the light's BLE address.
func (c *Controller) Address() string {
	return c.session.Address()
}

// Connected reports whether the BLE session is established.
func (c *Controller) Connected() bool {
	return c.session.Connected()
}

// OnChange registers a hook fired whenever a status notification
// changes the reconciled state. The hook receives the new snapshot and
// the fields that changed; it runs on the notification goroutine and
// must not block.
func (c *Controller) OnChange(hook func(status state.DeviceStatus, changes state.ChangeSet)) {
	c.mu.Lock()
	c.onChange = hook
	c.mu.Unlock()
}

// OnConnectionChange registers a hook for BLE link transitions.
func (c *Controller) OnConnectionChange(hook func(connected bool)) {
	c.session.OnStateChange(hook)
}

// handleNotification decodes a pushed status frame and reconciles it
// into the tracker. Command echoes and other short frames are dropped
// at debug level; anything else unparseable is logged as a warning.
func (c *Controller) handleNotification(data []byte) {
	parsed, err := protocol.ParseStatusWithLayout(data, c.layout)
	if err != nil {
		if protocol.IsRecoverable(err) {
			logging.Debug("Dropped non-status frame",
				zap.String("address", c.session.Address()),
				zap.Error(err))
		} else {
			logging.Warn("Failed to parse status notification",
				zap.String("address", c.session.Address()),
				zap.Error(err))
		}
		return
	}

	changes := c.tracker.Apply(parsed)
	snapshot := c.tracker.Snapshot()

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	hook := c.onChange
	c.mu.Unlock()

	// Status waiters are released by every valid notification, even
	// one that changes nothing.
	for _, waiter := range waiters {
		select {
		case waiter <- snapshot:
		default:
		}
	}

	if hook != nil && !changes.Empty() {
		hook(snapshot, changes)
	}
}

// SetPower turns the light on or off.
func (c *Controller) SetPower(ctx context.Context, on bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.write(protocol.BuildPowerFrame(on))
}

// SetColorHSV sets a static color. Hue is in degrees (0-359),
// saturation and value in percent (0-100). The light ignores color
// writes while off, so the controller powers it on first when the last
// known state is not on.
func (c *Controller) SetColorHSV(ctx context.Context, h, s, v int) error {
	if h < 0 || h > protocol.MaxHue {
		return NewValidationError(fmt.Sprintf("hue %d out of range 0-%d", h, protocol.MaxHue))
	}
	if s < 0 || s > 100 {
		return NewValidationError(fmt.Sprintf("saturation %d%% out of range 0-100", s))
	}
	if v < 0 || v > 100 {
		return NewValidationError(fmt.Sprintf("value %d%% out of range 0-100", v))
	}

	if err := c.ensureOn(ctx); err != nil {
		return err
	}

	color := protocol.ColorHSV{
		Hue:        uint16(h),
		Saturation: uint16(s * 10),
		Value:      uint16(v * 10),
	}
	frame, err := protocol.BuildColorFrame(color)
	if err != nil {
		return NewProtocolError("failed to build color frame", err)
	}
	return c.write(frame)
}

// SetColorRGB sets a static color from 8-bit RGB. Black carries no
// brightness information, so it keeps the last known brightness
// instead of writing value 0.
func (c *Controller) SetColorRGB(ctx context.Context, r, g, b uint8) error {
	h, s, v := RGBToHSV(r, g, b)
	if v == 0 {
		v = c.lastBrightness()
	}
	return c.SetColorHSV(ctx, h, s, v)
}

// SetBrightness adjusts brightness (0-100 percent) without changing
// the color or preset. The protocol has no standalone brightness
// operation, so the active mode's frame is re-sent with the new value.
// Fails when the light is off or its state is unknown.
func (c *Controller) SetBrightness(ctx context.Context, percent int) error {
	if percent < 0 || percent > 100 {
		return NewValidationError(fmt.Sprintf("brightness %d%% out of range 0-100", percent))
	}

	snapshot := c.tracker.Snapshot()
	if !snapshot.Known() {
		return NewStateError("light state is unknown; wait for the first status push")
	}
	if snapshot.Power != protocol.PowerOn {
		return NewStateError("light is off; turn it on before adjusting brightness")
	}

	switch {
	case snapshot.Mode == protocol.ModeColor && snapshot.Color != nil:
		hue := int(snapshot.Color.Hue)
		sat := int(snapshot.Color.Saturation) / 10
		return c.SetColorHSV(ctx, hue, sat, percent)
	case snapshot.Mode == protocol.ModePreset && snapshot.Preset != nil:
		return c.SetPresetBrightness(ctx, int(snapshot.Preset.Index), percent)
	default:
		// No payload to re-send: fall back to white at the new level.
		return c.SetColorHSV(ctx, 0, 0, percent)
	}
}

// SetPreset activates a built-in animated pattern (1-58). The frame
// carries the last known brightness; the light is powered on first
// when needed.
func (c *Controller) SetPreset(ctx context.Context, index int) error {
	return c.SetPresetBrightness(ctx, index, c.lastBrightness())
}

// SetPresetBrightness activates a pattern at an explicit brightness
// (0-100 percent).
func (c *Controller) SetPresetBrightness(ctx context.Context, index, percent int) error {
	if index < int(protocol.MinPreset) || index > int(protocol.MaxPreset) {
		return NewValidationError(fmt.Sprintf("preset %d out of range %d-%d",
			index, protocol.MinPreset, protocol.MaxPreset))
	}
	if percent < 0 || percent > 100 {
		return NewValidationError(fmt.Sprintf("brightness %d%% out of range 0-100", percent))
	}

	if err := c.ensureOn(ctx); err != nil {
		return err
	}

	selection := protocol.PresetSelection{
		Index:      uint8(index),
		Brightness: uint16(percent * 10),
	}
	frame, err := protocol.BuildPresetFrame(selection)
	if err != nil {
		return NewProtocolError("failed to build preset frame", err)
	}
	return c.write(frame)
}

// SetEffect activates a pattern by its catalog name.
func (c *Controller) SetEffect(ctx context.Context, name string) error {
	index, err := effectIndex(name)
	if err != nil {
		return err
	}
	return c.SetPreset(ctx, index)
}

// SetEffectBrightness activates a pattern by its catalog name at the
// given brightness percentage.
func (c *Controller) SetEffectBrightness(ctx context.Context, name string, percent int) error {
	index, err := effectIndex(name)
	if err != nil {
		return err
	}
	return c.SetPresetBrightness(ctx, index, percent)
}

func effectIndex(name string) (int, error) {
	index, ok := presets.IndexOf(name)
	if !ok {
		return 0, NewValidationError(fmt.Sprintf("unknown effect %q (known effects: %s)",
			name, strings.Join(presets.Names(), ", ")))
	}
	return index, nil
}

// Status waits for the next status push from the light and returns the
// reconciled snapshot. The protocol has no status query operation; the
// light pushes on connect and after every applied command. Times out
// with the context.
func (c *Controller) Status(ctx context.Context) (state.DeviceStatus, error) {
	waiter := make(chan state.DeviceStatus, 1)
	c.mu.Lock()
	c.waiters = append(c.waiters, waiter)
	c.mu.Unlock()

	select {
	case snapshot := <-waiter:
		return snapshot, nil
	case <-ctx.Done():
		c.removeWaiter(waiter)
		return state.DeviceStatus{}, NewTimeoutError(c.session.Address(),
			"light did not push a status notification in time")
	}
}

// LastKnown returns the current reconciled snapshot without waiting.
func (c *Controller) LastKnown() state.DeviceStatus {
	return c.tracker.Snapshot()
}

func (c *Controller) removeWaiter(waiter chan state.DeviceStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.waiters {
		if w == waiter {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

// ensureOn powers the light on when the last known state is not on,
// then waits for the firmware to settle before the next write.
func (c *Controller) ensureOn(ctx context.Context) error {
	snapshot := c.tracker.Snapshot()
	if snapshot.Known() && snapshot.Power == protocol.PowerOn {
		return nil
	}

	if err := c.SetPower(ctx, true); err != nil {
		return err
	}

	select {
	case <-time.After(powerOnSettle):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// lastBrightness returns the last observed brightness in percent,
// preferring the active mode's payload, then the retained one. Zero
// and unknown both fall back to the default, matching the vendor app.
func (c *Controller) lastBrightness() int {
	snapshot := c.tracker.Snapshot()

	var percent int
	switch {
	case snapshot.Mode == protocol.ModePreset && snapshot.Preset != nil:
		percent = int(snapshot.Preset.Brightness) / 10
	case snapshot.Mode == protocol.ModeColor && snapshot.Color != nil:
		percent = int(snapshot.Color.Value) / 10
	case snapshot.Preset != nil:
		percent = int(snapshot.Preset.Brightness) / 10
	case snapshot.Color != nil:
		percent = int(snapshot.Color.Value) / 10
	}

	if percent <= 0 {
		return DefaultBrightness
	}
	return percent
}

// write sends a frame over the session, classifying transport errors.
func (c *Controller) write(frame []byte) error {
	if err := c.session.WriteCommand(frame); err != nil {
		if errors.Is(err, ble.ErrNotConnected) {
			return NewConnectionError(c.session.Address(), "light is not connected", err)
		}
		return NewWriteError(c.session.Address(), "failed to send command", err)
	}
	return nil
}
