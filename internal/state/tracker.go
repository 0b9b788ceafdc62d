package state

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/muurk/fairyctl/internal/protocol"
)

// DeviceStatus is the canonical snapshot of one light. Color is meaningful
// when Mode is color mode, Preset when Mode is preset mode; the inactive
// field holds the last value seen for that mode, or nil before any
// notification mentioned it.
type DeviceStatus struct {
	Power   protocol.PowerState
	Mode    protocol.Mode
	Color   *protocol.ColorHSV
	Preset  *protocol.PresetSelection
	Updated time.Time // arrival time of the last applied notification
}

// Known reports whether any notification has been applied yet.
func (s DeviceStatus) Known() bool {
	return !s.Updated.IsZero()
}

// String returns a human-readable summary of the snapshot
func (s DeviceStatus) String() string {
	if !s.Known() {
		return "unknown"
	}

	var b strings.Builder
	b.WriteString(s.Power.String())
	switch s.Mode {
	case protocol.ModeColor:
		if s.Color != nil {
			fmt.Fprintf(&b, ", %s", s.Color)
		} else {
			b.WriteString(", color")
		}
	case protocol.ModePreset:
		if s.Preset != nil {
			fmt.Fprintf(&b, ", %s", s.Preset)
		} else {
			b.WriteString(", preset")
		}
	}
	return b.String()
}

// clone returns a copy with the payload pointers duplicated
func (s DeviceStatus) clone() DeviceStatus {
	out := s
	if s.Color != nil {
		c := *s.Color
		out.Color = &c
	}
	if s.Preset != nil {
		p := *s.Preset
		out.Preset = &p
	}
	return out
}

// ChangeSet names the top-level snapshot fields a notification changed.
type ChangeSet struct {
	Power  bool
	Mode   bool
	Color  bool
	Preset bool
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool {
	return !c.Power && !c.Mode && !c.Color && !c.Preset
}

// Fields returns the names of the changed fields in a fixed order.
func (c ChangeSet) Fields() []string {
	var fields []string
	if c.Power {
		fields = append(fields, "power")
	}
	if c.Mode {
		fields = append(fields, "mode")
	}
	if c.Color {
		fields = append(fields, "color")
	}
	if c.Preset {
		fields = append(fields, "preset")
	}
	return fields
}

// String returns a debug representation of the change set
func (c ChangeSet) String() string {
	if c.Empty() {
		return "changes(none)"
	}
	return fmt.Sprintf("changes(%s)", strings.Join(c.Fields(), ", "))
}

// Tracker reconciles decoded notifications into one DeviceStatus. Create
// one per connected light; there are no package-level instances.
type Tracker struct {
	mu     sync.Mutex
	status DeviceStatus
}

// NewTracker returns a tracker holding an unknown snapshot.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Apply merges one decoded notification into the snapshot and reports
// which fields changed. Power and mode always track the notification; the
// payload overwrites only the field belonging to the reported mode, so the
// stale side survives mode switches exactly as it does on the device.
func (t *Tracker) Apply(parsed *protocol.ParsedStatus) ChangeSet {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changes ChangeSet

	if t.status.Power != parsed.Power {
		t.status.Power = parsed.Power
		changes.Power = true
	}
	if t.status.Mode != parsed.Mode {
		t.status.Mode = parsed.Mode
		changes.Mode = true
	}

	switch parsed.Mode {
	case protocol.ModeColor:
		if parsed.Color != nil && (t.status.Color == nil || *t.status.Color != *parsed.Color) {
			c := *parsed.Color
			t.status.Color = &c
			changes.Color = true
		}
	case protocol.ModePreset:
		if parsed.Preset != nil && (t.status.Preset == nil || *t.status.Preset != *parsed.Preset) {
			p := *parsed.Preset
			t.status.Preset = &p
			changes.Preset = true
		}
	}

	t.status.Updated = time.Now()
	return changes
}

// Snapshot returns an independent copy of the current snapshot.
func (t *Tracker) Snapshot() DeviceStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status.clone()
}
