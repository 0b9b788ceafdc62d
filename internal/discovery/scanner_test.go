package discovery

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/muurk/fairyctl/internal/ble"
)

// fakeAdapter replays a fixed advertisement sequence. It honors the
// scan filter the way the native adapter does, matching either the
// name prefix or a service advertisement, so tests can include foreign
// devices and nameless advertisements.
type fakeAdapter struct {
	advertisements []ble.Peripheral
	// serviceAddrs lists addresses advertising the filter's service.
	serviceAddrs map[string]bool
	scanErr      error
}

func (f *fakeAdapter) Enable() error { return nil }

func (f *fakeAdapter) Scan(ctx context.Context, filter ble.ScanFilter, found func(ble.Peripheral)) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	for _, p := range f.advertisements {
		if ctx.Err() != nil {
			return nil
		}
		nameMatch := filter.NamePrefix != "" && strings.HasPrefix(p.Name, filter.NamePrefix)
		serviceMatch := filter.ServiceUUID != "" && f.serviceAddrs[p.Address]
		if !nameMatch && !serviceMatch {
			continue
		}
		found(p)
	}
	<-ctx.Done()
	return nil
}

func (f *fakeAdapter) Connect(ctx context.Context, address string) (ble.Connection, error) {
	return nil, context.Canceled
}

func testScanner(adapter ble.Adapter) *Scanner {
	scanner := NewScanner(adapter)
	scanner.Timeout = 50 * time.Millisecond
	return scanner
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner(&fakeAdapter{})

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestScanner_ScanForLights(t *testing.T) {
	adapter := &fakeAdapter{
		advertisements: []ble.Peripheral{
			{Name: "Hello Fairy-0D2A", Address: "AA:BB:CC:DD:EE:01", RSSI: -70},
			{Name: "Hello Fairy-1234", Address: "AA:BB:CC:DD:EE:02", RSSI: -50},
			{Name: "Kitchen Speaker", Address: "AA:BB:CC:DD:EE:03", RSSI: -40},
		},
	}

	lights, err := testScanner(adapter).ScanForLights()
	if err != nil {
		t.Fatalf("ScanForLights() error = %v", err)
	}

	if len(lights) != 2 {
		t.Fatalf("ScanForLights() returned %d lights, want 2", len(lights))
	}

	// Strongest signal first.
	if lights[0].Name != "Hello Fairy-1234" {
		t.Errorf("lights[0].Name = %v, want Hello Fairy-1234", lights[0].Name)
	}
	if lights[1].Name != "Hello Fairy-0D2A" {
		t.Errorf("lights[1].Name = %v, want Hello Fairy-0D2A", lights[1].Name)
	}
}

func TestScanner_ScanForLights_DedupesRepeats(t *testing.T) {
	adapter := &fakeAdapter{
		advertisements: []ble.Peripheral{
			{Name: "Hello Fairy-0D2A", Address: "AA:BB:CC:DD:EE:01", RSSI: -70},
			{Name: "Hello Fairy-0D2A", Address: "AA:BB:CC:DD:EE:01", RSSI: -64},
			{Name: "Hello Fairy-0D2A", Address: "AA:BB:CC:DD:EE:01", RSSI: -58},
		},
	}

	lights, err := testScanner(adapter).ScanForLights()
	if err != nil {
		t.Fatalf("ScanForLights() error = %v", err)
	}

	if len(lights) != 1 {
		t.Fatalf("ScanForLights() returned %d lights, want 1", len(lights))
	}
	if lights[0].RSSI != -58 {
		t.Errorf("lights[0].RSSI = %d, want latest value -58", lights[0].RSSI)
	}
}

func TestScanner_ScanForLights_FillsLateName(t *testing.T) {
	// The first advertisement matches on the service UUID alone and
	// carries no name; the scan response provides it.
	adapter := &fakeAdapter{
		advertisements: []ble.Peripheral{
			{Name: "", Address: "AA:BB:CC:DD:EE:01", RSSI: -70},
			{Name: "Hello Fairy-0D2A", Address: "AA:BB:CC:DD:EE:01", RSSI: -66},
		},
		serviceAddrs: map[string]bool{"AA:BB:CC:DD:EE:01": true},
	}

	lights, err := testScanner(adapter).ScanForLights()
	if err != nil {
		t.Fatalf("ScanForLights() error = %v", err)
	}
	if len(lights) != 1 {
		t.Fatalf("ScanForLights() returned %d lights, want 1", len(lights))
	}
	if lights[0].Name != "Hello Fairy-0D2A" {
		t.Errorf("lights[0].Name = %q, want name from later advertisement", lights[0].Name)
	}
	if lights[0].RSSI != -66 {
		t.Errorf("lights[0].RSSI = %d, want -66", lights[0].RSSI)
	}
}

func TestScanner_ScanForLights_Empty(t *testing.T) {
	lights, err := testScanner(&fakeAdapter{}).ScanForLights()
	if err != nil {
		t.Fatalf("ScanForLights() error = %v", err)
	}
	if len(lights) != 0 {
		t.Errorf("ScanForLights() returned %d lights, want 0", len(lights))
	}
}

func TestScanner_ScanForLights_Error(t *testing.T) {
	adapter := &fakeAdapter{scanErr: context.DeadlineExceeded}

	if _, err := testScanner(adapter).ScanForLights(); err == nil {
		t.Error("ScanForLights() with failing adapter succeeded, want error")
	}
}

func TestScanner_WaitForLight(t *testing.T) {
	adapter := &fakeAdapter{
		advertisements: []ble.Peripheral{
			{Name: "Hello Fairy-1234", Address: "AA:BB:CC:DD:EE:02", RSSI: -50},
			{Name: "Hello Fairy-0D2A", Address: "AA:BB:CC:DD:EE:01", RSSI: -70},
		},
	}

	tests := []struct {
		name   string
		target string
	}{
		{name: "by address", target: "AA:BB:CC:DD:EE:01"},
		{name: "by lowercase address", target: "aa:bb:cc:dd:ee:01"},
		{name: "by full name", target: "Hello Fairy-0D2A"},
		{name: "by short id", target: "0D2A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			light, err := testScanner(adapter).WaitForLight(tt.target)
			if err != nil {
				t.Fatalf("WaitForLight(%q) error = %v", tt.target, err)
			}
			if light.Address != "AA:BB:CC:DD:EE:01" {
				t.Errorf("WaitForLight(%q).Address = %v, want AA:BB:CC:DD:EE:01", tt.target, light.Address)
			}
			// A match ends the scan before the timeout.
			if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
				t.Errorf("WaitForLight(%q) took %v, want early return", tt.target, elapsed)
			}
		})
	}
}

func TestScanner_WaitForLight_NotFound(t *testing.T) {
	adapter := &fakeAdapter{
		advertisements: []ble.Peripheral{
			{Name: "Hello Fairy-1234", Address: "AA:BB:CC:DD:EE:02", RSSI: -50},
		},
	}

	if _, err := testScanner(adapter).WaitForLight("FFFF"); err == nil {
		t.Error("WaitForLight() for absent light succeeded, want error")
	}
}

func TestFilter(t *testing.T) {
	filter := Filter()

	if filter.ServiceUUID == "" {
		t.Error("Filter().ServiceUUID is empty")
	}
	if filter.NamePrefix != "Hello Fairy-" {
		t.Errorf("Filter().NamePrefix = %q, want %q", filter.NamePrefix, "Hello Fairy-")
	}
}
