package discovery

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/muurk/fairyctl/internal/ble"
	"github.com/muurk/fairyctl/internal/gatt"
)

const (
	// DefaultScanTimeout is the default timeout for light discovery
	DefaultScanTimeout = 10 * time.Second
)

// Filter returns the scan filter matching Hello Fairy lights: the
// vendor UART service or the advertised name prefix. Some firmware
// revisions omit the service UUID from the advertisement, so the name
// prefix is matched as well.
func Filter() ble.ScanFilter {
	return ble.ScanFilter{
		ServiceUUID: gatt.ServiceUUID,
		NamePrefix:  gatt.NamePrefix,
	}
}

// Scanner handles BLE light discovery
type Scanner struct {
	// Adapter is the BLE adapter used for scanning
	Adapter ble.Adapter

	// Timeout is the maximum time to wait for light discovery
	Timeout time.Duration
}

// NewScanner creates a new scanner with default settings
func NewScanner(adapter ble.Adapter) *Scanner {
	return &Scanner{
		Adapter: adapter,
		Timeout: DefaultScanTimeout,
	}
}

// ScanForLights discovers all Hello Fairy lights in radio range
// Returns a list of discovered lights or an error
func (s *Scanner) ScanForLights() ([]*Light, error) {
	return s.ScanForLightsWithContext(context.Background())
}

// ScanForLightsWithContext discovers lights with a custom context.
// Repeated advertisements from the same light are collapsed into one
// record carrying the latest RSSI.
func (s *Scanner) ScanForLightsWithContext(ctx context.Context) ([]*Light, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var mu sync.Mutex
	seen := make(map[string]*Light)

	err := s.Adapter.Scan(ctx, Filter(), func(p ble.Peripheral) {
		mu.Lock()
		defer mu.Unlock()
		record(seen, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for lights: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return sorted(seen), nil
}

// WaitForLight waits for a specific light identified by address, full
// name or ShortID. Returns the light or an error if not found within
// the timeout.
func (s *Scanner) WaitForLight(target string) (*Light, error) {
	return s.WaitForLightWithContext(context.Background(), target)
}

// WaitForLightWithContext waits for a specific light with a custom context
func (s *Scanner) WaitForLightWithContext(ctx context.Context, target string) (*Light, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	lightChan := make(chan *Light, 1)

	err := s.Adapter.Scan(ctx, Filter(), func(p ble.Peripheral) {
		light := fromPeripheral(p)
		if !light.Matches(target) {
			return
		}
		select {
		case lightChan <- light:
		default:
		}
		cancel() // Found the light, stop the scan
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for lights: %w", err)
	}

	select {
	case light := <-lightChan:
		return light, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("light %s not found within timeout", target)
	}
}

// record merges an advertisement into the seen set. A repeat updates
// RSSI and fills in a name the earlier advertisement lacked.
func record(seen map[string]*Light, p ble.Peripheral) {
	existing, ok := seen[p.Address]
	if !ok {
		seen[p.Address] = fromPeripheral(p)
		return
	}

	existing.RSSI = p.RSSI
	existing.DiscoveredAt = time.Now()
	if existing.Name == "" && p.Name != "" {
		existing.Name = p.Name
	}
}

// sorted returns the seen lights strongest signal first, name as the
// tie breaker.
func sorted(seen map[string]*Light) []*Light {
	lights := make([]*Light, 0, len(seen))
	for _, l := range seen {
		lights = append(lights, l)
	}
	sort.Slice(lights, func(i, j int) bool {
		if lights[i].RSSI != lights[j].RSSI {
			return lights[i].RSSI > lights[j].RSSI
		}
		return lights[i].Name < lights[j].Name
	})
	return lights
}

func fromPeripheral(p ble.Peripheral) *Light {
	return &Light{
		Name:         p.Name,
		Address:      p.Address,
		RSSI:         p.RSSI,
		DiscoveredAt: time.Now(),
	}
}

// ScanForLights is a convenience function to scan with a custom timeout
func ScanForLights(adapter ble.Adapter, timeout time.Duration) ([]*Light, error) {
	scanner := NewScanner(adapter)
	scanner.Timeout = timeout
	return scanner.ScanForLights()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan(adapter ble.Adapter) ([]*Light, error) {
	scanner := NewScanner(adapter)
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForLights()
}

// FindLight searches for a specific light with the default timeout
func FindLight(adapter ble.Adapter, target string) (*Light, error) {
	scanner := NewScanner(adapter)
	return scanner.WaitForLight(target)
}
