package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	// Should contain "fairyctl"
	if !strings.Contains(configDir, "fairyctl") {
		t.Errorf("GetConfigDir() = %v, should contain 'fairyctl'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with lights.yaml
	if filepath.Base(configPath) != "lights.yaml" {
		t.Errorf("GetConfigPath() should end with 'lights.yaml', got: %v", configPath)
	}

	t.Logf("Config path: %s", configPath)
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Lights == nil {
		t.Error("NewRegistry().Lights is nil")
	}
	if len(reg.Lights) != 0 {
		t.Errorf("NewRegistry() has %d lights, want 0", len(reg.Lights))
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences is nil")
	}
	if reg.Preferences.ScanTimeout != 10 {
		t.Errorf("NewRegistry().Preferences.ScanTimeout = %v, want 10", reg.Preferences.ScanTimeout)
	}
	if !reg.Preferences.AutoConnect {
		t.Error("NewRegistry().Preferences.AutoConnect = false, want true")
	}
}

func TestEnsureLight(t *testing.T) {
	reg := NewRegistry()
	address := "A4:C1:38:12:34:56"

	light := reg.EnsureLight(address)
	if light == nil {
		t.Fatal("EnsureLight() returned nil")
	}

	// Second call must return the same instance
	again := reg.EnsureLight(address)
	if light != again {
		t.Error("EnsureLight() returned a different instance on second call")
	}

	// Works even when the map was never initialized
	bare := &Registry{Version: 1}
	if bare.EnsureLight(address) == nil {
		t.Error("EnsureLight() on registry with nil map returned nil")
	}
}

func TestTouchSeen(t *testing.T) {
	reg := NewRegistry()
	address := "A4:C1:38:12:34:56"

	before := time.Now()
	reg.TouchSeen(address, "Hello Fairy-0D5A")
	after := time.Now()

	light := reg.GetLight(address)
	if light == nil {
		t.Fatal("TouchSeen() did not create the light entry")
	}
	if light.Name != "Hello Fairy-0D5A" {
		t.Errorf("Name = %q, want %q", light.Name, "Hello Fairy-0D5A")
	}
	if light.LastSeen.Before(before) || light.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, want between %v and %v", light.LastSeen, before, after)
	}
	if !light.FirstSeen.Equal(light.LastSeen) {
		t.Error("FirstSeen should match LastSeen on first sighting")
	}

	// A later sighting bumps LastSeen but never FirstSeen, and an
	// empty advertised name keeps the recorded one.
	firstSeen := light.FirstSeen
	time.Sleep(time.Millisecond)
	reg.TouchSeen(address, "")

	if !light.FirstSeen.Equal(firstSeen) {
		t.Error("FirstSeen changed on second sighting")
	}
	if !light.LastSeen.After(firstSeen) {
		t.Error("LastSeen was not advanced on second sighting")
	}
	if light.Name != "Hello Fairy-0D5A" {
		t.Errorf("Name = %q after empty-name sighting, want %q", light.Name, "Hello Fairy-0D5A")
	}
}

func TestSetNickname(t *testing.T) {
	reg := NewRegistry()
	address := "A4:C1:38:12:34:56"

	reg.SetNickname(address, "bedroom")

	light := reg.GetLight(address)
	if light == nil {
		t.Fatal("SetNickname() did not create the light entry")
	}
	if light.Nickname != "bedroom" {
		t.Errorf("Nickname = %q, want %q", light.Nickname, "bedroom")
	}
}

func TestRememberLevels(t *testing.T) {
	reg := NewRegistry()
	address := "A4:C1:38:12:34:56"

	reg.RememberLevels(address, 17, 80)

	light := reg.GetLight(address)
	if light.LastPreset != 17 || light.LastBrightness != 80 {
		t.Errorf("levels = (%d, %d), want (17, 80)", light.LastPreset, light.LastBrightness)
	}

	// Zero values keep what was stored
	reg.RememberLevels(address, 0, 40)
	if light.LastPreset != 17 {
		t.Errorf("LastPreset = %d after zero update, want 17", light.LastPreset)
	}
	if light.LastBrightness != 40 {
		t.Errorf("LastBrightness = %d, want 40", light.LastBrightness)
	}

	reg.RememberLevels(address, 3, 0)
	if light.LastPreset != 3 {
		t.Errorf("LastPreset = %d, want 3", light.LastPreset)
	}
	if light.LastBrightness != 40 {
		t.Errorf("LastBrightness = %d after zero update, want 40", light.LastBrightness)
	}
}

func TestForget(t *testing.T) {
	reg := NewRegistry()
	address := "A4:C1:38:12:34:56"
	other := "A4:C1:38:AA:BB:CC"

	reg.SetNickname(address, "bedroom")
	reg.EnsureLight(other)

	if reg.Forget("unknown") {
		t.Error("Forget() on unknown address returned true")
	}

	if !reg.Forget(address) {
		t.Error("Forget() on known address returned false")
	}
	if reg.GetLight(address) != nil {
		t.Error("Forget() left the entry in the registry")
	}
	if reg.GetLight(other) == nil {
		t.Error("Forget() removed an unrelated entry")
	}
}

func TestForget_ClearsDefaultLight(t *testing.T) {
	tests := []struct {
		name         string
		defaultLight string
		wantCleared  bool
	}{
		{"default by address", "A4:C1:38:12:34:56", true},
		{"default by nickname", "bedroom", true},
		{"default points elsewhere", "porch", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.SetNickname("A4:C1:38:12:34:56", "bedroom")
			reg.SetNickname("A4:C1:38:AA:BB:CC", "porch")
			reg.Preferences.DefaultLight = tt.defaultLight

			reg.Forget("A4:C1:38:12:34:56")

			cleared := reg.Preferences.DefaultLight == ""
			if cleared != tt.wantCleared {
				t.Errorf("DefaultLight = %q after Forget(), wantCleared %v",
					reg.Preferences.DefaultLight, tt.wantCleared)
			}
		})
	}
}

func TestResolveTarget(t *testing.T) {
	reg := NewRegistry()
	bedroom := "A4:C1:38:12:34:56"
	porch := "A4:C1:38:AA:BB:CC"
	reg.TouchSeen(bedroom, "Hello Fairy-0D5A")
	reg.SetNickname(bedroom, "bedroom")
	reg.TouchSeen(porch, "Hello Fairy-BEEF")

	tests := []struct {
		name         string
		target       string
		defaultLight string
		want         string
		wantOK       bool
	}{
		{"exact address", bedroom, "", bedroom, true},
		{"address case-insensitive", "a4:c1:38:12:34:56", "", bedroom, true},
		{"nickname", "bedroom", "", bedroom, true},
		{"nickname case-insensitive", "BEDROOM", "", bedroom, true},
		{"advertised name", "Hello Fairy-BEEF", "", porch, true},
		{"name suffix", "0d5a", "", bedroom, true},
		{"unknown target", "garage", "", "", false},
		{"empty without default", "", "", "", false},
		{"empty with default nickname", "", "bedroom", bedroom, true},
		{"empty with default address", "", porch, porch, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg.Preferences.DefaultLight = tt.defaultLight
			got, ok := reg.ResolveTarget(tt.target)
			if ok != tt.wantOK {
				t.Fatalf("ResolveTarget(%q) ok = %v, want %v", tt.target, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ResolveTarget(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}
}

func TestResolveTarget_SingleLightFallback(t *testing.T) {
	reg := NewRegistry()
	address := "A4:C1:38:12:34:56"
	reg.EnsureLight(address)

	got, ok := reg.ResolveTarget("")
	if !ok || got != address {
		t.Errorf("ResolveTarget(\"\") = (%q, %v), want (%q, true)", got, ok, address)
	}
}

func TestDisplayName(t *testing.T) {
	reg := NewRegistry()
	address := "A4:C1:38:12:34:56"

	if got := reg.DisplayName(address); got != address {
		t.Errorf("DisplayName() for unknown light = %q, want the address", got)
	}

	reg.TouchSeen(address, "Hello Fairy-0D5A")
	if got := reg.DisplayName(address); got != "Hello Fairy-0D5A" {
		t.Errorf("DisplayName() = %q, want the advertised name", got)
	}

	reg.SetNickname(address, "bedroom")
	if got := reg.DisplayName(address); got != "bedroom" {
		t.Errorf("DisplayName() = %q, want the nickname", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)

	reg := NewRegistry()
	address := "A4:C1:38:12:34:56"
	reg.TouchSeen(address, "Hello Fairy-0D5A")
	reg.SetNickname(address, "bedroom")
	reg.RememberLevels(address, 41, 65)
	reg.Preferences.DefaultLight = "bedroom"

	if err := reg.saveToFile(path); err != nil {
		t.Fatalf("saveToFile() error = %v", err)
	}

	// The written file carries the header comment
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Fairyctl Configuration File") {
		t.Error("saved config is missing the header comment")
	}

	loaded, err := loadRegistryFromFile(path)
	if err != nil {
		t.Fatalf("loadRegistryFromFile() error = %v", err)
	}

	light := loaded.GetLight(address)
	if light == nil {
		t.Fatal("loaded registry is missing the saved light")
	}
	if light.Nickname != "bedroom" {
		t.Errorf("loaded Nickname = %q, want %q", light.Nickname, "bedroom")
	}
	if light.Name != "Hello Fairy-0D5A" {
		t.Errorf("loaded Name = %q, want %q", light.Name, "Hello Fairy-0D5A")
	}
	if light.LastPreset != 41 || light.LastBrightness != 65 {
		t.Errorf("loaded levels = (%d, %d), want (41, 65)", light.LastPreset, light.LastBrightness)
	}
	if loaded.Preferences.DefaultLight != "bedroom" {
		t.Errorf("loaded DefaultLight = %q, want %q", loaded.Preferences.DefaultLight, "bedroom")
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)

	reg, err := loadRegistryFromFile(path)
	if err != nil {
		t.Fatalf("loadRegistryFromFile() on missing file error = %v", err)
	}
	if reg.Version != 1 || len(reg.Lights) != 0 {
		t.Error("missing file should yield a fresh default registry")
	}
}

func TestLoadUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(path, []byte("version: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadRegistryFromFile(path); err == nil {
		t.Error("loadRegistryFromFile() accepted an unsupported version")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadRegistryFromFile(path); err == nil {
		t.Error("loadRegistryFromFile() accepted corrupt YAML")
	}
}

func BenchmarkNewRegistry(b *testing.B) {
	for i := 0; i < b.N; i++ {
		NewRegistry()
	}
}

func BenchmarkEnsureLight(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureLight("A4:C1:38:12:34:56")
	}
}

func BenchmarkResolveTarget(b *testing.B) {
	reg := NewRegistry()
	for i, address := range []string{
		"A4:C1:38:12:34:56",
		"A4:C1:38:AA:BB:CC",
		"A4:C1:38:00:11:22",
	} {
		reg.TouchSeen(address, "Hello Fairy-0D5A")
		if i == 2 {
			reg.SetNickname(address, "bedroom")
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.ResolveTarget("bedroom")
	}
}
