package update

import (
	"path/filepath"
	"testing"
)

func TestRuntimeConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("ROUTINED_USER", "kate")
	t.Setenv("ROUTINED_UTC_OFFSET", "-8")
	t.Setenv("ROUTINED_DESKTOP_NOTIFICATIONS", "yes")
	t.Setenv("ROUTINED_SCHEDULER_BUFFER", "128")
	t.Setenv("ROUTINED_LOOKBACK_DAYS", "56")
	t.Setenv("ROUTINED_LATELY_DAYS", "14")
	t.Setenv("ROUTINED_PREFS_PATH", "/tmp/prefs.json")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.UserID != "kate" {
		t.Fatalf("expected user kate, got %q", cfg.UserID)
	}
	if cfg.UTCOffsetHours != -8 {
		t.Fatalf("expected offset -8, got %d", cfg.UTCOffsetHours)
	}
	if !cfg.DesktopNotifications {
		t.Fatal("expected desktop notifications enabled")
	}
	if cfg.SchedulerBuffer != 128 {
		t.Fatalf("expected buffer 128, got %d", cfg.SchedulerBuffer)
	}
	if cfg.LookbackDays != 56 || cfg.LatelyDays != 14 {
		t.Fatalf("unexpected KPI windows: %d/%d", cfg.LookbackDays, cfg.LatelyDays)
	}
	if cfg.PrefsPath != "/tmp/prefs.json" {
		t.Fatalf("unexpected prefs path: %q", cfg.PrefsPath)
	}
}

func TestRuntimeConfigFromEnvKeepsDefaultsOnBadValues(t *testing.T) {
	t.Setenv("ROUTINED_UTC_OFFSET", "15")
	t.Setenv("ROUTINED_DESKTOP_NOTIFICATIONS", "maybe")
	t.Setenv("ROUTINED_SCHEDULER_BUFFER", "-1")
	t.Setenv("ROUTINED_LOOKBACK_DAYS", "abc")

	base := DefaultRuntimeConfig()
	cfg := RuntimeConfigFromEnv(base)
	if cfg.UTCOffsetHours != base.UTCOffsetHours {
		t.Fatalf("out-of-range offset must be ignored, got %d", cfg.UTCOffsetHours)
	}
	if cfg.DesktopNotifications != base.DesktopNotifications {
		t.Fatal("unparseable bool must be ignored")
	}
	if cfg.SchedulerBuffer != base.SchedulerBuffer {
		t.Fatalf("non-positive buffer must be ignored, got %d", cfg.SchedulerBuffer)
	}
	if cfg.LookbackDays != base.LookbackDays {
		t.Fatalf("non-numeric lookback must be ignored, got %d", cfg.LookbackDays)
	}
}

func TestUIPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	m := NewModel()
	m.prefsFilePath = path
	m.UTCOffset = 9
	m.uiDensity = 2

	if err := m.persistUIPrefs(); err != nil {
		t.Fatalf("persist prefs: %v", err)
	}
	prefs, err := loadUIPrefs(path)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if prefs == nil {
		t.Fatal("expected prefs loaded")
	}
	if prefs.UTCOffsetHours != 9 || prefs.Density != 2 {
		t.Fatalf("unexpected prefs: %+v", prefs)
	}
}

func TestLoadUIPrefsMissingFile(t *testing.T) {
	prefs, err := loadUIPrefs(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if prefs != nil {
		t.Fatalf("expected nil prefs for missing file, got %+v", prefs)
	}
}
