package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// uiPrefs is the small slice of UI state worth keeping across sessions.
// Everything else is recomputed from the store on startup.
type uiPrefs struct {
	UTCOffsetHours int `json:"utc_offset_hours"`
	Density        int `json:"density"`
}

func (m *Model) persistPrefsQuietly() {
	if err := m.persistUIPrefs(); err != nil {
		m.Status = StatusBar{Text: "persist prefs failed: " + err.Error(), IsError: true}
	}
}

func (m *Model) persistUIPrefs() error {
	if strings.TrimSpace(m.prefsFilePath) == "" {
		return nil
	}
	dir := filepath.Dir(m.prefsFilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(uiPrefs{
		UTCOffsetHours: m.UTCOffset,
		Density:        m.uiDensity,
	}, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.prefsFilePath + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.prefsFilePath)
}

func loadUIPrefs(path string) (*uiPrefs, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, nil
	}
	var prefs uiPrefs
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}
