package update

import (
	"os"
	"strconv"
	"strings"
)

type RuntimeConfig struct {
	UserID               string
	UTCOffsetHours       int
	DesktopNotifications bool
	SchedulerBuffer      int
	LookbackDays         int
	LatelyDays           int
	PrefsPath            string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		UserID:               "local",
		UTCOffsetHours:       0,
		DesktopNotifications: false,
		SchedulerBuffer:      64,
		LookbackDays:         28,
		LatelyDays:           7,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("ROUTINED_USER")); v != "" {
		cfg.UserID = v
	}
	if v, ok := getEnvInt("ROUTINED_UTC_OFFSET"); ok && v >= -14 && v <= 14 {
		cfg.UTCOffsetHours = v
	}
	if v, ok := getEnvBool("ROUTINED_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("ROUTINED_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvInt("ROUTINED_LOOKBACK_DAYS"); ok && v > 0 {
		cfg.LookbackDays = v
	}
	if v, ok := getEnvInt("ROUTINED_LATELY_DAYS"); ok && v > 0 {
		cfg.LatelyDays = v
	}
	if v := strings.TrimSpace(os.Getenv("ROUTINED_PREFS_PATH")); v != "" {
		cfg.PrefsPath = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
