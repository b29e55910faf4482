package config

import (
	"strings"
	"time"
)

// MonitorConfig holds the screening thresholds and risk category lists used
// by the detection rules. Values are static configuration loaded at startup;
// rules never derive them from data.
type MonitorConfig struct {
	AmountThresholdMedium float64
	AmountThresholdHigh   float64

	VelocityMaxPerMinute int
	VelocityMaxPerHour   int
	VelocityMaxPerDay    int

	DailyLimitMedium float64
	DailyLimitHigh   float64

	HighRiskMerchants   []string
	MediumRiskMerchants []string

	RapidSuccessionWindow time.Duration
	RapidSuccessionGap    time.Duration

	// SerializePerUser makes Process calls for the same user run one at a
	// time, closing the window-query race between simultaneous submissions.
	SerializePerUser bool
}

var defaultHighRiskMerchants = []string{
	"crypto_exchange",
	"gambling",
	"betting",
	"wire_transfer",
	"cash_advance",
	"money_transfer",
}

var defaultMediumRiskMerchants = []string{
	"jewelry",
	"precious_metals",
	"luxury_goods",
}

// LoadMonitorConfig reads the monitoring configuration from the environment,
// falling back to the stock thresholds.
func LoadMonitorConfig() *MonitorConfig {
	return &MonitorConfig{
		AmountThresholdMedium: GetFloat64Env("AMOUNT_THRESHOLD_MEDIUM", 200000),
		AmountThresholdHigh:   GetFloat64Env("AMOUNT_THRESHOLD_HIGH", 500000),

		VelocityMaxPerMinute: GetIntEnv("VELOCITY_MAX_PER_MINUTE", 3),
		VelocityMaxPerHour:   GetIntEnv("VELOCITY_MAX_PER_HOUR", 5),
		VelocityMaxPerDay:    GetIntEnv("VELOCITY_MAX_PER_DAY", 10),

		DailyLimitMedium: GetFloat64Env("DAILY_LIMIT_MEDIUM", 500000),
		DailyLimitHigh:   GetFloat64Env("DAILY_LIMIT_HIGH", 1000000),

		HighRiskMerchants:   getListEnv("HIGH_RISK_MERCHANTS", defaultHighRiskMerchants),
		MediumRiskMerchants: getListEnv("MEDIUM_RISK_MERCHANTS", defaultMediumRiskMerchants),

		RapidSuccessionWindow: time.Duration(GetIntEnv("RAPID_SUCCESSION_WINDOW_SECONDS", 60)) * time.Second,
		RapidSuccessionGap:    time.Duration(GetIntEnv("RAPID_SUCCESSION_GAP_SECONDS", 30)) * time.Second,

		SerializePerUser: GetBoolEnv("MONITOR_SERIALIZE_PER_USER", false),
	}
}

func getListEnv(key string, defaultVal []string) []string {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
