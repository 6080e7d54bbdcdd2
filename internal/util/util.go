package util

import (
	"github.com/berfenger/aseko2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Aseko: config.AsekoConfig{
			BaseURL:              "https://pool.example.invalid",
			APIKey:               "test-api-key",
			PollIntervalMillis:   60000,
			RequestTimeoutMillis: 10000,
		},
		MQTT: config.MQTTConfig{
			Host: "localhost",
			Port: 1883,
		},
		MonitorConfig: config.MonitorConfig{
			Thresholds: map[string]float64{
				"water_temperature": 0.1,
			},
		},
		Port: 8080,
	}
}
