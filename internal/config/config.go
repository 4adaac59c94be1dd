package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the console settings.
type Config struct {
	APIBaseURL   string
	SessionFile  string
	HTTPTimeout  time.Duration
	NotifyTTL    time.Duration
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string
	LogLevel     string
	LogFormat    string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be populated
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("API_BASE_URL", "http://localhost:8081/api")
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("NOTIFY_TTL", "5s")
	v.SetDefault("MQTT_BROKER_URL", "")
	v.SetDefault("MQTT_TOPIC", "fleet-rental/notifications")
	v.SetDefault("MQTT_CLIENT_ID", "rentalctl")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	return &Config{
		APIBaseURL:   strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		SessionFile:  v.GetString("SESSION_FILE"),
		HTTPTimeout:  durationOr(v.GetString("HTTP_TIMEOUT"), 15*time.Second),
		NotifyTTL:    durationOr(v.GetString("NOTIFY_TTL"), 5*time.Second),
		MQTTBroker:   v.GetString("MQTT_BROKER_URL"),
		MQTTTopic:    v.GetString("MQTT_TOPIC"),
		MQTTClientID: v.GetString("MQTT_CLIENT_ID"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFormat:    v.GetString("LOG_FORMAT"),
	}, nil
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

func durationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".rentalctl-session.json"
	}
	return filepath.Join(dir, "rentalctl", "session.json")
}
