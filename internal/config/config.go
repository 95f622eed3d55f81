package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config optitrack-data (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}

	// Tire health thresholds. Both metric bands are configuration, not
	// constants: the deployed fleets disagree on the measurement scale
	// (psi-like vs percentage-like), so each installation supplies its own.
	Thresholds ThresholdsConfig

	// Blob storage for profile pictures
	Blob BlobConfig

	// Legacy realtime-database snapshot source (Firebase-style REST export)
	RTDB RTDBConfig

	// MQTT TPMS ingest trigger (disabled by default)
	MQTT MQTTConfig
}

// DatabaseConfig PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the database connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// ThresholdsConfig per-metric health bands.
// value >= GoodMin -> GOOD; WarnMin <= value < GoodMin -> CHECK; below -> BAD.
type ThresholdsConfig struct {
	PressureGoodMin float64
	PressureWarnMin float64
	TreadGoodMin    float64
	TreadWarnMin    float64
}

// BlobConfig profile picture storage
type BlobConfig struct {
	Dir     string // local directory for uploaded blobs
	BaseURL string // public URL prefix for serving them
}

// RTDBConfig legacy realtime database REST export
type RTDBConfig struct {
	BaseURL string // e.g. "https://tiremngdtbase.firebaseio.com"
	Auth    string // auth token query param, optional
}

// MQTTConfig TPMS sensor ingest configuration
type MQTTConfig struct {
	Enabled  bool
	Broker   string // e.g. "tcp://localhost:1883"
	ClientID string
	Username string
	Password string
	Topic    string // e.g. "optitrack/tpms/#"
	QoS      byte
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "optitrack")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// Defaults follow the psi/mm scale used by the entry forms.
	cfg.Thresholds.PressureGoodMin = parseFloat(getEnv("PRESSURE_GOOD_MIN", "45"), 45)
	cfg.Thresholds.PressureWarnMin = parseFloat(getEnv("PRESSURE_WARN_MIN", "42"), 42)
	cfg.Thresholds.TreadGoodMin = parseFloat(getEnv("TREAD_GOOD_MIN", "10"), 10)
	cfg.Thresholds.TreadWarnMin = parseFloat(getEnv("TREAD_WARN_MIN", "5"), 5)

	cfg.Blob.Dir = getEnv("BLOB_DIR", "./data/blobs")
	cfg.Blob.BaseURL = getEnv("BLOB_BASE_URL", "/blobs")

	cfg.RTDB.BaseURL = getEnv("RTDB_BASE_URL", "")
	cfg.RTDB.Auth = getEnv("RTDB_AUTH", "")

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "optitrack-data-tpms")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "optitrack/tpms/#")
	cfg.MQTT.QoS = byte(parseInt(getEnv("MQTT_QOS", "1"), 1))

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
