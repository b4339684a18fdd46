package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	WaitModelLinear = "linear"
	WaitModelQueue  = "queue"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration
	RedisURL string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	PubNubUserID       string

	// Simulation
	TickInterval        time.Duration
	AdvanceProbability  float64
	PositionProbability float64
	MinutesPerPerson    float64
	WaitModel           string
	ServedTicketTTL     time.Duration
	RandomSeed          uint64

	// Admin
	AdminTokenHash     string
	RateLimitPerMinute int

	// Stats
	TotalServedBaseline int
	PeakHourFallback    string

	// Monitoring
	EnableMetrics bool
	MetricsPath   string
}

func LoadConfig() *Config {
	// .env is optional outside development
	_ = godotenv.Load()

	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		PubNubUserID:       getEnv("PUBNUB_USER_ID", "smart-queue"),

		// Simulation
		TickInterval:        getEnvAsDuration("TICK_INTERVAL", "3s"),
		AdvanceProbability:  getEnvAsFloat("ADVANCE_PROBABILITY", 0.3),
		PositionProbability: getEnvAsFloat("POSITION_PROBABILITY", 0.3),
		MinutesPerPerson:    getEnvAsFloat("MINUTES_PER_PERSON", 3),
		WaitModel:           getWaitModel("WAIT_MODEL"),
		ServedTicketTTL:     getEnvAsDuration("SERVED_TICKET_TTL", "2m"),
		RandomSeed:          uint64(getEnvAsInt("RANDOM_SEED", 0)),

		// Admin
		AdminTokenHash:     getEnv("ADMIN_TOKEN_HASH", ""),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),

		// Stats
		TotalServedBaseline: getEnvAsInt("TOTAL_SERVED_BASELINE", 245),
		PeakHourFallback:    getEnv("PEAK_HOUR_FALLBACK", "1:00 PM"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPath:   getEnv("METRICS_PATH", "/metrics"),
	}
}

// IsDevelopment reports whether demo conveniences (open admin routes) apply.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getWaitModel(key string) string {
	switch v := getEnv(key, WaitModelLinear); v {
	case WaitModelLinear, WaitModelQueue:
		return v
	default:
		return WaitModelLinear
	}
}
