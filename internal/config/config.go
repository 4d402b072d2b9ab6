package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	REST     RESTConfig
	Logging  LoggingConfig
	Security SecurityConfig
	Session  SessionConfig
	Kafka    KafkaConfig
	Calendar CalendarConfig
	Lists    ListsConfig
}

type ServerConfig struct {
	Port string
}

type RESTConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

type SecurityConfig struct {
	// JWTSecret enables signature verification of the backend token when set.
	JWTSecret string
}

type SessionConfig struct {
	StorePath string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

type CalendarConfig struct {
	EventDuration time.Duration
	FetchLimit    int
}

type ListsConfig struct {
	PageSize int
}

// Load reads the console configuration from the environment. Call godotenv first when a
// .env file should be honoured.
func Load() (*Config, error) {
	timeout, err := durationEnv("REST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	eventMinutes, err := intEnv("CALENDAR_EVENT_MINUTES", 45)
	if err != nil {
		return nil, err
	}
	fetchLimit, err := intEnv("CALENDAR_FETCH_LIMIT", 500)
	if err != nil {
		return nil, err
	}
	pageSize, err := intEnv("LIST_PAGE_SIZE", 10)
	if err != nil {
		return nil, err
	}

	brokers := listEnv("KAFKA_BROKERS")
	if len(brokers) == 0 {
		brokers = listEnv("KAFKA_BROKER")
	}
	topics := listEnv("KAFKA_TOPICS")
	if len(topics) == 0 && len(brokers) > 0 {
		topics = []string{"appointments.created", "appointments.updated", "appointments.deleted"}
	}

	cfg := &Config{
		Server: ServerConfig{Port: stringEnv("PORT", "8090")},
		REST: RESTConfig{
			BaseURL: stringEnv("REST_BASE_URL", "http://localhost:3000/api"),
			Timeout: timeout,
		},
		Logging: LoggingConfig{
			Directory: stringEnv("LOG_DIR", "./logs"),
			Level:     stringEnv("LOG_LEVEL", "info"),
			Format:    stringEnv("LOG_FORMAT", "text"),
		},
		Security: SecurityConfig{JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET"))},
		Session:  SessionConfig{StorePath: stringEnv("SESSION_STORE_PATH", "./console-session.db")},
		Kafka: KafkaConfig{
			Brokers: brokers,
			GroupID: stringEnv("KAFKA_GROUP_ID", "agenda-console"),
			Topics:  topics,
		},
		Calendar: CalendarConfig{
			EventDuration: time.Duration(eventMinutes) * time.Minute,
			FetchLimit:    fetchLimit,
		},
		Lists: ListsConfig{PageSize: pageSize},
	}
	return cfg, nil
}

func stringEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return value, nil
}

// durationEnv accepts Go durations ("15s") or a bare number of seconds.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return value, nil
}

func listEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
