package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Remote   RemoteConfig   `yaml:"remote"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

// RemoteConfig points at the flight/booking/payment collaborator service.
type RemoteConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// BookingConfig carries tunable product policy. The passenger-age bounds
// and the premium seat surcharge are policy constants, not invariants.
type BookingConfig struct {
	MinPassengerAgeYears  int   `yaml:"min_passenger_age_years"`
	MaxPassengerAgeYears  int   `yaml:"max_passenger_age_years"`
	PremiumSurchargeCents int64 `yaml:"premium_surcharge_cents"`
	LocationsCacheTTL     int   `yaml:"locations_cache_ttl_seconds"`
	SubmissionLockTTL     int   `yaml:"submission_lock_ttl_seconds"`
	SessionMaxAgeMinutes  int   `yaml:"session_max_age_minutes"`
}

type WorkerConfig struct {
	ReconcileSweepMinutes int `yaml:"reconcile_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Booking.MinPassengerAgeYears == 0 {
		c.Booking.MinPassengerAgeYears = 2
	}
	if c.Booking.MaxPassengerAgeYears == 0 {
		c.Booking.MaxPassengerAgeYears = 120
	}
	if c.Booking.PremiumSurchargeCents == 0 {
		c.Booking.PremiumSurchargeCents = 1500
	}
	if c.Booking.SubmissionLockTTL == 0 {
		c.Booking.SubmissionLockTTL = 60
	}
	if c.Booking.LocationsCacheTTL == 0 {
		c.Booking.LocationsCacheTTL = 300
	}
	if c.Booking.SessionMaxAgeMinutes == 0 {
		c.Booking.SessionMaxAgeMinutes = 120
	}
	if c.Remote.TimeoutSeconds == 0 {
		c.Remote.TimeoutSeconds = 10
	}
	if c.Worker.ReconcileSweepMinutes == 0 {
		c.Worker.ReconcileSweepMinutes = 15
	}
}
