package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ReferenceCSV      = "csv"
	ReferencePostgres = "postgres"

	SinkNone  = "none"
	SinkAMQP  = "amqp"
	SinkStomp = "stomp"
	SinkNATS  = "nats"
)

type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Workers   int             `yaml:"workers"`
	HTTPAddr  string          `yaml:"http_addr"`
	Reference ReferenceConfig `yaml:"reference"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	RabbitMQ  RabbitConfig    `yaml:"rabbitmq"`
	Stomp     StompConfig     `yaml:"stomp"`
	NATS      NATSConfig      `yaml:"nats"`
	Sink      SinkConfig      `yaml:"sink"`
}

// ReferenceConfig selects where operator and TIPLOC names come from.
type ReferenceConfig struct {
	Source       string        `yaml:"source"`
	OperatorsCSV string        `yaml:"operators_csv"`
	StationsCSV  string        `yaml:"stations_csv"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DB       string `yaml:"db"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DB,
	)
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

type RabbitConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Queue    string `yaml:"queue"`
}

func (c RabbitConfig) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/",
	}
	return u.String()
}

type StompConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Destination string `yaml:"destination"`
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type SinkConfig struct {
	Kind      string `yaml:"kind"`
	BatchSize int    `yaml:"batch_size"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Workers:  1,
		HTTPAddr: ":3000",
		Reference: ReferenceConfig{
			Source:       ReferenceCSV,
			OperatorsCSV: "lookup_tables/operator-lookup.csv",
			StationsCSV:  "lookup_tables/tiploc-lookup.csv",
			CacheTTL:     6 * time.Hour,
		},
		Postgres: PostgresConfig{Host: "localhost", Port: "5432", User: "postgres", DB: "pex"},
		// default to the redis service in the cluster
		Redis:    RedisConfig{Addr: "redis:6379"},
		RabbitMQ: RabbitConfig{User: "guest", Password: "guest", Host: "localhost", Port: "5672", Queue: "pex-events"},
		Stomp:    StompConfig{Destination: "/queue/pex-events"},
		NATS:     NATSConfig{URL: "nats://127.0.0.1:4222", Subject: "pex.events"},
		Sink:     SinkConfig{Kind: SinkNone, BatchSize: 500},
	}
}

// Load reads .env, then the YAML file at path, then environment overrides.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.HTTPAddr, "PEX_HTTP_ADDR")

	setString(&c.Reference.Source, "PEX_REFERENCE_SOURCE")
	setString(&c.Reference.OperatorsCSV, "PEX_OPERATORS_CSV")
	setString(&c.Reference.StationsCSV, "PEX_STATIONS_CSV")

	setString(&c.Postgres.Host, "POSTGRES_HOST")
	setString(&c.Postgres.Port, "POSTGRES_PORT")
	setString(&c.Postgres.User, "POSTGRES_USER")
	setString(&c.Postgres.Password, "POSTGRES_PASSWORD")
	setString(&c.Postgres.DB, "POSTGRES_DB")

	setString(&c.Redis.Addr, "REDIS_ADDR")

	setString(&c.RabbitMQ.User, "MQ_USER")
	setString(&c.RabbitMQ.Password, "MQ_PASSWORD")
	setString(&c.RabbitMQ.Host, "MQ_HOST")
	setString(&c.RabbitMQ.Port, "MQ_PORT")
	setString(&c.RabbitMQ.Queue, "PEX_MQ_QUEUE")

	setString(&c.Stomp.Endpoint, "NR_FEEDS_ENDPOINT")
	setString(&c.Stomp.Username, "NR_FEEDS_USERNAME")
	setString(&c.Stomp.Password, "NR_FEEDS_PASSWORD")
	setString(&c.Stomp.Destination, "PEX_STOMP_DESTINATION")

	setString(&c.NATS.URL, "NATS_URL")
	setString(&c.NATS.Subject, "PEX_NATS_SUBJECT")

	setString(&c.Sink.Kind, "PEX_SINK")

	if err := setInt(&c.Workers, "PEX_WORKERS"); err != nil {
		return err
	}
	if err := setInt(&c.Sink.BatchSize, "PEX_BATCH_SIZE"); err != nil {
		return err
	}
	if err := setInt(&c.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}

	if v := os.Getenv("PEX_REFERENCE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PEX_REFERENCE_TTL: %q", v)
		}
		c.Reference.CacheTTL = ttl
	}

	return nil
}

func (c *Config) Validate() error {
	switch c.Reference.Source {
	case ReferenceCSV:
		if c.Reference.OperatorsCSV == "" || c.Reference.StationsCSV == "" {
			return errors.New("csv reference source needs both operators_csv and stations_csv")
		}
	case ReferencePostgres:
	default:
		return fmt.Errorf("unknown reference source %q", c.Reference.Source)
	}

	switch c.Sink.Kind {
	case SinkNone, SinkAMQP, SinkStomp, SinkNATS:
	default:
		return fmt.Errorf("unknown sink %q", c.Sink.Kind)
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Sink.BatchSize <= 0 {
		return fmt.Errorf("sink batch size must be positive, got %d", c.Sink.BatchSize)
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = n
	return nil
}
