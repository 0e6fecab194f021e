package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	MinIO    MinIOConfig
	RabbitMQ RabbitMQConfig
	Services ServicesConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"reelstore"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"reelstore"`
	DBName   string `envconfig:"POSTGRES_DB" default:"reelstore"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CacheConfig struct {
	// TTL is stamped on every cache write; there is no sliding expiration.
	TTL time.Duration `envconfig:"CACHE_TTL" default:"1h"`
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"posters"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type RabbitMQConfig struct {
	Host       string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port       int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User       string `envconfig:"RABBITMQ_USER" default:"reelstore"`
	Password   string `envconfig:"RABBITMQ_PASSWORD" default:"reelstore"`
	VHost      string `envconfig:"RABBITMQ_VHOST" default:"/"`
	MaxRetries int    `envconfig:"RABBITMQ_MAX_RETRIES" default:"3"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

// ServicesConfig holds the base URLs of the peer record services,
// consumed by the watchlist service.
type ServicesConfig struct {
	UserServiceURL  string `envconfig:"USER_SERVICE_URL" default:"http://localhost:8081"`
	MovieServiceURL string `envconfig:"MOVIE_SERVICE_URL" default:"http://localhost:8080"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
