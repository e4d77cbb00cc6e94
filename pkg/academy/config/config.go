// Package config loads server configuration from the environment and builds
// the concrete repository and blob store implementations behind the service.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/academy/pkg/academy"
	repomemory "github.com/campuskit/academy/pkg/academy/repo/memory"
	repopg "github.com/campuskit/academy/pkg/academy/repo/postgres"
	memorystorage "github.com/campuskit/academy/pkg/academy/storage/memory"
	s3storage "github.com/campuskit/academy/pkg/academy/storage/s3"
)

// Config is the full server configuration, read from the environment.
type Config struct {
	Port        string `env:"ACADEMY_PORT" env-default:"8080"`
	Environment string `env:"ACADEMY_ENV" env-default:"development"` // development, production, testing

	DatabaseDriver string `env:"ACADEMY_DB_DRIVER" env-default:"memory"`      // "memory", "postgres"
	StorageDriver  string `env:"ACADEMY_STORAGE_DRIVER" env-default:"memory"` // "memory", "s3"

	MigrateOnStart bool `env:"ACADEMY_MIGRATE_ON_START" env-default:"true"`

	DB DbConfig
	S3 S3Config
}

// DbConfig holds PostgreSQL connection parameters.
type DbConfig struct {
	Port     uint16 `env:"ACADEMY_PG_PORT" env-default:"5432"`
	Host     string `env:"ACADEMY_PG_HOST" env-default:"localhost"`
	Name     string `env:"ACADEMY_PG_NAME" env-default:"academy_db"`
	User     string `env:"ACADEMY_PG_USER" env-default:"academy"`
	Password string `env:"ACADEMY_PG_PASSWORD" env-default:"pwd"`
}

// DatabaseURL builds a postgres connection URL from the parts.
func (c DbConfig) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

// S3Config holds object store connection parameters. The defaults target a
// local MinIO.
type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `env:"AWS_S3_BUCKET" env-default:"academy-assets"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"true"`
	PublicBaseURL   string `env:"ACADEMY_ASSET_BASE_URL" env-default:""`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DatabaseDriver != "memory" && c.DatabaseDriver != "postgres" {
		return errors.New("database driver must be 'memory' or 'postgres'")
	}
	if c.StorageDriver != "memory" && c.StorageDriver != "s3" {
		return errors.New("storage driver must be 'memory' or 's3'")
	}
	if c.StorageDriver == "s3" && c.S3.Bucket == "" {
		return errors.New("bucket is required when using s3 storage")
	}
	return nil
}

// BuildRepository constructs the configured repository. The returned pool is
// non-nil only for the postgres driver; the caller owns closing it.
func (c *Config) BuildRepository(ctx context.Context) (academy.Repository, *pgxpool.Pool, error) {
	switch c.DatabaseDriver {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DB.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return repopg.NewWithPool(pool), pool, nil
	default:
		return repomemory.New(), nil, nil
	}
}

// BuildBlobStore constructs the configured object store backend.
func (c *Config) BuildBlobStore() (academy.BlobStore, error) {
	switch c.StorageDriver {
	case "s3":
		backend, err := s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			PublicBaseURL:          c.S3.PublicBaseURL,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 backend: %w", err)
		}
		return backend, nil
	default:
		return memorystorage.New(), nil
	}
}
