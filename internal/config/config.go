package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"` // gin mode: debug, release, test
}

// StorageConfig selects where the plan document lives. Only the section
// matching Driver is used.
type StorageConfig struct {
	Driver   string         `mapstructure:"driver"`
	File     FileConfig     `mapstructure:"file"`
	Mongo    DatabaseConfig `mapstructure:"mongo"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	S3       S3Config       `mapstructure:"s3"`
	Timeout  time.Duration  `mapstructure:"timeout"`
}

type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	Prefix          string `mapstructure:"prefix"`
	UseSSL          bool   `mapstructure:"use_ssl"` // scheme for an endpoint given as host:port
}

// JWTConfig defines session token configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AuthConfig describes the single local user the stub sign-in produces.
// An empty PassphraseHash means test mode: every sign-in succeeds.
type AuthConfig struct {
	UserID         string `mapstructure:"user_id"`
	Email          string `mapstructure:"email"`
	Name           string `mapstructure:"name"`
	PassphraseHash string `mapstructure:"passphrase_hash"` // bcrypt
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.timeout", "5s")
	v.SetDefault("storage.file.dir", ".fitnote")
	v.SetDefault("storage.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo.name", "fitnote")
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("storage.s3.bucket_name", "")
	v.SetDefault("storage.s3.prefix", "fitnote")
	v.SetDefault("storage.s3.use_ssl", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "24h")

	v.SetDefault("auth.user_id", "test-user-123")
	v.SetDefault("auth.email", "test@example.com")
	v.SetDefault("auth.name", "Test User")
	v.SetDefault("auth.passphrase_hash", "")
}

// LoadConfig reads config.yaml from path (if present) and environment variables.
// Nested keys map to env vars with "." replaced by "_", e.g. STORAGE_DRIVER, JWT_SECRET.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Every key needs a default, otherwise AutomaticEnv cannot see it during Unmarshal.
	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file: run on defaults and env vars
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	if err = config.Validate(); err != nil {
		return
	}
	return config, nil
}

// Validate checks the settings of the selected storage driver.
func (c Config) Validate() error {
	s := c.Storage
	switch s.Driver {
	case DriverFile:
		if s.File.Dir == "" {
			return fmt.Errorf("storage.file.dir is required for driver %q", s.Driver)
		}
	case DriverMongo:
		if s.Mongo.URI == "" || s.Mongo.Name == "" {
			return fmt.Errorf("storage.mongo.uri and storage.mongo.name are required for driver %q", s.Driver)
		}
	case DriverPostgres:
		if s.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for driver %q", s.Driver)
		}
	case DriverS3:
		if s.S3.BucketName == "" {
			return fmt.Errorf("storage.s3.bucket_name is required for driver %q", s.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
	return nil
}
