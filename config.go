package bookstore

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ServiceKind names the deployable being started. It decides
// which endpoints are exposed and the default listening port.
type ServiceKind string

const (
	BooksService     ServiceKind = "books"
	CustomersService ServiceKind = "customers"
	BookstoreService ServiceKind = "bookstore"
)

// Storage drivers.
const (
	PostgresDriver = "postgres"
	RedisDriver    = "redis"
	BoltDriver     = "bolt"
)

const maskedValue = "*****"

// ServesBooks reports whether the books endpoints are exposed.
func (k ServiceKind) ServesBooks() bool {
	return k == BooksService || k == BookstoreService
}

// ServesCustomers reports whether the customers endpoints are exposed.
func (k ServiceKind) ServesCustomers() bool {
	return k == CustomersService || k == BookstoreService
}

func (k ServiceKind) defaultPort() string {
	switch k {
	case BooksService:
		return "5000"
	case CustomersService:
		return "4000"
	default:
		return "8000"
	}
}

// BuildInfo carries the values injected at link time into each binary.
type BuildInfo struct {
	GitCommit string
	GitTag    string
	BuildTime string
}

// Config defines the structure of the configuration file.
type Config struct {
	Service                 ServiceKind   `yaml:"-" ignored:"true"`
	GitCommit               string        `yaml:"git_commit" envconfig:"BKS_GIT_COMMIT"`
	GitTag                  string        `yaml:"git_tag" envconfig:"BKS_GIT_TAG"`
	BuildTime               string        `yaml:"build_time" envconfig:"BKS_BUILD_TIME"`
	IsProduction            bool          `yaml:"is_production" envconfig:"BKS_IS_PRODUCTION"`
	LogLevel                zapcore.Level `yaml:"log_level" envconfig:"BKS_LOG_LEVEL"`
	LogFolder               string        `yaml:"log_folder" envconfig:"BKS_LOG_FOLDER"`
	LogMaxSize              int           `yaml:"log_max_size" envconfig:"BKS_LOG_MAX_SIZE"` // in megabytes
	OpsEndpointsEnable      bool          `yaml:"ops_endpoints_enable" envconfig:"BKS_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool          `yaml:"profiler_endpoints_enable" envconfig:"BKS_PROFILER_ENDPOINTS_ENABLE"`
	Server                  ServerConfig  `yaml:"server"`
	Storage                 StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"BKS_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"BKS_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"BKS_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"BKS_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"BKS_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"BKS_SERVER_SHUTDOWN_TIMEOUT"`
}

type StorageConfig struct {
	Driver   string         `yaml:"driver" envconfig:"BKS_STORAGE_DRIVER"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	BoltDB   BoltDBConfig   `yaml:"boltdb"`
}

type PostgresConfig struct {
	URL            string `yaml:"url" envconfig:"DATABASE_URL"`
	MigrateOnStart bool   `yaml:"migrate_on_start" envconfig:"BKS_POSTGRES_MIGRATE_ON_START"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BKS_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BKS_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BKS_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BKS_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BKS_REDIS_WRITE_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BKS_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BKS_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BKS_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath string        `yaml:"filepath" envconfig:"BKS_BOLTDB_FILE_PATH"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"BKS_BOLTDB_TIMEOUT"`
}

// DefaultConfig provides the settings used when no source overrides them.
func DefaultConfig(kind ServiceKind) *Config {
	return &Config{
		Service:    kind,
		LogLevel:   zapcore.InfoLevel,
		LogFolder:  "./logs",
		LogMaxSize: 100,
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            kind.defaultPort(),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    45 * time.Second,
			RequestTimeout:  40 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Driver:   PostgresDriver,
			Postgres: PostgresConfig{MigrateOnStart: true},
			Redis: RedisConfig{
				Host:        "localhost",
				Port:        "6379",
				DialTimeout: 5 * time.Second,
			},
			BoltDB: BoltDBConfig{
				FilePath: "./bookstore.db",
				Timeout:  5 * time.Second,
			},
		},
	}
}

// LoadConfigFile decodes the yaml file over the given config. A missing file is not an error.
func LoadConfigFile(configFile string, config *Config) error {
	file, err := os.Open(configFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()
	return yaml.NewDecoder(file).Decode(config)
}

// LoadConfigEnvs reads the environments variables into the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig configures build tags values to be used
// if provided and checks the final settings are usable.
func InitConfig(config *Config, build BuildInfo) error {
	if len(build.GitCommit) != 0 {
		config.GitCommit = build.GitCommit
	}

	if len(build.GitTag) != 0 {
		config.GitTag = build.GitTag
	}

	if len(build.BuildTime) != 0 {
		config.BuildTime = build.BuildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration")
	}

	switch config.Storage.Driver {
	case PostgresDriver:
		if len(config.Storage.Postgres.URL) == 0 {
			return errors.New("make sure to set the DATABASE_URL environment variable")
		}
	case RedisDriver:
		if len(config.Storage.Redis.Host) == 0 || len(config.Storage.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration")
		}
	case BoltDriver:
		if len(config.Storage.BoltDB.FilePath) == 0 {
			return errors.New("make sure to set a valid boltdb file path in configuration")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", config.Storage.Driver)
	}

	if config.LogMaxSize <= 0 {
		return errors.New("make sure to set a positive log max size in configuration")
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(kind ServiceKind, build BuildInfo) (*Config, error) {
	config := DefaultConfig(kind)

	// Setup the yaml configuration from file.
	if err := LoadConfigFile("./config.yml", config); err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	if err := godotenv.Load("./config.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BKS`.
	if err := LoadConfigEnvs("BKS", config); err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	if err := InitConfig(config, build); err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}

// Masked returns a copy of the config safe to expose on ops endpoints.
func (c *Config) Masked() *Config {
	masked := *c
	if u, err := url.Parse(c.Storage.Postgres.URL); err == nil && u.User != nil {
		masked.Storage.Postgres.URL = u.Redacted()
	} else if c.Storage.Postgres.URL != "" {
		masked.Storage.Postgres.URL = maskedValue
	}
	if c.Storage.Redis.Password != "" {
		masked.Storage.Redis.Password = maskedValue
	}
	return &masked
}
