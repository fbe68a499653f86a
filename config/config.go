package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Crypto   CryptoConfig   `mapstructure:"crypto"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Oracle   OracleConfig   `mapstructure:"oracle"`
	Sim      SimConfig      `mapstructure:"sim"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"` // apply embedded schema on startup

	// Session limits. Settlement holds round and account row locks while it
	// talks to the lending pool, so a stuck waiter must give up.
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
	LockTimeout      time.Duration `mapstructure:"lock_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// CryptoConfig holds the coprocessor master key. Storage, input and proof
// keys are all derived from it.
type CryptoConfig struct {
	MasterKey string `mapstructure:"master_key"` // 32-byte hex-encoded
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// StorageConfig selects the ledger backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
}

// EngineConfig controls round pacing and the decryption stall policy.
type EngineConfig struct {
	Address            string        `mapstructure:"address"`
	MinRoundDuration   time.Duration `mapstructure:"min_round_duration"`
	MaxDecryptionDelay time.Duration `mapstructure:"max_decryption_delay"`
	SchedulerInterval  time.Duration `mapstructure:"scheduler_interval"`
	AutoAdvance        bool          `mapstructure:"auto_advance"`
}

type OracleConfig struct {
	QueueKey    string        `mapstructure:"queue_key"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// SimConfig configures the in-process token and lending pool used when no
// chain-backed collaborators are wired.
type SimConfig struct {
	TokenAddress string `mapstructure:"token_address"`
	PoolAddress  string `mapstructure:"pool_address"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CLL_ (Confidential Lending Layer).
// Nested keys use underscore: CLL_DATABASE_HOST, CLL_ENGINE_MIN_ROUND_DURATION, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "confidential_lending")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrate", true)
	v.SetDefault("database.statement_timeout", "30s")
	v.SetDefault("database.lock_timeout", "5s")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "confidential-lending")
	v.SetDefault("crypto.master_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("engine.address", "0x00000000000000000000000000000000000c11a1")
	v.SetDefault("engine.min_round_duration", "1m")
	v.SetDefault("engine.max_decryption_delay", "30m")
	v.SetDefault("engine.scheduler_interval", "15s")
	v.SetDefault("engine.auto_advance", false)
	v.SetDefault("oracle.queue_key", "oracle:decryption_requests")
	v.SetDefault("oracle.poll_timeout", "2s")
	v.SetDefault("sim.token_address", "0x94a9D9AC8a22534E3FaCa9F4e7F2E2cf85d5E4C8")
	v.SetDefault("sim.pool_address", "0x6Ae43d3271ff6888e7Fc43Fd7321a503ff738951")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: CLL_DATABASE_HOST -> database.host
	v.SetEnvPrefix("CLL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Engine.MinRoundDuration < 0 {
		return fmt.Errorf("engine.min_round_duration must not be negative")
	}
	if c.Engine.MaxDecryptionDelay <= 0 {
		return fmt.Errorf("engine.max_decryption_delay must be positive")
	}
	return nil
}
