package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/greenops/carbon-management/internal/core/domain"
)

const envProduction = "production"

type Config struct {
	Env      string `env:"APP_ENV,   default=development"`
	Host     string `env:"HOST,      default=0.0.0.0"`
	Port     string `env:"PORT,      default=3000"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN, default=168h"`

	CORSOrigin        string   `env:"CORS_ORIGIN"`
	RegistrationRoles []string `env:"REGISTRATION_ROLES, default=user"`

	Postgres  PostgresConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

type PostgresConfig struct {
	URL          string `env:"DATABASE_URL,      default=postgres://localhost:5432/carbon_management?sslmode=disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS, default=10"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS, default=2"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,  default=carbon_management"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=20"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"RATE_LIMIT_ENABLED, default=true"`
	Max     int64         `env:"RATE_LIMIT_MAX,     default=20"`
	Window  time.Duration `env:"RATE_LIMIT_WINDOW,  default=1m"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
	Buffer  int `env:"AUDIT_BUFFER,  default=256"`
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom resolves configuration through the given lookuper and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Env) {
	case "development", "test", envProduction:
	default:
		errs = append(errs, fmt.Errorf("APP_ENV: unknown environment %q", c.Env))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if len(c.RegistrationRoles) == 0 {
		errs = append(errs, errors.New("REGISTRATION_ROLES must not be empty"))
	}
	for _, r := range c.RegistrationRoles {
		if !domain.Role(strings.TrimSpace(r)).Valid() {
			errs = append(errs, fmt.Errorf("REGISTRATION_ROLES: unknown role %q", r))
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Roles returns the roles a caller may request at registration.
func (c *Config) Roles() domain.RoleSet {
	roles := make([]domain.Role, 0, len(c.RegistrationRoles))
	for _, r := range c.RegistrationRoles {
		roles = append(roles, domain.Role(strings.TrimSpace(r)))
	}
	return domain.NewRoleSet(roles...)
}
