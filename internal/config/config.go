package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Features are the module switches an administrator can turn on or off. The
// value is read once at start-up and handed to whoever needs it.
type Features struct {
	SMS        bool `env:"FEATURE_SMS" envDefault:"true"`
	Voting     bool `env:"FEATURE_VOTING" envDefault:"true"`
	Attendance bool `env:"FEATURE_ATTENDANCE" envDefault:"false"`
	Ministries bool `env:"FEATURE_MINISTRIES" envDefault:"false"`
	Portal     bool `env:"FEATURE_PORTAL" envDefault:"false"`
}

type Config struct {
	Env      string `env:"LOG_ENV" envDefault:"dev" validate:"required"`
	LogDir   string `env:"LOG_DIR"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL"`
	AMQPURL     string `env:"AMQP_URL"`
	SendQueue   string `env:"SEND_QUEUE" envDefault:"communication_sends" validate:"required"`

	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080" validate:"required,url"`
	APIToken   string `env:"API_TOKEN"`
	JWTSecret  string `env:"JWT_SECRET"`

	SMSUnitPrice float64 `env:"SMS_UNIT_PRICE" envDefault:"0.0075" validate:"gt=0"`
	SMSFrom      string  `env:"SMS_FROM" envDefault:"FELLOWSHIP" validate:"required,max=11"`

	BallotLink   string `env:"BALLOT_LINK" validate:"omitempty,url"`
	RegisterLink string `env:"REGISTER_LINK" validate:"omitempty,url"`

	Features Features
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load reads .env files (when present) into the process environment, then
// parses and validates the configuration.
func Load(files ...string) (*Config, error) {
	// Missing .env files are fine; the OS environment is authoritative.
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// RequireDatabase is checked by binaries that talk to Postgres directly.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config validation failed: DATABASE_URL is required")
	}
	return nil
}
