package main

import (
	"time"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/email"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/httpserver"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/pg"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/redis"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/tracing"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/validator"
)

type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Service   string `env:"APP_NAME" envDefault:"taskflask"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogSource bool   `env:"LOG_SOURCE" envDefault:"false"`

	HTTP    httpserver.Config `envPrefix:"HTTP_"`
	PG      pg.Config         `envPrefix:"PG_"`
	Redis   redis.Config      `envPrefix:"REDIS_"`
	Email   email.Config      `envPrefix:"EMAIL_"`
	Tracing tracing.Config    `envPrefix:"TRACING_"`

	Auth    authConfig    `envPrefix:"AUTH_"`
	Tenancy tenancyConfig `envPrefix:"TENANCY_"`
	API     apiConfig     `envPrefix:"API_"`
}

type authConfig struct {
	SigningKey string        `env:"JWT_SIGNING_KEY,required"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"taskflask"`
	Audience   string        `env:"JWT_AUDIENCE" envDefault:"taskflask-api"`
	Leeway     time.Duration `env:"JWT_LEEWAY" envDefault:"30s"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`

	PasswordMinLength  int `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`
	PasswordMaxLength  int `env:"PASSWORD_MAX_LENGTH" envDefault:"72"`
	PasswordMinClasses int `env:"PASSWORD_MIN_CLASSES" envDefault:"2"`

	RateLimitCapacity int           `env:"RATE_LIMIT_CAPACITY" envDefault:"10"`
	RateLimitRefill   int           `env:"RATE_LIMIT_REFILL" envDefault:"1"`
	RateLimitInterval time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"6s"`
}

func (c authConfig) passwordStrength() validator.PasswordStrengthConfig {
	return validator.PasswordStrengthConfig{
		MinLength:      c.PasswordMinLength,
		MaxLength:      c.PasswordMaxLength,
		MinCharClasses: c.PasswordMinClasses,
	}
}

type tenancyConfig struct {
	RolesFile    string        `env:"ROLES_FILE"`
	RoleCacheMax int64         `env:"ROLE_CACHE_MAX" envDefault:"10000"`
	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL" envDefault:"5m"`
}

type apiConfig struct {
	JoinURL          string        `env:"JOIN_URL"`
	SessionCookie    string        `env:"SESSION_COOKIE"`
	QRCodeSize       int           `env:"QR_CODE_SIZE" envDefault:"256"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	ReadinessTimeout time.Duration `env:"READINESS_TIMEOUT" envDefault:"3s"`
}
