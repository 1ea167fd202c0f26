package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"production" validate:"oneof=development production test"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8080" validate:"min=1000,max=65535"`

	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"auction_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"auction_password"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"auction_db"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE"  envDefault:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`

	// Empty host disables token revocation on sign-out.
	RedisHost string `env:"REDIS_HOST"`
	RedisPort uint16 `env:"REDIS_PORT" envDefault:"6379" validate:"min=1000,max=65535"`

	JwtSecret    string        `env:"JWT_SECRET,required" validate:"min=16"`
	JwtTTL       time.Duration `env:"JWT_TTL"       envDefault:"24h" validate:"min=1m"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	CookieDomain string        `env:"COOKIE_DOMAIN"`

	CorsAllowedOrigin string   `env:"CORS_ALLOWED_ORIGIN" envDefault:"http://localhost:3000" validate:"url"`
	TrustedProxies    []string `env:"TRUSTED_PROXIES"     envSeparator:","`
	APISpecsDir       string   `env:"API_SPECS_DIR"       envDefault:"api_specs"`

	DefaultRoleName string `env:"DEFAULT_ROLE_NAME" envDefault:"user" validate:"required"`
	BcryptCost      int    `env:"BCRYPT_COST"       envDefault:"10"   validate:"min=4,max=31"`

	AuthRatePerMinute int `env:"AUTH_RATE_PER_MINUTE" envDefault:"20" validate:"min=1"`
	AuthRateBurst     int `env:"AUTH_RATE_BURST"      envDefault:"10" validate:"min=1"`

	SeedAdminEmail string `env:"SEED_ADMIN_EMAIL" validate:"omitempty,email"`
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

// PostgresURL builds a connection URL with the given scheme ("postgres" for
// the pgx driver, "pgx5" for golang-migrate).
func (c *Config) PostgresURL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     fmt.Sprintf("%s:%s", c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDb,
		RawQuery: url.Values{"sslmode": []string{c.PostgresSSLMode}}.Encode(),
	}
	return u.String()
}

// String hides secrets so the config can be logged.
func (c Config) String() string {
	c.PostgresPassword = "***"
	c.JwtSecret = "***"
	type plain Config
	return fmt.Sprintf("%+v", plain(c))
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}
	return Parse()
}

// Parse reads the config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
