package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "GAIACARE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Config is the full runtime configuration, loaded from the environment.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	SMTP          SMTPConfig
	FeatureFlags  FeatureFlagsConfig
}

// Load parses configuration from the environment and validates invariants.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GAIACARE_APP_ENV" required:"true"`
	Port         string `envconfig:"GAIACARE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GAIACARE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GAIACARE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GAIACARE_DB_DSN"`

	Host     string `envconfig:"GAIACARE_DB_HOST"`
	Port     int    `envconfig:"GAIACARE_DB_PORT" default:"5432"`
	User     string `envconfig:"GAIACARE_DB_USER"`
	Password string `envconfig:"GAIACARE_DB_PASSWORD"`
	Name     string `envconfig:"GAIACARE_DB_NAME"`
	SSLMode  string `envconfig:"GAIACARE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GAIACARE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GAIACARE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GAIACARE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GAIACARE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GAIACARE_REDIS_URL"`
	Address      string        `envconfig:"GAIACARE_REDIS_ADDR"`
	Password     string        `envconfig:"GAIACARE_REDIS_PASSWORD"`
	DB           int           `envconfig:"GAIACARE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GAIACARE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GAIACARE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GAIACARE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GAIACARE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GAIACARE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GAIACARE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GAIACARE_JWT_ISSUER" default:"gaiacare"`
	ExpirationMinutes int    `envconfig:"GAIACARE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GAIACARE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GAIACARE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GAIACARE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GAIACARE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GAIACARE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"GAIACARE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"GAIACARE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"GAIACARE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`

	RegisterWindow     time.Duration `envconfig:"GAIACARE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"1h"`
	RegisterEmailLimit int           `envconfig:"GAIACARE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"GAIACARE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
}

// CheckoutConfig tunes the order-creation transaction.
type CheckoutConfig struct {
	// ShippingFlatRate is charged on every order regardless of contents.
	ShippingFlatRate string `envconfig:"GAIACARE_CHECKOUT_SHIPPING_FLAT_RATE" default:"100.00"`
}

func (c CheckoutConfig) validate() error {
	rate, err := decimal.NewFromString(c.ShippingFlatRate)
	if err != nil {
		return fmt.Errorf("invalid shipping flat rate %q: %w", c.ShippingFlatRate, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("shipping flat rate cannot be negative")
	}
	return nil
}

// ShippingRate returns the parsed flat rate. validate() runs at load time, so
// parsing here cannot fail for a loaded config.
func (c CheckoutConfig) ShippingRate() decimal.Decimal {
	rate, err := decimal.NewFromString(c.ShippingFlatRate)
	if err != nil {
		return decimal.Zero
	}
	return rate
}

type SMTPConfig struct {
	Host        string `envconfig:"GAIACARE_SMTP_HOST"`
	Port        int    `envconfig:"GAIACARE_SMTP_PORT" default:"587"`
	Username    string `envconfig:"GAIACARE_SMTP_USERNAME"`
	Password    string `envconfig:"GAIACARE_SMTP_PASSWORD"`
	FromAddress string `envconfig:"GAIACARE_SMTP_FROM"`
	// ContactTo receives contact form submissions.
	ContactTo string `envconfig:"GAIACARE_CONTACT_TO"`
}

// Enabled reports whether outbound mail is configured at all.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.FromAddress != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GAIACARE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GAIACARE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"GAIACARE_DB_HOST": db.Host,
		"GAIACARE_DB_USER": db.User,
		"GAIACARE_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either GAIACARE_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
