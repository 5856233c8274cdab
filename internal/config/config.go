package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/mahaseva-integrations/trackapi/internal/crypto"
)

// ServerEnvironment holds the department-server configuration, loaded once at
// startup and treated as read-only for the life of the process.
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	EnableLogging         bool          `env:"ENABLE_LOGGING,default=true"`
	LogLevel              string        `env:"LOG_LEVEL,default=info"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestBytes       int64         `env:"MAX_REQUEST_BYTES,default=1048576"`

	// protocol settings - the key/IV/checksum key are shared secrets agreed
	// with the portal and must match the counterpart exactly
	EncryptionKey string `env:"ENCRYPTION_KEY,required=true"`
	EncryptionIV  string `env:"ENCRYPTION_IV,required=true"`
	ChecksumKey   string `env:"CHECKSUM_KEY,required=true"`
	APIEndpoint   string `env:"API_ENDPOINT,default=api/SampleAPI/sendappstatus_encrypted"`

	// data provider settings: when DATABASE_URL is set the postgres provider
	// is used, otherwise the in-memory provider seeded from SEED_DATA_PATH
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS,default=4"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS,default=0"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	DBConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	DatabasePingTimeout time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`
	SeedDataPath        string        `env:"SEED_DATA_PATH"`
}

// ClientEnvironment holds the portal-role client configuration used by
// trackctl.
type ClientEnvironment struct {
	BaseURL        string        `env:"API_BASE_URL,required=true"`
	APIEndpoint    string        `env:"API_ENDPOINT,default=api/SampleAPI/sendappstatus_encrypted"`
	EncryptionKey  string        `env:"ENCRYPTION_KEY,required=true"`
	EncryptionIV   string        `env:"ENCRYPTION_IV,required=true"`
	ChecksumKey    string        `env:"CHECKSUM_KEY"`
	DepartmentName string        `env:"DEPT_NAME,required=true"`
	Timeout        time.Duration `env:"TIMEOUT,default=30s"`
	MaxRetries     int           `env:"MAX_RETRIES,default=3"`
	RetryDelay     time.Duration `env:"RETRY_DELAY,default=2s"`
	EnableLogging  bool          `env:"ENABLE_LOGGING,default=true"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateServerConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewClientConfig loads environment variables and returns a ClientEnvironment struct that contains the values
func NewClientConfig() (*ClientEnvironment, error) {
	var cfg ClientEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateKeyMaterial(cfg.EncryptionKey, cfg.EncryptionIV); err != nil {
		return nil, err
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("MAX_RETRIES must be 0 or greater")
	}
	return &cfg, nil
}

// validateServerConfig checks the loaded configuration for values the server
// cannot start with.
func validateServerConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}

	if err := validateKeyMaterial(cfg.EncryptionKey, cfg.EncryptionIV); err != nil {
		return err
	}

	if cfg.MaxRequestBytes < 1 {
		return fmt.Errorf("MAX_REQUEST_BYTES must be at least 1")
	}

	// Validate database pool configuration (only meaningful with a database)
	if cfg.DatabaseURL != "" {
		if cfg.DBMaxConnections < 1 {
			return fmt.Errorf("DB_MAX_CONNECTIONS must be at least 1")
		}
		if cfg.DBMinConnections < 0 {
			return fmt.Errorf("DB_MIN_CONNECTIONS must be 0 or greater")
		}
		if cfg.DBMinConnections > cfg.DBMaxConnections {
			return fmt.Errorf("DB_MIN_CONNECTIONS (%d) cannot be greater than DB_MAX_CONNECTIONS (%d)",
				cfg.DBMinConnections, cfg.DBMaxConnections)
		}
	}

	return nil
}

// validateKeyMaterial checks the shared cipher configuration up front so a
// misconfigured deployment fails at startup rather than on the first request.
func validateKeyMaterial(key string, iv string) error {
	if len(key) != crypto.KeySize {
		return fmt.Errorf("ENCRYPTION_KEY must be exactly %d characters, got %d", crypto.KeySize, len(key))
	}
	if len(iv) != crypto.BlockSize {
		return fmt.Errorf("ENCRYPTION_IV must be exactly %d characters, got %d", crypto.BlockSize, len(iv))
	}
	return nil
}
