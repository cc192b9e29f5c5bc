package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// minSigningSecretLen guards against trivially brute-forceable HS256 keys.
const minSigningSecretLen = 32

// Config holds all configuration for the login bridge. Values are read once
// at startup and are read-only afterwards.
type Config struct {
	HTTPAddr  string `mapstructure:"http_addr"`
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`

	MongoURI    string `mapstructure:"mongo_uri"`
	MongoDBName string `mapstructure:"mongo_db_name"`

	// Identity provider (end-user credential verification).
	IdentityBaseURL string        `mapstructure:"identity_base_url"`
	IdentityAPIKey  string        `mapstructure:"identity_api_key"`
	IdentityTimeout time.Duration `mapstructure:"identity_timeout"`

	// Legacy service layer, authenticated with fixed service credentials.
	ServiceLayerBaseURL     string        `mapstructure:"service_layer_base_url"`
	ServiceLayerCompanyDB   string        `mapstructure:"service_layer_company_db"`
	ServiceLayerUsername    string        `mapstructure:"service_layer_username"`
	ServiceLayerPassword    string        `mapstructure:"service_layer_password"`
	ServiceLayerTimeout     time.Duration `mapstructure:"service_layer_timeout"`
	ServiceLayerInsecureTLS bool          `mapstructure:"service_layer_insecure_tls"`

	// JWTSigningSecret has no default on purpose: the server refuses to
	// start without an operator-provided secret.
	JWTSigningSecret string `mapstructure:"jwt_signing_secret"`

	OtelServiceName string `mapstructure:"otel_service_name"`
}

// LoadConfig loads configuration from an optional yaml file and from
// AUTHBRIDGE_-prefixed environment variables, then validates it.
func LoadConfig() (Config, error) {
	viper.SetConfigName("authbridge_config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/authbridge/")

	viper.SetEnvPrefix("AUTHBRIDGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("http_addr", "0.0.0.0:8080")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_pretty", false)
	viper.SetDefault("mongo_uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo_db_name", "authbridge")
	viper.SetDefault("identity_base_url", "https://identitytoolkit.googleapis.com")
	viper.SetDefault("identity_timeout", "5s")
	viper.SetDefault("service_layer_timeout", "8s")
	viper.SetDefault("service_layer_insecure_tls", false)
	viper.SetDefault("otel_service_name", "authbridge")
	// identity_api_key, jwt_signing_secret and the service layer settings
	// have no defaults; Validate rejects a config missing them.

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
		// No config file; env vars and defaults are enough.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fails closed: a missing signing secret or missing service layer
// credentials is a startup error, never a silent fallback.
func (c Config) Validate() error {
	switch {
	case c.JWTSigningSecret == "":
		return errors.New("jwt_signing_secret is required (AUTHBRIDGE_JWT_SIGNING_SECRET)")
	case len(c.JWTSigningSecret) < minSigningSecretLen:
		return fmt.Errorf("jwt_signing_secret must be at least %d characters", minSigningSecretLen)
	case c.IdentityAPIKey == "":
		return errors.New("identity_api_key is required (AUTHBRIDGE_IDENTITY_API_KEY)")
	case c.ServiceLayerBaseURL == "":
		return errors.New("service_layer_base_url is required (AUTHBRIDGE_SERVICE_LAYER_BASE_URL)")
	case c.ServiceLayerCompanyDB == "":
		return errors.New("service_layer_company_db is required (AUTHBRIDGE_SERVICE_LAYER_COMPANY_DB)")
	case c.ServiceLayerUsername == "":
		return errors.New("service_layer_username is required (AUTHBRIDGE_SERVICE_LAYER_USERNAME)")
	case c.ServiceLayerPassword == "":
		return errors.New("service_layer_password is required (AUTHBRIDGE_SERVICE_LAYER_PASSWORD)")
	}
	return nil
}
