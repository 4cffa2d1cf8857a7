package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	ClientOrigin      string        `mapstructure:"client_origin" yaml:"client_origin"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogJSON           bool          `mapstructure:"log_json" yaml:"log_json"`
	JWTSecret         string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer         string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	JWTAudience       string        `mapstructure:"jwt_audience" yaml:"jwt_audience"`
	TokenTTL          time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
	NASAFeedURL       string        `mapstructure:"nasa_feed_url" yaml:"nasa_feed_url"`
	NASAAPIKey        string        `mapstructure:"nasa_api_key" yaml:"nasa_api_key"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":5000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "cosmicwatch.db",
		ClientOrigin:      "http://localhost:5173",
		LogLevel:          "info",
		LogJSON:           false,
		JWTIssuer:         "cosmicwatch",
		JWTAudience:       "cosmicwatch-client",
		TokenTTL:          24 * time.Hour,
		NASAFeedURL:       "https://api.nasa.gov/neo/rest/v1/feed",
		NASAAPIKey:        "DEMO_KEY",
	}
}
