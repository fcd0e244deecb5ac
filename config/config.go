package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Tts    TtsConfig    `mapstructure:"tts"`
	Retry  RetryConfig  `mapstructure:"retry"`
	Token  TokenConfig  `mapstructure:"token"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig carries the shared secret compared against the caller-supplied
// token query parameter. Empty means auth is disabled.
type AuthConfig struct {
	Token string `mapstructure:"token"`
}

type TtsConfig struct {
	Provider    string `mapstructure:"provider"` // "edge", "google" or "dummy"
	Voice       string `mapstructure:"voice"`
	Format      string `mapstructure:"format"`
	Credentials string `mapstructure:"credentials"` // Optional, google provider only
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Delay       time.Duration `mapstructure:"delay"`
}

type TokenConfig struct {
	Window       time.Duration `mapstructure:"window"`
	RejectFuture bool          `mapstructure:"reject_future"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// The shared secret has always lived in the bare TOKEN variable;
	// the prefixed form wins when both are set.
	v.BindEnv("auth.token", "READALOUD_AUTH_TOKEN", "TOKEN")
	v.BindEnv("tts.credentials", "GOOGLE_APPLICATION_CREDENTIALS")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("tts.provider", "edge")
	v.SetDefault("tts.voice", "zh-CN-XiaoxiaoNeural")
	v.SetDefault("tts.format", "audio-24khz-48kbitrate-mono-mp3")

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.delay", time.Duration(0))

	v.SetDefault("token.window", 6*time.Hour)
	v.SetDefault("token.reject_future", false)

	v.SetDefault("log.level", "info")

	// Allow environment variables
	v.SetEnvPrefix("READALOUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
