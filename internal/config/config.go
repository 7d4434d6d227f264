package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bnema/ds-tutor-cli/internal/domain"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "DSTUTOR"
	appDirName = "dstutor"

	KeyProvider     = "model.provider"
	KeyModel        = "model.name"
	KeyTemperature  = "model.temperature"
	KeyMaxTokens    = "model.max_tokens"
	KeyBaseURL      = "model.base_url"
	KeyWindow       = "history.window"
	KeySummaryWidth = "history.summary_width"
	KeySecretKey    = "credential.key"
	KeyAPIKey       = "credential.api_key"
	KeySecretsDir   = "secrets.dir"
	KeyTranscripts  = "transcripts.dir"
	KeyLogLevel     = "log.level"
	KeyLogFormat    = "log.format"
)

type Config struct {
	Model       ModelConfig       `mapstructure:"model"`
	History     HistoryConfig     `mapstructure:"history"`
	Credential  CredentialConfig  `mapstructure:"credential"`
	Secrets     SecretsConfig     `mapstructure:"secrets"`
	Transcripts TranscriptsConfig `mapstructure:"transcripts"`
	Log         LogConfig         `mapstructure:"log"`
}

type ModelConfig struct {
	Provider    string  `mapstructure:"provider"`
	Name        string  `mapstructure:"name"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int64   `mapstructure:"max_tokens"`
	BaseURL     string  `mapstructure:"base_url"`
}

type HistoryConfig struct {
	Window       int `mapstructure:"window"`
	SummaryWidth int `mapstructure:"summary_width"`
}

type CredentialConfig struct {
	Key    string `mapstructure:"key"`
	APIKey string `mapstructure:"api_key"`
}

type SecretsConfig struct {
	Dir string `mapstructure:"dir"`
}

type TranscriptsConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Dir is where the config file, secrets and transcripts live by default.
func Dir(home string) string {
	return filepath.Join(home, ".config", appDirName)
}

// NewViper returns a viper instance with defaults, the config search path and
// environment bindings in place. Flags are bound by the caller.
func NewViper(home string) *viper.Viper {
	v := viper.New()
	dir := Dir(home)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	v.SetDefault(KeyProvider, string(domain.ProviderGemini))
	v.SetDefault(KeyModel, "")
	v.SetDefault(KeyTemperature, domain.DefaultTemperature)
	v.SetDefault(KeyMaxTokens, 1024)
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyWindow, 10)
	v.SetDefault(KeySummaryWidth, domain.DefaultSummaryWidth)
	v.SetDefault(KeySecretKey, "dstutor/api_key")
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeySecretsDir, filepath.Join(dir, "secrets"))
	v.SetDefault(KeyTranscripts, filepath.Join(dir, "transcripts"))
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyAPIKey, envPrefix+"_API_KEY", "GOOGLE_API_KEY")

	return v
}

func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("%w: read config file: %w", domain.ErrConfiguration, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode config: %w", domain.ErrConfiguration, err)
	}

	cfg.Model.Provider = strings.ToLower(strings.TrimSpace(cfg.Model.Provider))
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	return cfg, nil
}

func (c Config) validate() error {
	provider := domain.Provider(c.Model.Provider)
	if !provider.Valid() {
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if provider == domain.ProviderHTTP && strings.TrimSpace(c.Model.BaseURL) == "" {
		return fmt.Errorf("%s is required for the http provider", KeyBaseURL)
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("%s must be between 0 and 2, got %g", KeyTemperature, c.Model.Temperature)
	}
	if c.History.Window <= 0 {
		return fmt.Errorf("%s must be positive", KeyWindow)
	}
	if c.History.SummaryWidth <= 0 {
		return fmt.Errorf("%s must be positive", KeySummaryWidth)
	}
	if strings.TrimSpace(c.Credential.Key) == "" {
		return fmt.Errorf("%s is empty", KeySecretKey)
	}

	return nil
}

func (c Config) Generation() domain.GenerationConfig {
	return domain.GenerationConfig{
		Provider:    domain.Provider(c.Model.Provider),
		Model:       c.Model.Name,
		Temperature: c.Model.Temperature,
		MaxTokens:   c.Model.MaxTokens,
		BaseURL:     c.Model.BaseURL,
	}
}
