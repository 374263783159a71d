package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance. When configFile is empty the
// usual search paths are tried and a missing file is not an error.
func New(configFile string) (*Config, error) {
	// Pick up a local .env before viper reads the environment
	_ = godotenv.Load()

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.drug-checker")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("DRUG_CHECKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// DefaultRedKeywords mark an interaction as high severity.
var DefaultRedKeywords = []string{
	"contraindicated", "life-threatening", "fatal", "avoid", "do not",
	"serious", "severe", "dangerous", "death", "emergency",
}

// DefaultYellowKeywords mark an interaction as moderate severity.
var DefaultYellowKeywords = []string{
	"caution", "monitor", "risk", "may increase", "use with care",
	"decrease", "interfere", "reduce", "affect", "alter",
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults
	v.SetDefault("llm.provider", "ollama")

	// Label data defaults
	v.SetDefault("labels.endpoint", "https://api.fda.gov/drug/label.json")
	v.SetDefault("labels.api_key", "")
	v.SetDefault("labels.timeout", "10s")
	v.SetDefault("labels.suggest_timeout", "5s")
	v.SetDefault("labels.fetch_limit", 3)
	v.SetDefault("labels.suggest_limit", 5)
	v.SetDefault("labels.rate_per_second", 4.0)
	v.SetDefault("labels.burst", 2)

	// Ollama defaults
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.2")
	v.SetDefault("ollama.timeout", "60s")

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-1.5-flash")

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.top_p", 0.9)

	// Summary defaults
	v.SetDefault("summary.enabled", true)
	v.SetDefault("summary.max_tokens", 100)
	v.SetDefault("summary.temperature", 0.2)
	v.SetDefault("summary.max_input_chars", 1500)
	v.SetDefault("summary.fallback_chars", 200)
	v.SetDefault("summary.stop", []string{"\n\n", "Note:", "Important:", "Disclaimer:"})

	// Severity defaults
	v.SetDefault("severity.red_keywords", DefaultRedKeywords)
	v.SetDefault("severity.yellow_keywords", DefaultYellowKeywords)

	// Storage defaults
	v.SetDefault("storage.type", "json")
	v.SetDefault("storage.data_dir", "drug_checker_data")
	v.SetDefault("storage.sqlite_path", "drug_checker_data/drug_checker.db")
	v.SetDefault("storage.mysql_dsn", "user:password@tcp(localhost:3306)/drug_checker?parseTime=true")

	// History defaults
	v.SetDefault("history.max_entries", 100)
	v.SetDefault("history.display_limit", 10)

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// Set overrides a configuration value, used for command line flags
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
