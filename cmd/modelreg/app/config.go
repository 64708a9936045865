package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/modelreg/pkg/constants"
	"github.com/agentstation/modelreg/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files. Command-line flags are bound to the
// same fields and override them.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Registry and catalog configuration
	HubURL          string
	HFToken         string
	Publisher       string
	IncludeOriginal bool
	Concurrency     int
	FamiliesFile    string
	ListenAddr      string

	// Logging configuration. LogLevel is the explicit --log-level flag;
	// EnvLogLevel comes from LOG_LEVEL.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (MODELREG_*, plus HF_TOKEN)
// 3. .env and .env.local files
// 4. Config file (configFile, or ~/.modelreg.yaml / ./.modelreg.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("hub_url", constants.DefaultHubURL)
	v.SetDefault("publisher", constants.DefaultPublisher)
	v.SetDefault("include_original", true)
	v.SetDefault("concurrency", constants.DefaultConcurrency)
	v.SetDefault("listen_addr", constants.DefaultListenAddr)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if err := v.BindEnv("hf_token", constants.EnvPrefix+"_HF_TOKEN", constants.HubTokenEnv); err != nil {
		return nil, errors.NewConfigError("env", "failed to bind hub token", err)
	}
	for key, env := range map[string]string{"log_level": "LOG_LEVEL", "log_format": "LOG_FORMAT", "log_output": "LOG_OUTPUT"} {
		if err := v.BindEnv(key, constants.EnvPrefix+"_"+env, env); err != nil {
			return nil, errors.NewConfigError("env", "failed to bind "+env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigName)

		// a missing default config file is fine
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "failed to read config file", err)
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		HubURL:          v.GetString("hub_url"),
		HFToken:         v.GetString("hf_token"),
		Publisher:       v.GetString("publisher"),
		IncludeOriginal: v.GetBool("include_original"),
		Concurrency:     v.GetInt("concurrency"),
		FamiliesFile:    v.GetString("families_file"),
		ListenAddr:      v.GetString("listen_addr"),

		EnvLogLevel: v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges that flags and files can get wrong.
func (c *Config) Validate() error {
	if c.Concurrency < 1 || c.Concurrency > constants.MaxConcurrency {
		return errors.NewValidationError("concurrency", c.Concurrency, fmt.Sprintf("must be between 1 and %d", constants.MaxConcurrency))
	}
	if c.Publisher == "" {
		return errors.NewValidationError("publisher", c.Publisher, "cannot be empty")
	}
	if c.HubURL == "" {
		return errors.NewValidationError("hub_url", c.HubURL, "cannot be empty")
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files. .env.local is
// read first so its values win; godotenv never overrides variables that are
// already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
