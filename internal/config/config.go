package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      App      `mapstructure:"app"`
	LLM      LLM      `mapstructure:"llm"`
	Server   Server   `mapstructure:"server"`
	Store    Store    `mapstructure:"store"`
	Gmail    Gmail    `mapstructure:"gmail"`
	Classify Classify `mapstructure:"classify"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// LLM holds provider selection plus per-provider settings
type LLM struct {
	Provider    string       `mapstructure:"provider"`     // openai, gemini, ollama, local
	Temperature float64      `mapstructure:"temperature"`  // sampling temperature for draft generation
	MaxTokens   int          `mapstructure:"max_tokens"`   // visible-output token ceiling
	MaxAttempts int          `mapstructure:"max_attempts"` // JSON coercion attempt cap
	OpenAI      OpenAIConfig `mapstructure:"openai"`
	Gemini      GeminiConfig `mapstructure:"gemini"`
	Ollama      OllamaConfig `mapstructure:"ollama"`
	Local       LocalConfig  `mapstructure:"local"`
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// OllamaConfig holds the local Ollama daemon configuration
type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Timeout string `mapstructure:"timeout"`
}

// LocalConfig holds in-process model configuration
type LocalConfig struct {
	ModelPath string `mapstructure:"model_path"` // path to a quantized GGUF model file
	ModelType string `mapstructure:"model_type"` // tinyllama or mistral; selects the prompt template
	Threads   int    `mapstructure:"threads"`
	Context   int    `mapstructure:"context"`
}

// Server holds HTTP API configuration
type Server struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    string   `mapstructure:"read_timeout"`
	WriteTimeout   string   `mapstructure:"write_timeout"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Store holds persistence configuration
type Store struct {
	Directory string `mapstructure:"directory"`
}

// Gmail holds the mailbox collaborator configuration
type Gmail struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
	MaxMessages     int64  `mapstructure:"max_messages"`
}

// Classify holds the keyword sets for the deterministic classifiers.
// The sets are configuration data, not fixed logic; the defaults below can
// be overridden per config file.
type Classify struct {
	SpamWords     []string            `mapstructure:"spam_words"`
	IntentOrder   []string            `mapstructure:"intent_order"`
	IntentWords   map[string][]string `mapstructure:"intent_words"`
	PromptOrder   []string            `mapstructure:"prompt_order"`
	PromptWords   map[string][]string `mapstructure:"prompt_words"`
	DefaultIntent string              `mapstructure:"default_intent"`
}

var globalConfig *Config

// Load loads the configuration from .env, a config file, environment
// variables, and defaults, in the usual viper precedence order.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".inboxpert")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached configuration. Intended for tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".inboxpert")

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 1000)
	viper.SetDefault("llm.max_attempts", 2)
	viper.SetDefault("llm.openai.model", "gpt-3.5-turbo")
	viper.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	viper.SetDefault("llm.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("llm.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("llm.ollama.base_url", "http://localhost:11434")
	viper.SetDefault("llm.ollama.model", "llama2")
	viper.SetDefault("llm.ollama.timeout", "90s")
	viper.SetDefault("llm.local.model_type", "tinyllama")
	viper.SetDefault("llm.local.threads", 4)
	viper.SetDefault("llm.local.context", 2048)

	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "120s")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	viper.SetDefault("store.directory", ".inboxpert")

	viper.SetDefault("gmail.credentials_file", "credentials.json")
	viper.SetDefault("gmail.token_file", "token.json")
	viper.SetDefault("gmail.max_messages", 25)

	setClassifyDefaults()
}

// bindEnvironmentVariables maps legacy environment variable names onto
// config keys so OPENAI_API_KEY etc. keep working without a config file.
func bindEnvironmentVariables() {
	bindings := map[string]string{
		"llm.provider":       "LLM_PROVIDER",
		"llm.openai.api_key": "OPENAI_API_KEY",
		"llm.gemini.api_key": "GEMINI_API_KEY",
		"llm.openai.model":   "EMAIL_GEN_MODEL",
		"llm.local.model_path": "LOCAL_MODEL_PATH",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind %s: %v\n", env, err)
		}
	}
}

// validateConfig performs basic validation on the loaded config
func validateConfig(config *Config) error {
	switch config.LLM.Provider {
	case "openai", "gemini", "ollama", "local":
	case "":
		return fmt.Errorf("llm.provider must be set")
	default:
		// Unknown hosted providers degrade to the HTTP adapter at the
		// factory; reject only values that cannot mean anything.
		if strings.TrimSpace(config.LLM.Provider) == "" {
			return fmt.Errorf("llm.provider must be set")
		}
	}
	if config.LLM.MaxAttempts < 1 {
		return fmt.Errorf("llm.max_attempts must be at least 1, got %d", config.LLM.MaxAttempts)
	}
	if config.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm.max_tokens must be at least 1, got %d", config.LLM.MaxTokens)
	}
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", config.Server.Port)
	}
	return nil
}
