package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider" validate:"required"`
	DefaultModel    string                    `yaml:"default_model" mapstructure:"default_model" validate:"required"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers" validate:"required,dive"`
	Data            DataConfig                `yaml:"data" mapstructure:"data"`
	Assistant       AssistantConfig           `yaml:"assistant" mapstructure:"assistant"`
	LLM             LLMConfig                 `yaml:"llm" mapstructure:"llm"`
	Server          ServerConfig              `yaml:"server" mapstructure:"server"`
	Log             LogConfig                 `yaml:"log" mapstructure:"log"`
	Theme           string                    `yaml:"theme" mapstructure:"theme"`
}

type ProviderConfig struct {
	Type    string `yaml:"type" mapstructure:"type" validate:"required,oneof=openai"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// DataConfig points at the three files the assistant reads and writes.
type DataConfig struct {
	ProductsFile   string `yaml:"products_file" mapstructure:"products_file" validate:"required"`
	DislikesFile   string `yaml:"dislikes_file" mapstructure:"dislikes_file" validate:"required"`
	TranscriptFile string `yaml:"transcript_file" mapstructure:"transcript_file" validate:"required"`
}

type AssistantConfig struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Keywords    int    `yaml:"keywords" mapstructure:"keywords" validate:"gte=0"`
	LLMFallback bool   `yaml:"llm_fallback" mapstructure:"llm_fallback"`
}

type LLMConfig struct {
	SystemPrompt string        `yaml:"system_prompt" mapstructure:"system_prompt"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries   int           `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr" validate:"required,hostname_port"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=text json"`
	File   string `yaml:"file" mapstructure:"file"`
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

var validate = validator.New()

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: "ollama",
		DefaultModel:    "llama3",
		Theme:           "green",
		Providers: map[string]ProviderConfig{
			"ollama": {Type: "openai", BaseURL: "http://localhost:11434/v1"},
			"vllm":   {Type: "openai", BaseURL: "http://localhost:8000/v1"},
			"openai": {Type: "openai", BaseURL: "https://api.openai.com/v1", APIKey: "$OPENAI_API_KEY"},
		},
		Data: DataConfig{
			ProductsFile:   "products.xlsx",
			DislikesFile:   "user_dislikes.json",
			TranscriptFile: "chat_log.txt",
		},
		Assistant: AssistantConfig{
			Name:     "TVYN",
			Keywords: 5,
		},
		LLM: LLMConfig{
			SystemPrompt: "You are a helpful supermarket assistant named TVYN.",
			Timeout:      60 * time.Second,
			MaxRetries:   3,
		},
		Server: ServerConfig{Addr: "127.0.0.1:8501"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

func configDirs() []string {
	dirs := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "tvyn"))
	}
	home, _ := os.UserHomeDir()
	return append(dirs, filepath.Join(home, ".config", "tvyn"))
}

// Load reads config.yaml from the usual search path.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads the given file, or searches the usual locations when path is empty.
// A missing config file is not an error; defaults apply.
func LoadFile(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("TVYN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		// Only a missing file found by search is tolerated; an explicit path must exist.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	for name, p := range cfg.Providers {
		p.APIKey = expandEnv(p.APIKey)
		p.BaseURL = expandEnv(p.BaseURL)
		cfg.Providers[name] = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AutomaticEnv only sees keys viper already knows about, so the scalar keys
// are bound explicitly to make TVYN_DATA_PRODUCTS_FILE and friends work
// without a config file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"default_provider", "default_model", "theme",
		"data.products_file", "data.dislikes_file", "data.transcript_file",
		"assistant.name", "assistant.keywords", "assistant.llm_fallback",
		"llm.system_prompt", "llm.timeout", "llm.max_retries",
		"server.addr",
		"log.level", "log.format", "log.file",
	} {
		_ = v.BindEnv(key)
	}
}

func (c *Config) ProviderFor(name string) (ProviderConfig, bool) {
	p, ok := c.Providers[name]
	return p, ok
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, ok := c.Providers[c.DefaultProvider]; !ok {
		return fmt.Errorf("config: default_provider %q not found in providers", c.DefaultProvider)
	}
	for name, p := range c.Providers {
		if p.Type == "openai" && p.BaseURL == "" {
			return fmt.Errorf("config: provider %q (type openai) requires base_url", name)
		}
	}
	if c.Assistant.Keywords < 1 {
		c.Assistant.Keywords = 5
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	return nil
}

// YAML renders the effective configuration, API keys masked.
func (c *Config) YAML() (string, error) {
	masked := *c
	masked.Providers = make(map[string]ProviderConfig, len(c.Providers))
	for name, p := range c.Providers {
		if p.APIKey != "" && !strings.HasPrefix(p.APIKey, "$") {
			p.APIKey = "********"
		}
		masked.Providers[name] = p
	}
	data, err := yaml.Marshal(&masked)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
