package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Weather   WeatherConfig   `yaml:"weather"`
	Assistant AssistantConfig `yaml:"assistant"`
	Stats     StatsConfig     `yaml:"stats"`
	Client    ClientConfig    `yaml:"client"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string        `yaml:"address"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

// LLMConfig selects and tunes the language model backend.
type LLMConfig struct {
	Provider        string        `yaml:"provider"`
	APIKey          string        `yaml:"apiKey"`
	BaseURL         string        `yaml:"baseUrl"`
	Model           string        `yaml:"model"`
	Temperature     float32       `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"maxOutputTokens"`
	Timeout         time.Duration `yaml:"timeout"`
}

// WeatherConfig points at the OpenWeatherMap current weather endpoint.
type WeatherConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// AssistantConfig holds prompt and input limits for the assistant core.
type AssistantConfig struct {
	SystemPrompt       string `yaml:"systemPrompt"`
	PromptFile         string `yaml:"promptFile"`
	MaxUtteranceTokens int    `yaml:"maxUtteranceTokens"`
}

// StatsConfig controls the city popularity store.
type StatsConfig struct {
	TopCities int         `yaml:"topCities"`
	Prefix    string      `yaml:"prefix"`
	Redis     RedisConfig `yaml:"redis"`
}

// RedisConfig contains connection information for the stats store.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// ClientConfig is used by the terminal chat client.
type ClientConfig struct {
	ServerURL string        `yaml:"serverUrl"`
	Timeout   time.Duration `yaml:"timeout"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// defaultModels applies when llm.model is left empty.
var defaultModels = map[string]string{
	ProviderGemini: "gemini-2.5-flash",
	ProviderOpenAI: "gpt-4o-mini",
}

const defaultSystemPrompt = "You are a helpful weather assistant. Given weather data, provide a short, friendly recommendation and practical insights about the current conditions. Keep your response concise and useful."

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	applyDefaultModel(cfg)
	applyPromptFile(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// applyDefaultModel fills llm.model from the selected provider when it is unset.
func applyDefaultModel(cfg *Config) {
	if strings.TrimSpace(cfg.LLM.Model) != "" {
		return
	}
	cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
}

// applyPromptFile replaces the system prompt with the prompt file contents.
// A missing or empty file keeps the configured prompt.
func applyPromptFile(cfg *Config) {
	path := strings.TrimSpace(cfg.Assistant.PromptFile)
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if prompt := strings.TrimSpace(string(data)); prompt != "" {
		cfg.Assistant.SystemPrompt = prompt
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.LLM.Provider == ProviderGemini {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.LLM.Provider == ProviderOpenAI {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_OUTPUT_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxOutputTokens = parsed
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.Weather.APIKey = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.Timeout = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_SYSTEM_PROMPT"); v != "" {
		cfg.Assistant.SystemPrompt = v
	}
	if v := os.Getenv("ASSISTANT_PROMPT_FILE"); v != "" {
		cfg.Assistant.PromptFile = v
	}
	if v := os.Getenv("ASSISTANT_MAX_UTTERANCE_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.MaxUtteranceTokens = parsed
		}
	}
	if v := os.Getenv("STATS_TOP_CITIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Stats.TopCities = parsed
		}
	}
	if v := os.Getenv("STATS_REDIS_ENABLED"); v != "" {
		cfg.Stats.Redis.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("STATS_REDIS_ADDR"); v != "" {
		cfg.Stats.Redis.Addr = v
	}
	if v := os.Getenv("CLIENT_SERVER_URL"); v != "" {
		cfg.Client.ServerURL = v
	}
	if v := os.Getenv("CLIENT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Client.Timeout = parsed
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 90 * time.Second,
		},
		LLM: LLMConfig{
			Provider:        ProviderGemini,
			Temperature:     0.7,
			MaxOutputTokens: 1024,
			Timeout:         30 * time.Second,
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5/weather",
			Timeout: 10 * time.Second,
		},
		Assistant: AssistantConfig{
			SystemPrompt:       defaultSystemPrompt,
			PromptFile:         "configs/prompt.txt",
			MaxUtteranceTokens: 256,
		},
		Stats: StatsConfig{
			TopCities: 10,
			Prefix:    "weather",
			Redis: RedisConfig{
				Enabled: false,
				Addr:    "",
			},
		},
		Client: ClientConfig{
			ServerURL: "http://127.0.0.1:8000",
			Timeout:   90 * time.Second,
		},
	}
}

// Validate ensures the configuration is safe to use.
// Missing API keys are allowed; the service starts and reports itself not ready.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be %q or %q", ProviderGemini, ProviderOpenAI)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxOutputTokens <= 0 {
		return errors.New("llm.maxOutputTokens must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.Weather.Timeout <= 0 {
		return errors.New("weather.timeout must be positive")
	}
	if strings.TrimSpace(c.Assistant.SystemPrompt) == "" {
		return errors.New("assistant.systemPrompt cannot be empty")
	}
	if c.Assistant.MaxUtteranceTokens < 0 {
		return errors.New("assistant.maxUtteranceTokens cannot be negative")
	}
	if c.Stats.TopCities <= 0 {
		return errors.New("stats.topCities must be positive")
	}
	if c.Stats.Redis.Enabled && strings.TrimSpace(c.Stats.Redis.Addr) == "" {
		return errors.New("stats.redis.addr cannot be empty when redis stats are enabled")
	}
	if strings.TrimSpace(c.Client.ServerURL) == "" {
		return errors.New("client.serverUrl cannot be empty")
	}
	if c.Client.Timeout <= 0 {
		return errors.New("client.timeout must be positive")
	}
	return nil
}
