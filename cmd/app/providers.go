package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
	"github.com/yanqian/weather-assistant/internal/infra/assistantapi"
	"github.com/yanqian/weather-assistant/internal/infra/citystats"
	"github.com/yanqian/weather-assistant/internal/infra/config"
	"github.com/yanqian/weather-assistant/internal/infra/llm"
	"github.com/yanqian/weather-assistant/internal/infra/llm/chatgpt"
	"github.com/yanqian/weather-assistant/internal/infra/llm/gemini"
	"github.com/yanqian/weather-assistant/internal/infra/tokenizer"
	"github.com/yanqian/weather-assistant/internal/infra/weather/openweather"
	"github.com/yanqian/weather-assistant/pkg/logger"
)

// serverOverride is the --server flag of the chat command; empty keeps the configured URL.
type serverOverride string

func provideAssistantConfig(cfg *config.Config) assistant.Config {
	return assistant.Config{
		SystemPrompt:       cfg.Assistant.SystemPrompt,
		Temperature:        cfg.LLM.Temperature,
		MaxOutputTokens:    cfg.LLM.MaxOutputTokens,
		MaxUtteranceTokens: cfg.Assistant.MaxUtteranceTokens,
		TopCities:          cfg.Stats.TopCities,
	}
}

// provideLanguageModel never fails: a provider that cannot be built is
// replaced with a placeholder so the server still starts and reports not ready.
func provideLanguageModel(cfg *config.Config, logger *slog.Logger) assistant.LanguageModel {
	var (
		model assistant.LanguageModel
		err   error
	)
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		model, err = chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
	default:
		model, err = gemini.NewClient(context.Background(), cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
	}
	if err != nil {
		logger.Error("language model unavailable", "provider", cfg.LLM.Provider, "error", err)
		return llm.NewUnavailable(err)
	}
	logger.Info("language model configured", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return model
}

func provideWeatherClient(cfg *config.Config) *openweather.Client {
	return openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Timeout)
}

func provideTokenCounter(logger *slog.Logger) *tokenizer.Counter {
	return tokenizer.New(tokenizer.DefaultEncoding, logger)
}

func provideCityStats(cfg *config.Config, logger *slog.Logger) assistant.CityStats {
	if cfg.Stats.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return citystats.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return citystats.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("city stats valkey store enabled", "addr", cfg.Stats.Redis.Addr)
			return citystats.NewValkeyStore(client, cfg.Stats.Prefix)
		}
	}
	return citystats.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Stats.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Stats.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Stats.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// provideCLILogger keeps log lines off stdout, which carries command output.
func provideCLILogger() *slog.Logger {
	return logger.NewWithWriter(os.Stderr)
}

func provideAssistantAPIClient(cfg *config.Config, override serverOverride) *assistantapi.Client {
	serverURL := cfg.Client.ServerURL
	if v := strings.TrimSpace(string(override)); v != "" {
		serverURL = v
	}
	return assistantapi.NewClient(serverURL, cfg.Client.Timeout)
}
