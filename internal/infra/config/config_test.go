package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFileWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	promptPath := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(promptPath, []byte("  Be brief about the weather.  \n"), 0o600))

	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := `
http:
  address: ":9090"
llm:
  provider: openai
  model: gpt-4o-mini
  temperature: 0.3
  maxOutputTokens: 512
  timeout: 20s
weather:
  timeout: 3s
assistant:
  promptFile: ` + promptPath + `
stats:
  topCities: 5
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))

	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("WEATHER_API_KEY", "owm-test")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "http://localhost:3000, http://example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	require.Equal(t, "sk-test", cfg.LLM.APIKey)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, 512, cfg.LLM.MaxOutputTokens)
	require.Equal(t, 20*time.Second, cfg.LLM.Timeout)
	require.Equal(t, "owm-test", cfg.Weather.APIKey)
	require.Equal(t, 3*time.Second, cfg.Weather.Timeout)
	require.Equal(t, "https://api.openweathermap.org/data/2.5/weather", cfg.Weather.BaseURL)
	require.Equal(t, "Be brief about the weather.", cfg.Assistant.SystemPrompt)
	require.Equal(t, 5, cfg.Stats.TopCities)
	require.Equal(t, []string{"http://localhost:3000", "http://example.com"}, cfg.HTTP.AllowedOrigins)
}

func TestLoadKeepsDefaultPromptWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("assistant:\n  promptFile: "+filepath.Join(dir, "missing.txt")+"\n"), 0o600))
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, defaultSystemPrompt, cfg.Assistant.SystemPrompt)
}

func TestLoadPicksModelForProvider(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("llm:\n  temperature: 0.5\n"), 0o600))

	cases := []struct {
		name     string
		provider string
		model    string
		want     string
	}{
		{name: "gemini default", provider: "", want: "gemini-2.5-flash"},
		{name: "openai by env", provider: "openai", want: "gpt-4o-mini"},
		{name: "explicit model wins", provider: "openai", model: "gpt-4.1", want: "gpt-4.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", cfgPath)
			t.Setenv("LLM_PROVIDER", tc.provider)
			t.Setenv("LLM_MODEL", tc.model)
			t.Setenv("OPENAI_API_KEY", "sk-test")

			cfg, err := Load()
			require.NoError(t, err)
			require.Equal(t, tc.want, cfg.LLM.Model)
			if tc.provider == ProviderOpenAI {
				require.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
				require.Equal(t, "sk-test", cfg.LLM.APIKey)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "claude" }, errMsg: "llm.provider"},
		{name: "temperature", mutate: func(c *Config) { c.LLM.Temperature = 3 }, errMsg: "llm.temperature"},
		{name: "max tokens", mutate: func(c *Config) { c.LLM.MaxOutputTokens = 0 }, errMsg: "llm.maxOutputTokens"},
		{name: "weather timeout", mutate: func(c *Config) { c.Weather.Timeout = 0 }, errMsg: "weather.timeout"},
		{name: "redis addr", mutate: func(c *Config) { c.Stats.Redis.Enabled = true }, errMsg: "stats.redis.addr"},
		{name: "empty prompt", mutate: func(c *Config) { c.Assistant.SystemPrompt = " " }, errMsg: "assistant.systemPrompt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.errMsg)
		})
	}
}
