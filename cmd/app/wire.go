//go:build wireinject
// +build wireinject

package main

import (
	"io"

	"github.com/google/wire"

	"github.com/yanqian/weather-assistant/internal/bootstrap"
	"github.com/yanqian/weather-assistant/internal/domain/assistant"
	"github.com/yanqian/weather-assistant/internal/domain/chatsession"
	"github.com/yanqian/weather-assistant/internal/infra/assistantapi"
	"github.com/yanqian/weather-assistant/internal/infra/config"
	"github.com/yanqian/weather-assistant/internal/infra/tokenizer"
	"github.com/yanqian/weather-assistant/internal/infra/weather/openweather"
	httpiface "github.com/yanqian/weather-assistant/internal/interface/http"
	"github.com/yanqian/weather-assistant/internal/interface/terminal"
	"github.com/yanqian/weather-assistant/pkg/logger"
)

var assistantSet = wire.NewSet(
	provideAssistantConfig,
	provideLanguageModel,
	provideWeatherClient,
	provideTokenCounter,
	provideCityStats,
	assistant.NewService,
	wire.Bind(new(assistant.WeatherProvider), new(*openweather.Client)),
	wire.Bind(new(assistant.TokenCounter), new(*tokenizer.Counter)),
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		assistantSet,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

func initializeAssistant() (assistant.Service, error) {
	wire.Build(
		config.Load,
		provideCLILogger,
		assistantSet,
	)
	return nil, nil
}

func initializeREPL(override serverOverride, in io.Reader, out io.Writer) (*terminal.REPL, error) {
	wire.Build(
		config.Load,
		provideCLILogger,
		provideAssistantAPIClient,
		chatsession.NewSession,
		terminal.NewREPL,
		wire.Bind(new(chatsession.Backend), new(*assistantapi.Client)),
	)
	return nil, nil
}
