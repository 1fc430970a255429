package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/weather-assistant/pkg/errors"
	"github.com/yanqian/weather-assistant/pkg/metrics"
)

// Service routes one utterance to a weather report or a chat reply.
type Service interface {
	Handle(ctx context.Context, utterance string) Response
	Ready(ctx context.Context) Readiness
	Trending(ctx context.Context) ([]CityCount, error)
}

// LanguageModel generates text for a single-turn prompt.
type LanguageModel interface {
	Generate(ctx context.Context, prompt Prompt) (Completion, error)
}

// WeatherProvider looks up current conditions by city name.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (WeatherSnapshot, error)
}

// CityStats tracks how often each city is looked up.
type CityStats interface {
	RecordLookup(ctx context.Context, city, country string) error
	TopCities(ctx context.Context, limit int) ([]CityCount, error)
	Ping(ctx context.Context) error
}

// TokenCounter measures utterance length in model tokens.
type TokenCounter interface {
	Count(text string) int
}

// readinessReporter is implemented by adapters that know without a network
// call whether they can serve requests.
type readinessReporter interface {
	Ready() error
}

const chatInstruction = "You are a friendly assistant who specialises in weather but can also help with general questions. " +
	"Answer the user's question helpfully and fully using your knowledge. " +
	"If their question is DIRECTLY about weather or climate (e.g. 'What is humidity?', 'What causes rain?'), answer normally with no reminder at the end. " +
	"For ALL OTHER questions, including questions about cities, restaurants, people, places, or anything else not directly about weather, " +
	"answer the question fully AND then add a short friendly reminder at the end that you are primarily a weather assistant and the user can type any city name to get a live weather report with personalised recommendations. " +
	"Keep the reminder one sentence, natural and not robotic."

type service struct {
	cfg     Config
	llm     LanguageModel
	weather WeatherProvider
	stats   CityStats
	tokens  TokenCounter
	logger  *slog.Logger
}

// NewService wires up the assistant domain.
func NewService(cfg Config, llm LanguageModel, weather WeatherProvider, stats CityStats, tokens TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		llm:     llm,
		weather: weather,
		stats:   stats,
		tokens:  tokens,
		logger:  logger.With("component", "assistant.service"),
	}
}

// Handle never returns a Go error; failures come back as KindError responses.
func (s *service) Handle(ctx context.Context, utterance string) Response {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return s.fail(IntentChat, apperrors.Wrap(apperrors.CodeInvalidInput, "message cannot be empty", nil))
	}
	if limit := s.cfg.MaxUtteranceTokens; limit > 0 && s.tokens != nil {
		if count := s.tokens.Count(text); count > limit {
			s.logger.Warn("utterance exceeds token limit", "tokens", count, "limit", limit)
			return s.fail(IntentChat, apperrors.Wrap(apperrors.CodeInvalidInput, "message is too long", nil))
		}
	}

	classification, err := s.classify(ctx, text)
	if err != nil {
		return s.fail(IntentChat, err)
	}
	s.logger.Info("utterance classified", "intent", classification.Intent, "city", classification.City)

	if classification.Intent == IntentWeather {
		return s.weatherReport(ctx, classification.City)
	}
	return s.chat(ctx, text)
}

func (s *service) classify(ctx context.Context, text string) (Classification, error) {
	completion, err := s.generate(ctx, "classification", Prompt{
		System:          classificationInstruction,
		User:            buildClassificationPrompt(text),
		Temperature:     s.cfg.Temperature,
		MaxOutputTokens: s.cfg.MaxOutputTokens,
	})
	if err != nil {
		return Classification{}, err
	}
	return parseClassification(completion.Text, text)
}

func (s *service) weatherReport(ctx context.Context, city string) Response {
	snapshot, err := s.weather.Current(ctx, city)
	if err != nil {
		return s.fail(IntentWeather, ensureCode(err, "weather lookup failed"))
	}
	s.logger.Info("weather fetched", "city", snapshot.City, "country", snapshot.Country)

	completion, err := s.generate(ctx, "insights", Prompt{
		System:          s.cfg.SystemPrompt,
		User:            buildInsightPrompt(snapshot),
		Temperature:     s.cfg.Temperature,
		MaxOutputTokens: s.cfg.MaxOutputTokens,
	})
	if err != nil {
		return s.fail(IntentWeather, err)
	}
	recommendation, insights := parseInsights(completion.Text)
	if recommendation == "" && insights == "" {
		s.logger.Warn("insight reply could not be parsed", "city", snapshot.City)
	}

	s.recordLookup(ctx, snapshot)

	return weatherResult(WeatherReport{
		Snapshot:       snapshot,
		Recommendation: recommendation,
		Insights:       insights,
	})
}

func (s *service) chat(ctx context.Context, text string) Response {
	completion, err := s.generate(ctx, "chat", Prompt{
		System:          chatInstruction,
		User:            text,
		Temperature:     s.cfg.Temperature,
		MaxOutputTokens: s.cfg.MaxOutputTokens,
	})
	if err != nil {
		return s.fail(IntentChat, err)
	}
	reply := strings.TrimSpace(completion.Text)
	if reply == "" {
		return s.fail(IntentChat, apperrors.Wrap(apperrors.CodeMalformedProviderResponse, "language model returned an empty reply", nil))
	}
	return chatResult(reply)
}

// generate performs exactly one language model call.
func (s *service) generate(ctx context.Context, step string, prompt Prompt) (Completion, error) {
	start := time.Now()
	completion, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("language model call failed", "step", step, "code", apperrors.CodeOf(err), "latency_ms", time.Since(start).Milliseconds(), "error", err)
		return Completion{}, ensureCode(err, "language model call failed")
	}
	s.logger.Debug("language model call", "call", metrics.LLMCall{
		Step:    step,
		Model:   completion.Model,
		Usage:   completion.Usage,
		Latency: time.Since(start),
	})
	return completion, nil
}

func (s *service) recordLookup(ctx context.Context, snapshot WeatherSnapshot) {
	if s.stats == nil {
		return
	}
	if err := s.stats.RecordLookup(ctx, snapshot.City, snapshot.Country); err != nil {
		s.logger.Warn("record city lookup failed", "city", snapshot.City, "error", err)
	}
}

func (s *service) fail(intent Intent, err error) Response {
	resp := errorResult(intent, err)
	s.logger.Warn("utterance failed", "intent", intent, "reason", resp.Failure.Reason, "error", err)
	return resp
}

// Ready reports whether the providers are configured and the stats store answers.
func (s *service) Ready(ctx context.Context) Readiness {
	out := Readiness{Ready: true, Dependencies: make(map[string]string, 3)}

	for name, dep := range map[string]any{"llm": s.llm, "weather": s.weather} {
		status := "ok"
		if reporter, ok := dep.(readinessReporter); ok {
			if err := reporter.Ready(); err != nil {
				status = err.Error()
				out.Ready = false
			}
		}
		out.Dependencies[name] = status
	}

	if s.stats != nil {
		if err := s.stats.Ping(ctx); err != nil {
			out.Dependencies["stats"] = "unavailable: " + err.Error()
		} else {
			out.Dependencies["stats"] = "ok"
		}
	}
	return out
}

// Trending returns the most looked-up cities.
func (s *service) Trending(ctx context.Context) ([]CityCount, error) {
	if s.stats == nil {
		return []CityCount{}, nil
	}
	items, err := s.stats.TopCities(ctx, s.cfg.TopCities)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStatsUnavailable, "failed to load trending cities", err)
	}
	if items == nil {
		items = []CityCount{}
	}
	return items, nil
}

func ensureCode(err error, message string) error {
	if apperrors.CodeOf(err) != "" {
		return err
	}
	return apperrors.Wrap(apperrors.CodeProviderUnavailable, message, err)
}
