package assistant

import (
	apperrors "github.com/yanqian/weather-assistant/pkg/errors"
	"github.com/yanqian/weather-assistant/pkg/metrics"
)

// Kind tags which payload of a Response is populated.
type Kind string

const (
	KindWeather Kind = "weather"
	KindChat    Kind = "chat"
	KindError   Kind = "error"
)

// Intent is the classification outcome for an utterance.
type Intent string

const (
	IntentWeather Intent = "weather"
	IntentChat    Intent = "chat"
)

// Reason is the machine-oriented cause carried by an error response.
type Reason string

const (
	ReasonProviderUnavailable       Reason = apperrors.CodeProviderUnavailable
	ReasonLocationNotRecognized     Reason = apperrors.CodeLocationNotRecognized
	ReasonRateLimited               Reason = apperrors.CodeRateLimited
	ReasonMalformedProviderResponse Reason = apperrors.CodeMalformedProviderResponse
	ReasonInvalidInput              Reason = apperrors.CodeInvalidInput
)

// Classification is the result of the routing call.
type Classification struct {
	Intent Intent
	City   string
}

// WeatherSnapshot holds current conditions in metric units.
type WeatherSnapshot struct {
	City        string
	Country     string
	Temperature float64
	FeelsLike   float64
	TempMin     float64
	TempMax     float64
	Description string
	Condition   string
	Humidity    int
	Pressure    int
	WindSpeed   float64
	WindDeg     int
}

// WeatherReport is a snapshot plus the generated advice.
type WeatherReport struct {
	Snapshot       WeatherSnapshot
	Recommendation string
	Insights       string
}

// Failure describes an error response.
type Failure struct {
	Reason  Reason
	Message string
}

// Response is the tagged result of Handle. Exactly one of Weather, Reply
// or Failure is meaningful, selected by Kind.
type Response struct {
	Kind    Kind
	Intent  Intent
	Weather *WeatherReport
	Reply   string
	Failure *Failure
}

func weatherResult(report WeatherReport) Response {
	return Response{Kind: KindWeather, Intent: IntentWeather, Weather: &report}
}

func chatResult(reply string) Response {
	return Response{Kind: KindChat, Intent: IntentChat, Reply: reply}
}

func errorResult(intent Intent, err error) Response {
	reason := Reason(apperrors.CodeOf(err))
	switch reason {
	case ReasonProviderUnavailable, ReasonLocationNotRecognized, ReasonRateLimited,
		ReasonMalformedProviderResponse, ReasonInvalidInput:
	default:
		reason = ReasonProviderUnavailable
	}
	return Response{
		Kind:    KindError,
		Intent:  intent,
		Failure: &Failure{Reason: reason, Message: apperrors.MessageOf(err)},
	}
}

// Prompt is a single-turn request to a language model.
type Prompt struct {
	System          string
	User            string
	Temperature     float32
	MaxOutputTokens int
}

// Completion is the text returned by a language model.
type Completion struct {
	Text  string
	Model string
	Usage metrics.TokenUsage
}

// CityCount is one row of the popularity ranking.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// Readiness summarises dependency state for the health endpoint.
type Readiness struct {
	Ready        bool
	Dependencies map[string]string
}

// Config wires runtime settings for the assistant domain.
type Config struct {
	SystemPrompt       string
	Temperature        float32
	MaxOutputTokens    int
	MaxUtteranceTokens int
	TopCities          int
}
