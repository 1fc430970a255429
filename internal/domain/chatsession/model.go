package chatsession

import (
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
	"github.com/yanqian/weather-assistant/pkg/util"
)

// Kind identifies how a transcript entry is rendered.
type Kind string

const (
	KindUser    Kind = "user"
	KindBot     Kind = "bot"
	KindError   Kind = "error"
	KindWeather Kind = "weather"
)

// WeatherCard is the weather payload of a KindWeather message.
type WeatherCard struct {
	City           string
	Country        string
	Temperature    float64
	FeelsLike      float64
	Description    string
	Humidity       int
	WindSpeed      float64
	Recommendation string
	Insights       string
}

// Message is one immutable transcript entry.
type Message struct {
	ID        uuid.UUID
	Kind      Kind
	Text      string
	Weather   *WeatherCard
	CreatedAt time.Time
}

const connectivityNotice = "Unable to reach the weather assistant. Check that the server is running, then try again."

// FriendlyError turns a reason code into text for the user. Unknown codes get a generic sentence.
func FriendlyError(code string) string {
	switch assistant.Reason(code) {
	case assistant.ReasonLocationNotRecognized:
		return "I couldn't recognise that location. Please check the spelling or try a nearby city."
	case assistant.ReasonRateLimited:
		return "The weather service is busy right now. Please try again shortly."
	case assistant.ReasonProviderUnavailable:
		return "The weather service is temporarily unavailable. Please try again in a moment."
	case assistant.ReasonMalformedProviderResponse:
		return "I got an unexpected answer from an upstream service. Please try again."
	case assistant.ReasonInvalidInput:
		return "Please type a city name or a short question."
	default:
		return "Sorry, something went wrong. Please try again."
	}
}

// resultMessage derives the single message appended for a backend reply.
func resultMessage(reply assistant.ChatResponse) Message {
	switch {
	case reply.ErrorCode != "" || reply.Error != "":
		return newMessage(KindError, FriendlyError(reply.ErrorCode), nil)
	case reply.BotType == string(assistant.IntentWeather):
		card := &WeatherCard{
			City:           reply.City,
			Country:        reply.Country,
			Description:    reply.Description,
			Recommendation: reply.Recommendation,
			Insights:       reply.Insights,
		}
		if reply.Temperature != nil {
			card.Temperature = *reply.Temperature
		}
		if reply.FeelsLike != nil {
			card.FeelsLike = *reply.FeelsLike
		}
		if reply.Humidity != nil {
			card.Humidity = *reply.Humidity
		}
		if reply.WindSpeed != nil {
			card.WindSpeed = *reply.WindSpeed
		}
		return newMessage(KindWeather, reply.Recommendation, card)
	default:
		text := reply.Insights
		if text == "" {
			text = reply.Recommendation
		}
		return newMessage(KindBot, text, nil)
	}
}

func newMessage(kind Kind, text string, card *WeatherCard) Message {
	return Message{
		ID:        uuid.New(),
		Kind:      kind,
		Text:      text,
		Weather:   card,
		CreatedAt: util.NowUTC(),
	}
}
