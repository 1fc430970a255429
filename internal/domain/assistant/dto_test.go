package assistant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewChatResponseWeather(t *testing.T) {
	resp := weatherResult(WeatherReport{
		Snapshot:       WeatherSnapshot{City: "London", Country: "GB", Temperature: 0, FeelsLike: -2.5, Humidity: 65, WindSpeed: 5.2, Description: "fog"},
		Recommendation: "Wrap up warm.",
		Insights:       "Freezing fog this morning.",
	})

	out := NewChatResponse("London", resp)

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	require.Equal(t, "London", body["user_message"])
	require.Equal(t, "weather", body["bot_type"])
	require.Equal(t, "GB", body["country"])
	require.Equal(t, 0.0, body["temperature"])
	require.Equal(t, -2.5, body["feels_like"])
	require.Equal(t, 65.0, body["humidity"])
	require.Equal(t, "Wrap up warm.", body["recommendation"])
	require.Equal(t, "Freezing fog this morning.", body["insights"])
	require.NotContains(t, body, "error")
}

func TestNewChatResponseChat(t *testing.T) {
	out := NewChatResponse("How are you?", chatResult("Great, thanks!"))

	require.Equal(t, "chat", out.BotType)
	require.Equal(t, "Great, thanks!", out.Insights)
	require.Nil(t, out.Temperature)
	require.Empty(t, out.Error)
}

func TestNewChatResponseError(t *testing.T) {
	resp := Response{Kind: KindError, Intent: IntentWeather, Failure: &Failure{Reason: ReasonLocationNotRecognized, Message: "city not found"}}

	out := NewChatResponse("Xyzzyqqq", resp)

	require.Equal(t, "weather", out.BotType)
	require.Equal(t, "city not found", out.Error)
	require.Equal(t, "location_not_recognized", out.ErrorCode)
	require.Empty(t, out.City)

	bare := NewChatResponse("x", Response{Kind: KindError})
	require.Equal(t, "chat", bare.BotType)
	require.Equal(t, "request failed", bare.Error)
	require.Equal(t, "provider_unavailable", bare.ErrorCode)
}

func TestNewHealthResponse(t *testing.T) {
	ready := NewHealthResponse("weather-assistant", Readiness{Ready: true, Dependencies: map[string]string{"llm": "ok"}})
	require.Equal(t, "healthy", ready.Status)
	require.True(t, ready.AssistantReady)

	degraded := NewHealthResponse("weather-assistant", Readiness{Ready: false})
	require.Equal(t, "degraded", degraded.Status)
	require.False(t, degraded.AssistantReady)
}
