package chatsession

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
)

func TestSessionSubmitWeather(t *testing.T) {
	temp, feels, wind, humidity := 15.0, 14.0, 4.1, 72
	backend := &stubBackend{
		sendFn: func(ctx context.Context, utterance string) (assistant.ChatResponse, error) {
			require.Equal(t, "London", utterance)
			return assistant.ChatResponse{
				UserMessage:    utterance,
				BotType:        "weather",
				City:           "London",
				Country:        "GB",
				Temperature:    &temp,
				FeelsLike:      &feels,
				Description:    "light rain",
				Humidity:       &humidity,
				WindSpeed:      &wind,
				Recommendation: "Take an umbrella.",
				Insights:       "Showers clear by evening.",
			}, nil
		},
	}
	session := newReadySession(t, backend)
	session.SetDraft("  London ")

	msg := awaitResult(t, session)
	require.Equal(t, KindWeather, msg.Kind)
	require.NotNil(t, msg.Weather)
	require.Equal(t, "London", msg.Weather.City)
	require.Equal(t, 15.0, msg.Weather.Temperature)
	require.Equal(t, 72, msg.Weather.Humidity)
	require.Equal(t, "Showers clear by evening.", msg.Weather.Insights)

	transcript := session.Transcript()
	require.Len(t, transcript, 2)
	require.Equal(t, KindUser, transcript[0].Kind)
	require.Equal(t, "London", transcript[0].Text)
	require.Equal(t, msg.ID, transcript[1].ID)
	require.NotEqual(t, transcript[0].ID, transcript[1].ID)
	require.False(t, session.InFlight())
	require.Empty(t, session.Draft())
}

func TestSessionSubmitChatReplyFallsBackToRecommendation(t *testing.T) {
	backend := &stubBackend{
		sendFn: func(context.Context, string) (assistant.ChatResponse, error) {
			return assistant.ChatResponse{BotType: "chat", Recommendation: "Hello there!"}, nil
		},
	}
	session := newReadySession(t, backend)
	session.SetDraft("hi")

	msg := awaitResult(t, session)
	require.Equal(t, KindBot, msg.Kind)
	require.Equal(t, "Hello there!", msg.Text)
}

func TestSessionSubmitInBandError(t *testing.T) {
	backend := &stubBackend{
		sendFn: func(context.Context, string) (assistant.ChatResponse, error) {
			return assistant.ChatResponse{BotType: "weather", Error: "city not found", ErrorCode: "location_not_recognized"}, nil
		},
	}
	session := newReadySession(t, backend)
	session.SetDraft("Xyzzyqqq")

	msg := awaitResult(t, session)
	require.Equal(t, KindError, msg.Kind)
	require.Equal(t, FriendlyError("location_not_recognized"), msg.Text)
	require.Len(t, session.Transcript(), 2)
	require.True(t, session.Reachable())
	require.False(t, session.InFlight())
}

func TestSessionSubmitTransportFailure(t *testing.T) {
	backend := &stubBackend{
		sendFn: func(context.Context, string) (assistant.ChatResponse, error) {
			return assistant.ChatResponse{}, errors.New("connection refused")
		},
	}
	session := newReadySession(t, backend)
	session.SetDraft("Paris")

	msg := awaitResult(t, session)
	require.Equal(t, KindError, msg.Kind)
	require.Equal(t, connectivityNotice, msg.Text)
	require.False(t, session.Reachable())
	require.False(t, session.InFlight())

	session.SetDraft("Paris")
	require.False(t, session.CanSend())
	_, err := session.Submit(context.Background())
	require.ErrorIs(t, err, ErrCannotSend)

	require.True(t, session.Probe(context.Background()))
	require.True(t, session.CanSend())
}

func TestSessionRecoversFromBackendPanic(t *testing.T) {
	backend := &stubBackend{
		sendFn: func(context.Context, string) (assistant.ChatResponse, error) {
			panic("boom")
		},
	}
	session := newReadySession(t, backend)
	session.SetDraft("Rome")

	msg := awaitResult(t, session)
	require.Equal(t, KindError, msg.Kind)
	require.False(t, session.InFlight())
}

func TestSessionRejectsWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	backend := &stubBackend{
		sendFn: func(context.Context, string) (assistant.ChatResponse, error) {
			<-release
			return assistant.ChatResponse{BotType: "chat", Insights: "ok"}, nil
		},
	}
	session := newReadySession(t, backend)
	session.SetDraft("first")
	results, err := session.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, session.InFlight())

	session.SetDraft("second")
	require.False(t, session.CanSend())
	_, err = session.Submit(context.Background())
	require.ErrorIs(t, err, ErrCannotSend)
	require.Len(t, session.Transcript(), 1)
	require.Equal(t, "second", session.Draft())

	close(release)
	<-results
	require.Equal(t, 1, backend.sends)
	require.True(t, session.CanSend())
}

func TestSessionCanSendRules(t *testing.T) {
	session := NewSession(&stubBackend{healthErr: errors.New("down")}, newTestLogger())
	session.SetDraft("London")
	require.False(t, session.CanSend(), "unprobed backend")

	require.False(t, session.Probe(context.Background()))
	require.False(t, session.CanSend())

	ready := newReadySession(t, &stubBackend{})
	ready.SetDraft("   ")
	require.False(t, ready.CanSend())
	_, err := ready.Submit(context.Background())
	require.ErrorIs(t, err, ErrCannotSend)
	require.Empty(t, ready.Transcript())
}

func TestSessionReset(t *testing.T) {
	backend := &stubBackend{
		sendFn: func(context.Context, string) (assistant.ChatResponse, error) {
			return assistant.ChatResponse{BotType: "chat", Insights: "hi"}, nil
		},
	}
	session := newReadySession(t, backend)
	session.SetDraft("hello")
	awaitResult(t, session)
	require.Len(t, session.Transcript(), 2)

	session.Reset()
	require.Empty(t, session.Transcript())
	session.Reset()
	require.Empty(t, session.Transcript())
}

func TestTranscriptReturnsCopy(t *testing.T) {
	session := newReadySession(t, &stubBackend{
		sendFn: func(context.Context, string) (assistant.ChatResponse, error) {
			return assistant.ChatResponse{BotType: "chat", Insights: "hi"}, nil
		},
	})
	session.SetDraft("hello")
	awaitResult(t, session)

	snapshot := session.Transcript()
	snapshot[0].Text = "mutated"
	require.Equal(t, "hello", session.Transcript()[0].Text)
}

func TestFriendlyErrorIsTotal(t *testing.T) {
	codes := []string{
		"provider_unavailable",
		"location_not_recognized",
		"rate_limited",
		"malformed_provider_response",
		"invalid_input",
	}
	seen := map[string]bool{}
	for _, code := range codes {
		text := FriendlyError(code)
		require.NotEmpty(t, text)
		seen[text] = true
	}
	require.Len(t, seen, len(codes))
	require.Contains(t, FriendlyError("rate_limited"), "try again shortly")

	fallback := FriendlyError("")
	require.Contains(t, fallback, "something went wrong")
	require.Equal(t, fallback, FriendlyError("teapot"))
}

func newReadySession(t *testing.T, backend *stubBackend) *Session {
	t.Helper()
	session := NewSession(backend, newTestLogger())
	require.True(t, session.Probe(context.Background()))
	return session
}

func awaitResult(t *testing.T, session *Session) Message {
	t.Helper()
	results, err := session.Submit(context.Background())
	require.NoError(t, err)
	select {
	case msg, ok := <-results:
		require.True(t, ok)
		_, open := <-results
		require.False(t, open)
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for assistant reply")
		return Message{}
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubBackend struct {
	sendFn    func(ctx context.Context, utterance string) (assistant.ChatResponse, error)
	healthErr error
	sends     int
}

func (s *stubBackend) Send(ctx context.Context, utterance string) (assistant.ChatResponse, error) {
	s.sends++
	if s.sendFn != nil {
		return s.sendFn(ctx, utterance)
	}
	return assistant.ChatResponse{BotType: "chat"}, nil
}

func (s *stubBackend) Health(context.Context) error {
	return s.healthErr
}
