package assistantapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
)

func TestClientSend(t *testing.T) {
	var got assistant.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_message":"Oslo","bot_type":"weather","city":"Oslo","temperature":3.5,"recommendation":"Wear a coat."}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	resp, err := client.Send(context.Background(), "Oslo")
	require.NoError(t, err)
	require.Equal(t, "Oslo", got.Message)
	require.Equal(t, "weather", resp.BotType)
	require.NotNil(t, resp.Temperature)
	require.Equal(t, 3.5, *resp.Temperature)
	require.Equal(t, "Wear a coat.", resp.Recommendation)
}

func TestClientSendInBandErrorIsNotTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user_message":"x","bot_type":"weather","error":"not found","error_code":"location_not_recognized"}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL, time.Second).Send(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, "location_not_recognized", resp.ErrorCode)
}

func TestClientSendNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Send(context.Background(), "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestClientSendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, time.Second).Send(context.Background(), "x")
	require.Error(t, err)
}

func TestClientHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "ready", status: http.StatusOK, body: `{"status":"healthy","service":"weather-assistant","assistant_ready":true}`},
		{name: "not ready", status: http.StatusOK, body: `{"status":"degraded","assistant_ready":false}`, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: true},
		{name: "garbage", status: http.StatusOK, body: `<html>`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			err := NewClient(server.URL, time.Second).Health(context.Background())
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
