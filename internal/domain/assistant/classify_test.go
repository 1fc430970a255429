package assistant

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-assistant/pkg/errors"
)

func TestParseClassification(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		intent Intent
		city   string
	}{
		{name: "json city", raw: `{"is_city": true, "city": "New York"}`, intent: IntentWeather, city: "New York"},
		{name: "json chat", raw: `{"is_city": false, "city": ""}`, intent: IntentChat},
		{name: "fenced", raw: "```json\n{\"is_city\": true, \"city\": \"Tokyo\"}\n```", intent: IntentWeather, city: "Tokyo"},
		{name: "surrounding prose", raw: "Sure! {\"is_city\": true, \"city\": \"Lagos\"} Hope that helps.", intent: IntentWeather, city: "Lagos"},
		{name: "repairable json", raw: `{is_city: true, city: 'Oslo'`, intent: IntentWeather, city: "Oslo"},
		{name: "legacy yes", raw: "YES", intent: IntentWeather, city: "the utterance"},
		{name: "legacy yes with punctuation", raw: "**Yes.**", intent: IntentWeather, city: "the utterance"},
		{name: "legacy no", raw: "no.", intent: IntentChat},
		{name: "legacy no with reason", raw: "No, that is a greeting", intent: IntentChat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseClassification(tc.raw, "the utterance")
			require.NoError(t, err)
			require.Equal(t, tc.intent, got.Intent)
			require.Equal(t, tc.city, got.City)
		})
	}
}

func TestParseClassificationMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"maybe?",
		"```\n```",
		`{"is_city": true, "city": ""}`,
		`{"is_city": true, "city": "  "}`,
		"NONE",
		"Nottingham",
		"Norway",
		"Yesterday it rained",
	} {
		_, err := parseClassification(raw, "Paris")
		require.Error(t, err, raw)
		require.True(t, apperrors.IsCode(err, apperrors.CodeMalformedProviderResponse), raw)
	}
}
