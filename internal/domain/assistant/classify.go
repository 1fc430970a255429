package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	apperrors "github.com/yanqian/weather-assistant/pkg/errors"
)

const classificationInstruction = `You route messages for a weather assistant.
Decide whether the user wants a weather report for a real-world city or place. The message may be only the place name ("London", "New York") or a sentence that asks about the weather there ("what's it like in Tokyo today?").
Messages that mention a place for another purpose are NOT weather requests, e.g. "Suggest me a restaurant in Kolkata" or "Tell me about Paris". Greetings and general questions such as "How are you?" or "What should I wear?" are NOT weather requests either.
Reply with ONLY a JSON object and nothing else: {"is_city": true or false, "city": "<the city name, or empty>"}`

func buildClassificationPrompt(utterance string) string {
	return fmt.Sprintf("The user typed: '%s'", utterance)
}

type classificationWire struct {
	IsCity bool   `json:"is_city"`
	City   string `json:"city"`
}

// parseClassification reads the routing reply. The JSON object is the
// expected shape; a bare YES/NO answer is also accepted, in which case the
// whole utterance is taken as the city.
func parseClassification(raw, utterance string) (Classification, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return Classification{}, apperrors.Wrap(apperrors.CodeMalformedProviderResponse, "classification reply was empty", nil)
	}

	if start := strings.Index(text, "{"); start != -1 {
		candidate := text[start:]
		if end := strings.LastIndex(candidate, "}"); end != -1 {
			candidate = candidate[:end+1]
		}
		if wire, err := decodeClassification(candidate); err == nil {
			if !wire.IsCity {
				return Classification{Intent: IntentChat}, nil
			}
			city := strings.Trim(strings.TrimSpace(wire.City), `'"`)
			if city == "" {
				return Classification{}, apperrors.Wrap(apperrors.CodeMalformedProviderResponse, "classification named no city", errors.New(truncate(text, 120)))
			}
			return Classification{Intent: IntentWeather, City: city}, nil
		}
	}

	switch firstWord(text) {
	case "YES":
		return Classification{Intent: IntentWeather, City: utterance}, nil
	case "NO":
		return Classification{Intent: IntentChat}, nil
	}
	return Classification{}, apperrors.Wrap(apperrors.CodeMalformedProviderResponse, "classification reply not understood", errors.New(truncate(text, 120)))
}

func decodeClassification(candidate string) (classificationWire, error) {
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return classificationWire{}, err
	}
	var wire classificationWire
	if err := json.Unmarshal([]byte(repaired), &wire); err != nil {
		return classificationWire{}, err
	}
	return wire, nil
}

// firstWord returns the leading word upper-cased with punctuation trimmed.
func firstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(strings.Trim(fields[0], ".,!?;:'\"*"))
}

func stripCodeFence(raw string) string {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimPrefix(sanitized, "```")
	sanitized = strings.TrimSuffix(sanitized, "```")
	return strings.TrimSpace(sanitized)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
