package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
	apperrors "github.com/yanqian/weather-assistant/pkg/errors"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client fetches current conditions from OpenWeatherMap. Requests always use
// units=metric, so temperatures arrive in °C and wind speed in m/s.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ready reports whether an API key is configured.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return errors.New("weather api key not configured")
	}
	return nil
}

// Current retrieves the weather snapshot for a city.
func (c *Client) Current(ctx context.Context, city string) (assistant.WeatherSnapshot, error) {
	if err := c.Ready(); err != nil {
		return assistant.WeatherSnapshot{}, apperrors.Wrap(apperrors.CodeProviderUnavailable, "weather service is not configured", err)
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return assistant.WeatherSnapshot{}, apperrors.Wrap(apperrors.CodeProviderUnavailable, "build weather request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return assistant.WeatherSnapshot{}, apperrors.Wrap(apperrors.CodeProviderUnavailable, "weather service unreachable", redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return assistant.WeatherSnapshot{}, statusError(resp.StatusCode, payload)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return assistant.WeatherSnapshot{}, apperrors.Wrap(apperrors.CodeProviderUnavailable, "read weather response", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return assistant.WeatherSnapshot{}, apperrors.Wrap(apperrors.CodeMalformedProviderResponse, "weather response was not valid JSON", err)
	}
	return normalize(raw)
}

func statusError(status int, payload []byte) error {
	var body errorBody
	_ = json.Unmarshal(payload, &body)
	cause := fmt.Errorf("status=%d body=%s", status, strings.TrimSpace(string(payload)))

	switch status {
	case http.StatusNotFound:
		return apperrors.Wrap(apperrors.CodeLocationNotRecognized, "city not found", cause)
	case http.StatusTooManyRequests:
		return apperrors.Wrap(apperrors.CodeRateLimited, "weather service rate limit exceeded", cause)
	case http.StatusUnauthorized:
		return apperrors.Wrap(apperrors.CodeProviderUnavailable, "invalid weather api key", cause)
	default:
		message := "unexpected weather service response"
		if body.Message != "" {
			message = message + ": " + body.Message
		}
		return apperrors.Wrap(apperrors.CodeProviderUnavailable, message, cause)
	}
}

// redact strips the API key from transport errors, which embed the request URL.
func redact(err error, secret string) error {
	if secret == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), secret, "REDACTED"))
}

type apiResponse struct {
	Name    string       `json:"name"`
	Sys     apiSys       `json:"sys"`
	Main    *apiMain     `json:"main"`
	Weather []apiWeather `json:"weather"`
	Wind    *apiWind     `json:"wind"`
}

type apiSys struct {
	Country string `json:"country"`
}

type apiMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	TempMin   *float64 `json:"temp_min"`
	TempMax   *float64 `json:"temp_max"`
	Pressure  *int     `json:"pressure"`
	Humidity  *int     `json:"humidity"`
}

type apiWeather struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type apiWind struct {
	Speed *float64 `json:"speed"`
	Deg   *int     `json:"deg"`
}

type errorBody struct {
	Message string `json:"message"`
}

// normalize builds a snapshot and checks the required fields: city,
// temperature, description, humidity and wind speed.
func normalize(raw apiResponse) (assistant.WeatherSnapshot, error) {
	var missing []string
	if strings.TrimSpace(raw.Name) == "" {
		missing = append(missing, "city")
	}
	if raw.Main == nil || raw.Main.Temp == nil {
		missing = append(missing, "temperature")
	}
	if len(raw.Weather) == 0 || strings.TrimSpace(raw.Weather[0].Description) == "" {
		missing = append(missing, "description")
	}
	if raw.Main == nil || raw.Main.Humidity == nil {
		missing = append(missing, "humidity")
	}
	if raw.Wind == nil || raw.Wind.Speed == nil {
		missing = append(missing, "wind_speed")
	}
	if len(missing) > 0 {
		return assistant.WeatherSnapshot{}, apperrors.Wrap(apperrors.CodeMalformedProviderResponse, "weather response missing required fields", errors.New(strings.Join(missing, ", ")))
	}

	snapshot := assistant.WeatherSnapshot{
		City:        raw.Name,
		Country:     raw.Sys.Country,
		Temperature: *raw.Main.Temp,
		FeelsLike:   valueOr(raw.Main.FeelsLike, *raw.Main.Temp),
		TempMin:     valueOr(raw.Main.TempMin, *raw.Main.Temp),
		TempMax:     valueOr(raw.Main.TempMax, *raw.Main.Temp),
		Description: raw.Weather[0].Description,
		Condition:   raw.Weather[0].Main,
		Humidity:    *raw.Main.Humidity,
		Pressure:    valueOr(raw.Main.Pressure, 0),
		WindSpeed:   *raw.Wind.Speed,
		WindDeg:     valueOr(raw.Wind.Deg, 0),
	}
	return snapshot, nil
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
