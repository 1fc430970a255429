package assistant

// ChatRequest is the body accepted by POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the flat JSON shape returned by POST /chat. BotType is the
// route taken ("weather" or "chat"); Error and ErrorCode are set for in-band
// failures.
type ChatResponse struct {
	UserMessage    string   `json:"user_message"`
	BotType        string   `json:"bot_type"`
	City           string   `json:"city,omitempty"`
	Country        string   `json:"country,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
	FeelsLike      *float64 `json:"feels_like,omitempty"`
	TempMin        *float64 `json:"temp_min,omitempty"`
	TempMax        *float64 `json:"temp_max,omitempty"`
	Description    string   `json:"description,omitempty"`
	Condition      string   `json:"condition,omitempty"`
	Humidity       *int     `json:"humidity,omitempty"`
	Pressure       *int     `json:"pressure,omitempty"`
	WindSpeed      *float64 `json:"wind_speed,omitempty"`
	WindDeg        *int     `json:"wind_deg,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Insights       string   `json:"insights,omitempty"`
	Error          string   `json:"error,omitempty"`
	ErrorCode      string   `json:"error_code,omitempty"`
}

// NewChatResponse flattens a Response for the wire.
func NewChatResponse(utterance string, resp Response) ChatResponse {
	out := ChatResponse{
		UserMessage: utterance,
		BotType:     string(resp.Intent),
	}
	if out.BotType == "" {
		out.BotType = string(IntentChat)
	}

	switch resp.Kind {
	case KindWeather:
		if resp.Weather == nil {
			break
		}
		s := resp.Weather.Snapshot
		out.City = s.City
		out.Country = s.Country
		out.Temperature = ptr(s.Temperature)
		out.FeelsLike = ptr(s.FeelsLike)
		out.TempMin = ptr(s.TempMin)
		out.TempMax = ptr(s.TempMax)
		out.Description = s.Description
		out.Condition = s.Condition
		out.Humidity = ptr(s.Humidity)
		out.Pressure = ptr(s.Pressure)
		out.WindSpeed = ptr(s.WindSpeed)
		out.WindDeg = ptr(s.WindDeg)
		out.Recommendation = resp.Weather.Recommendation
		out.Insights = resp.Weather.Insights
	case KindChat:
		out.Insights = resp.Reply
	case KindError:
		if resp.Failure != nil {
			out.Error = resp.Failure.Message
			out.ErrorCode = string(resp.Failure.Reason)
		}
		if out.Error == "" {
			out.Error = "request failed"
		}
		if out.ErrorCode == "" {
			out.ErrorCode = string(ReasonProviderUnavailable)
		}
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status         string            `json:"status"`
	Service        string            `json:"service"`
	AssistantReady bool              `json:"assistant_ready"`
	Dependencies   map[string]string `json:"dependencies,omitempty"`
}

// NewHealthResponse reports liveness of the process plus readiness of the assistant.
func NewHealthResponse(service string, r Readiness) HealthResponse {
	status := "healthy"
	if !r.Ready {
		status = "degraded"
	}
	return HealthResponse{
		Status:         status,
		Service:        service,
		AssistantReady: r.Ready,
		Dependencies:   r.Dependencies,
	}
}
