package assistant

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	recommendationLabels = []string{"Recommendations:", "Recommendation:"}
	insightLabels        = []string{"Insights:", "Insight:"}

	leadingNumber  = regexp.MustCompile(`^\d+[.)]\s+`)
	trailingNumber = regexp.MustCompile(`([.!?])\s+\d+[.)]$`)
)

// formatWeatherReport renders the snapshot for the insight prompt.
func formatWeatherReport(s WeatherSnapshot) string {
	var b strings.Builder
	b.WriteString("Current Weather Report\n")
	b.WriteString("======================\n")
	fmt.Fprintf(&b, "Location    : %s, %s\n", orUnknown(s.City), orUnknown(s.Country))
	fmt.Fprintf(&b, "Condition   : %s\n", orUnknown(s.Description))
	if s.Condition != "" {
		fmt.Fprintf(&b, "Group       : %s\n", s.Condition)
	}
	fmt.Fprintf(&b, "Temperature : %.1f°C (feels like %.1f°C)\n", s.Temperature, s.FeelsLike)
	fmt.Fprintf(&b, "Range       : %.1f°C - %.1f°C\n", s.TempMin, s.TempMax)
	fmt.Fprintf(&b, "Humidity    : %d%%\n", s.Humidity)
	if s.Pressure > 0 {
		fmt.Fprintf(&b, "Pressure    : %d hPa\n", s.Pressure)
	}
	fmt.Fprintf(&b, "Wind Speed  : %.1f m/s", s.WindSpeed)
	if s.WindDeg > 0 {
		fmt.Fprintf(&b, " from %d°", s.WindDeg)
	}
	b.WriteString("\n")
	return b.String()
}

func buildInsightPrompt(s WeatherSnapshot) string {
	return "Here is the current weather data:\n" + formatWeatherReport(s) + "\n" +
		"Please provide:\n" +
		"1. A short, friendly recommendation (1 sentence) labelled 'Recommendation:'.\n" +
		"2. A brief insight about the conditions (1-2 sentences) labelled 'Insights:'."
}

// parseInsights splits the model reply into recommendation and insights.
// Labelled sections win; otherwise the text is split by sentences. It never
// fails: unusable input yields empty strings.
func parseInsights(raw string) (recommendation, insights string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ""
	}

	recIdx, recLen := findFirstMarker(text, recommendationLabels)
	insIdx, insLen := findFirstMarker(text, insightLabels)

	switch {
	case recIdx != -1 && insIdx != -1 && recIdx < insIdx:
		return cleanSection(text[recIdx+recLen : insIdx]), cleanSection(text[insIdx+insLen:])
	case recIdx != -1 && insIdx != -1:
		return cleanSection(text[recIdx+recLen:]), cleanSection(text[insIdx+insLen : recIdx])
	case recIdx != -1:
		return cleanSection(text[recIdx+recLen:]), ""
	case insIdx != -1:
		return cleanSection(text[:insIdx]), cleanSection(text[insIdx+insLen:])
	}

	return splitBySentences(text)
}

func splitBySentences(text string) (string, string) {
	full := strings.Join(strings.Fields(text), " ")
	sentences := splitSentences(full)
	switch {
	case len(sentences) >= 3:
		return strings.Join(sentences[:2], " "), strings.Join(sentences[2:], " ")
	case len(sentences) == 2:
		return sentences[0], sentences[1]
	default:
		return full, ""
	}
}

// splitSentences breaks after '.', '!' or '?' when followed by whitespace.
func splitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	runes := []rune(text)
	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '.', '!', '?':
			if runes[i+1] == ' ' {
				if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
					out = append(out, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func cleanSection(section string) string {
	cleaned := strings.Join(strings.Fields(section), " ")
	for {
		before := cleaned
		cleaned = strings.Trim(cleaned, "*_#:- ")
		cleaned = leadingNumber.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(trailingNumber.ReplaceAllString(cleaned, "$1"))
		if cleaned == before {
			return cleaned
		}
	}
}

func findFirstMarker(content string, markers []string) (int, int) {
	for _, marker := range markers {
		if idx := findMarker(content, marker); idx != -1 {
			return idx, len(marker)
		}
	}
	return -1, 0
}

func findMarker(content, marker string) int {
	lowerContent := strings.ToLower(content)
	lowerMarker := strings.ToLower(marker)
	return strings.Index(lowerContent, lowerMarker)
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Unknown"
	}
	return value
}
