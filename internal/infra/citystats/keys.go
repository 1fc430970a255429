package citystats

import "strings"

// canonicalCity folds case and whitespace so "london" and "London " share a counter.
func canonicalCity(city, country string) string {
	c := strings.ToLower(strings.Join(strings.Fields(city), " "))
	if c == "" {
		return ""
	}
	if cc := strings.ToLower(strings.TrimSpace(country)); cc != "" {
		return c + "," + cc
	}
	return c
}

func displayCity(city, country string) string {
	c := strings.Join(strings.Fields(city), " ")
	if cc := strings.TrimSpace(country); cc != "" {
		return c + ", " + cc
	}
	return c
}
