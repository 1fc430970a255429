package citystats

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-assistant/internal/domain/assistant"
)

// ValkeyStore keeps lookup counts in a sorted set on a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "weather"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// RecordLookup bumps the city's score and stores its display name on first sight.
func (s *ValkeyStore) RecordLookup(ctx context.Context, city, country string) error {
	canonical := canonicalCity(city, country)
	if canonical == "" {
		return nil
	}
	if err := s.client.Do(ctx, s.client.B().Zincrby().Key(s.rankingKey()).Increment(1).Member(canonical).Build()).Error(); err != nil {
		return err
	}
	_ = s.client.Do(ctx, s.client.B().Set().Key(s.displayKey(canonical)).Value(displayCity(city, country)).Nx().Build()).Error()
	return nil
}

// TopCities reads the ranking with scores. AsZScores accepts both the RESP2
// flat member/score array and the RESP3 array of pairs.
func (s *ValkeyStore) TopCities(ctx context.Context, limit int) ([]assistant.CityCount, error) {
	if limit <= 0 {
		limit = 10
	}
	scores, err := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.rankingKey()).Start(0).Stop(int64(limit-1)).Withscores().Build()).AsZScores()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]assistant.CityCount, 0, len(scores))
	for _, entry := range scores {
		out = append(out, assistant.CityCount{City: s.fetchDisplay(ctx, entry.Member), Count: int64(entry.Score)})
	}
	return out, nil
}

func (s *ValkeyStore) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

func (s *ValkeyStore) fetchDisplay(ctx context.Context, canonical string) string {
	display, err := s.client.Do(ctx, s.client.B().Get().Key(s.displayKey(canonical)).Build()).ToString()
	if err != nil || display == "" {
		return canonical
	}
	return display
}

func (s *ValkeyStore) rankingKey() string {
	return fmt.Sprintf("%s:cities", s.prefix)
}

func (s *ValkeyStore) displayKey(canonical string) string {
	return fmt.Sprintf("%s:city:%s", s.prefix, canonical)
}

var _ assistant.CityStats = (*ValkeyStore)(nil)
