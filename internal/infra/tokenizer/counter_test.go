package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountApproximate(t *testing.T) {
	counter := &Counter{}

	require.Equal(t, 0, counter.Count(""))
	require.Equal(t, 1, counter.Count("Oslo"))
	require.Equal(t, 2, counter.Count("London!"))
	require.Equal(t, 1, counter.Count("東京"))
	require.Equal(t, 250, counter.Count(strings.Repeat("a", 1000)))

	var nilCounter *Counter
	require.Equal(t, 3, nilCounter.Count("New York, NY"))
}
