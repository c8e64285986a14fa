package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		expected string
	}{
		{"text level", LevelText, "text"},
		{"minor level", LevelMinor, "minor"},
		{"required level", LevelRequired, "required"},
		{"type level", LevelType, "type"},
		{"member level", LevelMember, "member"},
		{"shape level", LevelShape, "shape"},
		{"endpoint level", LevelEndpoint, "endpoint"},

		// Edge cases: Invalid level values
		{"zero value", Level(0), "unknown"},
		{"unknown negative", Level(-1), "unknown"},
		{"unknown large value", Level(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.level.String()
			assert.Equal(t, tt.expected, result, "Level(%d).String() = %q, want %q", tt.level, result, tt.expected)
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	ordered := []Level{LevelText, LevelMinor, LevelRequired, LevelType, LevelMember, LevelShape, LevelEndpoint}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1], ordered[i], "%s should rank below %s", ordered[i-1], ordered[i])
	}
}

func TestLevelIsValid(t *testing.T) {
	assert.True(t, LevelText.IsValid())
	assert.True(t, LevelEndpoint.IsValid())
	assert.False(t, Level(0).IsValid())
	assert.False(t, Level(8).IsValid())
}

func TestParseLevel(t *testing.T) {
	for l := LevelText; l <= LevelEndpoint; l++ {
		got, ok := ParseLevel(l.String())
		assert.True(t, ok)
		assert.Equal(t, l, got)
	}

	_, ok := ParseLevel("unknown")
	assert.False(t, ok)
	_, ok = ParseLevel("Endpoint")
	assert.False(t, ok)
}
