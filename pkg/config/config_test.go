package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "08:00", cfg.Grid.OpeningTime)
	assert.Equal(t, "22:00", cfg.Grid.ClosingTime)
	assert.Len(t, cfg.Grid.Days, 6)
	assert.Equal(t, 60, cfg.Grid.StepMinutes)
	assert.Equal(t, SuggestionConfig{Limit: 5, DayWeight: 1440, TimeWeight: 1}, cfg.Suggestion)
	assert.False(t, cfg.GridCache.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.GridCache.TTL)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GRID_DAYS", "monday, wednesday ,")
	t.Setenv("SUGGESTION_LIMIT", "0")
	t.Setenv("GRID_CACHE_TTL", "not-a-duration")
	t.Setenv("ENABLE_GRID_CACHE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"monday", "wednesday"}, cfg.Grid.Days)
	assert.Equal(t, 5, cfg.Suggestion.Limit)
	assert.True(t, cfg.GridCache.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.GridCache.TTL)
}
