package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/schedule-grid-api/internal/models"
	"github.com/noah-isme/schedule-grid-api/pkg/config"
)

func gridConfigFixture() *config.Config {
	return &config.Config{
		Grid: config.GridConfig{
			OpeningTime:     "07:30",
			ClosingTime:     "12:30",
			StepMinutes:     30,
			Days:            []string{"monday", "WED"},
			DefaultDuration: 50,
		},
		Suggestion: config.SuggestionConfig{Limit: 3, DayWeight: 1440, TimeWeight: 1},
		GridCache:  config.GridCacheConfig{TTL: 30 * time.Second},
	}
}

func TestNewGridSettings(t *testing.T) {
	settings, err := NewGridSettings(gridConfigFixture())
	require.NoError(t, err)

	assert.Equal(t, []models.Weekday{models.Monday, models.Wednesday}, settings.Grid.Days)
	assert.Equal(t, models.MustClock("07:30"), settings.Grid.Opening)
	assert.Equal(t, models.MustClock("12:30"), settings.Grid.Closing)
	assert.Equal(t, 3, settings.Suggestions.Limit)
	assert.Equal(t, 50, settings.DefaultDuration)
	assert.Equal(t, 30*time.Second, settings.CacheTTL)
}

func TestNewGridSettingsRejectsBadBounds(t *testing.T) {
	cfg := gridConfigFixture()
	cfg.Grid.ClosingTime = "07:00"
	_, err := NewGridSettings(cfg)
	assert.Error(t, err)

	cfg = gridConfigFixture()
	cfg.Grid.Days = []string{"SUNDAY"}
	_, err = NewGridSettings(cfg)
	assert.ErrorContains(t, err, "GRID_DAYS")

	cfg = gridConfigFixture()
	cfg.Grid.OpeningTime = "8am"
	_, err = NewGridSettings(cfg)
	assert.ErrorContains(t, err, "GRID_OPENING_TIME")
}

func TestDefaultGridSettings(t *testing.T) {
	settings := DefaultGridSettings()
	assert.Len(t, settings.Grid.Positions(60), 84)
	assert.Equal(t, 5, settings.Suggestions.Limit)
	assert.Equal(t, models.DefaultSlotDuration, settings.DefaultDuration)
}
