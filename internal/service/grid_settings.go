package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/schedule-grid-api/internal/models"
	"github.com/noah-isme/schedule-grid-api/internal/scheduling"
	"github.com/noah-isme/schedule-grid-api/pkg/config"
)

// GridSettings is the parsed, validated form of the grid and suggestion configuration.
type GridSettings struct {
	Grid            scheduling.GridConfig
	Suggestions     scheduling.SuggestOptions
	DefaultDuration int
	CacheTTL        time.Duration
}

// DefaultGridSettings mirrors the configuration defaults.
func DefaultGridSettings() GridSettings {
	return GridSettings{
		Grid:            scheduling.DefaultGridConfig(),
		Suggestions:     scheduling.DefaultSuggestOptions(),
		DefaultDuration: models.DefaultSlotDuration,
		CacheTTL:        2 * time.Minute,
	}
}

// NewGridSettings parses the configured grid bounds.
func NewGridSettings(cfg *config.Config) (GridSettings, error) {
	settings := DefaultGridSettings()

	opening, err := models.ParseClock(cfg.Grid.OpeningTime)
	if err != nil {
		return settings, fmt.Errorf("GRID_OPENING_TIME: %w", err)
	}
	closing, err := models.ParseClock(cfg.Grid.ClosingTime)
	if err != nil {
		return settings, fmt.Errorf("GRID_CLOSING_TIME: %w", err)
	}
	days := make([]models.Weekday, 0, len(cfg.Grid.Days))
	for _, raw := range cfg.Grid.Days {
		day, err := models.ParseWeekday(raw)
		if err != nil {
			return settings, fmt.Errorf("GRID_DAYS: %w", err)
		}
		days = append(days, day)
	}

	settings.Grid = scheduling.GridConfig{
		Days:        days,
		Opening:     opening,
		Closing:     closing,
		StepMinutes: cfg.Grid.StepMinutes,
	}
	if err := settings.Grid.Validate(); err != nil {
		return settings, err
	}

	settings.Suggestions = scheduling.SuggestOptions{
		Limit:      cfg.Suggestion.Limit,
		DayWeight:  cfg.Suggestion.DayWeight,
		TimeWeight: cfg.Suggestion.TimeWeight,
	}
	if cfg.Grid.DefaultDuration > 0 {
		settings.DefaultDuration = cfg.Grid.DefaultDuration
	}
	if cfg.GridCache.TTL > 0 {
		settings.CacheTTL = cfg.GridCache.TTL
	}
	return settings, nil
}
