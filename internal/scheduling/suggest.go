package scheduling

import (
	"sort"

	"github.com/noah-isme/schedule-grid-api/internal/models"
)

// SuggestOptions tunes the suggestion ranking.
type SuggestOptions struct {
	Limit      int
	DayWeight  int
	TimeWeight int
}

// DefaultSuggestOptions weighs a day as 1440 minutes so a same-day alternative always
// outranks a cross-day one.
func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{Limit: 5, DayWeight: models.MinutesPerDay, TimeWeight: 1}
}

func (o SuggestOptions) normalized() SuggestOptions {
	def := DefaultSuggestOptions()
	if o.Limit <= 0 {
		o.Limit = def.Limit
	}
	if o.DayWeight <= 0 {
		o.DayWeight = def.DayWeight
	}
	if o.TimeWeight <= 0 {
		o.TimeWeight = def.TimeWeight
	}
	return o
}

// Score measures how far a position lies from the requested placement.
func (o SuggestOptions) Score(from, to models.GridPosition) int {
	o = o.normalized()
	return abs(to.DayOfWeek.Index()-from.DayOfWeek.Index())*o.DayWeight +
		abs(to.StartTime.Minutes()-from.StartTime.Minutes())*o.TimeWeight
}

// Suggest scans every grid position except the candidate's own placement, keeps those
// without Error-severity conflicts and returns the closest ones. Ties are broken by day
// then time so the output is deterministic.
func Suggest(candidate models.ScheduleSlot, existing []models.ScheduleSlot, rooms []models.Room, positions []models.GridPosition, opts SuggestOptions) []models.Suggestion {
	opts = opts.normalized()
	origin := models.GridPosition{DayOfWeek: candidate.DayOfWeek, StartTime: candidate.StartTime}

	suggestions := make([]models.Suggestion, 0)
	for _, pos := range positions {
		if pos == origin {
			continue
		}
		moved := candidate.MovedTo(pos.DayOfWeek, pos.StartTime)
		conflicts := DetectConflicts(moved, existing, rooms)
		if models.HasBlocking(conflicts) {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			DayOfWeek: pos.DayOfWeek,
			StartTime: pos.StartTime,
			EndTime:   moved.EndTime(),
			Score:     opts.Score(origin, pos),
			Warnings:  models.Warnings(conflicts),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		return a.StartTime < b.StartTime
	})

	if len(suggestions) > opts.Limit {
		suggestions = suggestions[:opts.Limit]
	}
	return suggestions
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
