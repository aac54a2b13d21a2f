package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Phase is one timed window of an activity.
type Phase struct {
	Prompt          string `json:"prompt"`
	DurationSeconds int    `json:"duration_seconds"`
}

func (p Phase) Duration() time.Duration {
	return time.Duration(p.DurationSeconds) * time.Second
}

// ParsePhases decodes the JSON phase list stored on an activity row.
func ParsePhases(raw datatypes.JSON) ([]Phase, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var phases []Phase
	if err := json.Unmarshal(raw, &phases); err != nil {
		return nil, fmt.Errorf("parse phases: %w", err)
	}
	return phases, nil
}

// ResolveIndex returns the phase index active at now, or nil when no activity
// has started, now precedes the start, or the final phase has ended.
//
// The resolved value is only ever authoritative for "what phase is it right
// now": records stamp the resolution at creation time and historical queries
// use the stamped value, so editing a schedule never rewrites attribution.
func ResolveIndex(startedAt *time.Time, phases []Phase, now time.Time) *int {
	if startedAt == nil || len(phases) == 0 {
		return nil
	}
	if now.Before(*startedAt) {
		return nil
	}
	elapsed := now.Sub(*startedAt)
	var offset time.Duration
	for i, p := range phases {
		offset += p.Duration()
		if elapsed < offset {
			idx := i
			return &idx
		}
	}
	return nil
}
