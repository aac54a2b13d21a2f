package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/davidcw/studyhall-backend/internal/types"
)

// SeedDefaults upserts the built-in agents and the starter activity
// catalogue. Existing rows keep their is_active flag and descriptions;
// only missing rows are inserted.
func (s *DatabaseService) SeedDefaults() error {
	if err := s.seedAgents(); err != nil {
		return fmt.Errorf("seed agents: %w", err)
	}
	if err := s.seedActivities(); err != nil {
		return fmt.Errorf("seed activities: %w", err)
	}
	return nil
}

func (s *DatabaseService) seedAgents() error {
	now := time.Now().UTC()
	agents := []types.Agent{
		{
			ID:          uuid.New(),
			RoleKey:     "facilitator",
			Name:        "Facilitator Agent",
			Description: "Keeps everyone involved: prompts quiet members and flags uneven participation.",
			IsActive:    true,
			Config:      datatypes.JSON([]byte(`{}`)),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New(),
			RoleKey:     "socratic",
			Name:        "Socratic Agent",
			Description: "Asks for the evidence or reasoning behind unsupported claims.",
			IsActive:    true,
			Config:      datatypes.JSON([]byte(`{}`)),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "role_key"}},
		DoNothing: true,
	}).Create(&agents).Error
}

func (s *DatabaseService) seedActivities() error {
	now := time.Now().UTC()
	activities := []types.Activity{
		{
			ID:          uuid.New(),
			Slug:        "think-pair-share",
			Title:       "Think, Pair, Share",
			Description: "Silent brainstorm, paired discussion, then whole-group synthesis.",
			Phases: mustPhasesJSON([]map[string]any{
				{"prompt": "Write down your own ideas.", "duration_seconds": 180},
				{"prompt": "Compare notes with a partner.", "duration_seconds": 300},
				{"prompt": "Share your best idea with the room.", "duration_seconds": 300},
			}),
			CreatedAt: now,
		},
		{
			ID:          uuid.New(),
			Slug:        "structured-debate",
			Title:       "Structured Debate",
			Description: "Argue both sides of a claim with evidence before settling on a position.",
			Phases: mustPhasesJSON([]map[string]any{
				{"prompt": "Post arguments in favour, with evidence.", "duration_seconds": 300},
				{"prompt": "Post arguments against, with evidence.", "duration_seconds": 300},
				{"prompt": "Where do you actually land, and why?", "duration_seconds": 240},
			}),
			CreatedAt: now,
		},
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&activities).Error
}

func mustPhasesJSON(phases []map[string]any) datatypes.JSON {
	raw, err := json.Marshal(phases)
	if err != nil {
		return datatypes.JSON([]byte(`[]`))
	}
	return datatypes.JSON(raw)
}
