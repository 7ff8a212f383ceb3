package domain

import "time"

// Skill is an entry in the internship skill tree.
type Skill struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description,omitempty"`
	Level         string `json:"level"`
	ParentSkillID string `json:"parent_skill_id,omitempty"`
	OrderIndex    int    `json:"order_index"`
}

// SkillProgress tracks a user's self-assessed level for one skill.
type SkillProgress struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	SkillID   string    `json:"skill_id"`
	Level     string    `json:"level"`
	UpdatedAt time.Time `json:"updated_at"`
}
