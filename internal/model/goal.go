package model

import (
	"encoding/json"
	"time"
)

type Goal struct {
	ID        string    `json:"id" bson:"_id" db:"id"`
	UserID    string    `json:"user_id" bson:"user_id" db:"user_id"`
	Type      string    `json:"type" bson:"type" db:"type"`
	Target    float64   `json:"target" bson:"target" db:"target"`
	Progress  float64   `json:"progress" bson:"progress" db:"progress"`
	Deadline  time.Time `json:"deadline" bson:"deadline" db:"deadline"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" db:"updated_at"`
}

// IsCompleted reports whether the recorded progress has reached the target.
func (g *Goal) IsCompleted() bool {
	return g.Progress >= g.Target
}

// MarshalJSON adds the derived "completed" flag to the serialized goal.
func (g Goal) MarshalJSON() ([]byte, error) {
	type goal Goal
	return json.Marshal(struct {
		goal
		Completed bool `json:"completed"`
	}{
		goal:      goal(g),
		Completed: g.IsCompleted(),
	})
}
