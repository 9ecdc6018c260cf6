package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ProgressEntry records a single progress update for one of the user's goals.
type ProgressEntry struct {
	GoalID     string    `json:"goal_id" bson:"goal_id"`
	Value      float64   `json:"value" bson:"value"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}

// ProgressLog is stored as a JSON text column in the relational store and as
// an embedded array in the document store.
type ProgressLog []ProgressEntry

func (p ProgressLog) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *ProgressLog) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = ProgressLog{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported progress log type %T", src)
	}

	if len(data) == 0 {
		*p = ProgressLog{}
		return nil
	}

	return json.Unmarshal(data, p)
}

// ForGoal returns the entries recorded for the given goal, oldest first.
func (p ProgressLog) ForGoal(goalID string) ProgressLog {
	entries := ProgressLog{}
	for _, e := range p {
		if e.GoalID == goalID {
			entries = append(entries, e)
		}
	}
	return entries
}
