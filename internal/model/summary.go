package model

// Summary is the dashboard view of a user's goals.
type Summary struct {
	User           *User   `json:"user"`
	TotalGoals     int     `json:"total_goals"`
	CompletedGoals int     `json:"completed_goals"`
	ActiveGoals    int     `json:"active_goals"`
	OverdueGoals   int     `json:"overdue_goals"`
	Goals          []*Goal `json:"goals"`
}
