package model

import (
	"time"
)

type User struct {
	ID           string      `json:"id" bson:"_id" db:"id"`
	Email        string      `json:"email" bson:"email" db:"email"`
	PasswordHash *string     `json:"-" bson:"password_hash,omitempty" db:"password_hash"` // Nullable for OAuth users
	Name         string      `json:"name" bson:"name" db:"name"`
	Progress     ProgressLog `json:"progress" bson:"progress" db:"progress"`
	AvatarPath   string      `json:"-" bson:"avatar_path,omitempty" db:"avatar_path"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" bson:"updated_at" db:"updated_at"`

	// Computed fields (not persisted). Goals is filled by single-user reads
	// and is an empty list everywhere else.
	Goals     []*Goal `json:"goals" bson:"-" db:"-"`
	AvatarURL string  `json:"avatar_url,omitempty" bson:"-" db:"-"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) AddProgress(entry ProgressEntry) {
	u.Progress = append(u.Progress, entry)
}

// CompletedGoals filters the populated goals down to the completed ones.
func (u *User) CompletedGoals() []*Goal {
	completed := []*Goal{}
	for _, g := range u.Goals {
		if g.IsCompleted() {
			completed = append(completed, g)
		}
	}
	return completed
}
