package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoal_IsCompleted(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		target   float64
		want     bool
	}{
		{name: "progress equals target", progress: 10, target: 10, want: true},
		{name: "progress below target", progress: 9, target: 10, want: false},
		{name: "progress above target", progress: 12.5, target: 10, want: true},
		{name: "no progress", progress: 0, target: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{Progress: tt.progress, Target: tt.target}
			assert.Equal(t, tt.want, g.IsCompleted())
		})
	}
}

func TestGoal_MarshalJSONIncludesCompleted(t *testing.T) {
	g := Goal{
		ID:       "goal-1",
		UserID:   "user-1",
		Type:     "Running",
		Target:   10,
		Progress: 10,
		Deadline: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(&g)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "goal-1", out["id"])
	assert.Equal(t, "Running", out["type"])
	assert.Equal(t, true, out["completed"])
	assert.Equal(t, "2030-01-01T00:00:00Z", out["deadline"])
}

func TestUser_CompletedGoals(t *testing.T) {
	u := &User{
		Goals: []*Goal{
			{ID: "a", Target: 5, Progress: 5},
			{ID: "b", Target: 5, Progress: 1},
			{ID: "c", Target: 3, Progress: 7},
		},
	}

	completed := u.CompletedGoals()
	require.Len(t, completed, 2)
	assert.Equal(t, "a", completed[0].ID)
	assert.Equal(t, "c", completed[1].ID)
}

func TestUser_HasPassword(t *testing.T) {
	empty := ""
	hash := "$2a$10$abc"

	assert.False(t, (&User{}).HasPassword())
	assert.False(t, (&User{PasswordHash: &empty}).HasPassword())
	assert.True(t, (&User{PasswordHash: &hash}).HasPassword())
}

func TestUser_PasswordHashNotSerialized(t *testing.T) {
	hash := "secret-hash"
	b, err := json.Marshal(&User{ID: "u1", Email: "a@b.co", PasswordHash: &hash})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-hash")
	assert.NotContains(t, string(b), "password")
}

func TestAuthToken_IsValid(t *testing.T) {
	future := &AuthToken{Token: "t", UserID: "u", ExpiresAt: time.Now().Add(time.Hour)}
	past := &AuthToken{Token: "t", UserID: "u", ExpiresAt: time.Now().Add(-time.Second)}
	blank := &AuthToken{ExpiresAt: time.Now().Add(time.Hour)}

	assert.True(t, future.IsValid())
	assert.False(t, past.IsValid())
	assert.True(t, past.IsExpired())
	assert.False(t, blank.IsValid())
}
