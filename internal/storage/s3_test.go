package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/fitgoals/internal/config"
)

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://avatars.s3.eu-west-1.amazonaws.com",
		publicBaseURL(S3Config{Bucket: "avatars", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:9000/avatars",
		publicBaseURL(S3Config{Bucket: "avatars", Endpoint: "http://localhost:9000/"}))
}

func TestNewDisabledWithoutBucket(t *testing.T) {
	s, err := New(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, s)
}
