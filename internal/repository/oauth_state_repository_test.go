package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthStateRepositoryWithoutRedisAcceptsNonces(t *testing.T) {
	repo := NewOAuthStateRepository(nil, nil)

	require.NoError(t, repo.Remember(context.Background(), "nonce", time.Minute))
	ok, err := repo.Consume(context.Background(), "nonce")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, repo.PingContext(context.Background()))
	assert.NoError(t, repo.Close())
}
