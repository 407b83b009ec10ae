package refreshtokens

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/leadsession/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	require.NoError(t, r.Create(ctx, "u-1", "t-1", time.Hour))
	require.NoError(t, r.Create(ctx, "u-1", "t-2", time.Hour))
	require.NoError(t, r.Create(ctx, "u-2", "t-3", time.Hour))
	require.ErrorIs(t, r.Create(ctx, "u-2", "t-3", time.Hour), common.ErrorAlreadyExists)

	tok, err := r.Find(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", tok.UserID)
	assert.True(t, tok.Expires.After(time.Now()))

	require.NoError(t, r.Delete(ctx, "t-1"))
	_, err = r.Find(ctx, "t-1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, r.DeleteByUser(ctx, "u-1"))
	_, err = r.Find(ctx, "t-2")
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.Find(ctx, "t-3")
	require.NoError(t, err)
}
