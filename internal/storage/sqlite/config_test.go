package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	// missing keys read as empty
	value, err := s.GetConfig(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, s.SetConfig(ctx, "last_batch", "cubics.yaml"))
	value, err = s.GetConfig(ctx, "last_batch")
	require.NoError(t, err)
	assert.Equal(t, "cubics.yaml", value)

	// SetConfig upserts
	require.NoError(t, s.SetConfig(ctx, "last_batch", "other.yaml"))
	value, err = s.GetConfig(ctx, "last_batch")
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", value)

	// clearing history leaves config alone
	_, err = s.ClearHistory(ctx)
	require.NoError(t, err)
	value, err = s.GetConfig(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, value)
}
