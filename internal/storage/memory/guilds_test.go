package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/adventure/internal/storage/memory"
)

func TestGuildStoreCooldown(t *testing.T) {
	ctx := context.Background()
	g := memory.NewGuildStore()

	stamp, err := g.Cooldown(ctx, "guild-1")
	require.NoError(t, err)
	assert.True(t, stamp.IsZero(), "an unknown guild has never adventured")

	at := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)
	require.NoError(t, g.SetCooldown(ctx, "guild-1", at))
	stamp, err = g.Cooldown(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, at, stamp)

	require.NoError(t, g.SetCooldown(ctx, "guild-1", time.Time{}))
	stamp, err = g.Cooldown(ctx, "guild-1")
	require.NoError(t, err)
	assert.True(t, stamp.IsZero(), "the zero time clears the gate")
}

func TestGuildStoreCooldownTime(t *testing.T) {
	ctx := context.Background()
	g := memory.NewGuildStore()

	d, err := g.CooldownTime(ctx, "guild-1")
	require.NoError(t, err)
	assert.Zero(t, d)

	require.NoError(t, g.SetCooldownTime(ctx, "guild-1", 10*time.Minute))
	d, err = g.CooldownTime(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, d)

	require.NoError(t, g.SetCooldownTime(ctx, "guild-1", 0))
	d, err = g.CooldownTime(ctx, "guild-1")
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestGuildStoreGodName(t *testing.T) {
	ctx := context.Background()
	g := memory.NewGuildStore()

	name, err := g.GodName(ctx, "guild-1")
	require.NoError(t, err)
	assert.Empty(t, name)

	require.NoError(t, g.SetGodName(ctx, "guild-1", "Ilya"))
	name, err = g.GodName(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, "Ilya", name)

	name, err = g.GodName(ctx, "guild-2")
	require.NoError(t, err)
	assert.Empty(t, name, "overrides are per guild")
}

func TestGuildStoreEasyMode(t *testing.T) {
	ctx := context.Background()
	g := memory.NewGuildStore()

	easy, set, err := g.EasyMode(ctx, "guild-1")
	require.NoError(t, err)
	assert.False(t, set)
	assert.False(t, easy)

	require.NoError(t, g.SetEasyMode(ctx, "guild-1", false))
	easy, set, err = g.EasyMode(ctx, "guild-1")
	require.NoError(t, err)
	assert.True(t, set, "an explicit false override is still an override")
	assert.False(t, easy)

	require.NoError(t, g.SetEasyMode(ctx, "guild-1", true))
	easy, set, err = g.EasyMode(ctx, "guild-1")
	require.NoError(t, err)
	assert.True(t, set)
	assert.True(t, easy)

	require.NoError(t, g.ClearEasyMode(ctx, "guild-1"))
	_, set, err = g.EasyMode(ctx, "guild-1")
	require.NoError(t, err)
	assert.False(t, set)
}
