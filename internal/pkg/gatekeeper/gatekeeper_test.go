package gatekeeper

import (
	"Feedcore/internal/pkg/testutil"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateKeeper(t *testing.T) {
	ctx := context.Background()
	client, _ := testutil.NewRedis(t)
	gk := New(client)

	on, err := gk.IsSwitchOn(ctx, SwitchNewsFeedToHBase)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, gk.TurnOn(ctx, SwitchNewsFeedToHBase))
	on, err = gk.IsSwitchOn(ctx, SwitchNewsFeedToHBase)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, gk.TurnOff(ctx, SwitchNewsFeedToHBase))
	on, err = gk.IsSwitchOn(ctx, SwitchNewsFeedToHBase)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestInGK(t *testing.T) {
	ctx := context.Background()
	client, _ := testutil.NewRedis(t)
	gk := New(client)

	require.NoError(t, gk.SetKV(ctx, SwitchFriendshipToHBase, "percent", 30))
	require.NoError(t, gk.SetKV(ctx, SwitchFriendshipToHBase, "description", "rollout"))

	gate, err := gk.Get(ctx, SwitchFriendshipToHBase)
	require.NoError(t, err)
	assert.Equal(t, Gate{Percent: 30, Description: "rollout"}, gate)

	in, err := gk.InGK(ctx, SwitchFriendshipToHBase, 129)
	require.NoError(t, err)
	assert.True(t, in)

	in, err = gk.InGK(ctx, SwitchFriendshipToHBase, 130)
	require.NoError(t, err)
	assert.False(t, in)

	on, err := gk.IsSwitchOn(ctx, SwitchFriendshipToHBase)
	require.NoError(t, err)
	assert.False(t, on)
}
