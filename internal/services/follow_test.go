package services

import (
	"context"
	"testing"
	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsIdempotent(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewFollowService(conn)
	ctx := context.Background()
	reader := testutil.CreateUser(t, conn, "reader")
	writer := testutil.CreateUser(t, conn, "writer")

	created, err := svc.Follow(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Follow(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	conn.Model(&models.Follow{}).Count(&count)
	assert.Equal(t, int64(1), count)

	ok, err := svc.IsFollowing(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsFollowing(ctx, writer.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowSelfIgnored(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewFollowService(conn)
	user := testutil.CreateUser(t, conn, "narcissus")

	created, err := svc.Follow(context.Background(), user.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	conn.Model(&models.Follow{}).Count(&count)
	assert.Zero(t, count)
}

func TestUnfollow(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewFollowService(conn)
	ctx := context.Background()
	reader := testutil.CreateUser(t, conn, "reader")
	writer := testutil.CreateUser(t, conn, "writer")

	removed, err := svc.Unfollow(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	testutil.Follow(t, conn, reader, writer)
	removed, err = svc.Unfollow(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err := svc.IsFollowing(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowCounts(t *testing.T) {
	conn := testutil.NewDB(t)
	svc := NewFollowService(conn)
	a := testutil.CreateUser(t, conn, "a")
	b := testutil.CreateUser(t, conn, "b")
	c := testutil.CreateUser(t, conn, "c")
	testutil.Follow(t, conn, a, c)
	testutil.Follow(t, conn, b, c)
	testutil.Follow(t, conn, c, a)

	followers, following, err := svc.Counts(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers)
	assert.Equal(t, int64(1), following)
}
