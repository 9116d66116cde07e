package handlers_test

import (
	"context"
	"testing"

	"github.com/finn/social-feed-api/internal/client"
	"github.com/finn/social-feed-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngagement_LikeIdempotence(t *testing.T) {
	ts := testutil.NewTestServer(t)
	author, _ := signup(t, ts, "liked_author")
	fan, _ := signup(t, ts, "fan")
	ctx := context.Background()

	post, err := author.CreatePost(ctx, "like me", nil)
	require.NoError(t, err)

	// Repeating the like changes nothing.
	for i := 0; i < 3; i++ {
		info, err := fan.Like(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), info.Likes)
		assert.True(t, info.IsLikedByUser)
	}

	// Exactly one notification for the author, despite three likes.
	page, err := author.Notifications(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "LIKE", page.Notifications[0].Type)
	require.NotNil(t, page.Notifications[0].PostID)
	assert.Equal(t, post.ID, *page.Notifications[0].PostID)

	// Unlike restores the initial state and withdraws the notification.
	info, err := fan.Unlike(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Likes)
	assert.False(t, info.IsLikedByUser)

	page, err = author.Notifications(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, page.Notifications)
}

func TestEngagement_SelfLikeDoesNotNotify(t *testing.T) {
	ts := testutil.NewTestServer(t)
	author, _ := signup(t, ts, "self_liker")
	ctx := context.Background()

	post, err := author.CreatePost(ctx, "I like my own post", nil)
	require.NoError(t, err)

	_, err = author.Like(ctx, post.ID)
	require.NoError(t, err)

	count, err := author.NotificationUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestEngagement_BookmarkRoundTrip(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, _ := signup(t, ts, "bookmarker")
	ctx := context.Background()

	post, err := c.CreatePost(ctx, "save me", nil)
	require.NoError(t, err)

	info, err := c.BookmarkInfo(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, info.IsBookmarkedByUser)

	for i := 0; i < 2; i++ {
		info, err = c.Bookmark(ctx, post.ID)
		require.NoError(t, err)
		assert.True(t, info.IsBookmarkedByUser)
	}

	info, err = c.Unbookmark(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, info.IsBookmarkedByUser)
}

func TestEngagement_FollowCounters(t *testing.T) {
	ts := testutil.NewTestServer(t)
	follower, _ := signup(t, ts, "follower")
	_, target := signup(t, ts, "target")
	ctx := context.Background()

	before, err := follower.FollowerInfo(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), before.Followers)

	// Follow twice; the counter only moves once.
	for i := 0; i < 2; i++ {
		info, err := follower.Follow(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), info.Followers)
		assert.True(t, info.IsFollowedByUser)
	}

	after, err := follower.Unfollow(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.Followers)
	assert.False(t, after.IsFollowedByUser)
}

func TestEngagement_FollowNotificationWithdrawnOnUnfollow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	follower, _ := signup(t, ts, "notifier")
	targetClient, target := signup(t, ts, "notified")
	ctx := context.Background()

	_, err := follower.Follow(ctx, target.ID)
	require.NoError(t, err)

	page, err := targetClient.Notifications(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "FOLLOW", page.Notifications[0].Type)

	_, err = follower.Unfollow(ctx, target.ID)
	require.NoError(t, err)

	page, err = targetClient.Notifications(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, page.Notifications)
}

func TestEngagement_SelfFollowRejected(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, me := signup(t, ts, "narcissist")
	ctx := context.Background()

	_, err := c.Follow(ctx, me.ID)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}
