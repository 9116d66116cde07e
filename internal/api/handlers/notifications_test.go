package handlers_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/finn/social-feed-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationHandler_ListAndMarkRead(t *testing.T) {
	ts := testutil.NewTestServer(t)
	author, _ := signup(t, ts, "busy_author")
	fan, _ := signup(t, ts, "busy_fan")
	ctx := context.Background()

	post, err := author.CreatePost(ctx, "popular", nil)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := fan.CreateComment(ctx, post.ID, fmt.Sprintf("reply %d", i))
		require.NoError(t, err)
	}

	count, err := author.NotificationUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)

	// Newest first, pages of 10.
	first, err := author.Notifications(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.Notifications, 10)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, "COMMENT", first.Notifications[0].Type)
	require.NotNil(t, first.Notifications[0].Issuer)
	assert.Equal(t, "busy_fan", first.Notifications[0].Issuer.Username)

	second, err := author.Notifications(ctx, *first.NextCursor)
	require.NoError(t, err)
	assert.Len(t, second.Notifications, 2)
	assert.Nil(t, second.NextCursor)

	require.NoError(t, author.MarkNotificationsRead(ctx))

	count, err = author.NotificationUnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Read flags flip; the rows stay.
	first, err = author.Notifications(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.Notifications, 10)
	assert.True(t, first.Notifications[0].Read)
}
