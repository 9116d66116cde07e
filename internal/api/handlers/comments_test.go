package handlers_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/finn/social-feed-api/internal/client"
	"github.com/finn/social-feed-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentHandler_CreateNotifiesOwner(t *testing.T) {
	ts := testutil.NewTestServer(t)
	author, _ := signup(t, ts, "post_owner")
	commenter, commenterUser := signup(t, ts, "commenter")
	ctx := context.Background()

	post, err := author.CreatePost(ctx, "discuss", nil)
	require.NoError(t, err)

	comment, err := commenter.CreateComment(ctx, post.ID, "great point")
	require.NoError(t, err)
	assert.Equal(t, commenterUser.ID, comment.UserID)
	require.NotNil(t, comment.User)
	assert.Equal(t, "commenter", comment.User.Username)

	page, err := author.Notifications(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "COMMENT", page.Notifications[0].Type)

	// The author commenting on their own post stays silent.
	_, err = author.CreateComment(ctx, post.ID, "replying to myself")
	require.NoError(t, err)
	page, err = author.Notifications(ctx, "")
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 1)
}

func TestCommentHandler_ReversePagination(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, _ := signup(t, ts, "thread_starter")
	ctx := context.Background()

	post, err := c.CreatePost(ctx, "long thread", nil)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		_, err := c.CreateComment(ctx, post.ID, fmt.Sprintf("comment %02d", i))
		require.NoError(t, err)
	}

	// First fetch returns the newest 5, displayed oldest-first.
	first, err := c.Comments(ctx, post.ID, "")
	require.NoError(t, err)
	require.Len(t, first.Comments, 5)
	require.NotNil(t, first.PreviousCursor)
	assert.Equal(t, "comment 07", first.Comments[0].Content)
	assert.Equal(t, "comment 11", first.Comments[4].Content)

	second, err := c.Comments(ctx, post.ID, *first.PreviousCursor)
	require.NoError(t, err)
	require.Len(t, second.Comments, 5)
	assert.Equal(t, "comment 02", second.Comments[0].Content)
	assert.Equal(t, "comment 06", second.Comments[4].Content)

	third, err := c.Comments(ctx, post.ID, *second.PreviousCursor)
	require.NoError(t, err)
	require.Len(t, third.Comments, 2)
	assert.Nil(t, third.PreviousCursor)
	assert.Equal(t, "comment 00", third.Comments[0].Content)

	// Stitched together, the pages reconstruct the thread with no gaps.
	var all []string
	for _, page := range [][]client.Comment{third.Comments, second.Comments, first.Comments} {
		for _, comment := range page {
			all = append(all, comment.Content)
		}
	}
	require.Len(t, all, 12)
	for i, content := range all {
		assert.Equal(t, fmt.Sprintf("comment %02d", i), content)
	}
}

func TestCommentHandler_DeleteOwnership(t *testing.T) {
	ts := testutil.NewTestServer(t)
	author, _ := signup(t, ts, "comment_author")
	stranger, _ := signup(t, ts, "comment_stranger")
	ctx := context.Background()

	post, err := author.CreatePost(ctx, "target", nil)
	require.NoError(t, err)
	comment, err := author.CreateComment(ctx, post.ID, "mine to delete")
	require.NoError(t, err)

	err = stranger.DeleteComment(ctx, comment.ID)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)

	require.NoError(t, author.DeleteComment(ctx, comment.ID))

	page, err := author.Comments(ctx, post.ID, "")
	require.NoError(t, err)
	assert.Empty(t, page.Comments)
}
