package handlers_test

import (
	"context"
	"testing"

	"github.com/finn/social-feed-api/internal/client"
	"github.com/finn/social-feed-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signup(t *testing.T, ts *testutil.TestServer, username string) (*client.Client, *client.User) {
	t.Helper()

	c, err := client.New(ts.BaseURL())
	require.NoError(t, err)
	user, err := c.Signup(context.Background(), username, username+"@example.com", "password123")
	require.NoError(t, err)
	return c, user
}

func TestPostHandler_CreateAndGet(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, user := signup(t, ts, "author")
	ctx := context.Background()

	post, err := c.CreatePost(ctx, "hello #world @alice check this", nil)
	require.NoError(t, err)
	assert.Equal(t, user.ID, post.UserID)
	assert.Equal(t, "hello #world @alice check this", post.Content)

	// Raw text is stored; the rendered form links tags and mentions.
	assert.Contains(t, post.ContentHTML, `<a href="/hashtag/world">#world</a>`)
	assert.Contains(t, post.ContentHTML, `<a href="/users/alice">@alice</a>`)

	fetched, err := c.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, fetched.ID)
	assert.Equal(t, int64(0), fetched.LikeCount)
	assert.False(t, fetched.IsLikedByUser)
}

func TestPostHandler_CreateAttachesMedia(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, _ := signup(t, ts, "uploader")
	ctx := context.Background()

	media, err := c.RegisterUpload(ctx, "https://files.example.com/a/testapp/abc123", "image")
	require.NoError(t, err)

	post, err := c.CreatePost(ctx, "with a picture", []uuid.UUID{media.ID})
	require.NoError(t, err)
	require.Len(t, post.Attachments, 1)
	assert.Equal(t, media.ID, post.Attachments[0].ID)

	// Too many attachments is rejected outright.
	ids := make([]uuid.UUID, 6)
	for i := range ids {
		ids[i] = uuid.New()
	}
	_, err = c.CreatePost(ctx, "overloaded", ids)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}

func TestPostHandler_DeleteOwnership(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner, _ := signup(t, ts, "owner")
	stranger, _ := signup(t, ts, "stranger")
	ctx := context.Background()

	post, err := owner.CreatePost(ctx, "mine", nil)
	require.NoError(t, err)

	err = stranger.DeletePost(ctx, post.ID)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)

	require.NoError(t, owner.DeletePost(ctx, post.ID))

	_, err = owner.GetPost(ctx, post.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestPostHandler_ForYouPagination(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, _ := signup(t, ts, "reader")

	author, _ := testutil.NewUserBuilder().WithUsername("prolific").Build(t, ts.DB.DB)
	testutil.SeedPosts(t, ts.DB.DB, author, 25)

	ctx := context.Background()

	first, err := c.ForYou(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.Posts, 10)
	require.NotNil(t, first.NextCursor)

	second, err := c.ForYou(ctx, *first.NextCursor)
	require.NoError(t, err)
	require.Len(t, second.Posts, 10)
	require.NotNil(t, second.NextCursor)

	third, err := c.ForYou(ctx, *second.NextCursor)
	require.NoError(t, err)
	assert.Len(t, third.Posts, 5)
	assert.Nil(t, third.NextCursor)

	// No post appears twice and the order is strictly newest-first.
	seen := map[uuid.UUID]bool{}
	var all []client.Post
	all = append(all, first.Posts...)
	all = append(all, second.Posts...)
	all = append(all, third.Posts...)
	for i, p := range all {
		assert.False(t, seen[p.ID], "post %s duplicated across pages", p.ID)
		seen[p.ID] = true
		if i > 0 {
			assert.False(t, all[i-1].CreatedAt.Before(p.CreatedAt))
		}
	}
}

func TestPostHandler_InvalidCursor(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, _ := signup(t, ts, "cursorless")
	ctx := context.Background()

	for _, cursor := range []string{"garbage", uuid.New().String()} {
		_, err := c.ForYou(ctx, cursor)
		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.Status)
		assert.Equal(t, "Invalid cursor", apiErr.Message)
	}
}

func TestPostHandler_FollowingFeed(t *testing.T) {
	ts := testutil.NewTestServer(t)
	viewer, _ := signup(t, ts, "viewer")
	followeeClient, followee := signup(t, ts, "followee")
	other, _ := signup(t, ts, "unrelated")
	ctx := context.Background()

	followed, err := followeeClient.CreatePost(ctx, "from someone I follow", nil)
	require.NoError(t, err)
	_, err = other.CreatePost(ctx, "from a stranger", nil)
	require.NoError(t, err)

	_, err = viewer.Follow(ctx, followee.ID)
	require.NoError(t, err)

	page, err := viewer.FollowingFeed(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, followed.ID, page.Posts[0].ID)
}

func TestPostHandler_SearchRequiresAllTerms(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, _ := signup(t, ts, "searcher")
	ctx := context.Background()

	_, err := c.CreatePost(ctx, "golang concurrency patterns", nil)
	require.NoError(t, err)
	_, err = c.CreatePost(ctx, "golang tips", nil)
	require.NoError(t, err)

	page, err := c.Search(ctx, "golang concurrency", "")
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "golang concurrency patterns", page.Posts[0].Content)

	// Author names match too.
	byAuthor, err := c.Search(ctx, "searcher", "")
	require.NoError(t, err)
	assert.Len(t, byAuthor.Posts, 2)
}

func TestPostHandler_BookmarkedFeed(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, _ := signup(t, ts, "collector")
	ctx := context.Background()

	first, err := c.CreatePost(ctx, "first", nil)
	require.NoError(t, err)
	second, err := c.CreatePost(ctx, "second", nil)
	require.NoError(t, err)

	// Bookmark the older post last; the bookmarked feed orders by save time.
	_, err = c.Bookmark(ctx, second.ID)
	require.NoError(t, err)
	_, err = c.Bookmark(ctx, first.ID)
	require.NoError(t, err)

	page, err := c.Bookmarked(ctx, "")
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, first.ID, page.Posts[0].ID)
	assert.Equal(t, second.ID, page.Posts[1].ID)
	assert.True(t, page.Posts[0].IsBookmarkedByUser)
}
