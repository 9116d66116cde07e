package handlers_test

import (
	"context"
	"strings"
	"testing"

	"github.com/finn/social-feed-api/internal/client"
	"github.com/finn/social-feed-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_ProfileLookup(t *testing.T) {
	ts := testutil.NewTestServer(t)
	viewer, _ := signup(t, ts, "profile_viewer")
	_, target := signup(t, ts, "ProfileTarget")
	ctx := context.Background()

	// Lookup is case-insensitive.
	profile, err := viewer.GetProfile(ctx, "profiletarget")
	require.NoError(t, err)
	assert.Equal(t, target.ID, profile.ID)
	assert.Equal(t, int64(0), profile.FollowerInfo.Followers)

	_, err = viewer.Follow(ctx, target.ID)
	require.NoError(t, err)

	profile, err = viewer.GetProfile(ctx, "ProfileTarget")
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.FollowerInfo.Followers)
	assert.True(t, profile.FollowerInfo.IsFollowedByUser)

	_, err = viewer.GetProfile(ctx, "nobody_here")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	ts := testutil.NewTestServer(t)
	c, _ := signup(t, ts, "editable")
	ctx := context.Background()

	updated, err := c.UpdateProfile(ctx, "New Name", "a short bio")
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.DisplayName)
	assert.Equal(t, "a short bio", updated.Bio)

	_, err = c.UpdateProfile(ctx, "New Name", strings.Repeat("x", 1001))
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
}
