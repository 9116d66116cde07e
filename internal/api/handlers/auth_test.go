package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/finn/social-feed-api/internal/client"
	"github.com/finn/social-feed-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Signup(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name           string
		request        map[string]string
		setup          func()
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful signup",
			request: map[string]string{
				"username": "newuser",
				"email":    "newuser@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var user client.User
				testutil.AssertJSONResponse(t, resp, &user)
				assert.Equal(t, "newuser", user.Username)
				assert.Equal(t, "newuser", user.DisplayName)

				cookies := resp.Cookies()
				require.NotEmpty(t, cookies)
				assert.Equal(t, "session", cookies[len(cookies)-1].Name)
				assert.True(t, cookies[len(cookies)-1].HttpOnly)
			},
		},
		{
			name: "invalid username characters",
			request: map[string]string{
				"username": "bad user!",
				"email":    "bad@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			request: map[string]string{
				"username": "someuser",
				"email":    "not-an-email",
				"password": "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "short password",
			request: map[string]string{
				"username": "someuser",
				"email":    "someuser@example.com",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username, case-insensitive",
			request: map[string]string{
				"username": "EXISTINGUSER",
				"email":    "other@example.com",
				"password": "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithUsername("existinguser").
					Build(t, ts.DB.DB)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "empty request body",
			request:        map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.DB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.APIURL("/auth/signup"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_SignupEnqueuesChatProvisioning(t *testing.T) {
	ts := testutil.NewTestServer(t)

	c, err := client.New(ts.BaseURL())
	require.NoError(t, err)

	user, err := c.Signup(context.Background(), "chatuser", "chatuser@example.com", "password123")
	require.NoError(t, err)

	// The outbox row commits with the user; the worker has not run yet.
	jobs, err := ts.Repos.Outbox.Due(context.Background(), time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Contains(t, string(jobs[0].Payload), user.ID.String())
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, password := testutil.NewUserBuilder().WithUsername("loginuser").Build(t, ts.DB.DB)

	c, err := client.New(ts.BaseURL())
	require.NoError(t, err)
	ctx := context.Background()

	// Username match is case-insensitive.
	logged, err := c.Login(ctx, "LOGINUSER", password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	// Wrong password is a 401, not a 404.
	bad, err := client.New(ts.BaseURL())
	require.NoError(t, err)
	_, err = bad.Login(ctx, "loginuser", "wrongpassword")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestAuthHandler_RejectionsCarryJSONEnvelope(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// No session cookie at all.
	resp, err := http.Get(ts.APIURL("/posts/for-you"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var envelope map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "Unauthorized", envelope["error"])

	// A cookie that is not even a uuid gets the same shape.
	req, err := http.NewRequest(http.MethodGet, ts.APIURL("/auth/me"), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "session", Value: "not-a-session"})

	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	assert.Equal(t, "application/json", resp2.Header.Get("Content-Type"))

	envelope = nil
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&envelope))
	assert.Equal(t, "Unauthorized", envelope["error"])
}

func TestAuthHandler_Logout(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, password := testutil.NewUserBuilder().WithUsername("byeuser").Build(t, ts.DB.DB)

	c, err := client.New(ts.BaseURL())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Login(ctx, "byeuser", password)
	require.NoError(t, err)
	require.NoError(t, c.Logout(ctx))

	// Session row is gone; the old cookie no longer authenticates.
	_, err = c.Me(ctx)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
