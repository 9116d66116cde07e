package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// likeServer mimics the like endpoint: POST sets, DELETE clears, and the
// response always carries the settled state.
type likeServer struct {
	mu    sync.Mutex
	liked bool
	likes int64
	fail  bool
}

func newLikeServer(t *testing.T) (*likeServer, *httptest.Server) {
	t.Helper()

	ls := &likeServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ls.mu.Lock()
		defer ls.mu.Unlock()

		if ls.fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
			return
		}

		switch r.Method {
		case http.MethodPost:
			if !ls.liked {
				ls.liked = true
				ls.likes++
			}
		case http.MethodDelete:
			if ls.liked {
				ls.liked = false
				ls.likes--
			}
		}
		json.NewEncoder(w).Encode(LikeInfo{Likes: ls.likes, IsLikedByUser: ls.liked})
	}))
	t.Cleanup(srv.Close)
	return ls, srv
}

func toggleOnce(t *testing.T, srv *httptest.Server, store *Store[LikeInfo], key QueryKey) error {
	t.Helper()

	_, err := Mutate(context.Background(), store, key,
		func(cur LikeInfo) LikeInfo {
			if cur.IsLikedByUser {
				return LikeInfo{Likes: cur.Likes - 1, IsLikedByUser: false}
			}
			return LikeInfo{Likes: cur.Likes + 1, IsLikedByUser: true}
		},
		func(ctx context.Context, optimistic LikeInfo) (LikeInfo, error) {
			method := http.MethodDelete
			if optimistic.IsLikedByUser {
				method = http.MethodPost
			}
			req, err := http.NewRequestWithContext(ctx, method, srv.URL, nil)
			if err != nil {
				return LikeInfo{}, err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return LikeInfo{}, err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return LikeInfo{}, &APIError{Status: resp.StatusCode, Message: "Internal server error"}
			}
			var settled LikeInfo
			if err := json.NewDecoder(resp.Body).Decode(&settled); err != nil {
				return LikeInfo{}, err
			}
			return settled, nil
		})
	return err
}

func TestMutate_RepeatedTogglesConverge(t *testing.T) {
	for _, toggles := range []int{1, 2, 7, 10} {
		ls, srv := newLikeServer(t)
		store := NewStore[LikeInfo]()
		key := Key("like-info", "p1")
		store.Set(key, LikeInfo{Likes: 0, IsLikedByUser: false})

		for i := 0; i < toggles; i++ {
			require.NoError(t, toggleOnce(t, srv, store, key))
		}

		// An odd number of toggles ends liked, an even number ends where it
		// started, and cache agrees with the server.
		wantLiked := toggles%2 == 1
		final, ok := store.Get(key)
		require.True(t, ok)
		assert.Equal(t, wantLiked, final.IsLikedByUser, "toggles=%d", toggles)

		ls.mu.Lock()
		assert.Equal(t, wantLiked, ls.liked, "toggles=%d", toggles)
		assert.Equal(t, final.Likes, ls.likes, "toggles=%d", toggles)
		ls.mu.Unlock()
	}
}

func TestMutate_FailureRollsBackExactly(t *testing.T) {
	ls, srv := newLikeServer(t)
	store := NewStore[LikeInfo]()
	key := Key("like-info", "p1")

	initial := LikeInfo{Likes: 41, IsLikedByUser: false}
	store.Set(key, initial)

	ls.mu.Lock()
	ls.fail = true
	ls.mu.Unlock()

	err := toggleOnce(t, srv, store, key)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	// The snapshot came back untouched.
	restored, ok := store.Get(key)
	require.True(t, ok)
	assert.Equal(t, initial, restored)
}

func TestMutate_CancelsInflightRefetch(t *testing.T) {
	_, srv := newLikeServer(t)
	store := NewStore[LikeInfo]()
	key := Key("like-info", "p1")
	store.Set(key, LikeInfo{})

	// A refetch parked on a never-responding server must not outlive the
	// mutation that supersedes it.
	block := make(chan struct{})
	started := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
		close(block)
	}))
	defer slow.Close()

	refetchDone := make(chan error, 1)
	go func() {
		refetchDone <- store.Refetch(context.Background(), key, func(ctx context.Context) (LikeInfo, error) {
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, slow.URL, nil)
			_, err := http.DefaultClient.Do(req)
			return LikeInfo{}, err
		})
	}()
	<-started

	require.NoError(t, toggleOnce(t, srv, store, key))

	err := <-refetchDone
	require.Error(t, err, "superseded refetch must report cancellation")
	<-block

	final, _ := store.Get(key)
	assert.True(t, final.IsLikedByUser, "mutation result must win over the stale refetch")
}
