package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/finn/social-feed-api/internal/client"
)

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	users := fs.Int("users", 5, "Number of fake users to create")
	posts := fs.Int("posts", 3, "Posts per user")
	fs.Parse(args)

	ctx := context.Background()
	suffix := rand.Intn(100000)

	var clients []*client.Client
	var ids []string

	fmt.Printf("Creating %d users:\n", *users)
	for i := 0; i < *users; i++ {
		c, err := client.New(apiURL)
		if err != nil {
			fatal(err)
		}
		username := fmt.Sprintf("sim_user_%d_%d", suffix, i)
		user, err := c.Signup(ctx, username, username+"@example.com", "password123")
		if err != nil {
			fatal(err)
		}
		fmt.Printf("  %s\n", user.Username)
		clients = append(clients, c)
		ids = append(ids, user.ID.String())

		for j := 0; j < *posts; j++ {
			content := fmt.Sprintf("post %d from @%s about #simulation", j, username)
			if _, err := c.CreatePost(ctx, content, nil); err != nil {
				fatal(err)
			}
		}
	}

	fmt.Println("Cross-following and liking...")
	for i, c := range clients {
		// Everyone follows user 0; user 0 follows everyone.
		if i > 0 {
			first, _ := clients[0].Me(ctx)
			if _, err := c.Follow(ctx, first.ID); err != nil {
				fatal(err)
			}
			me, _ := c.Me(ctx)
			if _, err := clients[0].Follow(ctx, me.ID); err != nil {
				fatal(err)
			}
		}

		page, err := c.ForYou(ctx, "")
		if err != nil {
			fatal(err)
		}
		for _, post := range page.Posts {
			if rand.Intn(2) == 0 {
				if _, err := c.Like(ctx, post.ID); err != nil {
					fatal(err)
				}
			}
			if rand.Intn(4) == 0 {
				if _, err := c.CreateComment(ctx, post.ID, "nice one"); err != nil {
					fatal(err)
				}
			}
		}
	}

	fmt.Printf("Done: %d users, %d posts\n", len(ids), len(ids)*(*posts))
}

func feedCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("feed", flag.ExitOnError)
	pages := fs.Int("pages", 2, "Pages to fetch")
	fs.Parse(args)

	ctx := context.Background()
	c := mustLogin(ctx, apiURL)

	cache := client.NewPageCache[client.Post]()
	key := client.Key("feed", "for-you")

	cursor := ""
	for i := 0; i < *pages; i++ {
		page, err := c.ForYou(ctx, cursor)
		if err != nil {
			fatal(err)
		}
		cache.Append(key, cursor, page.Posts, page.NextCursor)

		nextCursor, more := cache.NextCursor(key)
		if !more {
			break
		}
		cursor = nextCursor
	}

	items, _ := cache.Items(key)
	fmt.Printf("Cached %d posts:\n", len(items))
	for _, p := range items {
		fmt.Printf("  %s  %-20s  likes=%d comments=%d\n",
			p.CreatedAt.Format(time.RFC3339), p.User.Username, p.LikeCount, p.CommentCount)
	}
}

func toggleCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("toggle", flag.ExitOnError)
	count := fs.Int("count", 7, "Number of like toggles")
	fs.Parse(args)

	ctx := context.Background()
	c := mustLogin(ctx, apiURL)

	post, err := c.CreatePost(ctx, "toggle target #simulation", nil)
	if err != nil {
		fatal(err)
	}

	store := client.NewStore[client.LikeInfo]()
	key := client.Key("like-info", post.ID.String())

	info, err := c.LikeInfo(ctx, post.ID)
	if err != nil {
		fatal(err)
	}
	store.Set(key, *info)

	for i := 0; i < *count; i++ {
		_, err := client.Mutate(ctx, store, key,
			func(cur client.LikeInfo) client.LikeInfo {
				if cur.IsLikedByUser {
					return client.LikeInfo{Likes: cur.Likes - 1, IsLikedByUser: false}
				}
				return client.LikeInfo{Likes: cur.Likes + 1, IsLikedByUser: true}
			},
			func(ctx context.Context, optimistic client.LikeInfo) (client.LikeInfo, error) {
				var settled *client.LikeInfo
				var err error
				if optimistic.IsLikedByUser {
					settled, err = c.Like(ctx, post.ID)
				} else {
					settled, err = c.Unlike(ctx, post.ID)
				}
				if err != nil {
					return client.LikeInfo{}, err
				}
				return *settled, nil
			})
		if err != nil {
			fatal(err)
		}
	}

	final, _ := store.Get(key)
	fmt.Printf("After %d toggles: liked=%v likes=%d\n", *count, final.IsLikedByUser, final.Likes)
}

func mustLogin(ctx context.Context, apiURL string) *client.Client {
	c, err := client.New(apiURL)
	if err != nil {
		fatal(err)
	}
	username := fmt.Sprintf("sim_viewer_%d", rand.Intn(100000))
	if _, err := c.Signup(ctx, username, username+"@example.com", "password123"); err != nil {
		fatal(err)
	}
	return c
}

func fatal(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}
