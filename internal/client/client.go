package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Client is a cookie-authenticated consumer of the API. Logging in once
// stores the session cookie in the jar; every later call rides on it.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Email       *string   `json:"email,omitempty"`
	AvatarURL   string    `json:"avatarUrl"`
	Bio         string    `json:"bio"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Media struct {
	ID   uuid.UUID `json:"id"`
	URL  string    `json:"url"`
	Type string    `json:"type"`
}

type Post struct {
	ID                 uuid.UUID `json:"id"`
	Content            string    `json:"content"`
	ContentHTML        string    `json:"contentHtml"`
	UserID             uuid.UUID `json:"userId"`
	User               *User     `json:"user,omitempty"`
	Attachments        []Media   `json:"attachments"`
	CreatedAt          time.Time `json:"createdAt"`
	LikeCount          int64     `json:"likeCount"`
	CommentCount       int64     `json:"commentCount"`
	IsLikedByUser      bool      `json:"isLikedByUser"`
	IsBookmarkedByUser bool      `json:"isBookmarkedByUser"`
}

type PostsPage struct {
	Posts      []Post  `json:"posts"`
	NextCursor *string `json:"nextCursor"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	PostID    uuid.UUID `json:"postId"`
	UserID    uuid.UUID `json:"userId"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommentsPage struct {
	Comments       []Comment `json:"comments"`
	PreviousCursor *string   `json:"previousCursor"`
}

type LikeInfo struct {
	Likes         int64 `json:"likes"`
	IsLikedByUser bool  `json:"isLikedByLoggedInUser"`
}

type BookmarkInfo struct {
	IsBookmarkedByUser bool `json:"isBookmarkedByLoggedInUser"`
}

type FollowerInfo struct {
	Followers        int64 `json:"followers"`
	IsFollowedByUser bool  `json:"isFollowedByLoggedInUser"`
}

type Notification struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	IssuerID    uuid.UUID  `json:"issuerId"`
	Issuer      *User      `json:"issuer,omitempty"`
	RecipientID uuid.UUID  `json:"recipientId"`
	PostID      *uuid.UUID `json:"postId"`
	Read        bool       `json:"read"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type NotificationsPage struct {
	Notifications []Notification `json:"notifications"`
	NextCursor    *string        `json:"nextCursor"`
}

type Profile struct {
	User
	FollowerInfo FollowerInfo `json:"followerInfo"`
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", nil,
		map[string]string{"username": username, "email": email, "password": password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil,
		map[string]string{"username": username, "password": password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ForYou(ctx context.Context, cursor string) (*PostsPage, error) {
	return c.postsPage(ctx, "/api/posts/for-you", url.Values{}, cursor)
}

func (c *Client) FollowingFeed(ctx context.Context, cursor string) (*PostsPage, error) {
	return c.postsPage(ctx, "/api/posts/following", url.Values{}, cursor)
}

func (c *Client) Bookmarked(ctx context.Context, cursor string) (*PostsPage, error) {
	return c.postsPage(ctx, "/api/posts/bookmarked", url.Values{}, cursor)
}

func (c *Client) Search(ctx context.Context, query, cursor string) (*PostsPage, error) {
	return c.postsPage(ctx, "/api/search", url.Values{"q": {query}}, cursor)
}

func (c *Client) postsPage(ctx context.Context, path string, q url.Values, cursor string) (*PostsPage, error) {
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	var page PostsPage
	if err := c.do(ctx, http.MethodGet, path, q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreatePost(ctx context.Context, content string, mediaIDs []uuid.UUID) (*Post, error) {
	var post Post
	body := map[string]interface{}{"content": content}
	if len(mediaIDs) > 0 {
		body["mediaIds"] = mediaIDs
	}
	if err := c.do(ctx, http.MethodPost, "/api/posts", nil, body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) GetPost(ctx context.Context, postID uuid.UUID) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postID.String(), nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+postID.String(), nil, nil, nil)
}

func (c *Client) Comments(ctx context.Context, postID uuid.UUID, cursor string) (*CommentsPage, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	var page CommentsPage
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postID.String()+"/comments", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateComment(ctx context.Context, postID uuid.UUID, content string) (*Comment, error) {
	var comment Comment
	err := c.do(ctx, http.MethodPost, "/api/posts/"+postID.String()+"/comments", nil,
		map[string]string{"content": content}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/comments/"+commentID.String(), nil, nil, nil)
}

func (c *Client) LikeInfo(ctx context.Context, postID uuid.UUID) (*LikeInfo, error) {
	var info LikeInfo
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postID.String()+"/likes", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Like(ctx context.Context, postID uuid.UUID) (*LikeInfo, error) {
	var info LikeInfo
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID.String()+"/likes", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Unlike(ctx context.Context, postID uuid.UUID) (*LikeInfo, error) {
	var info LikeInfo
	if err := c.do(ctx, http.MethodDelete, "/api/posts/"+postID.String()+"/likes", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) BookmarkInfo(ctx context.Context, postID uuid.UUID) (*BookmarkInfo, error) {
	var info BookmarkInfo
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+postID.String()+"/bookmarks", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Bookmark(ctx context.Context, postID uuid.UUID) (*BookmarkInfo, error) {
	var info BookmarkInfo
	if err := c.do(ctx, http.MethodPost, "/api/posts/"+postID.String()+"/bookmarks", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Unbookmark(ctx context.Context, postID uuid.UUID) (*BookmarkInfo, error) {
	var info BookmarkInfo
	if err := c.do(ctx, http.MethodDelete, "/api/posts/"+postID.String()+"/bookmarks", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) FollowerInfo(ctx context.Context, userID uuid.UUID) (*FollowerInfo, error) {
	var info FollowerInfo
	if err := c.do(ctx, http.MethodGet, "/api/users/"+userID.String()+"/followers", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Follow(ctx context.Context, userID uuid.UUID) (*FollowerInfo, error) {
	var info FollowerInfo
	if err := c.do(ctx, http.MethodPost, "/api/users/"+userID.String()+"/followers", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Unfollow(ctx context.Context, userID uuid.UUID) (*FollowerInfo, error) {
	var info FollowerInfo
	if err := c.do(ctx, http.MethodDelete, "/api/users/"+userID.String()+"/followers", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/api/users/username/"+username, nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, displayName, bio string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPatch, "/api/users/me", nil,
		map[string]string{"displayName": displayName, "bio": bio}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Notifications(ctx context.Context, cursor string) (*NotificationsPage, error) {
	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	var page NotificationsPage
	if err := c.do(ctx, http.MethodGet, "/api/notifications", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) NotificationUnreadCount(ctx context.Context) (int64, error) {
	var out struct {
		UnreadCount int64 `json:"unreadCount"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/notifications/unread-count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

func (c *Client) MarkNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPatch, "/api/notifications/mark-as-read", nil, nil, nil)
}

func (c *Client) ChatToken(ctx context.Context) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/get-token", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// UnreadCount proxies the chat backend's unread message counter.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		UnreadCount int `json:"unreadCount"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/messages/unread-count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

func (c *Client) RegisterUpload(ctx context.Context, fileURL, mediaType string) (*Media, error) {
	var media Media
	err := c.do(ctx, http.MethodPost, "/api/uploads", nil,
		map[string]string{"url": fileURL, "type": mediaType}, &media)
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
