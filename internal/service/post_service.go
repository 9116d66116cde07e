package service

import (
	"context"
	"errors"
	"strings"

	"github.com/finn/social-feed-api/internal/domain"
	"github.com/finn/social-feed-api/internal/linkify"
	"github.com/finn/social-feed-api/internal/pagination"
	"github.com/finn/social-feed-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	postPageSize   = 10
	maxAttachments = 5
)

var ErrTooManyAttachments = errors.New("too many attachments")

// PostView is a post enriched with the viewer-dependent fields the feed
// serializes alongside each row.
type PostView struct {
	domain.Post
	ContentHTML        string `json:"contentHtml"`
	LikeCount          int64  `json:"likeCount"`
	CommentCount       int64  `json:"commentCount"`
	IsLikedByUser      bool   `json:"isLikedByUser"`
	IsBookmarkedByUser bool   `json:"isBookmarkedByUser"`
}

type PostsPage struct {
	Posts      []*PostView `json:"posts"`
	NextCursor *uuid.UUID  `json:"nextCursor"`
}

type PostService struct {
	repos *repository.Repositories
}

func NewPostService(repos *repository.Repositories) *PostService {
	return &PostService{repos: repos}
}

// Create stores the post and claims its media attachments in one
// transaction, so an upload can never end up attached to two posts.
func (s *PostService) Create(ctx context.Context, userID uuid.UUID, content string, mediaIDs []uuid.UUID) (*PostView, error) {
	if len(mediaIDs) > maxAttachments {
		return nil, ErrTooManyAttachments
	}

	post := &domain.Post{
		ID:      uuid.New(),
		Content: content,
		UserID:  userID,
	}
	err := s.repos.Tx.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.Post.Create(ctx, post); err != nil {
			return err
		}
		if len(mediaIDs) == 0 {
			return nil
		}
		return r.Media.AttachToPost(ctx, mediaIDs, post.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, post.ID)
}

func (s *PostService) Get(ctx context.Context, viewerID, postID uuid.UUID) (*PostView, error) {
	post, err := s.repos.Post.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	views, err := s.enrich(ctx, viewerID, []*domain.Post{post})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *PostService) Delete(ctx context.Context, viewerID, postID uuid.UUID) error {
	post, err := s.repos.Post.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPostNotFound
		}
		return err
	}
	if post.UserID != viewerID {
		return domain.ErrForbidden
	}
	// Attachment rows lose their post_id on delete and are reclaimed, remote
	// file included, by the orphan sweep.
	return s.repos.Post.Delete(ctx, postID)
}

func (s *PostService) ForYou(ctx context.Context, viewerID uuid.UUID, cursor string) (*PostsPage, error) {
	anchor, err := s.postAnchor(ctx, cursor)
	if err != nil {
		return nil, err
	}
	posts, err := s.repos.Post.ListAll(ctx, anchor, postPageSize+1)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, viewerID, posts)
}

func (s *PostService) Following(ctx context.Context, viewerID uuid.UUID, cursor string) (*PostsPage, error) {
	anchor, err := s.postAnchor(ctx, cursor)
	if err != nil {
		return nil, err
	}
	posts, err := s.repos.Post.ListFollowing(ctx, viewerID, anchor, postPageSize+1)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, viewerID, posts)
}

// Search matches every whitespace-separated term against post content and
// author names.
func (s *PostService) Search(ctx context.Context, viewerID uuid.UUID, query, cursor string) (*PostsPage, error) {
	anchor, err := s.postAnchor(ctx, cursor)
	if err != nil {
		return nil, err
	}
	tsquery := strings.Join(strings.Fields(query), " & ")
	if tsquery == "" {
		return &PostsPage{Posts: []*PostView{}}, nil
	}
	posts, err := s.repos.Post.Search(ctx, tsquery, anchor, postPageSize+1)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, viewerID, posts)
}

// Bookmarked pages over the viewer's bookmark rows, ordered by when each
// post was saved rather than when it was written.
func (s *PostService) Bookmarked(ctx context.Context, viewerID uuid.UUID, cursor string) (*PostsPage, error) {
	anchor, err := resolveAnchor(ctx, cursor, s.repos.Bookmark.Anchor)
	if err != nil {
		return nil, err
	}
	bookmarks, err := s.repos.Bookmark.ListByUser(ctx, viewerID, anchor, postPageSize+1)
	if err != nil {
		return nil, err
	}

	page, next := pagination.TrimDesc(bookmarks, postPageSize, func(b *domain.Bookmark) uuid.UUID { return b.ID })
	posts := make([]*domain.Post, 0, len(page))
	for _, b := range page {
		if b.Post != nil {
			posts = append(posts, b.Post)
		}
	}
	views, err := s.enrich(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &PostsPage{Posts: views, NextCursor: next}, nil
}

func (s *PostService) postAnchor(ctx context.Context, cursor string) (*pagination.Anchor, error) {
	return resolveAnchor(ctx, cursor, s.repos.Post.Anchor)
}

func (s *PostService) page(ctx context.Context, viewerID uuid.UUID, rows []*domain.Post) (*PostsPage, error) {
	page, next := pagination.TrimDesc(rows, postPageSize, func(p *domain.Post) uuid.UUID { return p.ID })
	views, err := s.enrich(ctx, viewerID, page)
	if err != nil {
		return nil, err
	}
	return &PostsPage{Posts: views, NextCursor: next}, nil
}

// enrich batches the per-post counters and viewer flags for a page.
func (s *PostService) enrich(ctx context.Context, viewerID uuid.UUID, posts []*domain.Post) ([]*PostView, error) {
	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likeCounts, err := s.repos.Like.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.repos.Comment.CountByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.repos.Like.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	bookmarked, err := s.repos.Bookmark.BookmarkedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*PostView, len(posts))
	for i, p := range posts {
		views[i] = &PostView{
			Post:               *p,
			ContentHTML:        linkify.Render(p.Content),
			LikeCount:          likeCounts[p.ID],
			CommentCount:       commentCounts[p.ID],
			IsLikedByUser:      liked[p.ID],
			IsBookmarkedByUser: bookmarked[p.ID],
		}
	}
	return views, nil
}

// resolveAnchor turns a raw cursor token into a keyset anchor. A token that
// does not parse or does not name a live row is an invalid cursor.
func resolveAnchor(ctx context.Context, cursor string, lookup func(context.Context, uuid.UUID) (*pagination.Anchor, error)) (*pagination.Anchor, error) {
	id, err := pagination.ParseCursor(cursor)
	if err != nil {
		return nil, domain.ErrInvalidCursor
	}
	if id == nil {
		return nil, nil
	}
	anchor, err := lookup(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCursor
		}
		return nil, err
	}
	return anchor, nil
}
