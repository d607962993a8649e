package service

import (
	"context"
	"strings"

	"perch/internal/models"
	"perch/internal/observability"
	"perch/internal/repository"
)

// birdChecker is the post-commit achievement hook. Satisfied by *BirdService.
type birdChecker interface {
	CheckAndAward(ctx context.Context, userID uint, conditionType models.ConditionType)
}

// PostService provides content-graph business logic. Writes go through the
// repository inside a transaction; the achievement check runs after the
// commit and never affects the outcome of the write itself.
type PostService struct {
	postRepo repository.PostRepository
	birds    birdChecker
}

type CreatePostInput struct {
	UserID   uint
	Content  string
	ImageURL string
}

type ListPostsInput struct {
	Limit    int
	Offset   int
	ViewerID uint
}

// Thread is a post with its full reply context: the chain of ancestors
// (furthest first) and every reply beneath it (level order).
type Thread struct {
	Ancestors   []*models.Post `json:"ancestors"`
	Post        *models.Post   `json:"post"`
	Descendants []*models.Post `json:"descendants"`
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, birds birdChecker) *PostService {
	return &PostService{
		postRepo: postRepo,
		birds:    birds,
	}
}

// CreatePost creates an ORIGINAL post.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	post, appErr := models.NewOriginalPost(in.UserID, in.Content, in.ImageURL)
	if appErr != nil {
		return nil, appErr
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.afterCreate(ctx, post)
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// Repost creates a REPOST of the target. Reposting a repost is redirected to
// the ultimate original, so repost rows always point at canonical content and
// the duplicate check cannot be dodged through an intermediary.
func (s *PostService) Repost(ctx context.Context, authorID, targetID uint) (*models.Post, error) {
	target, err := s.postRepo.GetRaw(ctx, targetID)
	if err != nil {
		return nil, err
	}

	canonicalID := target.ID
	if target.Type == models.PostTypeRepost && target.OriginalPostID != nil {
		canonicalID = *target.OriginalPostID
	}

	reposted, err := s.postRepo.HasReposted(ctx, authorID, canonicalID)
	if err != nil {
		return nil, err
	}
	if reposted {
		return nil, models.NewConflictError("Post already reposted")
	}

	post, appErr := models.NewRepost(authorID, canonicalID)
	if appErr != nil {
		return nil, appErr
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.afterCreate(ctx, post)
	return s.postRepo.GetByID(ctx, post.ID, authorID)
}

// Quote creates a QUOTE post referencing the target with commentary. Unlike
// reposts, quoting a repost keeps the repost itself as the target.
func (s *PostService) Quote(ctx context.Context, authorID, targetID uint, content string) (*models.Post, error) {
	post, appErr := models.NewQuote(authorID, targetID, content)
	if appErr != nil {
		return nil, appErr
	}
	if _, err := s.postRepo.GetRaw(ctx, targetID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.afterCreate(ctx, post)
	return s.postRepo.GetByID(ctx, post.ID, authorID)
}

// Reply creates a REPLY under the target post.
func (s *PostService) Reply(ctx context.Context, authorID, targetID uint, content string) (*models.Post, error) {
	post, appErr := models.NewReply(authorID, targetID, content)
	if appErr != nil {
		return nil, appErr
	}
	if _, err := s.postRepo.GetRaw(ctx, targetID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.afterCreate(ctx, post)
	return s.postRepo.GetByID(ctx, post.ID, authorID)
}

// DeletePost removes a post and its dependent repost rows. Only the author
// may delete.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID uint) error {
	post, err := s.postRepo.GetRaw(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, post)
}

// GetPost returns a single post annotated for the viewer.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, viewerID)
}

// ListPosts returns the public feed, newest first, replies excluded.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, in.Limit, in.Offset, in.ViewerID)
}

// UserPosts returns a single author's posts, newest first.
func (s *PostService) UserPosts(ctx context.Context, userID uint, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, in.Limit, in.Offset, in.ViewerID)
}

// FollowingTimeline returns posts by the viewer and the users they follow.
func (s *PostService) FollowingTimeline(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.FollowingTimeline(ctx, viewerID, limit, offset)
}

// SearchPosts finds posts whose content matches the query.
func (s *PostService) SearchPosts(ctx context.Context, query string, in ListPostsInput) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, in.Limit, in.Offset, in.ViewerID)
}

// GetThread returns a post with its ancestor chain and reply subtree.
func (s *PostService) GetThread(ctx context.Context, postID, viewerID uint) (*Thread, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	ancestors, err := s.postRepo.GetAncestors(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	descendants, err := s.postRepo.GetDescendants(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	return &Thread{
		Ancestors:   ancestors,
		Post:        post,
		Descendants: descendants,
	}, nil
}

// RepostedUsers returns the users who reposted the given post.
func (s *PostService) RepostedUsers(ctx context.Context, postID uint) ([]models.User, error) {
	if _, err := s.postRepo.GetRaw(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.RepostedUsers(ctx, postID)
}

func (s *PostService) afterCreate(ctx context.Context, post *models.Post) {
	observability.PostsCreated.WithLabelValues(string(post.Type)).Inc()
	if s.birds != nil {
		s.birds.CheckAndAward(ctx, post.UserID, models.ConditionPostCount)
	}
}
