package repository

import (
	"context"
	"errors"

	"perch/internal/cache"
	"perch/internal/models"
	"perch/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for content-graph data operations.
// Creation and deletion pair the post row mutation with the author's
// posts_count update in a single transaction.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	GetRaw(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error)
	FollowingTimeline(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Post, error)
	GetAncestors(ctx context.Context, id uint, viewerID uint) ([]*models.Post, error)
	GetDescendants(ctx context.Context, id uint, viewerID uint) ([]*models.Post, error)
	HasReposted(ctx context.Context, authorID, targetID uint) (bool, error)
	RepostedUsers(ctx context.Context, postID uint) ([]models.User, error)
	Delete(ctx context.Context, post *models.Post) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", post.UserID).
			UpdateColumn("posts_count", gorm.Expr("posts_count + ?", 1)).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.FeedKey)
	cache.InvalidateUser(ctx, post.UserID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("User").
			First(&post, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if viewerID == 0 {
		// Anonymous reads have no viewer-specific fields and are safe to cache.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}

	if err := r.embedOriginals(ctx, viewerID, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetRaw fetches a post row without annotations or preloads. Used for target
// resolution before writes.
func (r *postRepository) GetRaw(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.type <> ?", models.PostTypeReply).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.embedOriginals(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.embedOriginals(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FollowingTimeline returns non-reply posts authored by the viewer or by users
// the viewer follows.
func (r *postRepository) FollowingTimeline(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.type <> ?", models.PostTypeReply).
		Where("posts.user_id = ? OR posts.user_id IN (SELECT following_id FROM follows WHERE follower_id = ?)", viewerID, viewerID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.embedOriginals(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + query + "%"
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.content LIKE ?", like).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.embedOriginals(ctx, viewerID, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetAncestors walks strictly upward following original_post_id while the
// current node is a REPLY; the first non-reply ancestor terminates the chain
// and is included. The result is ordered root-first and excludes the starting
// post.
func (r *postRepository) GetAncestors(ctx context.Context, id uint, viewerID uint) ([]*models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetAncestors", "posts")
	defer span.End()

	start, err := r.GetRaw(ctx, id)
	if err != nil {
		return nil, err
	}

	chain := []*models.Post{}
	visited := map[uint]struct{}{start.ID: {}}
	current := start
	for current.Type == models.PostTypeReply && current.OriginalPostID != nil {
		parentID := *current.OriginalPostID
		if _, seen := visited[parentID]; seen {
			break
		}
		var parent models.Post
		err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("User").
			First(&parent, parentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Dangling parent pointer terminates the walk.
			break
		}
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		visited[parent.ID] = struct{}{}
		chain = append(chain, &parent)
		current = &parent
	}

	// The walk collected leaf-to-root; callers expect the furthest ancestor first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	if err := r.embedOriginals(ctx, viewerID, chain); err != nil {
		return nil, err
	}
	return chain, nil
}

// GetDescendants collects all replies reachable through a chain of REPLY edges
// rooted at the post, level by level: depth ascending, creation time ascending
// within each depth.
func (r *postRepository) GetDescendants(ctx context.Context, id uint, viewerID uint) ([]*models.Post, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetDescendants", "posts")
	defer span.End()

	if _, err := r.GetRaw(ctx, id); err != nil {
		return nil, err
	}

	result := []*models.Post{}
	visited := map[uint]struct{}{id: {}}
	frontier := []uint{id}
	for len(frontier) > 0 {
		var level []*models.Post
		err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("User").
			Where("posts.original_post_id IN ? AND posts.type = ?", frontier, models.PostTypeReply).
			Order("posts.created_at ASC").
			Find(&level).Error
		if err != nil {
			return nil, models.NewInternalError(err)
		}

		next := make([]uint, 0, len(level))
		for _, p := range level {
			if _, seen := visited[p.ID]; seen {
				continue
			}
			visited[p.ID] = struct{}{}
			result = append(result, p)
			next = append(next, p.ID)
		}
		frontier = next
	}

	if err := r.embedOriginals(ctx, viewerID, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postRepository) HasReposted(ctx context.Context, authorID, targetID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ? AND type = ? AND original_post_id = ?", authorID, models.PostTypeRepost, targetID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) RepostedUsers(ctx context.Context, postID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN posts ON posts.user_id = users.id").
		Where("posts.original_post_id = ? AND posts.type = ?", postID, models.PostTypeRepost).
		Order("posts.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Delete removes the post, any REPOST rows pointing at it, and decrements the
// author's posts_count, all in one transaction. Reposters keep their
// posts_count credit; QUOTE and REPLY rows survive with a dangling reference.
func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("original_post_id = ? AND type = ?", post.ID, models.PostTypeRepost).
			Delete(&models.Post{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, post.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.User{}).
			Where("id = ?", post.UserID).
			UpdateColumn("posts_count", gorm.Expr("posts_count - ?", 1)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", post.ID)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateUser(ctx, post.UserID)
	return nil
}

// applyPostDetails adds subqueries to fetch the reply count and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM posts replies WHERE replies.original_post_id = posts.id AND replies.type = 'REPLY') as reply_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", viewerID)
	}

	return db.Select(selectQuery + ", false as liked")
}

// embedOriginals attaches the referenced post's rendering to REPOST and QUOTE
// rows in one batched fetch. Targets deleted since the reference was created
// are left nil.
func (r *postRepository) embedOriginals(ctx context.Context, viewerID uint, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	seen := map[uint]struct{}{}
	for _, p := range posts {
		if p.OriginalPostID == nil {
			continue
		}
		if p.Type != models.PostTypeRepost && p.Type != models.PostTypeQuote {
			continue
		}
		if _, exists := seen[*p.OriginalPostID]; exists {
			continue
		}
		seen[*p.OriginalPostID] = struct{}{}
		ids = append(ids, *p.OriginalPostID)
	}
	if len(ids) == 0 {
		return nil
	}

	var originals []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.id IN ?", ids).
		Find(&originals).Error; err != nil {
		return models.NewInternalError(err)
	}

	byID := make(map[uint]*models.Post, len(originals))
	for _, o := range originals {
		byID[o.ID] = o
	}

	for _, p := range posts {
		if p.OriginalPostID == nil {
			continue
		}
		if p.Type != models.PostTypeRepost && p.Type != models.PostTypeQuote {
			continue
		}
		p.OriginalPost = byID[*p.OriginalPostID]
	}
	return nil
}
