package server

import (
	"perch/internal/cache"
	"perch/internal/models"
	"perch/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID := s.optionalUserID(c)

	// The anonymous first page is the hottest read; serve it cache-aside.
	if viewerID == 0 && page.Offset == 0 && page.Limit == 20 {
		var posts []*models.Post
		err := cache.Aside(c.Context(), cache.FeedKey, &posts, cache.FeedTTL, func() error {
			fetched, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{Limit: page.Limit, ViewerID: 0})
			if err != nil {
				return err
			}
			posts = fetched
			return nil
		})
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(posts)
	}

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: viewerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID := s.optionalUserID(c)

	posts, err := s.postService.SearchPosts(c.Context(), c.Query("q"), service.ListPostsInput{
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: viewerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), postID, s.optionalUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetPostThread handles GET /api/posts/:id/thread
func (s *Server) GetPostThread(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.postService.GetThread(c.Context(), postID, s.optionalUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(thread)
}

// GetPostLikes handles GET /api/posts/:id/likes
func (s *Server) GetPostLikes(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.engagementService.LikedUsers(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetPostReposts handles GET /api/posts/:id/reposts
func (s *Server) GetPostReposts(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.postService.RepostedUsers(c.Context(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	viewerID := s.optionalUserID(c)

	if viewerID == 0 && page.Offset == 0 && page.Limit == 20 {
		var posts []*models.Post
		err := cache.Aside(c.Context(), cache.UserPostsKey(userID), &posts, cache.PostTTL, func() error {
			fetched, err := s.postService.UserPosts(c.Context(), userID, service.ListPostsInput{Limit: page.Limit, ViewerID: 0})
			if err != nil {
				return err
			}
			posts = fetched
			return nil
		})
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(posts)
	}

	posts, err := s.postService.UserPosts(c.Context(), userID, service.ListPostsInput{
		Limit:    page.Limit,
		Offset:   page.Offset,
		ViewerID: viewerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetFollowingFeed handles GET /api/feed/following
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	posts, err := s.postService.FollowingTimeline(c.Context(), s.currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := s.currentUserID(c)

	var req struct {
		Content  string `json:"content"`
		ImageURL string `json:"image_url,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   userID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// RepostPost handles POST /api/posts/:id/repost
func (s *Server) RepostPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Repost(c.Context(), s.currentUserID(c), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// QuotePost handles POST /api/posts/:id/quote
func (s *Server) QuotePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Quote(c.Context(), s.currentUserID(c), postID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ReplyToPost handles POST /api/posts/:id/reply
func (s *Server) ReplyToPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Reply(c.Context(), s.currentUserID(c), postID, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), postID, s.currentUserID(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := s.currentUserID(c)
	if err := s.engagementService.AddLike(c.Context(), postID, userID); err != nil {
		return respondServiceError(c, err)
	}

	post, err := s.postService.GetPost(c.Context(), postID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := s.currentUserID(c)
	if err := s.engagementService.RemoveLike(c.Context(), postID, userID); err != nil {
		return respondServiceError(c, err)
	}

	post, err := s.postService.GetPost(c.Context(), postID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}
