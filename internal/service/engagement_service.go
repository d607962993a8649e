package service

import (
	"context"

	"perch/internal/models"
	"perch/internal/repository"
)

// EngagementService provides like business logic over the engagement store.
type EngagementService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
	birds    birdChecker
}

// NewEngagementService returns a new EngagementService.
func NewEngagementService(likeRepo repository.LikeRepository, postRepo repository.PostRepository, birds birdChecker) *EngagementService {
	return &EngagementService{
		likeRepo: likeRepo,
		postRepo: postRepo,
		birds:    birds,
	}
}

// AddLike records a like by userID on the post. Liking an already-liked post
// is a conflict, and the like_count stays consistent with the edge table.
func (s *EngagementService) AddLike(ctx context.Context, postID, userID uint) error {
	if _, err := s.postRepo.GetRaw(ctx, postID); err != nil {
		return err
	}
	if err := s.likeRepo.Add(ctx, postID, userID); err != nil {
		return err
	}
	if s.birds != nil {
		s.birds.CheckAndAward(ctx, userID, models.ConditionLikeCount)
	}
	return nil
}

// RemoveLike removes a like. Unliking a post that was never liked is a
// not-found, and a removed like can be re-added cleanly.
func (s *EngagementService) RemoveLike(ctx context.Context, postID, userID uint) error {
	return s.likeRepo.Remove(ctx, postID, userID)
}

// IsLiked reports whether userID has liked the post.
func (s *EngagementService) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	return s.likeRepo.IsLiked(ctx, postID, userID)
}

// LikedUsers returns the users who liked the post, most recent first.
func (s *EngagementService) LikedUsers(ctx context.Context, postID uint) ([]models.User, error) {
	if _, err := s.postRepo.GetRaw(ctx, postID); err != nil {
		return nil, err
	}
	return s.likeRepo.LikedUsers(ctx, postID)
}
