package service

import (
	"context"

	"perch/internal/models"
	"perch/internal/repository"
)

// FollowService provides follow business logic over the relationship store.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	birds      birdChecker
}

// FollowStatus is the relationship summary for a pair of users, counters
// read from the follower/following caches on the user row.
type FollowStatus struct {
	Following      bool `json:"following"`
	FollowerCount  int  `json:"follower_count"`
	FollowingCount int  `json:"following_count"`
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, birds birdChecker) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		birds:      birds,
	}
}

// AddFollow records followerID following followingID. Duplicate follows are a
// conflict; both users' counters move with the edge in one transaction.
func (s *FollowService) AddFollow(ctx context.Context, followerID, followingID uint) error {
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return err
	}
	if err := s.followRepo.Add(ctx, followerID, followingID); err != nil {
		return err
	}
	if s.birds != nil {
		s.birds.CheckAndAward(ctx, followerID, models.ConditionFriendCount)
	}
	return nil
}

// RemoveFollow removes the follow edge and decrements both counters.
func (s *FollowService) RemoveFollow(ctx context.Context, followerID, followingID uint) error {
	return s.followRepo.Remove(ctx, followerID, followingID)
}

// Status returns whether viewerID follows userID plus the target's counter
// caches.
func (s *FollowService) Status(ctx context.Context, viewerID, userID uint) (*FollowStatus, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	following := false
	if viewerID != 0 {
		following, err = s.followRepo.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}
	return &FollowStatus{
		Following:      following,
		FollowerCount:  user.FollowerCount,
		FollowingCount: user.FollowingCount,
	}, nil
}

// Followers returns the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}

// Following returns the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID)
}
