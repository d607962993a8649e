package service

import (
	"context"

	"perch/internal/models"
)

type postRepoStub struct {
	createFn            func(context.Context, *models.Post) error
	getByIDFn           func(context.Context, uint, uint) (*models.Post, error)
	getRawFn            func(context.Context, uint) (*models.Post, error)
	listFn              func(context.Context, int, int, uint) ([]*models.Post, error)
	getByUserIDFn       func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	followingTimelineFn func(context.Context, uint, int, int) ([]*models.Post, error)
	searchFn            func(context.Context, string, int, int, uint) ([]*models.Post, error)
	getAncestorsFn      func(context.Context, uint, uint) ([]*models.Post, error)
	getDescendantsFn    func(context.Context, uint, uint) ([]*models.Post, error)
	hasRepostedFn       func(context.Context, uint, uint) (bool, error)
	repostedUsersFn     func(context.Context, uint) ([]models.User, error)
	deleteFn            func(context.Context, *models.Post) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) GetRaw(ctx context.Context, id uint) (*models.Post, error) {
	return s.getRawFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, viewerID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, viewerID)
}
func (s *postRepoStub) FollowingTimeline(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	return s.followingTimelineFn(ctx, viewerID, limit, offset)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset, viewerID)
}
func (s *postRepoStub) GetAncestors(ctx context.Context, id uint, viewerID uint) ([]*models.Post, error) {
	return s.getAncestorsFn(ctx, id, viewerID)
}
func (s *postRepoStub) GetDescendants(ctx context.Context, id uint, viewerID uint) ([]*models.Post, error) {
	return s.getDescendantsFn(ctx, id, viewerID)
}
func (s *postRepoStub) HasReposted(ctx context.Context, authorID, targetID uint) (bool, error) {
	return s.hasRepostedFn(ctx, authorID, targetID)
}
func (s *postRepoStub) RepostedUsers(ctx context.Context, postID uint) ([]models.User, error) {
	return s.repostedUsersFn(ctx, postID)
}
func (s *postRepoStub) Delete(ctx context.Context, post *models.Post) error {
	return s.deleteFn(ctx, post)
}

type userRepoStub struct {
	getByIDFn     func(context.Context, uint) (*models.User, error)
	getByHandleFn func(context.Context, string) (*models.User, error)
	createFn      func(context.Context, *models.User) error
	updateFn      func(context.Context, *models.User) error
	searchFn      func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.getByHandleFn(ctx, handle)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit, offset)
}

type likeRepoStub struct {
	addFn        func(context.Context, uint, uint) error
	removeFn     func(context.Context, uint, uint) error
	isLikedFn    func(context.Context, uint, uint) (bool, error)
	likedUsersFn func(context.Context, uint) ([]models.User, error)
}

func (s *likeRepoStub) Add(ctx context.Context, postID, userID uint) error {
	return s.addFn(ctx, postID, userID)
}
func (s *likeRepoStub) Remove(ctx context.Context, postID, userID uint) error {
	return s.removeFn(ctx, postID, userID)
}
func (s *likeRepoStub) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	return s.isLikedFn(ctx, postID, userID)
}
func (s *likeRepoStub) LikedUsers(ctx context.Context, postID uint) ([]models.User, error) {
	return s.likedUsersFn(ctx, postID)
}

type followRepoStub struct {
	addFn         func(context.Context, uint, uint) error
	removeFn      func(context.Context, uint, uint) error
	isFollowingFn func(context.Context, uint, uint) (bool, error)
	followersFn   func(context.Context, uint) ([]models.User, error)
	followingFn   func(context.Context, uint) ([]models.User, error)
}

func (s *followRepoStub) Add(ctx context.Context, followerID, followingID uint) error {
	return s.addFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Remove(ctx context.Context, followerID, followingID uint) error {
	return s.removeFn(ctx, followerID, followingID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}

type birdRepoStub struct {
	listFn         func(context.Context) ([]models.Bird, error)
	getByIDFn      func(context.Context, uint) (*models.Bird, error)
	qualifyingFn   func(context.Context, models.ConditionType, int) ([]models.Bird, error)
	ownedBirdIDsFn func(context.Context, uint) (map[uint]struct{}, error)
	awardFn        func(context.Context, uint, uint) (bool, error)
	userBirdsFn    func(context.Context, uint) ([]models.UserBird, error)
}

func (s *birdRepoStub) List(ctx context.Context) ([]models.Bird, error) {
	return s.listFn(ctx)
}
func (s *birdRepoStub) GetByID(ctx context.Context, id uint) (*models.Bird, error) {
	return s.getByIDFn(ctx, id)
}
func (s *birdRepoStub) Qualifying(ctx context.Context, conditionType models.ConditionType, value int) ([]models.Bird, error) {
	return s.qualifyingFn(ctx, conditionType, value)
}
func (s *birdRepoStub) OwnedBirdIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	return s.ownedBirdIDsFn(ctx, userID)
}
func (s *birdRepoStub) Award(ctx context.Context, userID, birdID uint) (bool, error) {
	return s.awardFn(ctx, userID, birdID)
}
func (s *birdRepoStub) UserBirds(ctx context.Context, userID uint) ([]models.UserBird, error) {
	return s.userBirdsFn(ctx, userID)
}

// checkerRecorder captures achievement-hook invocations.
type checkerRecorder struct {
	calls []models.ConditionType
	users []uint
}

func (r *checkerRecorder) CheckAndAward(_ context.Context, userID uint, conditionType models.ConditionType) {
	r.calls = append(r.calls, conditionType)
	r.users = append(r.users, userID)
}
