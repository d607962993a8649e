package service

import (
	"context"
	"testing"

	"perch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_AddFollow(t *testing.T) {
	t.Run("missing target is not found", func(t *testing.T) {
		userRepo := &userRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
				return nil, models.NewNotFoundError("User", id)
			},
		}
		svc := NewFollowService(&followRepoStub{}, userRepo, &checkerRecorder{})

		err := svc.AddFollow(context.Background(), 1, 99)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("triggers the friend count check", func(t *testing.T) {
		checker := &checkerRecorder{}
		userRepo := &userRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id}, nil
			},
		}
		followRepo := &followRepoStub{
			addFn: func(context.Context, uint, uint) error { return nil },
		}
		svc := NewFollowService(followRepo, userRepo, checker)

		require.NoError(t, svc.AddFollow(context.Background(), 1, 2))
		require.Len(t, checker.calls, 1)
		assert.Equal(t, models.ConditionFriendCount, checker.calls[0])
		assert.EqualValues(t, 1, checker.users[0], "the follower is the one checked")
	})

	t.Run("conflict skips the check", func(t *testing.T) {
		checker := &checkerRecorder{}
		userRepo := &userRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id}, nil
			},
		}
		followRepo := &followRepoStub{
			addFn: func(context.Context, uint, uint) error {
				return models.NewConflictError("Already following this user")
			},
		}
		svc := NewFollowService(followRepo, userRepo, checker)

		err := svc.AddFollow(context.Background(), 1, 2)
		require.Error(t, err)
		assert.Empty(t, checker.calls)
	})
}

func TestFollowService_Status(t *testing.T) {
	userRepo := &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, FollowerCount: 12, FollowingCount: 7}, nil
		},
	}

	t.Run("anonymous viewer skips the edge lookup", func(t *testing.T) {
		followRepo := &followRepoStub{
			isFollowingFn: func(context.Context, uint, uint) (bool, error) {
				t.Fatal("edge lookup should be skipped for anonymous viewers")
				return false, nil
			},
		}
		svc := NewFollowService(followRepo, userRepo, nil)

		status, err := svc.Status(context.Background(), 0, 2)
		require.NoError(t, err)
		assert.False(t, status.Following)
		assert.Equal(t, 12, status.FollowerCount)
		assert.Equal(t, 7, status.FollowingCount)
	})

	t.Run("authenticated viewer gets the edge state", func(t *testing.T) {
		followRepo := &followRepoStub{
			isFollowingFn: func(context.Context, uint, uint) (bool, error) {
				return true, nil
			},
		}
		svc := NewFollowService(followRepo, userRepo, nil)

		status, err := svc.Status(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.True(t, status.Following)
	})
}
