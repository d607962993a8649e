package repository

import (
	"context"
	"testing"

	"perch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBirdRepository_Qualifying(t *testing.T) {
	db := openRepoDB(t)
	repo := NewBirdRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Bird{Name: "Hatchling", ConditionType: models.ConditionPostCount, ConditionValue: 1}).Error)
	require.NoError(t, db.Create(&models.Bird{Name: "Songbird", ConditionType: models.ConditionPostCount, ConditionValue: 10}).Error)
	require.NoError(t, db.Create(&models.Bird{Name: "Socialite", ConditionType: models.ConditionFriendCount, ConditionValue: 5}).Error)

	t.Run("threshold is at-least", func(t *testing.T) {
		birds, err := repo.Qualifying(ctx, models.ConditionPostCount, 10)
		require.NoError(t, err)
		require.Len(t, birds, 2)
		assert.Equal(t, "Hatchling", birds[0].Name)
		assert.Equal(t, "Songbird", birds[1].Name)
	})

	t.Run("below every threshold", func(t *testing.T) {
		birds, err := repo.Qualifying(ctx, models.ConditionPostCount, 0)
		require.NoError(t, err)
		assert.Empty(t, birds)
	})

	t.Run("condition kinds do not mix", func(t *testing.T) {
		birds, err := repo.Qualifying(ctx, models.ConditionFriendCount, 100)
		require.NoError(t, err)
		require.Len(t, birds, 1)
		assert.Equal(t, "Socialite", birds[0].Name)
	})
}

func TestBirdRepository_AwardIdempotent(t *testing.T) {
	db := openRepoDB(t)
	repo := NewBirdRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "awardee")
	bird := &models.Bird{Name: "Hatchling", ConditionType: models.ConditionPostCount, ConditionValue: 1}
	require.NoError(t, db.Create(bird).Error)

	granted, err := repo.Award(ctx, user.ID, bird.ID)
	require.NoError(t, err)
	assert.True(t, granted)

	// Losing the race (or re-checking an unchanged counter) is a no-op.
	granted, err = repo.Award(ctx, user.ID, bird.ID)
	require.NoError(t, err)
	assert.False(t, granted)

	var rows int64
	require.NoError(t, db.Model(&models.UserBird{}).Where("user_id = ? AND bird_id = ?", user.ID, bird.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestBirdRepository_OwnedAndUserBirds(t *testing.T) {
	db := openRepoDB(t)
	repo := NewBirdRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "collector")
	first := &models.Bird{Name: "Hatchling", ConditionType: models.ConditionPostCount, ConditionValue: 1}
	second := &models.Bird{Name: "Songbird", ConditionType: models.ConditionPostCount, ConditionValue: 10}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	_, err := repo.Award(ctx, user.ID, first.ID)
	require.NoError(t, err)

	owned, err := repo.OwnedBirdIDs(ctx, user.ID)
	require.NoError(t, err)
	_, hasFirst := owned[first.ID]
	_, hasSecond := owned[second.ID]
	assert.True(t, hasFirst)
	assert.False(t, hasSecond)

	birds, err := repo.UserBirds(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, birds, 1)
	assert.Equal(t, "Hatchling", birds[0].Bird.Name)
	assert.False(t, birds[0].AcquiredAt.IsZero())
}

func TestBirdRepository_GetByID(t *testing.T) {
	db := openRepoDB(t)
	repo := NewBirdRepository(db)
	ctx := context.Background()

	bird := &models.Bird{Name: "Hatchling", ConditionType: models.ConditionPostCount, ConditionValue: 1}
	require.NoError(t, db.Create(bird).Error)

	got, err := repo.GetByID(ctx, bird.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hatchling", got.Name)

	_, err = repo.GetByID(ctx, 999)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
