package repository

import (
	"context"
	"errors"

	"perch/internal/cache"
	"perch/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BirdRepository defines the interface for achievement data operations.
type BirdRepository interface {
	List(ctx context.Context) ([]models.Bird, error)
	GetByID(ctx context.Context, id uint) (*models.Bird, error)
	Qualifying(ctx context.Context, conditionType models.ConditionType, value int) ([]models.Bird, error)
	OwnedBirdIDs(ctx context.Context, userID uint) (map[uint]struct{}, error)
	Award(ctx context.Context, userID, birdID uint) (bool, error)
	UserBirds(ctx context.Context, userID uint) ([]models.UserBird, error)
}

// birdRepository implements BirdRepository
type birdRepository struct {
	db *gorm.DB
}

// NewBirdRepository creates a new bird repository
func NewBirdRepository(db *gorm.DB) BirdRepository {
	return &birdRepository{db: db}
}

func (r *birdRepository) List(ctx context.Context) ([]models.Bird, error) {
	var birds []models.Bird
	err := cache.Aside(ctx, cache.BirdsKey, &birds, cache.BirdsTTL, func() error {
		if err := r.db.WithContext(ctx).Order("condition_type ASC, condition_value ASC").Find(&birds).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return birds, nil
}

func (r *birdRepository) GetByID(ctx context.Context, id uint) (*models.Bird, error) {
	var bird models.Bird
	if err := r.db.WithContext(ctx).First(&bird, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Bird", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &bird, nil
}

// Qualifying returns bird definitions of the given condition type whose
// threshold is already reached by value ("at least" semantics).
func (r *birdRepository) Qualifying(ctx context.Context, conditionType models.ConditionType, value int) ([]models.Bird, error) {
	var birds []models.Bird
	if err := r.db.WithContext(ctx).
		Where("condition_type = ? AND condition_value <= ?", conditionType, value).
		Order("condition_value ASC").
		Find(&birds).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return birds, nil
}

func (r *birdRepository) OwnedBirdIDs(ctx context.Context, userID uint) (map[uint]struct{}, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.UserBird{}).
		Where("user_id = ?", userID).
		Pluck("bird_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	owned := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		owned[id] = struct{}{}
	}
	return owned, nil
}

// Award inserts the ownership row idempotently. Returns false when the pair
// already exists: the unique (user_id, bird_id) index is the only guard
// against concurrent checks awarding twice, and losing that race is a benign
// no-op rather than an error.
func (r *birdRepository) Award(ctx context.Context, userID, birdID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserBird{UserID: userID, BirdID: birdID})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *birdRepository) UserBirds(ctx context.Context, userID uint) ([]models.UserBird, error) {
	var owned []models.UserBird
	if err := r.db.WithContext(ctx).
		Preload("Bird").
		Where("user_id = ?", userID).
		Order("acquired_at ASC").
		Find(&owned).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return owned, nil
}
