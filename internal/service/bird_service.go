package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"perch/internal/models"
	"perch/internal/observability"
	"perch/internal/repository"
)

// BirdService runs the achievement engine: after a counter-changing action,
// CheckAndAward compares the actor's denormalized counter against the bird
// catalog and grants anything newly earned.
type BirdService struct {
	birdRepo repository.BirdRepository
	userRepo repository.UserRepository
}

// NewBirdService returns a new BirdService.
func NewBirdService(birdRepo repository.BirdRepository, userRepo repository.UserRepository) *BirdService {
	return &BirdService{
		birdRepo: birdRepo,
		userRepo: userRepo,
	}
}

// ListBirds returns the full bird catalog.
func (s *BirdService) ListBirds(ctx context.Context) ([]models.Bird, error) {
	return s.birdRepo.List(ctx)
}

// GetBird returns a single bird definition.
func (s *BirdService) GetBird(ctx context.Context, id uint) (*models.Bird, error) {
	return s.birdRepo.GetByID(ctx, id)
}

// UserBirds returns the birds a user has earned, oldest first.
func (s *BirdService) UserBirds(ctx context.Context, userID uint) ([]models.UserBird, error) {
	return s.birdRepo.UserBirds(ctx, userID)
}

// CheckAndAward grants every bird of the given condition type whose threshold
// the user's current counter meets. It runs after the triggering action has
// committed, so a failure here never rolls back or surfaces to the caller:
// problems are logged and the next trigger retries naturally. Awarding is
// idempotent per (user, bird), so concurrent checks cannot double-grant.
func (s *BirdService) CheckAndAward(ctx context.Context, userID uint, conditionType models.ConditionType) {
	done := observability.TrackBirdCheck(string(conditionType))
	defer done()

	span, ctx := observability.NewSpan(ctx, "bird.check_and_award")
	defer span.End()
	span.AddAttributes(
		attribute.String("condition_type", string(conditionType)),
		attribute.Int64("user_id", int64(userID)),
	)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		span.SetError(err)
		slog.WarnContext(ctx, "bird check: failed to load user", "user_id", userID, "err", err)
		return
	}

	var value int
	switch conditionType {
	case models.ConditionPostCount:
		value = user.PostsCount
	case models.ConditionFriendCount:
		value = user.FollowingCount
	default:
		// No user counter backs this condition type yet.
		return
	}

	birds, err := s.birdRepo.Qualifying(ctx, conditionType, value)
	if err != nil {
		span.SetError(err)
		slog.WarnContext(ctx, "bird check: failed to load qualifying birds", "user_id", userID, "err", err)
		return
	}
	if len(birds) == 0 {
		return
	}

	owned, err := s.birdRepo.OwnedBirdIDs(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "bird check: failed to load owned birds", "user_id", userID, "err", err)
		return
	}

	for _, bird := range birds {
		if _, has := owned[bird.ID]; has {
			continue
		}
		granted, err := s.birdRepo.Award(ctx, userID, bird.ID)
		if err != nil {
			slog.WarnContext(ctx, "bird check: failed to award bird",
				"user_id", userID, "bird_id", bird.ID, "err", err)
			continue
		}
		if granted {
			observability.BirdsAwarded.WithLabelValues(string(conditionType)).Inc()
			slog.InfoContext(ctx, "bird awarded",
				"user_id", userID, "bird_id", bird.ID, "bird_name", bird.Name,
				"trace_id", span.TraceID())
		}
	}
}
