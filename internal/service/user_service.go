package service

import (
	"context"
	"strings"

	"perch/internal/models"
	"perch/internal/repository"
)

// UserService provides profile business logic.
type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID          uint
	Nickname        string
	Bio             string
	ProfileImageURL string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUserByID returns a user's profile.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByHandle returns a user's profile by handle, nil when absent.
func (s *UserService) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.userRepo.GetByHandle(ctx, handle)
}

// UpdateProfile applies the non-empty fields of the input to the user's
// profile.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxNicknameLen = 30

	if in.Nickname != "" {
		if len(in.Nickname) > maxNicknameLen {
			return nil, models.NewValidationError("Nickname too long (max 30 characters)")
		}
		user.Nickname = in.Nickname
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.ProfileImageURL != "" {
		user.ProfileImageURL = in.ProfileImageURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SearchUsers finds users by handle or nickname.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.userRepo.Search(ctx, query, limit, offset)
}
