// Package seed provides database seeding for development and demos.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"perch/internal/models"
	"perch/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with demo data. Writes go through the
// repositories so counters and achievement state stay consistent with what
// the application itself would produce.
type Seeder struct {
	db         *gorm.DB
	rng        *rand.Rand
	postRepo   repository.PostRepository
	likeRepo   repository.LikeRepository
	followRepo repository.FollowRepository
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:         db,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		postRepo:   repository.NewPostRepository(db),
		likeRepo:   repository.NewLikeRepository(db),
		followRepo: repository.NewFollowRepository(db),
	}
}

// ClearAll wipes every seeded table, dependents first.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.UserBird{}, &models.Like{}, &models.Follow{},
		&models.Post{}, &models.Bird{}, &models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds the bird catalog plus a social mesh of users, posts, follows and
// likes.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	if err := Birds(s.db); err != nil {
		return fmt.Errorf("seed birds: %w", err)
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := s.createPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := s.createFollows(users); err != nil {
		return fmt.Errorf("create follows: %w", err)
	}
	if err := s.createLikes(users, posts); err != nil {
		return fmt.Errorf("create likes: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

func (s *Seeder) createUsers(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		handle := fmt.Sprintf("%s_%s%d",
			strings.ToLower(gofakeit.NounCommon()),
			strings.ToLower(gofakeit.AdjectiveDescriptive()),
			i)
		user := &models.User{
			Handle:          sanitizeHandle(handle),
			Password:        string(hash),
			Nickname:        gofakeit.Name(),
			Bio:             gofakeit.Sentence(8),
			ProfileImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// sanitizeHandle forces gofakeit output into the handle alphabet.
func sanitizeHandle(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		if isLower || isDigit || r == '_' {
			b.WriteRune(r)
		}
	}
	handle := b.String()
	if len(handle) > 30 {
		handle = handle[:30]
	}
	return handle
}

func (s *Seeder) createPosts(users []*models.User, n int) ([]*models.Post, error) {
	ctx := context.Background()
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]

		var post *models.Post
		var appErr error
		switch {
		case len(posts) > 0 && s.rng.Intn(10) < 2:
			// quote or reply to something that already exists
			target := posts[s.rng.Intn(len(posts))]
			if s.rng.Intn(2) == 0 {
				post, appErr = models.NewQuote(author.ID, target.ID, gofakeit.Sentence(10))
			} else {
				post, appErr = models.NewReply(author.ID, target.ID, gofakeit.Sentence(10))
			}
		case s.rng.Intn(10) < 2:
			post, appErr = models.NewOriginalPost(author.ID, gofakeit.Sentence(12),
				fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()))
		default:
			post, appErr = models.NewOriginalPost(author.ID, gofakeit.Sentence(12), "")
		}
		if appErr != nil {
			return nil, appErr
		}
		if err := s.postRepo.Create(ctx, post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) createFollows(users []*models.User) error {
	ctx := context.Background()
	for _, user := range users {
		targets := s.rng.Intn(len(users))
		for i := 0; i < targets; i++ {
			other := users[s.rng.Intn(len(users))]
			if other.ID == user.ID {
				continue
			}
			err := s.followRepo.Add(ctx, user.ID, other.ID)
			if err != nil {
				if appErr, ok := err.(*models.AppError); ok && appErr.Code == "CONFLICT" {
					continue
				}
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) createLikes(users []*models.User, posts []*models.Post) error {
	ctx := context.Background()
	maxLikers := len(users) / 2
	if maxLikers == 0 {
		maxLikers = 1
	}
	for _, post := range posts {
		likers := s.rng.Intn(maxLikers)
		for i := 0; i < likers; i++ {
			user := users[s.rng.Intn(len(users))]
			err := s.likeRepo.Add(ctx, post.ID, user.ID)
			if err != nil {
				if appErr, ok := err.(*models.AppError); ok && appErr.Code == "CONFLICT" {
					continue
				}
				return err
			}
		}
	}
	return nil
}
