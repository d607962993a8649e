package seed

import (
	"context"
	"fmt"

	"perch/internal/cache"
	"perch/internal/models"

	"gorm.io/gorm"
)

// birdCatalog is the built-in achievement catalog. Thresholds are "at least";
// an award sticks even if the counter later drops below it.
var birdCatalog = []models.Bird{
	{Name: "Hatchling", Description: "Published your first post", ConditionType: models.ConditionPostCount, ConditionValue: 1},
	{Name: "Songbird", Description: "Published 10 posts", ConditionType: models.ConditionPostCount, ConditionValue: 10},
	{Name: "Mockingbird", Description: "Published 50 posts", ConditionType: models.ConditionPostCount, ConditionValue: 50},
	{Name: "Nightingale", Description: "Published 250 posts", ConditionType: models.ConditionPostCount, ConditionValue: 250},
	{Name: "Lovebird", Description: "Followed your first user", ConditionType: models.ConditionFriendCount, ConditionValue: 1},
	{Name: "Socialite Starling", Description: "Followed 5 users", ConditionType: models.ConditionFriendCount, ConditionValue: 5},
	{Name: "Flock Leader", Description: "Followed 25 users", ConditionType: models.ConditionFriendCount, ConditionValue: 25},
	{Name: "Migration Marshal", Description: "Followed 100 users", ConditionType: models.ConditionFriendCount, ConditionValue: 100},
	// like_count has no counter wired yet; the definition ships so the catalog
	// does not change shape when it lands.
	{Name: "Magpie", Description: "Liked 50 posts", ConditionType: models.ConditionLikeCount, ConditionValue: 50},
}

// Birds inserts the built-in bird catalog, skipping names that already exist
// so re-seeding is safe.
func Birds(db *gorm.DB) error {
	inserted := false
	for _, bird := range birdCatalog {
		var count int64
		if err := db.Model(&models.Bird{}).Where("name = ?", bird.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("check bird %q: %w", bird.Name, err)
		}
		if count > 0 {
			continue
		}
		bird.ImageURL = fmt.Sprintf("https://cdn.perch.example/birds/%s.webp", slugify(bird.Name))
		if err := db.Create(&bird).Error; err != nil {
			return fmt.Errorf("create bird %q: %w", bird.Name, err)
		}
		inserted = true
	}
	if inserted {
		cache.InvalidateBirds(context.Background())
	}
	return nil
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ':
			out = append(out, '-')
		}
	}
	return string(out)
}
