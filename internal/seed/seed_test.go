package seed

import (
	"testing"

	"perch/internal/database"
	"perch/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestBirdsIdempotent(t *testing.T) {
	db := openSeedDB(t)

	require.NoError(t, Birds(db))
	var first int64
	require.NoError(t, db.Model(&models.Bird{}).Count(&first).Error)
	require.Equal(t, int64(len(birdCatalog)), first)

	// Re-seeding must not duplicate or error on the unique name column.
	require.NoError(t, Birds(db))
	var second int64
	require.NoError(t, db.Model(&models.Bird{}).Count(&second).Error)
	require.Equal(t, first, second)

	var hatchling models.Bird
	require.NoError(t, db.Where("name = ?", "Hatchling").First(&hatchling).Error)
	require.Equal(t, models.ConditionPostCount, hatchling.ConditionType)
	require.Equal(t, 1, hatchling.ConditionValue)
	require.Equal(t, "https://cdn.perch.example/birds/hatchling.webp", hatchling.ImageURL)
}

func TestRunProducesConsistentData(t *testing.T) {
	db := openSeedDB(t)
	seeder := NewSeeder(db)

	require.NoError(t, seeder.Run(Options{NumUsers: 5, NumPosts: 20, ShouldClean: true}))

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 5)

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.GreaterOrEqual(t, postCount, int64(20))

	// Denormalized counters must agree with the rows they summarize.
	for _, u := range users {
		var posts, following, followers int64
		require.NoError(t, db.Model(&models.Post{}).Where("user_id = ?", u.ID).Count(&posts).Error)
		require.NoError(t, db.Model(&models.Follow{}).Where("follower_id = ?", u.ID).Count(&following).Error)
		require.NoError(t, db.Model(&models.Follow{}).Where("following_id = ?", u.ID).Count(&followers).Error)
		require.Equal(t, int(posts), u.PostsCount, "posts_count for %s", u.Handle)
		require.Equal(t, int(following), u.FollowingCount, "following_count for %s", u.Handle)
		require.Equal(t, int(followers), u.FollowerCount, "follower_count for %s", u.Handle)
	}

	// Like counts on posts match the like rows.
	var likedPosts []models.Post
	require.NoError(t, db.Where("like_count > 0").Find(&likedPosts).Error)
	for _, p := range likedPosts {
		var likes int64
		require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", p.ID).Count(&likes).Error)
		require.Equal(t, int(likes), p.LikeCount)
	}
}

func TestSanitizeHandle(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":   "janedoe",
		"user_42":    "user_42",
		"We!rd-Ch@r": "werdchr",
	}
	for in, want := range cases {
		require.Equal(t, want, sanitizeHandle(in))
	}
}
