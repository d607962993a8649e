package models

import "time"

// ConditionType names the counter kind a bird's threshold is evaluated against.
type ConditionType string

const (
	// ConditionPostCount is evaluated against users.posts_count.
	ConditionPostCount ConditionType = "post_count"
	// ConditionFriendCount is evaluated against users.following_count.
	ConditionFriendCount ConditionType = "friend_count"
	// ConditionLikeCount is a defined hook; no counter is wired to it yet.
	ConditionLikeCount ConditionType = "like_count"
)

// Bird is an unlockable achievement definition. A bird is awarded once the
// user's counter for ConditionType reaches at least ConditionValue.
type Bird struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Name           string        `gorm:"unique;not null" json:"name"`
	Description    string        `json:"description"`
	ImageURL       string        `json:"image_url"`
	ConditionType  ConditionType `gorm:"type:varchar(32);not null;index" json:"condition_type"`
	ConditionValue int           `gorm:"not null" json:"condition_value"`
	CreatedAt      time.Time     `json:"created_at"`
}

// UserBird records that a user owns a bird. Rows are immutable and never
// deleted; the unique (UserID, BirdID) pair is what makes awarding idempotent
// under concurrent checks.
type UserBird struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_bird" json:"user_id"`
	BirdID     uint      `gorm:"not null;uniqueIndex:idx_user_bird" json:"bird_id"`
	AcquiredAt time.Time `gorm:"autoCreateTime" json:"acquired_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bird Bird `gorm:"foreignKey:BirdID" json:"bird,omitempty"`
}
