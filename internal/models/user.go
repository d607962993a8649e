// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a user in the Perch application.
// PostsCount, FollowerCount and FollowingCount are denormalized caches of the
// corresponding edge-table cardinalities; every mutation of a post/follow edge
// updates them inside the same transaction.
type User struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Handle          string    `gorm:"unique;not null" json:"handle"`
	Password        string    `gorm:"not null" json:"-"`
	Nickname        string    `json:"nickname"`
	Bio             string    `json:"bio"`
	ProfileImageURL string    `json:"profile_image_url"`
	PostsCount      int       `gorm:"not null;default:0" json:"posts_count"`
	FollowerCount   int       `gorm:"not null;default:0" json:"follower_count"`
	FollowingCount  int       `gorm:"not null;default:0" json:"following_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
