package models

import (
	"strings"
	"time"
)

// PostType tags a post node in the content graph.
type PostType string

const (
	// PostTypeOriginal is a standalone post carrying content and/or media.
	PostTypeOriginal PostType = "ORIGINAL"
	// PostTypeRepost is a contentless re-share of another post.
	PostTypeRepost PostType = "REPOST"
	// PostTypeQuote carries its own content and references another post.
	PostTypeQuote PostType = "QUOTE"
	// PostTypeReply carries content attached to a parent post, extending a thread.
	PostTypeReply PostType = "REPLY"
)

// Post represents a typed node in the content graph. REPOST, QUOTE and REPLY
// posts reference their target through OriginalPostID; ORIGINAL posts have none.
// LikeCount is persisted and maintained in the same transaction as the like
// edge it caches.
type Post struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	UserID         uint     `gorm:"not null;index" json:"user_id"`
	User           User     `gorm:"foreignKey:UserID" json:"user"`
	Type           PostType `gorm:"type:varchar(16);not null;index" json:"type"`
	Content        string   `gorm:"type:text" json:"content"`
	ImageURL       string   `json:"image_url"`
	OriginalPostID *uint    `gorm:"index" json:"original_post_id,omitempty"`
	LikeCount      int      `gorm:"not null;default:0" json:"like_count"`
	// ReplyCount is not persisted; computed at query time
	ReplyCount int `gorm:"->" json:"reply_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`
	// OriginalPost is the rendering of the referenced post, attached in a
	// batched fetch after the main query. Nil for ORIGINAL posts and for
	// references whose target has since been deleted.
	OriginalPost *Post     `gorm:"-" json:"original_post,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewOriginalPost builds an ORIGINAL post. At least one of content and
// imageURL must be non-empty.
func NewOriginalPost(authorID uint, content, imageURL string) (*Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && imageURL == "" {
		return nil, NewValidationError("post requires content or an image")
	}
	return &Post{
		UserID:   authorID,
		Type:     PostTypeOriginal,
		Content:  content,
		ImageURL: imageURL,
	}, nil
}

// NewRepost builds a contentless REPOST pointing at targetID. Canonicalization
// of the target (resolving repost chains to the ultimate original) happens in
// the service layer; targetID here must already be canonical.
func NewRepost(authorID, targetID uint) (*Post, error) {
	if targetID == 0 {
		return nil, NewValidationError("repost requires a target post")
	}
	return &Post{
		UserID:         authorID,
		Type:           PostTypeRepost,
		OriginalPostID: &targetID,
	}, nil
}

// NewQuote builds a QUOTE post with its own content referencing targetID.
func NewQuote(authorID, targetID uint, content string) (*Post, error) {
	content = strings.TrimSpace(content)
	if targetID == 0 {
		return nil, NewValidationError("quote requires a target post")
	}
	if content == "" {
		return nil, NewValidationError("quote requires content")
	}
	return &Post{
		UserID:         authorID,
		Type:           PostTypeQuote,
		Content:        content,
		OriginalPostID: &targetID,
	}, nil
}

// NewReply builds a REPLY post attached to the parent targetID.
func NewReply(authorID, targetID uint, content string) (*Post, error) {
	content = strings.TrimSpace(content)
	if targetID == 0 {
		return nil, NewValidationError("reply requires a target post")
	}
	if content == "" {
		return nil, NewValidationError("reply requires content")
	}
	return &Post{
		UserID:         authorID,
		Type:           PostTypeReply,
		Content:        content,
		OriginalPostID: &targetID,
	}, nil
}
