package models

import "time"

// ForumEntry is a community post.
type ForumEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReactionType is the kind of reaction left on a forum entry.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Valid reports whether t is like or dislike.
func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// PostReaction is a like/dislike left by a user on a forum entry.
type PostReaction struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	PostID       uint         `gorm:"not null;index:idx_reactions_post_type,priority:1" json:"post_id"`
	UserID       uint         `gorm:"not null;index" json:"user_id"`
	ReactionType ReactionType `gorm:"size:10;not null;index:idx_reactions_post_type,priority:2" json:"reaction_type"`
	CreatedAt    time.Time    `json:"created_at"`
}
