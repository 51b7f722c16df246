package models

import "time"

// Message is an immutable direct message between two users.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index:idx_messages_pair,priority:1" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index:idx_messages_pair,priority:2" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
}
