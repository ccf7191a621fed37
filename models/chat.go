package models

import "time"

// ChatMessage keeps a transcript of chatbot traffic so support staff can
// review what the bot answered.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"index" json:"user_id"` // empty for anonymous visitors
	Message   string    `gorm:"not null" json:"message"`
	Reply     string    `json:"reply"`
	Source    string    `json:"source"` // "llm" or "fallback"
	CreatedAt time.Time `json:"created_at"`
}
