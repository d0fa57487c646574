package models

import "time"

// Message is a support chat entry.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	IsAdmin   bool      `json:"is_admin"`
}
