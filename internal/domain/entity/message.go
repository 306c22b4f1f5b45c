package entity

import "time"

// Message is one append-only text entry within a chat. CreatedAt is assigned
// server-side at creation and defines the total order within the chat.
type Message struct {
	ID        string    `json:"id" firestore:"id"`
	ChatID    string    `json:"chat_id" firestore:"chatId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Text      string    `json:"text" firestore:"text"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
