package entity

import (
	"sort"
	"strings"
	"time"
)

// LastMessage is the denormalized summary of the most recent message in a
// chat, kept in sync by the chat use case. It is what inbox previews and the
// client notification diffing read.
type LastMessage struct {
	ID        string    `json:"id" firestore:"id"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Text      string    `json:"text" firestore:"text"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// Chat is a two-party conversation thread scoped to a mentor engagement.
// At most one chat exists per (mentor, unordered participant pair); PairKey
// encodes that identity.
type Chat struct {
	ID           string       `json:"id" firestore:"id"`
	MentorID     string       `json:"mentor_id" firestore:"mentorId"`
	Participants []string     `json:"participants" firestore:"participants"`
	PairKey      string       `json:"-" firestore:"pairKey"`
	LastMessage  *LastMessage `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	CreatedAt    time.Time    `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time    `json:"updated_at" firestore:"updatedAt"`
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// ChatPairKey builds the uniqueness key for a chat: the mentor id plus the
// participant pair sorted, so both orderings of the pair map to the same key.
func ChatPairKey(mentorID, userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join([]string{mentorID, pair[0], pair[1]}, ":")
}
