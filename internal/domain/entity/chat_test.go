package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatPairKeyOrderInsensitive(t *testing.T) {
	assert.Equal(t,
		ChatPairKey("mentor-1", "user-a", "user-b"),
		ChatPairKey("mentor-1", "user-b", "user-a"),
	)
}

func TestChatPairKeyScopedToMentor(t *testing.T) {
	assert.NotEqual(t,
		ChatPairKey("mentor-1", "user-a", "user-b"),
		ChatPairKey("mentor-2", "user-a", "user-b"),
	)
}

func TestHasParticipant(t *testing.T) {
	chat := &Chat{Participants: []string{"user-a", "user-b"}}

	assert.True(t, chat.HasParticipant("user-a"))
	assert.True(t, chat.HasParticipant("user-b"))
	assert.False(t, chat.HasParticipant("user-c"))
}
