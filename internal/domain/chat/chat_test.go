package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	starter := uuid.New()
	recipient := uuid.New()
	listingID := uuid.New()

	t.Run("opens a thread about a listing", func(t *testing.T) {
		conv, err := NewConversation(starter, recipient, &listingID)
		require.NoError(t, err)
		assert.Equal(t, starter, conv.StarterID)
		assert.Equal(t, recipient, conv.RecipientID)
		require.NotNil(t, conv.ListingID)
		assert.Equal(t, listingID, *conv.ListingID)
		assert.False(t, conv.Archived)
		assert.False(t, conv.Muted)
		assert.Nil(t, conv.LastMessageAt)

		events := conv.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeConversationStarted, events[0].EventType())
	})

	t.Run("allows a thread without a listing", func(t *testing.T) {
		conv, err := NewConversation(starter, recipient, nil)
		require.NoError(t, err)
		assert.Nil(t, conv.ListingID)
	})

	t.Run("rejects talking to yourself", func(t *testing.T) {
		_, err := NewConversation(starter, starter, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SELF_CONVERSATION", domainErr.Code)
	})

	t.Run("rejects empty participants", func(t *testing.T) {
		_, err := NewConversation(uuid.Nil, recipient, nil)
		assert.Error(t, err)
		_, err = NewConversation(starter, uuid.Nil, nil)
		assert.Error(t, err)
	})
}

func TestConversation_Participants(t *testing.T) {
	starter := uuid.New()
	recipient := uuid.New()
	conv, err := NewConversation(starter, recipient, nil)
	require.NoError(t, err)

	assert.True(t, conv.HasParticipant(starter))
	assert.True(t, conv.HasParticipant(recipient))
	assert.False(t, conv.HasParticipant(uuid.New()))

	assert.Equal(t, recipient, conv.OtherParticipant(starter))
	assert.Equal(t, starter, conv.OtherParticipant(recipient))
}

func TestConversation_TouchUnarchives(t *testing.T) {
	conv, err := NewConversation(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	conv.Archive()
	require.True(t, conv.Archived)

	at := time.Now()
	conv.Touch(at)

	assert.False(t, conv.Archived)
	require.NotNil(t, conv.LastMessageAt)
	assert.Equal(t, at, *conv.LastMessageAt)
}

func TestConversation_MuteRoundTrip(t *testing.T) {
	conv, err := NewConversation(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	before := conv.GetVersion()
	conv.Mute()
	assert.True(t, conv.Muted)
	assert.Equal(t, before+1, conv.GetVersion())

	// Repeats are no-ops
	conv.Mute()
	assert.Equal(t, before+1, conv.GetVersion())

	conv.Unmute()
	assert.False(t, conv.Muted)
}

func TestNewMessage(t *testing.T) {
	conversationID := uuid.New()
	sender := uuid.New()

	t.Run("creates an unread message", func(t *testing.T) {
		msg, err := NewMessage(conversationID, sender, "Is the lantern still available?", nil)
		require.NoError(t, err)
		assert.Equal(t, conversationID, msg.ConversationID)
		assert.Equal(t, sender, msg.SenderID)
		assert.False(t, msg.Read)
		assert.Nil(t, msg.ReadAt)
		assert.True(t, msg.IsFrom(sender))
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := NewMessage(conversationID, sender, "", nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_MESSAGE", domainErr.Code)
	})

	t.Run("rejects oversized content", func(t *testing.T) {
		_, err := NewMessage(conversationID, sender, strings.Repeat("a", MaxMessageLength+1), nil)
		assert.Error(t, err)
	})

	t.Run("keeps the reply anchor", func(t *testing.T) {
		parentID := uuid.New()
		msg, err := NewMessage(conversationID, sender, "Yes, still here", &parentID)
		require.NoError(t, err)
		require.NotNil(t, msg.ReplyToID)
		assert.Equal(t, parentID, *msg.ReplyToID)
	})
}

func TestMessage_MarkRead(t *testing.T) {
	msg, err := NewMessage(uuid.New(), uuid.New(), "Habari", nil)
	require.NoError(t, err)

	msg.MarkRead()
	assert.True(t, msg.Read)
	require.NotNil(t, msg.ReadAt)

	firstReadAt := *msg.ReadAt
	msg.MarkRead()
	assert.Equal(t, firstReadAt, *msg.ReadAt)
}

func TestMessage_Delete(t *testing.T) {
	msg, err := NewMessage(uuid.New(), uuid.New(), "typo everywhere", nil)
	require.NoError(t, err)
	require.NoError(t, msg.Pin())

	msg.Delete()

	assert.True(t, msg.Deleted)
	assert.Empty(t, msg.Content)
	assert.False(t, msg.Pinned)

	err = msg.Pin()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MESSAGE_DELETED", domainErr.Code)
}

func TestMessageSentEvent_Preview(t *testing.T) {
	conv, err := NewConversation(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)
	conv.Mute()

	long := strings.Repeat("m", 300)
	msg, err := NewMessage(conv.ID, conv.StarterID, long, nil)
	require.NoError(t, err)

	e := NewMessageSentEvent(msg, conv)
	assert.Len(t, e.Preview, 80)
	assert.Equal(t, conv.RecipientID, e.RecipientID)
	assert.True(t, e.Muted)
}
