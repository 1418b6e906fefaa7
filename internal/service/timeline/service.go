package timeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Puspa222/Hack4SafeFood/internal/model/chat"
	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/logging"
)

// Fallback assistant replies shown when the advisory service cannot be
// reached, so the conversation never ends in an inconsistent state.
const (
	fallbackEnglish = "Sorry, I could not reach the advisory service right now. Please try again in a moment."
	fallbackNepali  = "माफ गर्नुहोस्, अहिले सल्लाह सेवामा पुग्न सकिएन। कृपया केही समयपछि फेरि प्रयास गर्नुहोस्।"
)

// Conversation is the remote collaborator the timeline sends through.
type Conversation interface {
	SendMessage(ctx context.Context, text string) (chat.Exchange, error)
	LoadExistingConversation(ctx context.Context) ([]chat.Message, error)
}

// Service owns the ordered, append-only timeline of exchanged messages. It is
// the single consumer of voice-loop transcripts and assistant replies.
type Service struct {
	conversation Conversation
	log          zerolog.Logger

	mu       sync.Mutex
	language speechmodel.Language
	restored bool
	messages []chat.Message
}

// NewService builds an empty timeline sending through the given conversation.
func NewService(conversation Conversation, language speechmodel.Language) *Service {
	return &Service{
		conversation: conversation,
		language:     language,
		log:          logging.WithComponent("timeline"),
	}
}

// Send appends the user's message, posts it, and appends the assistant reply.
// On failure the user's message stays and a graceful fallback assistant
// message is appended instead of surfacing an inconsistent timeline.
func (s *Service) Send(ctx context.Context, text string) chat.Exchange {
	user := chat.Message{
		ID:        uuid.NewString(),
		Content:   text,
		Role:      chat.RoleUser,
		Timestamp: time.Now().UTC(),
	}
	s.append(user)

	exchange, err := s.conversation.SendMessage(ctx, text)
	if err != nil {
		s.log.Warn().Err(err).Msg("send failed, appending fallback reply")
		assistant := chat.Message{
			ID:        uuid.NewString(),
			Content:   s.fallbackText(),
			Role:      chat.RoleAssistant,
			Timestamp: time.Now().UTC(),
		}
		s.append(assistant)
		return chat.Exchange{User: user, Assistant: assistant}
	}

	assistant := exchange.Assistant
	if assistant.ID == "" {
		assistant.ID = uuid.NewString()
	}
	assistant.Role = chat.RoleAssistant
	s.append(assistant)
	return chat.Exchange{User: user, Assistant: assistant}
}

// Restore loads the persisted conversation history once, replacing an empty
// timeline. Subsequent calls are no-ops.
func (s *Service) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.restored || len(s.messages) > 0 {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	history, err := s.conversation.LoadExistingConversation(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restored = true
	if len(s.messages) == 0 && len(history) > 0 {
		s.messages = history
	}
	return nil
}

// Messages returns a copy of the timeline in conversation order.
func (s *Service) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chat.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Clear empties the timeline, typically alongside a session reset.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.restored = false
}

// SetLanguage switches the language used for fallback replies.
func (s *Service) SetLanguage(language speechmodel.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
}

func (s *Service) append(msg chat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *Service) fallbackText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.language == speechmodel.LanguageNepali {
		return fallbackNepali
	}
	return fallbackEnglish
}
