package conversation

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Puspa222/Hack4SafeFood/internal/model/chat"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/logging"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/metrics"
)

// Manager owns the identity of the current conversation. It creates a session
// lazily on the first outbound message, persists the identifier immediately,
// and transparently recovers exactly once when the advisory service reports
// the session unknown. The server is the only authority on expiry.
type Manager struct {
	client *Client
	store  SessionStore
	log    zerolog.Logger

	mu     sync.Mutex
	chatID string
}

// NewManager restores a previously persisted session identifier if one
// exists; absence is not an error.
func NewManager(client *Client, store SessionStore) *Manager {
	m := &Manager{
		client: client,
		store:  store,
		log:    logging.WithComponent("conversation"),
	}

	if store != nil {
		id, err := store.Load()
		if err != nil {
			m.log.Warn().Err(err).Msg("failed to restore session identifier")
		} else if id != "" {
			m.chatID = id
			m.log.Info().Str("chatId", id).Msg("restored conversation session")
		}
	}
	return m
}

// SendMessage posts text under the current session, creating one first when
// absent. A not-found response triggers one session re-creation and one
// retried post; a second failure surfaces to the caller. Other failure
// classes surface immediately.
func (m *Manager) SendMessage(ctx context.Context, text string) (chat.Exchange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.chatID == "" {
		if err := m.createSessionLocked(ctx); err != nil {
			metrics.MessagesSent.WithLabelValues("failure").Inc()
			return chat.Exchange{}, err
		}
	}

	resp, err := m.client.SendMessage(ctx, m.chatID, text)
	if errors.Is(err, ErrChatNotFound) {
		m.log.Info().Str("chatId", m.chatID).Msg("session unknown to server, recreating")
		m.invalidateLocked()
		if createErr := m.createSessionLocked(ctx); createErr != nil {
			metrics.MessagesSent.WithLabelValues("failure").Inc()
			return chat.Exchange{}, createErr
		}
		metrics.SessionRecreations.Inc()
		resp, err = m.client.SendMessage(ctx, m.chatID, text)
	}
	if err != nil {
		metrics.MessagesSent.WithLabelValues("failure").Inc()
		return chat.Exchange{}, err
	}

	metrics.MessagesSent.WithLabelValues("success").Inc()
	return chat.Exchange{
		User:      resp.UserMessage.ToMessage(),
		Assistant: resp.AIResponse.ToMessage(),
	}, nil
}

// LoadExistingConversation fetches the stored session's history. With no
// stored identifier it returns an empty history without any network call. A
// not-found response is benign: the stale identifier is cleared and an empty
// history returned.
func (m *Manager) LoadExistingConversation(ctx context.Context) ([]chat.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.chatID == "" {
		return nil, nil
	}

	raw, err := m.client.ChatMessages(ctx, m.chatID)
	if errors.Is(err, ErrChatNotFound) {
		m.log.Info().Str("chatId", m.chatID).Msg("stored session unknown to server, clearing")
		m.invalidateLocked()
		return []chat.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	messages := make([]chat.Message, 0, len(raw))
	for _, msg := range raw {
		messages = append(messages, msg.ToMessage())
	}
	return messages, nil
}

// ResetSession discards the current session identifier in memory and in the
// durable store.
func (m *Manager) ResetSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidateLocked()
}

// ChatID returns the current session identifier, or "" when none is held.
func (m *Manager) ChatID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chatID
}

func (m *Manager) createSessionLocked(ctx context.Context) error {
	id, err := m.client.CreateChat(ctx)
	if err != nil {
		return err
	}
	m.chatID = id

	// Persisted immediately, never write-behind: an abrupt reload must not
	// lose the identifier.
	if m.store != nil {
		if err := m.store.Save(id); err != nil {
			m.log.Warn().Err(err).Str("chatId", id).Msg("failed to persist session identifier")
		}
	}
	m.log.Info().Str("chatId", id).Msg("created conversation session")
	return nil
}

func (m *Manager) invalidateLocked() {
	m.chatID = ""
	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			m.log.Warn().Err(err).Msg("failed to clear session identifier")
		}
	}
}
