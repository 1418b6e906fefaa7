package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Puspa222/Hack4SafeFood/internal/model/chat"
)

// ErrChatNotFound reports that the advisory service no longer recognizes the
// chat identifier. It is the only recoverable failure class.
var ErrChatNotFound = errors.New("chat not found")

// APIMessage mirrors the advisory service's message representation.
type APIMessage struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
	Role      string `json:"role"`
	Chat      string `json:"chat"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToMessage converts the wire representation into a timeline message.
func (m APIMessage) ToMessage() chat.Message {
	role := chat.RoleAssistant
	if m.Role == "user" {
		role = chat.RoleUser
	}

	id := m.MessageID
	if id == "" {
		id = uuid.NewString()
	}

	timestamp, err := time.Parse(time.RFC3339Nano, m.CreatedAt)
	if err != nil {
		timestamp = time.Now().UTC()
	}

	return chat.Message{
		ID:        id,
		Content:   m.Message,
		Role:      role,
		Timestamp: timestamp,
	}
}

// CreateChatResponse mirrors POST /chat/create/.
type CreateChatResponse struct {
	ChatID    string       `json:"chat_id"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
	Messages  []APIMessage `json:"messages"`
}

// SendMessageResponse mirrors POST /message/send/.
type SendMessageResponse struct {
	UserMessage APIMessage `json:"user_message"`
	AIResponse  APIMessage `json:"ai_response"`
}

// Client consumes the remote advisory chat API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the advisory service base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateChat provisions a new conversation session and returns its id.
func (c *Client) CreateChat(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/create/", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("create chat: advisory service returned status %d", resp.StatusCode)
	}

	var payload CreateChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("create chat: decode response: %w", err)
	}
	if payload.ChatID == "" {
		return "", errors.New("create chat: response is missing chat_id")
	}
	return payload.ChatID, nil
}

// SendMessage posts a user message under the chat id and returns the echoed
// user message with the assistant reply.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*SendMessageResponse, error) {
	body, err := json.Marshal(map[string]string{
		"message": text,
		"role":    "user",
		"chat":    chatID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/message/send/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("send message: %w", ErrChatNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("send message: advisory service returned status %d", resp.StatusCode)
	}

	var payload SendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("send message: decode response: %w", err)
	}
	return &payload, nil
}

// ChatMessages fetches the message history for the chat id.
func (c *Client) ChatMessages(ctx context.Context, chatID string) ([]APIMessage, error) {
	url := fmt.Sprintf("%s/chat/%s/messages/", c.baseURL, chatID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat messages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("chat messages: %w", ErrChatNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chat messages: advisory service returned status %d", resp.StatusCode)
	}

	var payload []APIMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("chat messages: decode response: %w", err)
	}
	return payload, nil
}
