package chat

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/Puspa222/Hack4SafeFood/internal/model/chat"
	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/service/conversation"
	"github.com/Puspa222/Hack4SafeFood/internal/service/timeline"
)

// advisoryStub emulates the remote advisory service behind the handler.
type advisoryStub struct {
	mu      sync.Mutex
	creates int
	sends   int
	down    bool
}

func (a *advisoryStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/create/", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.down {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		a.creates++
		json.NewEncoder(w).Encode(map[string]any{"chat_id": fmt.Sprintf("chat-%d", a.creates)})
	})
	mux.HandleFunc("POST /message/send/", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.down {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		a.sends++
		var req struct {
			Message string `json:"message"`
			Chat    string `json:"chat"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		now := time.Now().UTC().Format(time.RFC3339Nano)
		json.NewEncoder(w).Encode(conversation.SendMessageResponse{
			UserMessage: conversation.APIMessage{MessageID: "u-1", Message: req.Message, Role: "user", Chat: req.Chat, CreatedAt: now},
			AIResponse:  conversation.APIMessage{MessageID: "a-1", Message: "Rotate your crops.", Role: "ai", Chat: req.Chat, CreatedAt: now},
		})
	})
	mux.HandleFunc("GET /chat/{id}/messages/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]conversation.APIMessage{})
	})
	return mux
}

func setupRouter(t *testing.T, advisory *advisoryStub) (chi.Router, *timeline.Service) {
	t.Helper()

	server := httptest.NewServer(advisory.handler())
	t.Cleanup(server.Close)

	store := conversation.NewFileStore(filepath.Join(t.TempDir(), "chat_session"))
	manager := conversation.NewManager(conversation.NewClient(server.URL, 5*time.Second), store)
	timelineSvc := timeline.NewService(manager, speechmodel.LanguageEnglish)

	r := chi.NewRouter()
	New(timelineSvc, manager).RegisterRoutes(r)
	return r, timelineSvc
}

func TestSendMessageEndpoint(t *testing.T) {
	advisory := &advisoryStub{}
	router, _ := setupRouter(t, advisory)

	body := strings.NewReader(`{"message": "  When to plant rice?  "}`)
	req := httptest.NewRequest(http.MethodPost, "/messages", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var exchange chatmodel.Exchange
	if err := json.Unmarshal(rec.Body.Bytes(), &exchange); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if exchange.User.Content != "When to plant rice?" {
		t.Fatalf("message must be trimmed, got %q", exchange.User.Content)
	}
	if exchange.Assistant.Content != "Rotate your crops." {
		t.Fatalf("unexpected assistant reply: %q", exchange.Assistant.Content)
	}
}

func TestSendMessageRejectsEmptyBody(t *testing.T) {
	router, _ := setupRouter(t, &advisoryStub{})

	for _, body := range []string{`{}`, `{"message": "   "}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestSendMessageFallsBackWhenAdvisoryDown(t *testing.T) {
	advisory := &advisoryStub{down: true}
	router, _ := setupRouter(t, advisory)

	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(`{"message": "hello"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("fallback reply must still be 200, got %d", rec.Code)
	}
	var exchange chatmodel.Exchange
	if err := json.Unmarshal(rec.Body.Bytes(), &exchange); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(exchange.Assistant.Content, "advisory service") {
		t.Fatalf("expected fallback text, got %q", exchange.Assistant.Content)
	}
}

func TestListMessagesEndpoint(t *testing.T) {
	advisory := &advisoryStub{}
	router, _ := setupRouter(t, advisory)

	// Seed the timeline through the send endpoint.
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(`{"message": "hello"}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var messages []chatmodel.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &messages); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
}

func TestResetSessionEndpoint(t *testing.T) {
	advisory := &advisoryStub{}
	router, timelineSvc := setupRouter(t, advisory)

	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(`{"message": "hello"}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session/reset", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := len(timelineSvc.Messages()); got != 0 {
		t.Fatalf("timeline must be empty after reset, got %d messages", got)
	}

	// The next message provisions a fresh session.
	req = httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(`{"message": "again"}`))
	router.ServeHTTP(httptest.NewRecorder(), req)

	advisory.mu.Lock()
	creates := advisory.creates
	advisory.mu.Unlock()
	if creates != 2 {
		t.Fatalf("expected a fresh session after reset, got %d creates", creates)
	}
}
