package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatmodel "github.com/Puspa222/Hack4SafeFood/internal/model/chat"
	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
	speechsvc "github.com/Puspa222/Hack4SafeFood/internal/service/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/service/timeline"
)

type stubConversation struct{}

func (stubConversation) SendMessage(context.Context, string) (chatmodel.Exchange, error) {
	return chatmodel.Exchange{}, errors.New("advisory unreachable")
}

func (stubConversation) LoadExistingConversation(context.Context) ([]chatmodel.Message, error) {
	return nil, nil
}

func setupVoiceServer(t *testing.T) (*httptest.Server, *speechsvc.Recognizer, *speechsvc.Playback) {
	t.Helper()

	recognizer := speechsvc.NewRecognizer(nil, speechmodel.LanguageEnglish)
	playback := speechsvc.NewPlayback(nil, speechmodel.LanguageEnglish)
	timelineSvc := timeline.NewService(stubConversation{}, speechmodel.LanguageEnglish)

	r := chi.NewRouter()
	New(recognizer, playback, timelineSvc).RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, recognizer, playback
}

func dialVoice(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/voice/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func readFrame(t *testing.T, ws *websocket.Conn) outboundFrame {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame outboundFrame
	if err := ws.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func TestWebSocketStartStopVoice(t *testing.T) {
	server, _, _ := setupVoiceServer(t)
	ws := dialVoice(t, server)

	if err := ws.WriteJSON(inboundFrame{Type: "start_voice"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	frame := readFrame(t, ws)
	if frame.Type != "listening" || !frame.Active {
		t.Fatalf("expected active listening frame, got %+v", frame)
	}

	if err := ws.WriteJSON(inboundFrame{Type: "stop_voice"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	frame = readFrame(t, ws)
	if frame.Type != "listening" || frame.Active {
		t.Fatalf("expected inactive listening frame, got %+v", frame)
	}
}

func TestWebSocketSpeakWithoutCapability(t *testing.T) {
	server, _, _ := setupVoiceServer(t)
	ws := dialVoice(t, server)

	if err := ws.WriteJSON(inboundFrame{Type: "speak", Text: "hello"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	frame := readFrame(t, ws)
	if frame.Type != "error" {
		t.Fatalf("expected error frame, got %+v", frame)
	}
	if frame.Error != "Speech synthesis is not available" {
		t.Fatalf("unexpected error text: %q", frame.Error)
	}
}

func TestWebSocketSetLanguage(t *testing.T) {
	server, recognizer, playback := setupVoiceServer(t)
	ws := dialVoice(t, server)

	if err := ws.WriteJSON(inboundFrame{Type: "set_language", Language: "ne"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	// set_language has no acknowledgement; probe via an unknown frame.
	if err := ws.WriteJSON(inboundFrame{Type: "nonsense"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	frame := readFrame(t, ws)
	if frame.Type != "error" || frame.Error != "unknown frame type" {
		t.Fatalf("expected unknown-frame error, got %+v", frame)
	}

	if recognizer.Language() != speechmodel.LanguageNepali {
		t.Fatalf("recognizer language not switched, got %q", recognizer.Language())
	}
	if playback.Language() != speechmodel.LanguageNepali {
		t.Fatalf("playback language not switched, got %q", playback.Language())
	}
}

func TestWebSocketRejectsUnsupportedLanguage(t *testing.T) {
	server, recognizer, _ := setupVoiceServer(t)
	ws := dialVoice(t, server)

	if err := ws.WriteJSON(inboundFrame{Type: "set_language", Language: "fr"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	frame := readFrame(t, ws)
	if frame.Type != "error" || frame.Error != "unsupported language" {
		t.Fatalf("expected unsupported-language error, got %+v", frame)
	}
	if recognizer.Language() != speechmodel.LanguageEnglish {
		t.Fatalf("language must stay unchanged, got %q", recognizer.Language())
	}
}

func TestListVoicesEndpoint(t *testing.T) {
	server, _, _ := setupVoiceServer(t)

	resp, err := http.Get(server.URL + "/voice/voices")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var voices []speechmodel.Voice
	if err := json.NewDecoder(resp.Body).Decode(&voices); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(voices) != 0 {
		t.Fatalf("expected empty catalog without an engine, got %d voices", len(voices))
	}
}
