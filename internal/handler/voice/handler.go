package voice

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Puspa222/Hack4SafeFood/internal/model/chat"
	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/logging"
	speechsvc "github.com/Puspa222/Hack4SafeFood/internal/service/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/service/timeline"
	"github.com/Puspa222/Hack4SafeFood/pkg/utils"
)

// Handler bridges the voice chat loop and playback controller to a browser
// client over websocket.
type Handler struct {
	recognizer *speechsvc.Recognizer
	playback   *speechsvc.Playback
	timeline   *timeline.Service
	upgrader   websocket.Upgrader
	log        zerolog.Logger
}

// New creates the voice handler.
func New(recognizer *speechsvc.Recognizer, playback *speechsvc.Playback, timelineSvc *timeline.Service) *Handler {
	return &Handler{
		recognizer: recognizer,
		playback:   playback,
		timeline:   timelineSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: logging.WithComponent("voice-handler"),
	}
}

// RegisterRoutes registers voice routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/voice/ws", h.handleWebSocket)
	r.Get("/voice/voices", h.handleListVoices)
}

func (h *Handler) handleListVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.playback.Voices(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, "failed to load voice catalog")
		return
	}
	if voices == nil {
		voices = []speechmodel.Voice{}
	}
	utils.RespondJSON(w, http.StatusOK, voices)
}

type inboundFrame struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Language string `json:"language,omitempty"`
}

type outboundFrame struct {
	Type      string        `json:"type"`
	Active    bool          `json:"active,omitempty"`
	Text      string        `json:"text,omitempty"`
	Message   *chat.Message `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	Assistant *chat.Message `json:"assistant,omitempty"`
}

// conn serializes concurrent writes from the loop callbacks and the control
// reader onto one websocket.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(frame outboundFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.WriteJSON(frame)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	loop := speechsvc.NewLoop(h.recognizer, func(transcript string) {
		c.send(outboundFrame{Type: "transcript", Text: transcript})

		exchange := h.timeline.Send(ctx, transcript)
		c.send(outboundFrame{Type: "assistant", Assistant: &exchange.Assistant})
	})
	loop.Interim = func(text string) {
		c.send(outboundFrame{Type: "interim", Text: text})
	}
	defer loop.Stop()

	for {
		var frame inboundFrame
		if err := ws.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Type {
		case "start_voice":
			loop.Start(ctx)
			c.send(outboundFrame{Type: "listening", Active: true})
		case "stop_voice":
			loop.Stop()
			c.send(outboundFrame{Type: "listening", Active: false})
		case "speak":
			if err := h.playback.Speak(ctx, frame.Text, nil); err != nil {
				c.send(outboundFrame{Type: "error", Error: h.playback.Err()})
				continue
			}
			c.send(outboundFrame{Type: "speaking", Active: true})
		case "pause_speaking":
			h.playback.Pause()
		case "resume_speaking":
			h.playback.Resume()
		case "stop_speaking":
			h.playback.Cancel()
			c.send(outboundFrame{Type: "speaking", Active: false})
		case "set_language":
			language := speechmodel.Language(frame.Language)
			if language != speechmodel.LanguageEnglish && language != speechmodel.LanguageNepali {
				c.send(outboundFrame{Type: "error", Error: "unsupported language"})
				continue
			}
			h.recognizer.SetLanguage(language)
			h.playback.SetLanguage(language)
			h.timeline.SetLanguage(language)
		default:
			c.send(outboundFrame{Type: "error", Error: "unknown frame type"})
		}
	}
}
