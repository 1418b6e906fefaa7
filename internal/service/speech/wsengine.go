package speech

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/logging"
)

// WSEngineConfig controls the websocket speech gateway connection.
type WSEngineConfig struct {
	ASREndpoint string
	TTSEndpoint string
	APIKey      string
}

// WSEngine implements RecognitionEngine and SynthesisEngine against a
// streaming speech gateway speaking JSON frames over websocket. The gateway
// owns the physical microphone and speaker paths; one connection is one
// engine session.
type WSEngine struct {
	cfg    WSEngineConfig
	dialer *websocket.Dialer
	log    zerolog.Logger

	voicesMu    sync.RWMutex
	voices      []speechmodel.Voice
	voicesReady chan struct{}
	voicesOnce  sync.Once
	readyOnce   sync.Once
}

// NewWSEngine builds an engine for the configured gateway endpoints.
func NewWSEngine(cfg WSEngineConfig) *WSEngine {
	return &WSEngine{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 30 * time.Second,
		},
		log:         logging.WithComponent("wsengine"),
		voicesReady: make(chan struct{}),
	}
}

func (e *WSEngine) header() http.Header {
	header := http.Header{}
	if e.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+e.cfg.APIKey)
	}
	return header
}

// gatewayFrame is the wire format in both directions.
type gatewayFrame struct {
	Type            string              `json:"type"`
	Locale          string              `json:"locale,omitempty"`
	Continuous      bool                `json:"continuous,omitempty"`
	InterimResults  bool                `json:"interim_results,omitempty"`
	MaxAlternatives int                 `json:"max_alternatives,omitempty"`
	Transcript      string              `json:"transcript,omitempty"`
	Confidence      float64             `json:"confidence,omitempty"`
	IsFinal         bool                `json:"is_final,omitempty"`
	Text            string              `json:"text,omitempty"`
	Rate            float64             `json:"rate,omitempty"`
	Pitch           float64             `json:"pitch,omitempty"`
	Volume          float64             `json:"volume,omitempty"`
	Voice           string              `json:"voice,omitempty"`
	Voices          []speechmodel.Voice `json:"voices,omitempty"`
	Code            string              `json:"code,omitempty"`
	Message         string              `json:"message,omitempty"`
}

// NewSession opens a recognition session on the gateway.
func (e *WSEngine) NewSession(ctx context.Context, cfg speechmodel.RecognitionConfig) (RecognitionSession, error) {
	if e.cfg.ASREndpoint == "" {
		return nil, errors.New("recognition endpoint is not configured")
	}

	conn, _, err := e.dialer.DialContext(ctx, e.cfg.ASREndpoint, e.header())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to recognition gateway: %w", err)
	}

	start := gatewayFrame{
		Type:            "start",
		Locale:          cfg.Locale,
		Continuous:      cfg.Continuous,
		InterimResults:  cfg.InterimResults,
		MaxAlternatives: cfg.MaxAlternatives,
	}
	if err := conn.WriteJSON(start); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to start recognition session: %w", err)
	}

	session := &wsRecognitionSession{
		conn:   conn,
		events: make(chan speechmodel.RecognitionEvent, 64),
		log:    e.log,
	}
	go session.readLoop()
	go func() {
		<-ctx.Done()
		_ = session.Abort()
	}()
	return session, nil
}

type wsRecognitionSession struct {
	conn *websocket.Conn
	log  zerolog.Logger

	events chan speechmodel.RecognitionEvent

	mu      sync.Mutex
	aborted bool

	closeOnce sync.Once
}

func (s *wsRecognitionSession) Events() <-chan speechmodel.RecognitionEvent {
	return s.events
}

func (s *wsRecognitionSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The gateway flushes a pending final result, then closes.
	return s.conn.WriteJSON(gatewayFrame{Type: "stop"})
}

func (s *wsRecognitionSession) Abort() error {
	s.mu.Lock()
	if s.aborted {
		s.mu.Unlock()
		return nil
	}
	s.aborted = true
	_ = s.conn.WriteJSON(gatewayFrame{Type: "abort"})
	s.mu.Unlock()

	s.closeOnce.Do(func() { _ = s.conn.Close() })
	return nil
}

func (s *wsRecognitionSession) readLoop() {
	defer close(s.events)
	defer s.closeOnce.Do(func() { _ = s.conn.Close() })

	for {
		var frame gatewayFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			s.mu.Lock()
			aborted := s.aborted
			s.mu.Unlock()

			switch {
			case aborted:
				s.events <- speechmodel.RecognitionEvent{
					Kind: speechmodel.RecognitionEventError,
					Code: speechmodel.RecognitionErrAborted,
				}
			case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				// Clean end of session.
			default:
				s.events <- speechmodel.RecognitionEvent{
					Kind:   speechmodel.RecognitionEventError,
					Code:   speechmodel.RecognitionErrNetwork,
					Detail: err.Error(),
				}
			}
			return
		}

		switch frame.Type {
		case "started":
			s.events <- speechmodel.RecognitionEvent{Kind: speechmodel.RecognitionEventStarted}
		case "result":
			s.events <- speechmodel.RecognitionEvent{
				Kind: speechmodel.RecognitionEventResult,
				Result: speechmodel.RecognitionResult{
					Transcript: frame.Transcript,
					Confidence: frame.Confidence,
					IsFinal:    frame.IsFinal,
				},
			}
		case "error":
			s.events <- speechmodel.RecognitionEvent{
				Kind:   speechmodel.RecognitionEventError,
				Code:   speechmodel.NormalizeRecognitionError(frame.Code),
				Detail: frame.Message,
			}
		case "end":
			return
		default:
			s.log.Debug().Str("type", frame.Type).Msg("ignoring unknown gateway frame")
		}
	}
}

// Speak opens a playback session on the gateway.
func (e *WSEngine) Speak(ctx context.Context, utt speechmodel.Utterance) (PlaybackSession, error) {
	if e.cfg.TTSEndpoint == "" {
		return nil, errors.New("synthesis endpoint is not configured")
	}

	conn, _, err := e.dialer.DialContext(ctx, e.cfg.TTSEndpoint, e.header())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to synthesis gateway: %w", err)
	}

	speak := gatewayFrame{
		Type:   "speak",
		Text:   utt.Text,
		Locale: utt.Locale,
		Rate:   utt.Rate,
		Pitch:  utt.Pitch,
		Volume: utt.Volume,
		Voice:  utt.Voice,
	}
	if err := conn.WriteJSON(speak); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to start synthesis: %w", err)
	}

	session := &wsPlaybackSession{
		conn:   conn,
		engine: e,
		events: make(chan speechmodel.PlaybackEvent, 16),
	}
	go session.readLoop()
	return session, nil
}

// Voices returns the cached catalog, kicking off an asynchronous load on
// first use. The catalog may be empty until VoicesReady fires.
func (e *WSEngine) Voices(ctx context.Context) ([]speechmodel.Voice, error) {
	e.voicesOnce.Do(func() { go e.loadVoices() })

	e.voicesMu.RLock()
	defer e.voicesMu.RUnlock()
	out := make([]speechmodel.Voice, len(e.voices))
	copy(out, e.voices)
	return out, nil
}

// VoicesReady is closed once the catalog has loaded.
func (e *WSEngine) VoicesReady() <-chan struct{} {
	e.voicesOnce.Do(func() { go e.loadVoices() })
	return e.voicesReady
}

func (e *WSEngine) loadVoices() {
	if e.cfg.TTSEndpoint == "" {
		e.readyOnce.Do(func() { close(e.voicesReady) })
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, _, err := e.dialer.DialContext(ctx, e.cfg.TTSEndpoint, e.header())
	if err != nil {
		e.log.Warn().Err(err).Msg("voice catalog load failed")
		e.readyOnce.Do(func() { close(e.voicesReady) })
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(gatewayFrame{Type: "voices"}); err != nil {
		e.readyOnce.Do(func() { close(e.voicesReady) })
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var frame gatewayFrame
		if err := conn.ReadJSON(&frame); err != nil {
			e.log.Warn().Err(err).Msg("voice catalog read failed")
			break
		}
		if frame.Type == "voices" {
			e.voicesMu.Lock()
			e.voices = frame.Voices
			e.voicesMu.Unlock()
			break
		}
	}
	e.readyOnce.Do(func() { close(e.voicesReady) })
}

type wsPlaybackSession struct {
	conn   *websocket.Conn
	engine *WSEngine

	events chan speechmodel.PlaybackEvent

	mu       sync.Mutex
	canceled bool

	closeOnce sync.Once
}

func (s *wsPlaybackSession) Events() <-chan speechmodel.PlaybackEvent {
	return s.events
}

func (s *wsPlaybackSession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(gatewayFrame{Type: "pause"})
}

func (s *wsPlaybackSession) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(gatewayFrame{Type: "resume"})
}

func (s *wsPlaybackSession) Cancel() error {
	s.mu.Lock()
	if s.canceled {
		s.mu.Unlock()
		return nil
	}
	s.canceled = true
	_ = s.conn.WriteJSON(gatewayFrame{Type: "cancel"})
	s.mu.Unlock()

	s.closeOnce.Do(func() { _ = s.conn.Close() })
	return nil
}

func (s *wsPlaybackSession) readLoop() {
	defer close(s.events)
	defer s.closeOnce.Do(func() { _ = s.conn.Close() })

	for {
		var frame gatewayFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			s.mu.Lock()
			canceled := s.canceled
			s.mu.Unlock()

			if canceled || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.events <- speechmodel.PlaybackEvent{
					Kind: speechmodel.PlaybackEventError,
					Code: speechmodel.SynthesisErrCanceled,
				}
			} else {
				s.events <- speechmodel.PlaybackEvent{
					Kind:   speechmodel.PlaybackEventError,
					Code:   speechmodel.SynthesisErrNetwork,
					Detail: err.Error(),
				}
			}
			return
		}

		switch frame.Type {
		case "started":
			s.events <- speechmodel.PlaybackEvent{Kind: speechmodel.PlaybackEventStarted}
		case "paused":
			s.events <- speechmodel.PlaybackEvent{Kind: speechmodel.PlaybackEventPaused}
		case "resumed":
			s.events <- speechmodel.PlaybackEvent{Kind: speechmodel.PlaybackEventResumed}
		case "ended":
			s.events <- speechmodel.PlaybackEvent{Kind: speechmodel.PlaybackEventEnded}
			return
		case "error":
			s.events <- speechmodel.PlaybackEvent{
				Kind:   speechmodel.PlaybackEventError,
				Code:   speechmodel.NormalizeSynthesisError(frame.Code),
				Detail: frame.Message,
			}
			return
		case "voices":
			s.engine.voicesMu.Lock()
			s.engine.voices = frame.Voices
			s.engine.voicesMu.Unlock()
			s.engine.readyOnce.Do(func() { close(s.engine.voicesReady) })
		}
	}
}
