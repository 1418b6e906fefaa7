package speech

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/logging"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/metrics"
)

const errNotSupported = "Speech recognition is not supported"
const errInitFailed = "Failed to initialize speech recognition"

// Recognizer drives capture sessions against the recognition engine. It owns
// the start/stop/abort semantics, the listening flag and the normalized error
// surface. At most one live session per Recognizer is the caller's contract;
// the voice chat loop enforces it for continuous capture.
type Recognizer struct {
	engine RecognitionEngine
	log    zerolog.Logger

	mu        sync.Mutex
	language  speechmodel.Language
	listening bool
	lastError string
}

// NewRecognizer wraps the given engine. A nil engine means the capture
// capability is absent; StartListening then fails with a capability error
// instead of panicking.
func NewRecognizer(engine RecognitionEngine, language speechmodel.Language) *Recognizer {
	return &Recognizer{
		engine:   engine,
		language: language,
		log:      logging.WithComponent("recognizer"),
	}
}

// CaptureHandle identifies one live capture session. Done is closed when the
// session has fully ended and the capture resource is released.
type CaptureHandle struct {
	session RecognitionSession
	done    chan struct{}
}

// Done reports session end.
func (h *CaptureHandle) Done() <-chan struct{} { return h.done }

// StartListening opens a capture session and delivers every recognized
// result, interim or final, to onResult. It returns nil when no session was
// started: capability absence and engine construction failures both surface
// through Err rather than a panic or a crash.
func (r *Recognizer) StartListening(ctx context.Context, onResult func(speechmodel.RecognitionResult), opts *speechmodel.RecognitionOptions) *CaptureHandle {
	if r.engine == nil {
		r.setError(errNotSupported)
		return nil
	}

	o := speechmodel.RecognitionOptions{MaxAlternatives: 1}
	if opts != nil {
		o = *opts
		if o.MaxAlternatives <= 0 {
			o.MaxAlternatives = 1
		}
	}

	cfg := speechmodel.RecognitionConfig{
		Locale:          r.Language().Locale(),
		Continuous:      o.Continuous,
		InterimResults:  o.InterimResults,
		MaxAlternatives: o.MaxAlternatives,
	}

	session, err := r.engine.NewSession(ctx, cfg)
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to open recognition session")
		r.setError(errInitFailed)
		return nil
	}

	handle := &CaptureHandle{session: session, done: make(chan struct{})}
	go r.pump(handle, onResult)
	return handle
}

// StopListening ends the session gracefully, flushing a pending final result.
// No-op for a nil handle.
func (r *Recognizer) StopListening(h *CaptureHandle) {
	if h == nil {
		return
	}
	_ = h.session.Stop()
}

// AbortListening ends the session immediately, discarding in-flight
// recognition. No-op for a nil handle.
func (r *Recognizer) AbortListening(h *CaptureHandle) {
	if h == nil {
		return
	}
	_ = h.session.Abort()
}

// Listening reports whether a capture session is currently active.
func (r *Recognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// Err returns the latest error message, or "" when none.
func (r *Recognizer) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastError
}

// Language returns the active recognition language.
func (r *Recognizer) Language() speechmodel.Language {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.language
}

// SetLanguage switches the locale used for subsequent sessions.
func (r *Recognizer) SetLanguage(language speechmodel.Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.language = language
}

func (r *Recognizer) pump(h *CaptureHandle, onResult func(speechmodel.RecognitionResult)) {
	defer close(h.done)

	for ev := range h.session.Events() {
		switch ev.Kind {
		case speechmodel.RecognitionEventStarted:
			r.mu.Lock()
			r.listening = true
			r.lastError = ""
			r.mu.Unlock()
		case speechmodel.RecognitionEventResult:
			if onResult != nil {
				onResult(ev.Result)
			}
		case speechmodel.RecognitionEventError:
			code := speechmodel.NormalizeRecognitionError(string(ev.Code))
			metrics.RecognitionErrors.WithLabelValues(string(code)).Inc()
			r.log.Debug().Str("code", string(code)).Str("detail", ev.Detail).Msg("recognition error")
			r.setError(code.Message())
		}
	}

	r.mu.Lock()
	r.listening = false
	r.mu.Unlock()
}

func (r *Recognizer) setError(message string) {
	r.mu.Lock()
	r.lastError = message
	r.mu.Unlock()
}
