package speech

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/logging"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/metrics"
)

// LoopState models the continuous voice chat lifecycle.
type LoopState string

const (
	LoopOff       LoopState = "off"
	LoopArmed     LoopState = "armed"
	LoopListening LoopState = "listening"
)

// Loop turns single-utterance capture into press-once continuous
// conversation: each finalized utterance is emitted to the sink exactly once,
// then a fresh capture session is armed until Stop. Session N+1 never starts
// before session N has fully ended.
type Loop struct {
	recognizer *Recognizer
	sink       func(string)
	log        zerolog.Logger

	// Interim, when set before Start, observes interim transcripts. Interim
	// text never reaches the sink.
	Interim func(string)

	mu        sync.Mutex
	autoMode  bool
	recording bool
	state     LoopState
	handle    *CaptureHandle
}

// NewLoop builds a stopped loop feeding finalized transcripts to sink.
func NewLoop(recognizer *Recognizer, sink func(string)) *Loop {
	return &Loop{
		recognizer: recognizer,
		sink:       sink,
		log:        logging.WithComponent("voiceloop"),
		state:      LoopOff,
	}
}

// Start arms the loop. Calling Start while the loop is running is a no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.autoMode {
		l.mu.Unlock()
		return
	}
	l.autoMode = true
	l.state = LoopArmed
	l.mu.Unlock()

	go l.run(ctx)
}

// Stop disarms the loop and aborts any in-flight capture session.
// Idempotent: stopping an OFF loop changes nothing.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.autoMode && l.handle == nil {
		l.state = LoopOff
		l.mu.Unlock()
		return
	}
	l.autoMode = false
	handle := l.handle
	l.state = LoopOff
	l.mu.Unlock()

	if handle != nil {
		l.recognizer.AbortListening(handle)
	}
}

// State returns the current loop state.
func (l *Loop) State() LoopState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Recording reports whether a capture session is currently armed or live.
func (l *Loop) Recording() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recording
}

func (l *Loop) run(ctx context.Context) {
	for {
		if ctx.Err() != nil || !l.auto() {
			l.setOff()
			return
		}

		// One accepted utterance per session; buffered so the result
		// callback never blocks the engine.
		accepted := make(chan string, 1)
		interim := l.Interim

		handle := l.recognizer.StartListening(ctx, func(res speechmodel.RecognitionResult) {
			text := strings.TrimSpace(res.Transcript)
			if !res.IsFinal {
				if interim != nil && text != "" {
					interim(text)
				}
				return
			}
			if text == "" {
				// Empty finals are discarded; the loop still re-arms.
				return
			}
			select {
			case accepted <- text:
			default:
			}
		}, &speechmodel.RecognitionOptions{InterimResults: true, MaxAlternatives: 1})

		if handle == nil {
			// Capability absent or engine failure: do not spin.
			l.log.Warn().Str("error", l.recognizer.Err()).Msg("capture unavailable, loop off")
			l.setOff()
			return
		}

		if !l.adopt(handle) {
			// Stopped between arm and adoption.
			l.recognizer.AbortListening(handle)
			<-handle.Done()
			l.setOff()
			return
		}

		<-handle.Done()
		l.release(handle)

		select {
		case text := <-accepted:
			metrics.UtterancesCaptured.Inc()
			l.sink(text)
		default:
		}
	}
}

func (l *Loop) auto() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.autoMode
}

// adopt registers the live session; returns false when Stop won the race.
func (l *Loop) adopt(handle *CaptureHandle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.autoMode {
		return false
	}
	l.handle = handle
	l.recording = true
	l.state = LoopListening
	return true
}

func (l *Loop) release(handle *CaptureHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == handle {
		l.handle = nil
	}
	l.recording = false
	if l.autoMode {
		l.state = LoopArmed
	} else {
		l.state = LoopOff
	}
}

func (l *Loop) setOff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.autoMode = false
	l.recording = false
	l.handle = nil
	l.state = LoopOff
}
