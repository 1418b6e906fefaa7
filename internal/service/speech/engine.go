package speech

import (
	"context"

	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
)

// RecognitionEngine constructs one recognition session per call. The engine
// wraps the platform capture resource; holding a live session is the only way
// to own the microphone input path.
type RecognitionEngine interface {
	NewSession(ctx context.Context, cfg speechmodel.RecognitionConfig) (RecognitionSession, error)
}

// RecognitionSession is one live activation of the capture resource.
//
// Events delivers started/result/error events in recognition order. The
// channel is closed exactly once when the session ends; a final result is
// never followed by another result from the same session. An aborted session
// delivers an aborted error event before the channel closes.
type RecognitionSession interface {
	Events() <-chan speechmodel.RecognitionEvent

	// Stop ends the session gracefully, flushing a pending final result
	// when the engine supports it.
	Stop() error

	// Abort ends the session immediately, discarding in-flight recognition.
	Abort() error
}

// SynthesisEngine owns the audio output path and the voice catalog. The
// catalog may populate asynchronously; VoicesReady is closed once it has
// loaded at least once.
type SynthesisEngine interface {
	Speak(ctx context.Context, utt speechmodel.Utterance) (PlaybackSession, error)
	Voices(ctx context.Context) ([]speechmodel.Voice, error)
	VoicesReady() <-chan struct{}
}

// PlaybackSession is one live playback utterance. Events is closed after the
// terminal ended/error event.
type PlaybackSession interface {
	Events() <-chan speechmodel.PlaybackEvent
	Pause() error
	Resume() error
	Cancel() error
}
