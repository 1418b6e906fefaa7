package speech

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/logging"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/metrics"
)

// ErrSynthesisUnavailable reports an absent synthesis capability.
var ErrSynthesisUnavailable = errors.New("speech synthesis is not available")

var closedVoicesReady = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Playback owns the synthesis resource and enforces single-flight speech:
// Speak cancels any in-flight utterance before starting the new one, so at
// most one utterance is ever speaking system-wide. End/error events of a
// superseded utterance are ignored once a newer one has taken over.
type Playback struct {
	engine SynthesisEngine
	log    zerolog.Logger

	mu         sync.Mutex
	language   speechmodel.Language
	current    PlaybackSession
	generation uint64
	speaking   bool
	paused     bool
	lastError  string
}

// NewPlayback wraps the given engine. A nil engine means synthesis capability
// is absent; Speak then fails with ErrSynthesisUnavailable.
func NewPlayback(engine SynthesisEngine, language speechmodel.Language) *Playback {
	return &Playback{
		engine:   engine,
		language: language,
		log:      logging.WithComponent("playback"),
	}
}

// Speak synthesizes text after pronunciation cleanup and ranked voice
// selection. Any active utterance is canceled first; the prior error is
// cleared.
func (p *Playback) Speak(ctx context.Context, text string, opts *speechmodel.SpeakOptions) error {
	if p.engine == nil {
		p.mu.Lock()
		p.lastError = speechmodel.SynthesisErrUnavailable.Message()
		p.mu.Unlock()
		return ErrSynthesisUnavailable
	}

	p.mu.Lock()
	prior := p.current
	p.current = nil
	p.speaking = false
	p.paused = false
	p.lastError = ""
	language := p.language
	p.mu.Unlock()

	if prior != nil {
		_ = prior.Cancel()
	}

	o := speechmodel.SpeakOptions{}
	if opts != nil {
		o = *opts
	}
	if o.Rate == 0 {
		o.Rate = 1.0
	}
	if o.Pitch == 0 {
		o.Pitch = 1.0
	}
	if o.Volume == 0 {
		o.Volume = 1.0
	}

	voice := o.Voice
	if voice == "" {
		// Catalog may still be loading; an empty result leaves the engine
		// default in place.
		voices, err := p.engine.Voices(ctx)
		if err == nil {
			voice = BestVoice(voices, language)
		}
	}

	utt := speechmodel.Utterance{
		Text:   CleanTextForSpeech(text, language),
		Locale: language.Locale(),
		Rate:   o.Rate,
		Pitch:  o.Pitch,
		Volume: o.Volume,
		Voice:  voice,
	}

	session, err := p.engine.Speak(ctx, utt)
	if err != nil {
		p.mu.Lock()
		p.lastError = speechmodel.SynthesisErrFailed.Message()
		p.mu.Unlock()
		return err
	}

	p.mu.Lock()
	p.current = session
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	metrics.SynthesesStarted.Inc()
	go p.pump(session, gen)
	return nil
}

// Pause suspends the active utterance. No-op when nothing is speaking.
func (p *Playback) Pause() {
	p.mu.Lock()
	session := p.current
	applicable := p.speaking && !p.paused && session != nil
	p.mu.Unlock()
	if applicable {
		_ = session.Pause()
	}
}

// Resume continues a paused utterance. No-op when not paused.
func (p *Playback) Resume() {
	p.mu.Lock()
	session := p.current
	applicable := p.paused && session != nil
	p.mu.Unlock()
	if applicable {
		_ = session.Resume()
	}
}

// Cancel stops audio output immediately. No-op when nothing is active.
func (p *Playback) Cancel() {
	p.mu.Lock()
	session := p.current
	p.current = nil
	p.speaking = false
	p.paused = false
	p.mu.Unlock()
	if session != nil {
		_ = session.Cancel()
	}
}

// Voices returns the current voice catalog. The catalog may be empty while
// the engine is still loading it; observe VoicesReady to wait for the full
// catalog instead of retrying.
func (p *Playback) Voices(ctx context.Context) ([]speechmodel.Voice, error) {
	if p.engine == nil {
		return nil, nil
	}
	return p.engine.Voices(ctx)
}

// VoicesReady is closed once the engine has loaded the catalog at least once.
func (p *Playback) VoicesReady() <-chan struct{} {
	if p.engine == nil {
		return closedVoicesReady
	}
	return p.engine.VoicesReady()
}

// IsSpeaking reports whether an utterance is active.
func (p *Playback) IsSpeaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}

// IsPaused reports whether the active utterance is paused.
func (p *Playback) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Err returns the latest error message, or "" when none.
func (p *Playback) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError
}

// Language returns the active playback language.
func (p *Playback) Language() speechmodel.Language {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.language
}

// SetLanguage switches the locale, cleanup rules and voice ranking used for
// subsequent utterances.
func (p *Playback) SetLanguage(language speechmodel.Language) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.language = language
}

func (p *Playback) pump(session PlaybackSession, gen uint64) {
	for ev := range session.Events() {
		p.mu.Lock()
		if p.generation != gen || p.current != session {
			// Superseded utterance: its trailing end/cancel events must not
			// disturb the state of the one that replaced it.
			p.mu.Unlock()
			continue
		}
		switch ev.Kind {
		case speechmodel.PlaybackEventStarted:
			p.speaking = true
			p.paused = false
		case speechmodel.PlaybackEventPaused:
			p.paused = true
		case speechmodel.PlaybackEventResumed:
			p.paused = false
		case speechmodel.PlaybackEventEnded:
			p.speaking = false
			p.paused = false
			p.current = nil
		case speechmodel.PlaybackEventError:
			code := speechmodel.NormalizeSynthesisError(string(ev.Code))
			p.lastError = code.Message()
			p.speaking = false
			p.paused = false
			p.current = nil
		}
		p.mu.Unlock()
	}
}
