package speech

import (
	"context"
	"sync"
	"testing"
	"time"

	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
)

// scriptedSession is a controllable fake recognition session. Tests emit
// events and end it explicitly; Stop and Abort are recorded.
type scriptedSession struct {
	events chan speechmodel.RecognitionEvent

	mu     sync.Mutex
	ended  bool
	stops  int
	aborts int
}

func newScriptedSession() *scriptedSession {
	return &scriptedSession{events: make(chan speechmodel.RecognitionEvent, 16)}
}

func (s *scriptedSession) Events() <-chan speechmodel.RecognitionEvent { return s.events }

func (s *scriptedSession) Stop() error {
	s.mu.Lock()
	s.stops++
	s.mu.Unlock()
	s.end()
	return nil
}

func (s *scriptedSession) Abort() error {
	s.mu.Lock()
	s.aborts++
	alreadyEnded := s.ended
	s.mu.Unlock()
	if !alreadyEnded {
		s.emit(speechmodel.RecognitionEvent{
			Kind: speechmodel.RecognitionEventError,
			Code: speechmodel.RecognitionErrAborted,
		})
	}
	s.end()
	return nil
}

func (s *scriptedSession) emit(ev speechmodel.RecognitionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.events <- ev
}

func (s *scriptedSession) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	close(s.events)
}

func (s *scriptedSession) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *scriptedSession) abortCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aborts
}

// fakeRecognitionEngine hands out scripted sessions in order and flags any
// attempt to open a session while the previous one is still live.
type fakeRecognitionEngine struct {
	mu       sync.Mutex
	sessions []*scriptedSession
	configs  []speechmodel.RecognitionConfig
	err      error
	opened   int
	overlap  bool
	last     *scriptedSession
}

func (e *fakeRecognitionEngine) NewSession(_ context.Context, cfg speechmodel.RecognitionConfig) (RecognitionSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err != nil {
		return nil, e.err
	}

	if e.last != nil && !e.last.isEnded() {
		e.overlap = true
	}

	e.configs = append(e.configs, cfg)
	var session *scriptedSession
	if e.opened < len(e.sessions) {
		session = e.sessions[e.opened]
	} else {
		session = newScriptedSession()
		e.sessions = append(e.sessions, session)
	}
	e.opened++
	e.last = session
	return session, nil
}

func (e *fakeRecognitionEngine) openedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opened
}

func (e *fakeRecognitionEngine) session(i int) *scriptedSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= len(e.sessions) {
		return nil
	}
	return e.sessions[i]
}

// fakePlaybackSession records pause/resume/cancel and lets tests emit
// lifecycle events.
type fakePlaybackSession struct {
	events chan speechmodel.PlaybackEvent

	mu      sync.Mutex
	ended   bool
	pauses  int
	resumes int
	cancels int
}

func newFakePlaybackSession() *fakePlaybackSession {
	return &fakePlaybackSession{events: make(chan speechmodel.PlaybackEvent, 16)}
}

func (s *fakePlaybackSession) Events() <-chan speechmodel.PlaybackEvent { return s.events }

func (s *fakePlaybackSession) Pause() error {
	s.mu.Lock()
	s.pauses++
	s.mu.Unlock()
	s.emit(speechmodel.PlaybackEvent{Kind: speechmodel.PlaybackEventPaused})
	return nil
}

func (s *fakePlaybackSession) Resume() error {
	s.mu.Lock()
	s.resumes++
	s.mu.Unlock()
	s.emit(speechmodel.PlaybackEvent{Kind: speechmodel.PlaybackEventResumed})
	return nil
}

func (s *fakePlaybackSession) Cancel() error {
	s.mu.Lock()
	s.cancels++
	alreadyEnded := s.ended
	s.mu.Unlock()
	if !alreadyEnded {
		s.emit(speechmodel.PlaybackEvent{
			Kind: speechmodel.PlaybackEventError,
			Code: speechmodel.SynthesisErrCanceled,
		})
	}
	s.end()
	return nil
}

func (s *fakePlaybackSession) emit(ev speechmodel.PlaybackEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.events <- ev
}

func (s *fakePlaybackSession) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	close(s.events)
}

func (s *fakePlaybackSession) cancelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

func (s *fakePlaybackSession) pauseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pauses
}

type fakeSynthesisEngine struct {
	mu         sync.Mutex
	sessions   []*fakePlaybackSession
	utterances []speechmodel.Utterance
	voices     []speechmodel.Voice
	ready      chan struct{}
	opened     int
}

func newFakeSynthesisEngine(voices ...speechmodel.Voice) *fakeSynthesisEngine {
	ready := make(chan struct{})
	close(ready)
	return &fakeSynthesisEngine{voices: voices, ready: ready}
}

func (e *fakeSynthesisEngine) Speak(_ context.Context, utt speechmodel.Utterance) (PlaybackSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.utterances = append(e.utterances, utt)
	var session *fakePlaybackSession
	if e.opened < len(e.sessions) {
		session = e.sessions[e.opened]
	} else {
		session = newFakePlaybackSession()
		e.sessions = append(e.sessions, session)
	}
	e.opened++
	return session, nil
}

func (e *fakeSynthesisEngine) Voices(context.Context) ([]speechmodel.Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voices, nil
}

func (e *fakeSynthesisEngine) VoicesReady() <-chan struct{} { return e.ready }

func (e *fakeSynthesisEngine) lastUtterance() speechmodel.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.utterances) == 0 {
		return speechmodel.Utterance{}
	}
	return e.utterances[len(e.utterances)-1]
}

func (e *fakeSynthesisEngine) session(i int) *fakePlaybackSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i >= len(e.sessions) {
		return nil
	}
	return e.sessions[i]
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
