package speech

// Voice describes one entry in the synthesis voice catalog.
type Voice struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
	Local  bool   `json:"local"`
}

// Utterance is the fully resolved synthesis request handed to the engine.
// Text has already been through pronunciation cleanup.
type Utterance struct {
	Text   string  `json:"text"`
	Locale string  `json:"locale"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
	Voice  string  `json:"voice,omitempty"`
}

// SpeakOptions overrides per-call synthesis parameters. Zero-valued fields
// fall back to the neutral defaults (rate/pitch/volume 1.0, ranked voice
// selection).
type SpeakOptions struct {
	Rate   float64
	Pitch  float64
	Volume float64
	Voice  string
}

// PlaybackEventKind discriminates events on a playback session stream.
type PlaybackEventKind string

const (
	PlaybackEventStarted PlaybackEventKind = "started"
	PlaybackEventPaused  PlaybackEventKind = "paused"
	PlaybackEventResumed PlaybackEventKind = "resumed"
	PlaybackEventEnded   PlaybackEventKind = "ended"
	PlaybackEventError   PlaybackEventKind = "error"
)

// PlaybackEvent is one lifecycle event from a live playback session.
type PlaybackEvent struct {
	Kind   PlaybackEventKind  `json:"kind"`
	Code   SynthesisErrorCode `json:"code,omitempty"`
	Detail string             `json:"detail,omitempty"`
}
