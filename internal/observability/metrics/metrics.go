// Package metrics exposes prometheus counters for the assistant core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UtterancesCaptured counts finalized voice-chat utterances forwarded
	// to the conversation pipeline.
	UtterancesCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_utterances_captured_total",
		Help: "Finalized voice utterances accepted by the voice chat loop.",
	})

	// RecognitionErrors counts normalized capture-session errors by code.
	RecognitionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_recognition_errors_total",
		Help: "Recognition session errors by normalized code.",
	}, []string{"code"})

	// SynthesesStarted counts playback utterances handed to the engine.
	SynthesesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_syntheses_started_total",
		Help: "Playback utterances started.",
	})

	// MessagesSent counts outbound user messages by outcome.
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_messages_sent_total",
		Help: "User messages posted to the advisory service by outcome.",
	}, []string{"outcome"})

	// SessionRecreations counts transparent session re-creations after the
	// advisory service reported the persisted session unknown.
	SessionRecreations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assistant_session_recreations_total",
		Help: "Conversation sessions recreated after a not-found response.",
	})
)
