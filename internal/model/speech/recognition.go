package speech

// Language is the user-facing language of the assistant.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageNepali  Language = "ne"
)

// Locale maps the assistant language to the recognition/synthesis locale tag.
func (l Language) Locale() string {
	if l == LanguageNepali {
		return "ne-NP"
	}
	return "en-US"
}

// RecognitionResult is one recognized utterance fragment. Interim results
// (IsFinal=false) are advisory and superseded by later results; the final
// result carries the authoritative transcript for the utterance.
type RecognitionResult struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	IsFinal    bool    `json:"isFinal"`
}

// RecognitionOptions is the caller-facing configuration surface for one
// capture session. Zero values take the documented defaults.
type RecognitionOptions struct {
	Continuous      bool
	InterimResults  bool
	MaxAlternatives int
}

// RecognitionConfig is the resolved engine-level session configuration.
type RecognitionConfig struct {
	Locale          string
	Continuous      bool
	InterimResults  bool
	MaxAlternatives int
}

// RecognitionEventKind discriminates events on a recognition session stream.
type RecognitionEventKind string

const (
	RecognitionEventStarted RecognitionEventKind = "started"
	RecognitionEventResult  RecognitionEventKind = "result"
	RecognitionEventError   RecognitionEventKind = "error"
)

// RecognitionEvent is one event emitted by a live recognition session.
// The event channel is closed when the session ends; an aborted session
// delivers an error event with RecognitionErrAborted before closing.
type RecognitionEvent struct {
	Kind   RecognitionEventKind `json:"kind"`
	Result RecognitionResult    `json:"result,omitempty"`
	Code   RecognitionErrorCode `json:"code,omitempty"`
	Detail string               `json:"detail,omitempty"`
}
