package speech

// RecognitionErrorCode is the closed taxonomy of capture-side failures.
type RecognitionErrorCode string

const (
	RecognitionErrNoSpeech             RecognitionErrorCode = "no-speech"
	RecognitionErrAborted              RecognitionErrorCode = "aborted"
	RecognitionErrAudioCapture         RecognitionErrorCode = "audio-capture"
	RecognitionErrNetwork              RecognitionErrorCode = "network"
	RecognitionErrNotAllowed           RecognitionErrorCode = "not-allowed"
	RecognitionErrServiceNotAllowed    RecognitionErrorCode = "service-not-allowed"
	RecognitionErrLanguageNotSupported RecognitionErrorCode = "language-not-supported"
	RecognitionErrOther                RecognitionErrorCode = "other"
)

// Message renders the code as the user-facing error text.
func (c RecognitionErrorCode) Message() string {
	switch c {
	case RecognitionErrNoSpeech:
		return "No speech was detected"
	case RecognitionErrAborted:
		return "Speech recognition was aborted"
	case RecognitionErrAudioCapture:
		return "Audio capture failed"
	case RecognitionErrNetwork:
		return "Network error occurred"
	case RecognitionErrNotAllowed:
		return "Speech recognition not allowed"
	case RecognitionErrServiceNotAllowed:
		return "Speech service not allowed"
	case RecognitionErrLanguageNotSupported:
		return "Language not supported"
	default:
		return "Speech recognition error occurred"
	}
}

// NormalizeRecognitionError folds an engine-reported error string into the
// closed taxonomy. Unknown engine codes map to RecognitionErrOther.
func NormalizeRecognitionError(code string) RecognitionErrorCode {
	switch RecognitionErrorCode(code) {
	case RecognitionErrNoSpeech, RecognitionErrAborted, RecognitionErrAudioCapture,
		RecognitionErrNetwork, RecognitionErrNotAllowed, RecognitionErrServiceNotAllowed,
		RecognitionErrLanguageNotSupported:
		return RecognitionErrorCode(code)
	default:
		return RecognitionErrOther
	}
}

// SynthesisErrorCode is the closed taxonomy of playback-side failures.
type SynthesisErrorCode string

const (
	SynthesisErrCanceled            SynthesisErrorCode = "canceled"
	SynthesisErrInterrupted         SynthesisErrorCode = "interrupted"
	SynthesisErrAudioBusy           SynthesisErrorCode = "audio-busy"
	SynthesisErrAudioHardware       SynthesisErrorCode = "audio-hardware"
	SynthesisErrNetwork             SynthesisErrorCode = "network"
	SynthesisErrUnavailable         SynthesisErrorCode = "synthesis-unavailable"
	SynthesisErrFailed              SynthesisErrorCode = "synthesis-failed"
	SynthesisErrLanguageUnavailable SynthesisErrorCode = "language-unavailable"
	SynthesisErrVoiceUnavailable    SynthesisErrorCode = "voice-unavailable"
	SynthesisErrTextTooLong         SynthesisErrorCode = "text-too-long"
	SynthesisErrInvalidArgument     SynthesisErrorCode = "invalid-argument"
	SynthesisErrNotAllowed          SynthesisErrorCode = "not-allowed"
	SynthesisErrOther               SynthesisErrorCode = "other"
)

// Message renders the code as the user-facing error text.
func (c SynthesisErrorCode) Message() string {
	switch c {
	case SynthesisErrCanceled:
		return "Speech playback was canceled"
	case SynthesisErrInterrupted:
		return "Speech playback was interrupted"
	case SynthesisErrAudioBusy:
		return "Audio output is busy"
	case SynthesisErrAudioHardware:
		return "Audio hardware failure"
	case SynthesisErrNetwork:
		return "Network error occurred"
	case SynthesisErrUnavailable:
		return "Speech synthesis is not available"
	case SynthesisErrFailed:
		return "Speech synthesis failed"
	case SynthesisErrLanguageUnavailable:
		return "Language not available for synthesis"
	case SynthesisErrVoiceUnavailable:
		return "Requested voice is not available"
	case SynthesisErrTextTooLong:
		return "Text is too long to synthesize"
	case SynthesisErrInvalidArgument:
		return "Invalid synthesis request"
	case SynthesisErrNotAllowed:
		return "Speech synthesis not allowed"
	default:
		return "Speech synthesis error occurred"
	}
}

// NormalizeSynthesisError folds an engine-reported error string into the
// closed taxonomy.
func NormalizeSynthesisError(code string) SynthesisErrorCode {
	switch SynthesisErrorCode(code) {
	case SynthesisErrCanceled, SynthesisErrInterrupted, SynthesisErrAudioBusy,
		SynthesisErrAudioHardware, SynthesisErrNetwork, SynthesisErrUnavailable,
		SynthesisErrFailed, SynthesisErrLanguageUnavailable, SynthesisErrVoiceUnavailable,
		SynthesisErrTextTooLong, SynthesisErrInvalidArgument, SynthesisErrNotAllowed:
		return SynthesisErrorCode(code)
	default:
		return SynthesisErrOther
	}
}
