package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
)

// Config aggregates every subsystem's configuration.
type Config struct {
	Server   ServerConfig
	Advisory AdvisoryConfig
	Speech   SpeechConfig
	Storage  StorageConfig
	Log      LogConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	advisory, err := loadAdvisoryConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Advisory: advisory,
		Speech:   speech,
		Storage:  loadStorageConfig(),
		Log:      loadLogConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AdvisoryConfig describes the remote farming-advice service.
type AdvisoryConfig struct {
	BaseURL string
	Timeout time.Duration
}

func loadAdvisoryConfig() (AdvisoryConfig, error) {
	timeout, err := parseOptionalIntEnv("ADVISORY_TIMEOUT")
	if err != nil {
		return AdvisoryConfig{}, err
	}
	timeoutSeconds := 30
	if timeout != nil {
		timeoutSeconds = *timeout
	}

	return AdvisoryConfig{
		BaseURL: getEnvOrDefault("ADVISORY_BASE_URL", "http://127.0.0.1:8000/api"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// SpeechConfig describes the streaming recognition/synthesis engine.
// Enabled is false when no engine endpoint is configured; the assistant then
// runs text-only and voice operations report capability absence.
type SpeechConfig struct {
	ASREndpoint string
	TTSEndpoint string
	APIKey      string
	Language    speechmodel.Language
	Enabled     bool
}

func loadSpeechConfig() (SpeechConfig, error) {
	asr := strings.TrimSpace(os.Getenv("SPEECH_ASR_ENDPOINT"))
	tts := strings.TrimSpace(os.Getenv("SPEECH_TTS_ENDPOINT"))

	language := speechmodel.Language(getEnvOrDefault("SPEECH_LANGUAGE", string(speechmodel.LanguageEnglish)))
	if language != speechmodel.LanguageEnglish && language != speechmodel.LanguageNepali {
		return SpeechConfig{}, fmt.Errorf("invalid SPEECH_LANGUAGE value: %q", language)
	}

	return SpeechConfig{
		ASREndpoint: asr,
		TTSEndpoint: tts,
		APIKey:      strings.TrimSpace(os.Getenv("SPEECH_API_KEY")),
		Language:    language,
		Enabled:     asr != "" || tts != "",
	}, nil
}

// StorageConfig locates the durable session-identifier store.
type StorageConfig struct {
	SessionFile string
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		SessionFile: getEnvOrDefault("SESSION_FILE", "data/chat_session"),
	}
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string
	Format string
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
