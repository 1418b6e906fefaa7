package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Puspa222/Hack4SafeFood/internal/config"
	"github.com/Puspa222/Hack4SafeFood/internal/handler"
	chatHandler "github.com/Puspa222/Hack4SafeFood/internal/handler/chat"
	voiceHandler "github.com/Puspa222/Hack4SafeFood/internal/handler/voice"
	"github.com/Puspa222/Hack4SafeFood/internal/observability/logging"
	"github.com/Puspa222/Hack4SafeFood/internal/service/conversation"
	speechsvc "github.com/Puspa222/Hack4SafeFood/internal/service/speech"
	"github.com/Puspa222/Hack4SafeFood/internal/service/timeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		// Not fatal: container deployments pass configuration directly.
		log.Info().Msg("no .env file, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	// Conversation pipeline against the remote advisory service.
	client := conversation.NewClient(cfg.Advisory.BaseURL, cfg.Advisory.Timeout)
	store := conversation.NewFileStore(cfg.Storage.SessionFile)
	manager := conversation.NewManager(client, store)
	timelineSvc := timeline.NewService(manager, cfg.Speech.Language)

	// Speech engine is optional; without it the assistant runs text-only and
	// voice operations report capability absence.
	var engine *speechsvc.WSEngine
	if cfg.Speech.Enabled {
		engine = speechsvc.NewWSEngine(speechsvc.WSEngineConfig{
			ASREndpoint: cfg.Speech.ASREndpoint,
			TTSEndpoint: cfg.Speech.TTSEndpoint,
			APIKey:      cfg.Speech.APIKey,
		})
		log.Info().Msg("speech engine configured")
	} else {
		log.Info().Msg("speech engine not configured, voice features disabled")
	}

	var recognitionEngine speechsvc.RecognitionEngine
	var synthesisEngine speechsvc.SynthesisEngine
	if engine != nil {
		recognitionEngine = engine
		synthesisEngine = engine
	}

	recognizer := speechsvc.NewRecognizer(recognitionEngine, cfg.Speech.Language)
	playback := speechsvc.NewPlayback(synthesisEngine, cfg.Speech.Language)

	router := handler.NewRouter(
		chatHandler.New(timelineSvc, manager),
		voiceHandler.New(recognizer, playback, timelineSvc),
	)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Msg("assistant backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
