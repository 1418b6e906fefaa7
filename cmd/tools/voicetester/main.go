// voicetester exercises the speech gateway manually: one-shot capture, the
// continuous voice chat loop, or synthesis of a text snippet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Puspa222/Hack4SafeFood/internal/config"
	speechmodel "github.com/Puspa222/Hack4SafeFood/internal/model/speech"
	speechsvc "github.com/Puspa222/Hack4SafeFood/internal/service/speech"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using system environment variables: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if !cfg.Speech.Enabled {
		log.Fatal("speech engine not configured, set SPEECH_ASR_ENDPOINT / SPEECH_TTS_ENDPOINT")
	}

	mode := flag.String("mode", "", "test mode: listen, loop or speak")
	text := flag.String("text", "", "text to synthesize in speak mode")
	lang := flag.String("lang", string(cfg.Speech.Language), "language: en or ne")
	timeout := flag.Duration("timeout", 45*time.Second, "overall run timeout")
	flag.Parse()

	language := speechmodel.Language(*lang)
	if language != speechmodel.LanguageEnglish && language != speechmodel.LanguageNepali {
		log.Fatalf("unsupported language %q", *lang)
	}

	engine := speechsvc.NewWSEngine(speechsvc.WSEngineConfig{
		ASREndpoint: cfg.Speech.ASREndpoint,
		TTSEndpoint: cfg.Speech.TTSEndpoint,
		APIKey:      cfg.Speech.APIKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *mode {
	case "listen":
		runListen(ctx, engine, language)
	case "loop":
		runLoop(ctx, engine, language)
	case "speak":
		if *text == "" {
			log.Fatal("speak mode requires -text")
		}
		runSpeak(ctx, engine, language, *text)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runListen(ctx context.Context, engine *speechsvc.WSEngine, language speechmodel.Language) {
	recognizer := speechsvc.NewRecognizer(engine, language)

	handle := recognizer.StartListening(ctx, func(res speechmodel.RecognitionResult) {
		kind := "interim"
		if res.IsFinal {
			kind = "final"
		}
		fmt.Printf("[%s] %q (confidence %.2f)\n", kind, res.Transcript, res.Confidence)
	}, &speechmodel.RecognitionOptions{InterimResults: true})
	if handle == nil {
		log.Fatalf("capture failed: %s", recognizer.Err())
	}

	select {
	case <-handle.Done():
	case <-ctx.Done():
		recognizer.StopListening(handle)
		<-handle.Done()
	}
	if msg := recognizer.Err(); msg != "" {
		log.Printf("[WARN] %s", msg)
	}
}

func runLoop(ctx context.Context, engine *speechsvc.WSEngine, language speechmodel.Language) {
	recognizer := speechsvc.NewRecognizer(engine, language)
	loop := speechsvc.NewLoop(recognizer, func(transcript string) {
		fmt.Printf("[utterance] %q\n", transcript)
	})
	loop.Interim = func(text string) {
		fmt.Printf("[interim] %q\n", text)
	}

	loop.Start(ctx)
	<-ctx.Done()
	loop.Stop()
}

func runSpeak(ctx context.Context, engine *speechsvc.WSEngine, language speechmodel.Language, text string) {
	playback := speechsvc.NewPlayback(engine, language)

	select {
	case <-playback.VoicesReady():
	case <-time.After(5 * time.Second):
		log.Printf("[WARN] voice catalog not ready, using engine default")
	}

	if err := playback.Speak(ctx, text, nil); err != nil {
		log.Fatalf("speak failed: %v", err)
	}

	// Wait for playback to start, then for it to finish.
	started := false
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			playback.Cancel()
			return
		case <-ticker.C:
			speaking := playback.IsSpeaking()
			if speaking {
				started = true
				continue
			}
			if started || playback.Err() != "" {
				if msg := playback.Err(); msg != "" {
					log.Printf("[WARN] %s", msg)
				}
				return
			}
		}
	}
}
