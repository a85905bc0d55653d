package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ayusman/fingerspell/internal/app"
	"github.com/ayusman/fingerspell/internal/classify"
	"github.com/ayusman/fingerspell/internal/config"
	"github.com/ayusman/fingerspell/internal/detector"
	"github.com/ayusman/fingerspell/internal/server"
	"github.com/ayusman/fingerspell/internal/store"
	"github.com/ayusman/fingerspell/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	fmt.Println("Fingerspell - ASL Fingerspelling Recognition")

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	dataDir, err := ensureDataDir()
	if err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dataDir, "fingerspell.db")
	}
	if cfg.ModelPath == "" {
		cfg.ModelPath = filepath.Join(dataDir, "model.json")
	}
	if cfg.LandmarkerPath == "" {
		cfg.LandmarkerPath = filepath.Join(dataDir, "hand_landmarker.task")
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// A missing model artifact is allowed on first run: the service comes
	// up so samples can be recorded and a model trained, but recognition
	// stays off. A corrupt artifact is a startup error.
	var model classify.Classifier
	if m, err := classify.LoadModel(cfg.ModelPath); err == nil {
		model = m
		log.Printf("Loaded model %q with letters %v", cfg.ModelPath, m.Letters())
	} else if errors.Is(err, os.ErrNotExist) {
		log.Printf("No model at %q; record samples and POST /api/train, then restart", cfg.ModelPath)
	} else {
		log.Fatalf("Failed to load model: %v", err)
	}

	a := app.New(app.Config{
		Classifier:    model,
		CameraID:      cfg.CameraID,
		FPS:           cfg.FPS,
		MinConfidence: cfg.MinPresenceConfidence,
		HoldDuration:  cfg.HoldDuration,
		QueueCapacity: cfg.ChannelCapacity,
	})

	// The pose bundle is a hard dependency of recognition: when the
	// pipeline is going to run, a detector that cannot be constructed is
	// a startup error, not a degraded mode.
	if model != nil {
		mp, err := detector.NewMediaPipeDetector(cfg.LandmarkerPath, detector.Config{
			MinDetectionConfidence: cfg.MinDetectionConfidence,
			MinPresenceConfidence:  cfg.MinPresenceConfidence,
			MinTrackingConfidence:  cfg.MinTrackingConfidence,
		})
		if err != nil {
			log.Fatalf("Failed to initialize hand detector: %v", err)
		}
		a.SetDetector(mp)
	}

	t := tray.New()

	// The enabled toggle persists across restarts.
	if v, err := st.Settings().Get("enabled"); err == nil && v == "false" {
		a.SetEnabled(false)
	}

	if model != nil {
		if err := a.Start(); err != nil {
			log.Fatalf("Failed to start pipeline: %v", err)
		}
		defer a.Stop()
		go consumeEvents(a, st, t)
	} else {
		a.SetEnabled(false)
	}

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		ModelPath: cfg.ModelPath,
		Store:     st,
		App:       a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.ListenAddr)
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if err := st.Settings().Set("enabled", strconv.FormatBool(enabled)); err != nil {
			log.Printf("Failed to persist enabled state: %v", err)
		}
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Blocks until quit is selected from the menu.
	t.Run()
}

// consumeEvents is the consumer side of the handoff queue: it polls for
// confirmed letters, records them, and surfaces the latest one in the
// tray menu.
func consumeEvents(a *app.App, st *store.Store, t *tray.Tray) {
	for {
		e, ok := a.TryReceiveEvent()
		if !ok {
			time.Sleep(50 * time.Millisecond)
			continue
		}

		if err := st.Events().Record(e); err != nil {
			log.Printf("Failed to record event: %v", err)
		}
		t.SetLastLetter(e.Letter)
	}
}

// ensureDataDir creates ~/.fingerspell and returns its path.
func ensureDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dataDir := filepath.Join(homeDir, ".fingerspell")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.fingerspell/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".fingerspell", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
