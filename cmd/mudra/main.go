package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Hand Gesture Recognition")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Persisted settings override the environment, so values saved through
	// the settings API stick across restarts.
	settings, err := st.Settings().All()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	cfg, err = cfg.ApplySettings(settings)
	if err != nil {
		log.Fatalf("Failed to apply stored settings: %v", err)
	}

	a := app.New(app.Config{
		Store:        st,
		PluginDir:    cfg.PluginDir,
		CameraID:     cfg.CameraID,
		MotionThresh: cfg.MotionThreshold,
		Classifier: gesture.Config{
			Vocabulary:     gesture.Vocabulary(cfg.Vocabulary),
			FingerMargin:   cfg.FingerMargin,
			ThumbThreshold: cfg.ThumbThreshold,
			TiltThreshold:  cfg.TiltThreshold,
		},
		Dwell:      cfg.Dwell(),
		Discipline: gesture.Discipline(cfg.Discipline),
		Detector: detector.Config{
			MaxHands:        1,
			MinConfidence:   cfg.MinConfidence,
			MinTrackingConf: cfg.MinTrackingConf,
		},
	})

	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	live := server.NewLiveFeed()
	a.OnFrame(live.PublishFrame)

	// Find web directory
	webDir := cfg.WebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
		Live:      live,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	a.SetEnabled(true)
	if err := a.Start(); err != nil {
		log.Printf("Recognition pipeline unavailable: %v", err)
	}
	defer a.Stop()

	if cfg.Tray {
		runWithTray(a, live)
		return
	}

	a.OnEvent(live.PublishEvent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("Shutting down")
}

// runWithTray blocks inside the systray event loop until Quit is chosen.
func runWithTray(a *app.App, live *server.LiveFeed) {
	t := tray.New()

	a.OnEvent(func(ev gesture.Event) {
		live.PublishEvent(ev)
		t.SetLastGesture(fmt.Sprintf("%s (%s)", ev.Label, ev.At.Format(time.Kitchen)))
	})

	t.OnToggle(a.SetEnabled)
	t.OnQuit(func() {
		fmt.Println("Shutting down")
	})

	t.Run()
}

// defaultDBPath returns ~/.mudra/mudra.db, falling back to the working
// directory when the home directory cannot be resolved.
func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "mudra.db"
	}
	return filepath.Join(homeDir, ".mudra", "mudra.db")
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
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

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
