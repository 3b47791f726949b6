// Package app provides the main application logic for the Mudra gesture recognition system.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds to wait before switching back to idle mode.
	IdleTimeoutMs = 2000
	// PluginTimeoutMs is the execution timeout for plugin actions.
	PluginTimeoutMs = 5000
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
	Classifier   gesture.Config
	Dwell        time.Duration
	Discipline   gesture.Discipline
	Detector     detector.Config
}

// App orchestrates the recognition pipeline: camera frames are classified
// into per-frame labels, debounced into confirmed gesture events, and
// dispatched to bound plugin actions.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	classifier *gesture.Classifier
	debouncer  *gesture.Debouncer
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	onEvent func(gesture.Event)
	onFrame func(gesture.Label, gesture.FingerState)

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		classifier: gesture.NewClassifier(config.Classifier),
		debouncer:  gesture.NewDebouncer(config.Dwell, config.Discipline),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(PluginTimeoutMs),
	}

	// All fan-out of confirmed gestures happens behind this callback: the
	// debouncer itself never touches plugins, storage or UI.
	a.debouncer.OnGesture(a.handleEvent)

	detectorConfig := config.Detector
	if detectorConfig == (detector.Config{}) {
		detectorConfig = detector.DefaultConfig()
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detectorConfig); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture recognition.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use. Must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// OnEvent registers a callback invoked for every confirmed gesture event,
// after the bound plugin action has been dispatched.
func (a *App) OnEvent(fn func(gesture.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = fn
}

// OnFrame registers a callback invoked with the per-frame label and finger
// state while the pipeline is in active mode.
func (a *App) OnFrame(fn func(gesture.Label, gesture.FingerState)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onFrame = fn
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start begins the recognition pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	// Start in idle mode
	a.camera.SetFPS(IdleFPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Recognition pipeline started")
	return nil
}

// Stop halts the recognition pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Recognition pipeline stopped")
}

// handleEvent fans a confirmed gesture out to the event history, the bound
// plugin action and any registered listener. Invoked synchronously from the
// pipeline's debouncer.
func (a *App) handleEvent(ev gesture.Event) {
	log.Printf("Gesture confirmed: %s", ev.Label)

	a.recordEvent(ev)
	a.dispatchAction(ev)

	a.mu.RLock()
	fn := a.onEvent
	a.mu.RUnlock()
	if fn != nil {
		fn(ev)
	}
}

// recordEvent appends the event to the history table.
func (a *App) recordEvent(ev gesture.Event) {
	if a.config.Store == nil {
		return
	}
	err := a.config.Store.Events().Insert(&store.Event{
		Label:   string(ev.Label),
		FiredAt: ev.At,
	})
	if err != nil {
		log.Printf("Failed to record event %s: %v", ev.Label, err)
	}
}

// dispatchAction looks up the binding for the confirmed label and executes
// the bound plugin action. Execution runs in its own goroutine so a slow
// plugin cannot stall the frame loop.
func (a *App) dispatchAction(ev gesture.Event) {
	if a.config.Store == nil {
		return
	}

	binding, err := a.config.Store.Bindings().GetByLabel(string(ev.Label))
	if err != nil {
		log.Printf("Failed to look up binding for %s: %v", ev.Label, err)
		return
	}
	if binding == nil || !binding.Enabled {
		return
	}

	plg, err := a.pluginMgr.Get(binding.PluginName)
	if err != nil {
		log.Printf("Plugin %s not available for %s: %v", binding.PluginName, ev.Label, err)
		return
	}

	req := &plugin.Request{
		Action: binding.ActionName,
		Label:  string(ev.Label),
		Config: binding.Config,
	}

	go func() {
		resp, err := a.pluginExec.Execute(plg, req)
		if err != nil {
			log.Printf("Action %s/%s failed for %s: %v", binding.PluginName, binding.ActionName, ev.Label, err)
			return
		}
		if !resp.Success {
			log.Printf("Action %s/%s rejected for %s: %s", binding.PluginName, binding.ActionName, ev.Label, resp.Error)
		}
	}()
}

// notifyFrame delivers the per-frame label to the registered listener.
func (a *App) notifyFrame(label gesture.Label, fingers gesture.FingerState) {
	a.mu.RLock()
	fn := a.onFrame
	a.mu.RUnlock()
	if fn != nil {
		fn(label, fingers)
	}
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Classifier returns the gesture classifier.
func (a *App) Classifier() *gesture.Classifier {
	return a.classifier
}

// Debouncer returns the temporal debouncer. It must only be driven by the
// pipeline's frame loop.
func (a *App) Debouncer() *gesture.Debouncer {
	return a.debouncer
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
