package app

import (
	"errors"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// runPipeline is the main loop that processes frames from the camera.
// It manages the state transitions between idle and active modes based on
// motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (idleFPS=5)
// 2. On motion detected, switch to active mode (activeFPS=15)
// 3. Run hand detection and classify the highest-score hand
// 4. Feed the per-frame label into the debouncer, exactly once per frame
//    (frames with no hand feed LabelNone)
// 5. After 2s without motion, switch back to idle mode
//
// The debouncer decides when a gesture fires; confirmed events are fanned
// out through App.handleEvent.
func (a *App) runPipeline() {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case now := <-ticker.C:
			// Skip processing if recognition is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion gate
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = now

				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if now.Sub(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			// In idle mode the hand is treated as absent: the debouncer
			// still consumes one update per frame so tracking resets.
			if !activeMode || a.Detector() == nil {
				frame.Close()
				a.debouncer.Update(gesture.LabelNone, now)
				continue
			}

			// Step 2: Hand detection
			hands, err := a.Detector().Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				a.debouncer.Update(gesture.LabelNone, now)
				continue
			}

			// Step 3: Classification of the best hand (nil when absent)
			hand := detector.BestHand(hands)
			label, err := a.classifier.Classify(hand)
			if err != nil {
				// Malformed landmark sets count as "no gesture" here; the
				// next frame can recover with a corrected input.
				if !errors.Is(err, detector.ErrInvalidLandmarks) {
					log.Printf("Error classifying hand: %v", err)
				}
				label = gesture.LabelNone
			}

			// Step 4: Debounce. Confirmed events fire synchronously via
			// the registered OnGesture handler.
			a.debouncer.Update(label, now)

			var fingers gesture.FingerState
			if hand != nil && hand.Validate() == nil {
				fingers = a.classifier.Fingers(hand)
			}
			a.notifyFrame(label, fingers)
		}
	}
}
