// File: internal/voice/coordinator/coordinator.go
package coordinator

import (
	"context"
	"strings"
	"sync"

	"github.com/magicgoaldev-prog/ai-voice-chat/internal/voice/capture"
)

// State of the push-to-talk cycle.
type State int

const (
	StateIdle State = iota
	StateRecording
)

// Recognizer is the continuous speech-to-text session the coordinator
// drives. Start clears any previous transcript.
type Recognizer interface {
	Start() error
	Stop()
	Transcript() string
}

// Recorder is the audio capture session. Stop may return (nil, nil) when
// the capture was rejected as accidental.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() (*capture.Artifact, error)
	Discard()
}

// Handoff receives a finalized non-empty transcript and its recorded
// artifact (possibly nil). The coordinator stays in the processing state
// until it returns.
type Handoff func(ctx context.Context, text string, artifact *capture.Artifact) error

// Logger is the minimal structured logging surface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Coordinator runs the idle/recording push-to-talk state machine. One turn
// at a time: a start gesture while a previous turn is still processing is
// ignored rather than queued.
type Coordinator struct {
	recognizer Recognizer
	recorder   Recorder
	handoff    Handoff
	logger     Logger

	mu         sync.Mutex
	state      State
	processing bool
}

func New(recognizer Recognizer, recorder Recorder, handoff Handoff, logger Logger) *Coordinator {
	return &Coordinator{
		recognizer: recognizer,
		recorder:   recorder,
		handoff:    handoff,
		logger:     logger,
	}
}

// State returns the current cycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Processing reports whether a completed turn is still being handed off.
func (c *Coordinator) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

// StartTurn handles the press gesture. Recognition starts before capture so
// no speech is recorded that the engine never hears.
func (c *Coordinator) StartTurn(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle || c.processing {
		c.mu.Unlock()
		c.logger.Debug("Start gesture ignored", "state", c.state, "processing", c.processing)
		return nil
	}
	c.state = StateRecording
	c.mu.Unlock()

	if err := c.recognizer.Start(); err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		return err
	}

	if err := c.recorder.Start(ctx); err != nil {
		c.recognizer.Stop()
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		return err
	}

	return nil
}

// StopTurn handles the release gesture: recognition is stopped before the
// capture stream is torn down, the artifact is awaited, and the transcript
// is handed off. An empty transcript discards the turn silently.
func (c *Coordinator) StopTurn(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return nil
	}
	c.state = StateIdle
	c.mu.Unlock()

	c.recognizer.Stop()

	artifact, err := c.recorder.Stop()
	if err != nil {
		c.logger.Warn("Capture teardown failed", "error", err)
		artifact = nil
	}

	text := strings.TrimSpace(c.recognizer.Transcript())
	if text == "" {
		c.logger.Debug("Empty transcript, discarding turn")
		c.recorder.Discard()
		return nil
	}

	c.mu.Lock()
	c.processing = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.processing = false
		c.mu.Unlock()
	}()

	if err := c.handoff(ctx, text, artifact); err != nil {
		c.logger.Error("Turn handoff failed", "error", err)
		return err
	}
	return nil
}

// AbortTurn drops an in-progress recording without handing anything off.
// Used when a fatal recognition error surfaces mid-turn.
func (c *Coordinator) AbortTurn() {
	c.mu.Lock()
	if c.state != StateRecording {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.mu.Unlock()

	c.recognizer.Stop()
	if _, err := c.recorder.Stop(); err != nil {
		c.logger.Debug("Capture teardown during abort", "error", err)
	}
	c.recorder.Discard()
}
