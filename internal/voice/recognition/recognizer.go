// File: internal/voice/recognition/recognizer.go
package recognition

import (
	"errors"
	"strings"
	"sync"
	"time"
)

// Logger is the minimal structured logging surface this package needs.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

const (
	// Consecutive no-speech errors tolerated before one warning surfaces.
	noSpeechWarnThreshold = 5

	// Pause between a natural session end and the stitched restart.
	defaultRestartDelay = 250 * time.Millisecond
)

// Recognizer drives an Engine as one logical continuous session. The
// platform ends sessions on its own schedule; the recognizer restarts the
// engine after each natural end until Stop is called, so callers see a
// single uninterrupted listening session.
//
// All engine events flow through one queue consumed by one goroutine, so a
// requested stop and an engine-initiated end cannot race.
type Recognizer struct {
	engine       Engine
	logger       Logger
	restartDelay time.Duration

	// OnWarning receives non-fatal notices (persistent silence).
	OnWarning func(msg string)
	// OnFatal receives errors that end the listening session.
	OnFatal func(err error)

	mu            sync.Mutex
	finals        []string
	interim       string
	noSpeechRun   int
	shouldRestart bool
	listening     bool

	loopOnce sync.Once
}

func NewRecognizer(engine Engine, logger Logger) *Recognizer {
	return &Recognizer{
		engine:       engine,
		logger:       logger,
		restartDelay: defaultRestartDelay,
	}
}

// SetRestartDelay overrides the stitching delay. Used by tests.
func (r *Recognizer) SetRestartDelay(d time.Duration) { r.restartDelay = d }

// Start clears the previous transcript and begins listening. If the engine
// reports it is already running, it is aborted and restarted once before
// the error is returned to the caller.
func (r *Recognizer) Start() error {
	r.mu.Lock()
	r.finals = nil
	r.interim = ""
	r.noSpeechRun = 0
	r.shouldRestart = true
	r.mu.Unlock()

	r.loopOnce.Do(func() { go r.consume() })

	err := r.engine.Start()
	if errors.Is(err, ErrAlreadyStarted) {
		r.logger.Warn("Engine already running, aborting and retrying once")
		r.engine.Abort()
		err = r.engine.Start()
	}
	if err != nil {
		r.mu.Lock()
		r.shouldRestart = false
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	r.listening = true
	r.mu.Unlock()
	return nil
}

// Stop ends the logical session. The restart flag is cleared before the
// engine is stopped so the trailing end event cannot resurrect it.
func (r *Recognizer) Stop() {
	r.mu.Lock()
	r.shouldRestart = false
	r.mu.Unlock()
	r.engine.Stop()
}

// Abort cancels the session without waiting for pending results.
func (r *Recognizer) Abort() {
	r.mu.Lock()
	r.shouldRestart = false
	r.mu.Unlock()
	r.engine.Abort()
}

// Transcript returns the concatenation of finalized segments, or the latest
// interim segment when nothing has been finalized yet.
func (r *Recognizer) Transcript() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.finals) > 0 {
		return strings.Join(r.finals, " ")
	}
	return r.interim
}

// Listening reports whether the logical session is live.
func (r *Recognizer) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

func (r *Recognizer) consume() {
	for ev := range r.engine.Events() {
		switch ev.Kind {
		case KindResult:
			r.handleResult(ev)
		case KindError:
			r.handleError(ev)
		case KindEnd:
			r.handleEnd()
		}
	}
}

func (r *Recognizer) handleResult(ev Event) {
	r.mu.Lock()
	r.noSpeechRun = 0
	if ev.Final {
		if seg := strings.TrimSpace(ev.Text); seg != "" {
			r.finals = append(r.finals, seg)
		}
		r.interim = ""
	} else {
		r.interim = ev.Text
	}
	r.mu.Unlock()
}

func (r *Recognizer) handleError(ev Event) {
	switch ev.ErrKind {
	case ErrKindNoSpeech:
		r.mu.Lock()
		r.noSpeechRun++
		warn := r.noSpeechRun == noSpeechWarnThreshold
		r.mu.Unlock()
		if warn {
			r.logger.Warn("Persistent silence on input", "consecutive", noSpeechWarnThreshold)
			if r.OnWarning != nil {
				r.OnWarning("No speech detected. Check that your microphone is picking up sound.")
			}
		}
	case ErrKindAborted:
		r.logger.Debug("Recognition aborted")
	default:
		r.mu.Lock()
		r.shouldRestart = false
		r.listening = false
		r.mu.Unlock()
		err := &EngineError{Kind: ev.ErrKind}
		r.logger.Error("Recognition failed", "kind", ev.ErrKind)
		if r.OnFatal != nil {
			r.OnFatal(err)
		}
	}
}

func (r *Recognizer) handleEnd() {
	r.mu.Lock()
	restart := r.shouldRestart
	if !restart {
		r.listening = false
	}
	r.mu.Unlock()
	if !restart {
		return
	}

	time.AfterFunc(r.restartDelay, func() {
		r.mu.Lock()
		restart := r.shouldRestart
		r.mu.Unlock()
		if !restart {
			return
		}
		if err := r.engine.Start(); err != nil {
			if errors.Is(err, ErrAlreadyStarted) {
				return
			}
			r.logger.Error("Could not restart recognition", "error", err)
			r.mu.Lock()
			r.shouldRestart = false
			r.listening = false
			r.mu.Unlock()
			if r.OnFatal != nil {
				r.OnFatal(err)
			}
		}
	})
}

// EngineError is a fatal recognition failure classified by kind.
type EngineError struct {
	Kind string
}

func (e *EngineError) Error() string {
	return "recognition error: " + e.Kind
}
