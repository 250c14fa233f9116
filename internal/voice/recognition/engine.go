// File: internal/voice/recognition/engine.go
package recognition

import "errors"

// ErrAlreadyStarted is returned by Engine.Start when a session is live.
var ErrAlreadyStarted = errors.New("recognition: engine already started")

// EventKind discriminates the events an Engine emits.
type EventKind int

const (
	KindResult EventKind = iota
	KindError
	KindEnd
)

// Error kinds reported by the platform engine.
const (
	ErrKindNoSpeech = "no-speech"
	ErrKindAborted  = "aborted"
	ErrKindAudio    = "audio-capture"
	ErrKindNetwork  = "network"
	ErrKindDenied   = "not-allowed"
)

// Event is one recognition engine callback, flattened to a value.
type Event struct {
	Kind    EventKind
	Text    string
	Final   bool
	ErrKind string
}

// Engine is the platform speech-to-text facility in continuous mode. Events
// carries every result, error, and session end; the channel stays open for
// the engine's lifetime and is shared across stitched sessions.
type Engine interface {
	Start() error
	Stop()
	Abort()
	Events() <-chan Event
}
