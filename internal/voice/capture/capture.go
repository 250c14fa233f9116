// File: internal/voice/capture/capture.go
package capture

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Captures below either threshold are treated as accidental taps.
const (
	MinDuration      = 500 * time.Millisecond
	MinArtifactBytes = 1024
)

var (
	ErrAlreadyRecording = errors.New("capture: already recording")
	ErrNotRecording     = errors.New("capture: not recording")
)

// Options mirror the platform capture constraints the recorder asks for.
type Options struct {
	NoiseSuppression bool
	EchoCancellation bool
	AutoGainControl  bool
}

// DefaultOptions enables every cleanup filter the platform offers.
func DefaultOptions() Options {
	return Options{
		NoiseSuppression: true,
		EchoCancellation: true,
		AutoGainControl:  true,
	}
}

// Source is the platform media-capture facility. Start begins emitting PCM
// chunks through the sink passed to it; Stop releases the hardware stream.
type Source interface {
	Start(ctx context.Context, opts Options, sink func(chunk []byte)) error
	Stop() error
}

// Artifact is the assembled result of one capture session.
type Artifact struct {
	Data     []byte
	Duration time.Duration
	MimeType string
}

// Recorder accumulates chunks from a Source and assembles them into a WAV
// artifact on stop. A nil artifact with a nil error means the capture was
// rejected as too short or too small.
type Recorder struct {
	source Source
	format Format

	mu      sync.Mutex
	active  bool
	started time.Time
	chunks  [][]byte
	clock   func() time.Time
}

func NewRecorder(source Source, format Format) *Recorder {
	return &Recorder{source: source, format: format, clock: time.Now}
}

// SetClock overrides the time source used for duration accounting.
func (r *Recorder) SetClock(clock func() time.Time) { r.clock = clock }

// Start begins a capture session with the default options.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.active = true
	r.started = r.clock()
	r.chunks = nil
	r.mu.Unlock()

	if err := r.source.Start(ctx, DefaultOptions(), r.push); err != nil {
		r.mu.Lock()
		r.active = false
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *Recorder) push(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	r.chunks = append(r.chunks, buf)
}

// Stop tears down the source and assembles the artifact. Captures shorter
// than MinDuration or smaller than MinArtifactBytes yield (nil, nil).
func (r *Recorder) Stop() (*Artifact, error) {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	r.active = false
	elapsed := r.clock().Sub(r.started)
	chunks := r.chunks
	r.chunks = nil
	r.mu.Unlock()

	if err := r.source.Stop(); err != nil {
		return nil, err
	}

	if elapsed < MinDuration {
		return nil, nil
	}

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	pcm := make([]byte, 0, total)
	for _, c := range chunks {
		pcm = append(pcm, c...)
	}

	data := EncodeWAV(pcm, r.format)
	if len(data) < MinArtifactBytes {
		return nil, nil
	}

	return &Artifact{Data: data, Duration: elapsed, MimeType: "audio/wav"}, nil
}

// Discard drops any accumulated buffer without producing an artifact.
func (r *Recorder) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = nil
}
