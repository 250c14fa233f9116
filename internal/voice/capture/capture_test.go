// File: internal/voice/capture/capture_test.go
package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"time"
)

type fakeSource struct {
	sink     func([]byte)
	opts     Options
	started  int
	stopped  int
	startErr error
}

func (f *fakeSource) Start(ctx context.Context, opts Options, sink func(chunk []byte)) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started++
	f.opts = opts
	f.sink = sink
	return nil
}

func (f *fakeSource) Stop() error {
	f.stopped++
	return nil
}

func pcm(val byte, length int) []byte {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = val
	}
	return buf
}

func newTestRecorder(t *testing.T) (*Recorder, *fakeSource, *time.Time) {
	t.Helper()
	source := &fakeSource{}
	rec := NewRecorder(source, DefaultFormat())
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec.SetClock(func() time.Time { return now })
	return rec, source, &now
}

func TestShortCaptureYieldsNoArtifact(t *testing.T) {
	rec, source, now := newTestRecorder(t)
	ctx := context.Background()

	if err := rec.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	source.sink(pcm(0x01, 4096))
	*now = now.Add(300 * time.Millisecond)

	artifact, err := rec.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if artifact != nil {
		t.Errorf("artifact = %+v, want nil for a 300 ms capture", artifact)
	}
	if source.stopped != 1 {
		t.Errorf("source not released")
	}
}

func TestSmallCaptureYieldsNoArtifact(t *testing.T) {
	rec, source, now := newTestRecorder(t)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	source.sink(pcm(0x01, 100))
	*now = now.Add(2 * time.Second)

	artifact, err := rec.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if artifact != nil {
		t.Errorf("artifact = %+v, want nil for an under-1KiB capture", artifact)
	}
}

func TestCaptureAssemblesWAVArtifact(t *testing.T) {
	rec, source, now := newTestRecorder(t)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	source.sink(pcm(0x01, 1500))
	source.sink(pcm(0x02, 500))
	*now = now.Add(1 * time.Second)

	artifact, err := rec.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if artifact == nil {
		t.Fatal("artifact is nil")
	}
	if artifact.MimeType != "audio/wav" {
		t.Errorf("mime = %q", artifact.MimeType)
	}
	if artifact.Duration != time.Second {
		t.Errorf("duration = %v", artifact.Duration)
	}
	if !bytes.HasPrefix(artifact.Data, []byte("RIFF")) {
		t.Error("missing RIFF header")
	}
	if len(artifact.Data) != 44+2000 {
		t.Errorf("artifact size = %d, want %d", len(artifact.Data), 44+2000)
	}
	if !bytes.Equal(artifact.Data[44:44+1500], pcm(0x01, 1500)) {
		t.Error("chunk order not preserved")
	}
}

func TestCaptureEnablesCleanupFilters(t *testing.T) {
	rec, source, _ := newTestRecorder(t)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !source.opts.NoiseSuppression || !source.opts.EchoCancellation || !source.opts.AutoGainControl {
		t.Errorf("opts = %+v, want all filters enabled", source.opts)
	}
}

func TestRecorderLifecycleGuards(t *testing.T) {
	rec, _, _ := newTestRecorder(t)
	ctx := context.Background()

	if _, err := rec.Stop(); err != ErrNotRecording {
		t.Errorf("Stop before Start: %v", err)
	}
	if err := rec.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := rec.Start(ctx); err != ErrAlreadyRecording {
		t.Errorf("second Start: %v", err)
	}
}

func TestEncodeWAVHeader(t *testing.T) {
	f := DefaultFormat()
	data := EncodeWAV(pcm(0x7f, 320), f)

	if len(data) != 44+320 {
		t.Fatalf("len = %d", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("bad container magic")
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != uint32(f.SampleRate) {
		t.Errorf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != uint16(f.Channels) {
		t.Errorf("channels = %d", got)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != 320 {
		t.Errorf("data length = %d", got)
	}
}
