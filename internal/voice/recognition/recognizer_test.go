// File: internal/voice/recognition/recognizer_test.go
package recognition

import (
	"sync"
	"testing"
	"time"
)

type testLogger struct{}

func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Warn(string, ...interface{})  {}

type fakeEngine struct {
	mu         sync.Mutex
	events     chan Event
	startCalls int
	stopCalls  int
	abortCalls int
	startErrs  []error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{events: make(chan Event, 64)}
}

func (e *fakeEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startCalls++
	if len(e.startErrs) > 0 {
		err := e.startErrs[0]
		e.startErrs = e.startErrs[1:]
		return err
	}
	return nil
}

func (e *fakeEngine) Stop() {
	e.mu.Lock()
	e.stopCalls++
	e.mu.Unlock()
	e.events <- Event{Kind: KindEnd}
}

func (e *fakeEngine) Abort() {
	e.mu.Lock()
	e.abortCalls++
	e.mu.Unlock()
}

func (e *fakeEngine) Events() <-chan Event { return e.events }

func (e *fakeEngine) starts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startCalls
}

func (e *fakeEngine) emit(ev Event) { e.events <- ev }

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func newTestRecognizer(t *testing.T) (*Recognizer, *fakeEngine) {
	t.Helper()
	engine := newFakeEngine()
	rec := NewRecognizer(engine, testLogger{})
	rec.SetRestartDelay(time.Millisecond)
	return rec, engine
}

func TestTranscriptPrefersFinalsOverInterims(t *testing.T) {
	rec, engine := newTestRecognizer(t)
	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	engine.emit(Event{Kind: KindResult, Text: "hel"})
	engine.emit(Event{Kind: KindResult, Text: "hello"})
	engine.emit(Event{Kind: KindResult, Text: "hello there", Final: true})
	engine.emit(Event{Kind: KindResult, Text: "and"})

	waitFor(t, func() bool { return rec.Transcript() == "hello there" },
		"transcript never settled on the final segment")
}

func TestTranscriptConcatenatesFinalSegments(t *testing.T) {
	rec, engine := newTestRecognizer(t)
	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	engine.emit(Event{Kind: KindResult, Text: "good morning", Final: true})
	engine.emit(Event{Kind: KindResult, Text: "how are you", Final: true})

	waitFor(t, func() bool { return rec.Transcript() == "good morning how are you" },
		"final segments not concatenated")
}

func TestTranscriptFallsBackToLatestInterim(t *testing.T) {
	rec, engine := newTestRecognizer(t)
	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	engine.emit(Event{Kind: KindResult, Text: "i thi"})
	engine.emit(Event{Kind: KindResult, Text: "i think so"})

	waitFor(t, func() bool { return rec.Transcript() == "i think so" },
		"latest interim not exposed")
}

func TestFiveConsecutiveNoSpeechProduceOneWarning(t *testing.T) {
	rec, engine := newTestRecognizer(t)

	var mu sync.Mutex
	warnings := 0
	rec.OnWarning = func(string) {
		mu.Lock()
		warnings++
		mu.Unlock()
	}

	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 7; i++ {
		engine.emit(Event{Kind: KindError, ErrKind: ErrKindNoSpeech})
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return warnings == 1
	}, "expected exactly one warning")

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	got := warnings
	mu.Unlock()
	if got != 1 {
		t.Fatalf("warnings = %d, want 1", got)
	}
	if !rec.Listening() {
		t.Error("listening stopped on no-speech noise")
	}
}

func TestResultResetsNoSpeechRun(t *testing.T) {
	rec, engine := newTestRecognizer(t)

	var mu sync.Mutex
	warnings := 0
	rec.OnWarning = func(string) {
		mu.Lock()
		warnings++
		mu.Unlock()
	}

	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 4; i++ {
		engine.emit(Event{Kind: KindError, ErrKind: ErrKindNoSpeech})
	}
	engine.emit(Event{Kind: KindResult, Text: "still here"})
	for i := 0; i < 4; i++ {
		engine.emit(Event{Kind: KindError, ErrKind: ErrKindNoSpeech})
	}

	waitFor(t, func() bool { return rec.Transcript() == "still here" }, "result not applied")
	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if warnings != 0 {
		t.Fatalf("warnings = %d, want 0 after the run was reset", warnings)
	}
}

func TestAbortedErrorSuppressed(t *testing.T) {
	rec, engine := newTestRecognizer(t)

	fatal := make(chan error, 1)
	rec.OnFatal = func(err error) { fatal <- err }

	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	engine.emit(Event{Kind: KindError, ErrKind: ErrKindAborted})

	time.Sleep(10 * time.Millisecond)
	select {
	case err := <-fatal:
		t.Fatalf("aborted surfaced as fatal: %v", err)
	default:
	}
	if !rec.Listening() {
		t.Error("listening stopped on abort")
	}
}

func TestFatalErrorStopsSession(t *testing.T) {
	rec, engine := newTestRecognizer(t)

	fatal := make(chan error, 1)
	rec.OnFatal = func(err error) { fatal <- err }

	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	engine.emit(Event{Kind: KindError, ErrKind: ErrKindDenied})

	select {
	case err := <-fatal:
		if err.Error() != "recognition error: not-allowed" {
			t.Errorf("err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fatal error never surfaced")
	}
	waitFor(t, func() bool { return !rec.Listening() }, "still listening after fatal error")
}

func TestNaturalEndRestartsSession(t *testing.T) {
	rec, engine := newTestRecognizer(t)
	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	engine.emit(Event{Kind: KindEnd})
	waitFor(t, func() bool { return engine.starts() == 2 }, "session not restarted after natural end")

	// Results across the stitch accumulate into one transcript.
	engine.emit(Event{Kind: KindResult, Text: "before", Final: true})
	engine.emit(Event{Kind: KindEnd})
	waitFor(t, func() bool { return engine.starts() == 3 }, "second restart missing")
	engine.emit(Event{Kind: KindResult, Text: "after", Final: true})
	waitFor(t, func() bool { return rec.Transcript() == "before after" }, "transcript lost across restart")
}

func TestStopPreventsRestart(t *testing.T) {
	rec, engine := newTestRecognizer(t)
	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	rec.Stop()

	waitFor(t, func() bool { return !rec.Listening() }, "still listening after stop")
	time.Sleep(20 * time.Millisecond)
	if engine.starts() != 1 {
		t.Fatalf("starts = %d, engine resurrected after explicit stop", engine.starts())
	}
}

func TestAbortPreventsRestart(t *testing.T) {
	rec, engine := newTestRecognizer(t)
	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	rec.Abort()
	// Real engines follow an abort with an end event.
	engine.emit(Event{Kind: KindEnd})

	time.Sleep(20 * time.Millisecond)
	if engine.starts() != 1 {
		t.Fatalf("starts = %d, engine resurrected after abort", engine.starts())
	}
}

func TestAlreadyStartedAbortsAndRetriesOnce(t *testing.T) {
	rec, engine := newTestRecognizer(t)
	engine.startErrs = []error{ErrAlreadyStarted}

	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if engine.starts() != 2 {
		t.Errorf("starts = %d, want 2", engine.starts())
	}
	engine.mu.Lock()
	aborts := engine.abortCalls
	engine.mu.Unlock()
	if aborts != 1 {
		t.Errorf("aborts = %d, want 1", aborts)
	}
}

func TestAlreadyStartedTwiceGivesUp(t *testing.T) {
	rec, engine := newTestRecognizer(t)
	engine.startErrs = []error{ErrAlreadyStarted, ErrAlreadyStarted}

	if err := rec.Start(); err == nil {
		t.Fatal("Start succeeded, want error after single retry")
	}
	if engine.starts() != 2 {
		t.Errorf("starts = %d, want 2", engine.starts())
	}
}

func TestStartClearsPreviousTranscript(t *testing.T) {
	rec, engine := newTestRecognizer(t)
	if err := rec.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	engine.emit(Event{Kind: KindResult, Text: "old turn", Final: true})
	waitFor(t, func() bool { return rec.Transcript() == "old turn" }, "first transcript missing")

	rec.Stop()
	waitFor(t, func() bool { return !rec.Listening() }, "not stopped")

	if err := rec.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := rec.Transcript(); got != "" {
		t.Fatalf("transcript = %q, want cleared", got)
	}
}
