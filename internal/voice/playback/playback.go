// File: internal/voice/playback/playback.go
package playback

import (
	"context"
	"sync"
)

const defaultRate = 1.0

// Utterance is one synthesis request.
type Utterance struct {
	Text string
	Rate float64
}

// Synthesizer is the platform text-to-speech facility. Speak starts a new
// utterance, cancelling any in progress; Cancel stops the current one.
type Synthesizer interface {
	Speak(ctx context.Context, u Utterance) error
	Cancel()
}

// MediaHandle is a playable reference to recorded audio. Rate changes apply
// to playback already in progress.
type MediaHandle interface {
	Play() error
	SetRate(rate float64)
	Stop()
}

// MediaOpener resolves a stored audio URL to a playable handle.
type MediaOpener interface {
	Open(url string) (MediaHandle, error)
}

type playKey struct {
	messageID uint
	text      string
}

// Player routes a message to the recorded-audio path when it carries an
// audio URL, and to synthesis otherwise. Auto-play fires once per message:
// replaying the same message is suppressed, but a new message with
// identical text still plays.
type Player struct {
	synth  Synthesizer
	opener MediaOpener

	mu          sync.Mutex
	rate        float64
	played      map[playKey]bool
	speaking    bool
	currentText string
	handle      MediaHandle
}

func NewPlayer(synth Synthesizer, opener MediaOpener) *Player {
	return &Player{
		synth:  synth,
		opener: opener,
		rate:   defaultRate,
		played: make(map[playKey]bool),
	}
}

// AutoPlay plays the newest AI message. Returns true when playback started,
// false when it was suppressed as already played.
func (p *Player) AutoPlay(ctx context.Context, messageID uint, text, audioURL string) (bool, error) {
	if audioURL != "" {
		return true, p.PlayRecorded(audioURL)
	}
	if text == "" {
		return false, nil
	}

	key := playKey{messageID: messageID, text: text}
	p.mu.Lock()
	if p.played[key] {
		p.mu.Unlock()
		return false, nil
	}
	p.played[key] = true
	p.mu.Unlock()

	return true, p.Speak(ctx, text)
}

// Speak synthesizes text at the current rate.
func (p *Player) Speak(ctx context.Context, text string) error {
	p.mu.Lock()
	rate := p.rate
	p.speaking = true
	p.currentText = text
	p.handle = nil
	p.mu.Unlock()

	return p.synth.Speak(ctx, Utterance{Text: text, Rate: rate})
}

// PlayRecorded opens and plays a stored clip at the current rate.
func (p *Player) PlayRecorded(url string) error {
	h, err := p.opener.Open(url)
	if err != nil {
		return err
	}

	p.mu.Lock()
	h.SetRate(p.rate)
	p.speaking = false
	p.currentText = ""
	p.handle = h
	p.mu.Unlock()

	return h.Play()
}

// SetRate changes the playback speed. Recorded audio adjusts in place; an
// in-progress synthesis is restarted at the new rate since the synthesis
// engine cannot change the rate of a started utterance.
func (p *Player) SetRate(ctx context.Context, rate float64) error {
	p.mu.Lock()
	p.rate = rate
	handle := p.handle
	restart := p.speaking
	text := p.currentText
	p.mu.Unlock()

	if handle != nil {
		handle.SetRate(rate)
		return nil
	}
	if restart {
		p.synth.Cancel()
		return p.synth.Speak(ctx, Utterance{Text: text, Rate: rate})
	}
	return nil
}

// Stop halts whatever is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	handle := p.handle
	speaking := p.speaking
	p.speaking = false
	p.handle = nil
	p.mu.Unlock()

	if handle != nil {
		handle.Stop()
	}
	if speaking {
		p.synth.Cancel()
	}
}

// Finished marks the current synthesis as complete. Wired to the
// synthesizer's end callback by the caller.
func (p *Player) Finished() {
	p.mu.Lock()
	p.speaking = false
	p.currentText = ""
	p.mu.Unlock()
}
