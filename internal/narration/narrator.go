// Package narration speaks question text through the platform's speech synthesizer.
package narration

import (
	"context"
	"errors"
)

// ErrUnsupported is returned when no synthesizer is available.
var ErrUnsupported = errors.New("speech synthesis unsupported")

// Narrator speaks one utterance at a time. Speak replaces whatever is being spoken.
type Narrator interface {
	// Speak starts speaking text in the given voice locale (e.g. "ko-KR") and returns
	// without waiting for the utterance to finish.
	Speak(ctx context.Context, text, locale string) error
	// Cancel stops the current utterance. Safe to call when idle.
	Cancel()
	Pause() error
	Resume() error
}

// Noop discards everything. Used when no synthesizer is installed or narration is off.
type Noop struct{}

func (Noop) Speak(context.Context, string, string) error { return nil }
func (Noop) Cancel()                                     {}
func (Noop) Pause() error                                { return nil }
func (Noop) Resume() error                               { return nil }

// Settings tune the synthesizer. 1.0 is the synthesizer's normal value for each field.
type Settings struct {
	Rate   float64
	Pitch  float64
	Volume float64
}
