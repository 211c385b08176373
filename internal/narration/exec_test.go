package narration

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectUnknownCommand(t *testing.T) {
	_, err := Detect("definitely-not-a-synthesizer-xyz", Settings{}, nil)
	assert.True(t, errors.Is(err, ErrUnsupported), "err = %v", err)
}

func TestArgsEspeak(t *testing.T) {
	e := &Exec{path: "/usr/bin/espeak-ng", settings: normalize(Settings{Rate: 0.9})}

	args := e.Args("어지러우신가요?", "ko-KR")
	assert.Equal(t, []string{"-v", "ko", "-s", "157", "-p", "50", "-a", "100", "어지러우신가요?"}, args)
}

func TestArgsSayPicksVoiceForLocale(t *testing.T) {
	e := &Exec{path: "/usr/bin/say", settings: normalize(Settings{Rate: 1.2})}

	assert.Equal(t, []string{"-r", "210", "-v", "Kyoko", "こんにちは"}, e.Args("こんにちは", "ja-JP"))
	assert.Equal(t, []string{"-r", "210", "-v", "Yuna", "어지러우신가요?"}, e.Args("어지러우신가요?", "ko-KR"))
	assert.Equal(t, []string{"-r", "210", "hello"}, e.Args("hello", "fr-FR"))
}

func TestArgsUnknownBinaryPassesTextOnly(t *testing.T) {
	e := &Exec{path: "/opt/tts/speak", settings: normalize(Settings{})}
	assert.Equal(t, []string{"hello"}, e.Args("hello", "en-US"))
}

// sleepExec uses sleep as a stand-in synthesizer: the "text" is the duration.
func sleepExec(t *testing.T) *Exec {
	t.Helper()
	path, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	return &Exec{path: path, settings: normalize(Settings{})}
}

func TestSpeakReplacesCurrentUtterance(t *testing.T) {
	e := sleepExec(t)

	require.NoError(t, e.Speak(context.Background(), "5", "ko-KR"))
	e.mu.Lock()
	first := e.proc
	e.mu.Unlock()
	require.NotNil(t, first)

	require.NoError(t, e.Speak(context.Background(), "5", "ko-KR"))
	e.mu.Lock()
	second := e.proc
	e.mu.Unlock()

	assert.NotEqual(t, first.Pid, second.Pid)
	e.Cancel()

	e.mu.Lock()
	defer e.mu.Unlock()
	assert.Nil(t, e.proc)
}

func TestPauseResumeCancel(t *testing.T) {
	e := sleepExec(t)

	require.NoError(t, e.Speak(context.Background(), "5", "en-US"))
	if err := e.Pause(); errors.Is(err, ErrUnsupported) {
		e.Cancel()
		t.Skip("pause unsupported on this platform")
	} else {
		require.NoError(t, err)
	}
	assert.True(t, e.paused)
	require.NoError(t, e.Resume())
	assert.False(t, e.paused)
	e.Cancel()
}

func TestContextCancelStopsUtterance(t *testing.T) {
	e := sleepExec(t)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.Speak(ctx, "5", "en-US"))
	cancel()

	assert.Eventually(t, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.proc == nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNoop(t *testing.T) {
	var n Narrator = Noop{}
	assert.NoError(t, n.Speak(context.Background(), "x", "ko-KR"))
	n.Cancel()
	assert.NoError(t, n.Pause())
	assert.NoError(t, n.Resume())
}
