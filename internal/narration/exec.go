package narration

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/shimteo/shimteo/internal/logging"
)

// candidates are tried in order when no command is configured.
var candidates = []string{"espeak-ng", "espeak", "say", "spd-say"}

// sayVoices are the voices macOS ships for each supported locale. say has no language flag, so
// the voice selects the language; unknown locales use the system voice.
var sayVoices = map[string]string{
	"ko-KR": "Yuna",
	"en-US": "Samantha",
	"ja-JP": "Kyoko",
	"vi-VN": "Linh",
	"zh-CN": "Tingting",
}

// Exec speaks by running a synthesizer binary, one process per utterance.
type Exec struct {
	path     string
	settings Settings
	logger   logging.Logger

	mu      sync.Mutex
	proc    *os.Process
	cancel  context.CancelFunc
	paused  bool
	started func(args []string) // test hook
}

// Detect finds a synthesizer. command may be empty to auto-detect. Returns ErrUnsupported
// when nothing is installed.
func Detect(command string, settings Settings, logger logging.Logger) (*Exec, error) {
	if logger == nil {
		logger = logging.Nop{}
	}
	names := candidates
	if command != "" {
		names = []string{command}
	}
	for _, name := range names {
		path, err := exec.LookPath(name)
		if err == nil {
			return &Exec{path: path, settings: normalize(settings), logger: logger}, nil
		}
	}
	return nil, fmt.Errorf("find synthesizer %v: %w", names, ErrUnsupported)
}

func normalize(s Settings) Settings {
	if s.Rate <= 0 {
		s.Rate = 1
	}
	if s.Pitch <= 0 {
		s.Pitch = 1
	}
	if s.Volume <= 0 {
		s.Volume = 1
	}
	return s
}

// Args builds the synthesizer arguments for one utterance.
func (e *Exec) Args(text, locale string) []string {
	lang := strings.ToLower(strings.SplitN(locale, "-", 2)[0])
	switch filepath.Base(e.path) {
	case "espeak-ng", "espeak":
		return []string{
			"-v", lang,
			"-s", strconv.Itoa(int(175 * e.settings.Rate)),
			"-p", strconv.Itoa(clamp(int(50*e.settings.Pitch), 0, 99)),
			"-a", strconv.Itoa(clamp(int(100*e.settings.Volume), 0, 200)),
			text,
		}
	case "spd-say":
		return []string{
			"-l", lang,
			"-r", strconv.Itoa(clamp(int((e.settings.Rate-1)*100), -100, 100)),
			"-p", strconv.Itoa(clamp(int((e.settings.Pitch-1)*100), -100, 100)),
			"-i", strconv.Itoa(clamp(int((e.settings.Volume-1)*100), -100, 100)),
			text,
		}
	case "say":
		args := []string{"-r", strconv.Itoa(int(175 * e.settings.Rate))}
		if voice, ok := sayVoices[locale]; ok {
			args = append(args, "-v", voice)
		}
		return append(args, text)
	}
	return []string{text}
}

// Speak cancels the current utterance and starts a new one.
func (e *Exec) Speak(ctx context.Context, text, locale string) error {
	e.Cancel()

	args := e.Args(text, locale)
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, e.path, args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start synthesizer: %w", err)
	}

	e.mu.Lock()
	e.proc = cmd.Process
	e.cancel = cancel
	e.paused = false
	hook := e.started
	e.mu.Unlock()
	if hook != nil {
		hook(args)
	}

	go func() {
		err := cmd.Wait()
		e.mu.Lock()
		if e.proc == cmd.Process {
			e.proc = nil
			e.cancel = nil
		}
		e.mu.Unlock()
		cancel()
		if err != nil && ctx.Err() == nil {
			e.logger.Debug("narration", "synthesizer exited", map[string]interface{}{"error": err.Error()})
		}
	}()
	return nil
}

// Cancel kills the running synthesizer, if any.
func (e *Exec) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		if e.paused && e.proc != nil {
			resumeProcess(e.proc)
		}
		e.cancel()
	}
	e.proc = nil
	e.cancel = nil
	e.paused = false
}

// Pause suspends the running utterance.
func (e *Exec) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.proc == nil || e.paused {
		return nil
	}
	if err := pauseProcess(e.proc); err != nil {
		return err
	}
	e.paused = true
	return nil
}

// Resume continues a paused utterance.
func (e *Exec) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.proc == nil || !e.paused {
		return nil
	}
	if err := resumeProcess(e.proc); err != nil {
		return err
	}
	e.paused = false
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
