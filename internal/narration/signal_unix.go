//go:build unix

package narration

import (
	"fmt"
	"os"
	"syscall"
)

func pauseProcess(p *os.Process) error {
	if err := p.Signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("pause synthesizer: %w", err)
	}
	return nil
}

func resumeProcess(p *os.Process) error {
	if err := p.Signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("resume synthesizer: %w", err)
	}
	return nil
}
