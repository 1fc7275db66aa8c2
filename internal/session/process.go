// Package session drives a single scripted LSP session against a language
// server subprocess: spawn, initialize, open a document, request completion,
// terminate.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// Process is an explicitly owned language server subprocess with its stdin
// and stdout captured as byte streams. Stderr is piped but never parsed; it
// can be forwarded to the log for inspection.
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// StartProcess spawns the server executable with piped stdio.
func StartProcess(command string, args ...string) (*Process, error) {
	cmd := exec.Command(command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		stderr.Close()
		return nil, fmt.Errorf("start process: %w", err)
	}

	return &Process{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// Stdin returns the writer connected to the server's standard input.
func (p *Process) Stdin() io.Writer {
	return p.stdin
}

// Stdout returns the reader connected to the server's standard output.
func (p *Process) Stdout() io.Reader {
	return p.stdout
}

// ForwardStderr copies the server's stderr lines into the log until the
// stream closes. It runs in its own goroutine.
func (p *Process) ForwardStderr(logger *zap.Logger) {
	go func() {
		scanner := bufio.NewScanner(p.stderr)
		for scanner.Scan() {
			logger.Info("server stderr", zap.String("line", scanner.Text()))
		}
	}()
}

// Terminate kills the subprocess and reaps it. It is safe to call after a
// failed session step; termination must happen on every exit path.
func (p *Process) Terminate() error {
	p.stdin.Close()

	if p.cmd.Process != nil {
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("kill process: %w", err)
		}
	}

	// Reap. The error is expected after Kill and carries no signal.
	_ = p.cmd.Wait()
	return nil
}
