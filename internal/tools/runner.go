package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Runner launches external tools. Arguments are always passed as a discrete
// argv, never through a shell. The interface exists so orchestration code
// can be exercised against a fake launcher in tests.
type Runner interface {
	// Run executes a tool to completion and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// Start launches a tool in the background and returns immediately.
	Start(ctx context.Context, name string, args ...string) (Handle, error)
}

// Handle supervises a background process.
type Handle interface {
	// Wait blocks until the process exits.
	Wait() error
	// Stop terminates the process: SIGTERM to the process group, a bounded
	// grace wait, then SIGKILL. Safe to call more than once and after the
	// process has already exited.
	Stop(grace time.Duration)
	// Running reports whether the process has not yet exited.
	Running() bool
	// Output returns the combined output collected so far.
	Output() string
}

// ExecRunner is the real launcher backed by os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

func (r *ExecRunner) Start(ctx context.Context, name string, args ...string) (Handle, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, name, args...)

	// Process groups so Stop can take down the entire tree.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	p := &process{cmd: cmd, cancel: cancel, done: make(chan struct{})}
	cmd.Stdout = &p.out
	cmd.Stderr = &p.out

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()

	return p, nil
}

type process struct {
	cmd      *exec.Cmd
	cancel   context.CancelFunc
	out      lockedBuffer
	done     chan struct{}
	waitErr  error
	stopOnce sync.Once
}

func (p *process) Wait() error {
	<-p.done
	return p.waitErr
}

func (p *process) Stop(grace time.Duration) {
	p.stopOnce.Do(func() {
		defer p.cancel()

		if p.cmd.Process == nil {
			return
		}

		if pgid, err := syscall.Getpgid(p.cmd.Process.Pid); err == nil {
			_ = syscall.Kill(-pgid, syscall.SIGTERM)
		} else {
			_ = p.cmd.Process.Signal(syscall.SIGTERM)
		}

		select {
		case <-p.done:
			return
		case <-time.After(grace):
		}

		if pgid, err := syscall.Getpgid(p.cmd.Process.Pid); err == nil {
			_ = syscall.Kill(-pgid, syscall.SIGKILL)
		} else {
			_ = p.cmd.Process.Kill()
		}
		<-p.done
	})
}

func (p *process) Running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *process) Output() string {
	return p.out.String()
}

// lockedBuffer guards concurrent writes from the process pipes against
// reads from the supervising goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(data)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
