package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ProgressBar displays a progress bar with percentage and description.
// Example: [=========>          ] 45% Importing students
//
// On a non-TTY writer nothing is drawn until Finish, which prints the
// completed bar once.
type ProgressBar struct {
	total       int
	current     int
	description string
	width       int
	finished    bool
	mu          sync.Mutex
	writer      io.Writer
}

// NewProgress creates a new progress bar writing to w.
func NewProgress(w io.Writer, total int, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		description: description,
		width:       30,
		writer:      w,
	}
}

// Increment advances the bar by one.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.total {
		p.current++
	}
	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r%s", p.line())
	}
}

// Finish completes the bar and ends the line. Calling it twice is a no-op.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished {
		return
	}
	p.finished = true
	p.current = p.total

	if writerIsTTY(p.writer) {
		fmt.Fprintf(p.writer, "\r%s\n", p.line())
		return
	}
	fmt.Fprintln(p.writer, p.line())
}

// line renders the bar (must be called with lock held).
func (p *ProgressBar) line() string {
	percentage, filled := 100, p.width
	if p.total > 0 {
		percentage = p.current * 100 / p.total
		filled = p.current * p.width / p.total
	}

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < p.width; i++ {
		switch {
		case i < filled-1:
			bar.WriteString("=")
		case i == filled-1:
			bar.WriteString(">")
		default:
			bar.WriteString(" ")
		}
	}
	bar.WriteString("]")

	return fmt.Sprintf("%s %3d%% %s", bar.String(), percentage, p.description)
}

// Spinner displays an animated spinner with a message.
// On a non-TTY writer the message is printed once and nothing animates.
type Spinner struct {
	message string
	chars   []string
	running bool
	mu      sync.Mutex
	writer  io.Writer
	done    chan struct{}
}

// NewSpinner creates a spinner writing to w. Call Start to show it.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		message: message,
		chars:   []string{"|", "/", "-", "\\"},
		writer:  w,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	go func() {
		defer ticker.Stop()
		idx := 0
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				if s.running {
					fmt.Fprintf(s.writer, "\r%s  %s", s.chars[idx], s.message)
				}
				s.mu.Unlock()
				idx = (idx + 1) % len(s.chars)
			case <-s.done:
				return
			}
		}
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.done)

	// Clear the line only on a TTY; on non-TTY the \r does not overwrite.
	if writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	}
}

// StopWithMessage stops the spinner and prints a final message.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.writer, message)
}
