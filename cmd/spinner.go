package cmd

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// spinner renders a rotating indicator with a label that updates in place
// while a long command (catalog download) is running.
type spinner struct {
	mu    sync.Mutex
	label string
	done  chan struct{}
	wg    sync.WaitGroup
}

func newSpinner(label string) *spinner {
	return &spinner{label: label, done: make(chan struct{})}
}

func (s *spinner) setLabel(l string) {
	s.mu.Lock()
	s.label = l
	s.mu.Unlock()
}

// start launches the render loop in a goroutine.
func (s *spinner) start() {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				label := s.label
				s.mu.Unlock()
				// \r returns to column 0; \033[K clears to end of line.
				fmt.Printf("\r\033[K  %s %s", frames[i%len(frames)], label)
			}
		}
	}()
}

// stop halts the spinner and prints a final status line.
func (s *spinner) stop(err error) {
	close(s.done)
	s.wg.Wait()

	s.mu.Lock()
	label := s.label
	s.mu.Unlock()

	fmt.Print("\r\033[K")
	if err == nil {
		fmt.Printf("  %s %s\n", okStyle.Render("✓"), label)
	} else {
		fmt.Printf("  %s %s\n", badStyle.Render("✗"), label)
	}
}

// ── shared styles ─────────────────────────────────────────────────────────────

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	valStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldOK     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)
