package progress

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner shows an indeterminate progress indicator while a single slow
// operation, such as a model request, is in flight. Start and Stop may be
// called repeatedly; only one operation is shown at a time.
type Spinner struct {
	w        io.Writer
	interval time.Duration

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner creates a spinner writing to w, usually stderr.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{w: w, interval: 100 * time.Millisecond}
}

func (s *Spinner) newBar(label string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

// Start shows the spinner with the given label.
func (s *Spinner) Start(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		s.bar.Describe(label)
		return
	}

	bar := s.newBar(label)
	done := make(chan struct{})
	s.bar, s.done = bar, done

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
}

// Stop clears the spinner. It is a no-op when nothing is shown.
func (s *Spinner) Stop() {
	s.mu.Lock()
	bar, done := s.bar, s.done
	s.bar, s.done = nil, nil
	s.mu.Unlock()

	if bar == nil {
		return
	}
	close(done)
	s.wg.Wait()
	_ = bar.Finish()
	_ = bar.Clear()
}
