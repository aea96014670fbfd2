package amazon

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"go-shift-hunter/internal/browser"
	"go-shift-hunter/internal/scraper"
	"go-shift-hunter/utils"
)

var errNotClicked = errors.New("element could not be clicked")

// StepError names the application step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type step struct {
	name string
	run  func() error
}

// Submitter walks a matched listing through the application flow.
// searchURL is where it returns after a failed attempt.
type Submitter struct {
	session   *browser.Session
	searchURL string
	timeout   time.Duration
	shots     *utils.ScreenShotDebugger
	log       logrus.FieldLogger
}

// NewSubmitter builds a submitter; shots may be nil to disable failure screenshots.
func NewSubmitter(session *browser.Session, searchURL string, timeout time.Duration, shots *utils.ScreenShotDebugger, log logrus.FieldLogger) *Submitter {
	return &Submitter{
		session:   session,
		searchURL: searchURL,
		timeout:   timeout,
		shots:     shots,
		log:       log,
	}
}

// Submit opens the listing's card and runs every application step in order,
// stopping at the first one that fails. nil means the application was created.
// On any failure after the card opened, the browser is back on the search
// results when Submit returns.
func (s *Submitter) Submit(l scraper.Listing) error {
	if err := l.Handle.ScrollIntoCenter(); err != nil {
		return fmt.Errorf("scroll to card: %w", err)
	}
	if err := l.Handle.Click(); err != nil {
		return fmt.Errorf("open card: %w", err)
	}
	// the detail view replaces the results document
	s.session.Invalidate()

	noShift, err := s.session.Exists(noShiftMarker)
	if err != nil {
		s.log.Warnf("⚠️ Error checking shifts: %v", err)
	} else if noShift {
		s.log.Info("🚫 No work shift available. Going back...")
		if err := s.session.Back(); err != nil {
			s.log.Warnf("⚠️ Could not go back: %v", err)
			s.backToSearch()
		}
		return scraper.ErrNoShift
	}

	for _, st := range s.steps() {
		if err := st.run(); err != nil {
			s.capture(st.name)
			s.backToSearch()
			return &StepError{Step: st.name, Err: err}
		}
		s.log.Debugf("✔️ %s", st.name)
	}

	s.log.Infof("🎉 Application submitted for %s", l.Name)
	return nil
}

func (s *Submitter) steps() []step {
	return []step{
		{name: "open schedule dropdown", run: s.click(scheduleDropdown)},
		{name: "select schedule", run: s.click(scheduleOption)},
		{name: "apply", run: func() error { return s.session.ClickOpeningWindow(applyButton, s.timeout) }},
		{name: "next", run: s.click(nextButton)},
		{name: "create application", run: s.click(createApplication)},
	}
}

func (s *Submitter) click(sel browser.Selector) func() error {
	return func() error {
		if !s.session.SafeClick(sel, s.timeout) {
			return errNotClicked
		}
		return nil
	}
}

// backToSearch closes the application tab and reloads the search results,
// so the next poll sees the results page again.
func (s *Submitter) backToSearch() {
	if err := s.session.CloseExtraWindows(); err != nil {
		s.log.Warnf("⚠️ Could not close application tabs: %v", err)
	}
	if err := s.session.Navigate(s.searchURL); err != nil {
		s.log.Errorf("❌ Could not return to search results: %v", err)
		return
	}
	s.log.Info("↩️ Back on search results")
}

func (s *Submitter) capture(stepName string) {
	if s.shots == nil {
		return
	}
	s.shots.CaptureAndLog(s.session, "apply-failed", fmt.Sprintf("🚨 Application step %q failed", stepName))
}
