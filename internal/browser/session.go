package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrStaleHandle = errors.New("element handle belongs to a previous page snapshot")

const defaultSettleDelay = 200 * time.Millisecond

// Session owns the driver and scopes element handles to the current page snapshot.
// Every navigation, reload, back or tab change starts a new snapshot and
// invalidates all handles obtained before it.
type Session struct {
	driver     Driver
	log        logrus.FieldLogger
	generation uint64
	settle     time.Duration
}

type SessionOption func(*Session)

// WithSettleDelay overrides the pause between scroll-into-view and click.
func WithSettleDelay(d time.Duration) SessionOption {
	return func(s *Session) {
		s.settle = d
	}
}

func NewSession(driver Driver, log logrus.FieldLogger, opts ...SessionOption) *Session {
	s := &Session{
		driver:     driver,
		log:        log,
		generation: 1,
		settle:     defaultSettleDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invalidate ends the current snapshot without touching the page.
// Used when an in-page action (opening a detail view) replaces the document.
func (s *Session) Invalidate() {
	s.generation++
}

func (s *Session) Navigate(url string) error {
	s.Invalidate()
	if err := s.driver.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *Session) Reload() error {
	s.Invalidate()
	if err := s.driver.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

func (s *Session) Back() error {
	s.Invalidate()
	if err := s.driver.Back(); err != nil {
		return fmt.Errorf("go back: %w", err)
	}
	return nil
}

// CloseExtraWindows closes every tab opened during the session and returns to the first one.
func (s *Session) CloseExtraWindows() error {
	s.Invalidate()
	if err := s.driver.CloseExtraWindows(); err != nil {
		return fmt.Errorf("close extra windows: %w", err)
	}
	return nil
}

// WaitAny waits up to timeout for any of sels to be attached. It does not end the snapshot.
func (s *Session) WaitAny(timeout time.Duration, sels ...Selector) error {
	if err := s.driver.WaitAny(timeout, sels...); err != nil {
		return fmt.Errorf("wait for page markers: %w", err)
	}
	return nil
}

// FindAll returns handles for every element matching sel in the current snapshot.
func (s *Session) FindAll(sel Selector) ([]Handle, error) {
	els, err := s.driver.FindAll(sel)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", sel, err)
	}
	return s.wrap(els), nil
}

// Exists reports whether at least one element matches sel.
func (s *Session) Exists(sel Selector) (bool, error) {
	els, err := s.FindAll(sel)
	if err != nil {
		return false, err
	}
	return len(els) > 0, nil
}

// Screenshot captures the active page if the driver supports it.
func (s *Session) Screenshot(path string) error {
	shooter, ok := s.driver.(Screenshotter)
	if !ok {
		return errors.New("driver does not support screenshots")
	}
	return shooter.Screenshot(path)
}

func (s *Session) wrap(els []Element) []Handle {
	handles := make([]Handle, len(els))
	for i, el := range els {
		handles[i] = Handle{el: el, generation: s.generation, session: s}
	}
	return handles
}

// Handle is an element reference that refuses to be used after its snapshot ends.
// The zero Handle is never valid.
type Handle struct {
	el         Element
	generation uint64
	session    *Session
}

func (h Handle) Valid() bool {
	return h.session != nil && h.el != nil && h.generation == h.session.generation
}

func (h Handle) element() (Element, error) {
	if !h.Valid() {
		return nil, ErrStaleHandle
	}
	return h.el, nil
}

func (h Handle) Text() (string, error) {
	el, err := h.element()
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (h Handle) Click() error {
	el, err := h.element()
	if err != nil {
		return err
	}
	return el.Click()
}

// ScrollIntoCenter scrolls the element to the viewport center and waits for layout to settle.
func (h Handle) ScrollIntoCenter() error {
	el, err := h.element()
	if err != nil {
		return err
	}
	if err := el.ScrollIntoCenter(); err != nil {
		return err
	}
	time.Sleep(h.session.settle)
	return nil
}

func (h Handle) Find(sel Selector) (Handle, error) {
	el, err := h.element()
	if err != nil {
		return Handle{}, err
	}
	child, err := el.Find(sel)
	if err != nil {
		return Handle{}, err
	}
	return Handle{el: child, generation: h.generation, session: h.session}, nil
}

func (h Handle) FindAll(sel Selector) ([]Handle, error) {
	el, err := h.element()
	if err != nil {
		return nil, err
	}
	children, err := el.FindAll(sel)
	if err != nil {
		return nil, err
	}
	return h.session.wrap(children), nil
}
