package browser

import (
	"fmt"
	"time"
)

// TryClick waits up to timeout for sel to become interactable, scrolls it into
// the viewport center and clicks it.
func (s *Session) TryClick(sel Selector, timeout time.Duration) error {
	el, err := s.driver.WaitInteractable(sel, timeout)
	if err != nil {
		return fmt.Errorf("wait for %s: %w", sel, err)
	}
	h := Handle{el: el, generation: s.generation, session: s}
	if err := h.ScrollIntoCenter(); err != nil {
		return fmt.Errorf("scroll to %s: %w", sel, err)
	}
	if err := h.Click(); err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}
	return nil
}

// SafeClick is TryClick with every failure reduced to false and a warning.
func (s *Session) SafeClick(sel Selector, timeout time.Duration) bool {
	if err := s.TryClick(sel, timeout); err != nil {
		s.log.Warnf("⚠️ Could not click element %s: %v", sel.Expr, err)
		return false
	}
	return true
}

// ClickOpeningWindow clicks sel and switches to the tab the click opens.
// The snapshot ends once the click has happened, whether or not a tab appeared.
func (s *Session) ClickOpeningWindow(sel Selector, timeout time.Duration) error {
	clicked := false
	err := s.driver.ExpectWindow(func() error {
		if err := s.TryClick(sel, timeout); err != nil {
			return err
		}
		clicked = true
		return nil
	}, timeout)
	if clicked {
		s.Invalidate()
	}
	if err != nil {
		return fmt.Errorf("open window from %s: %w", sel, err)
	}
	return nil
}
