// Page automation primitives the hunter depends on.
// Playwright implements them in playwright.go, tests use browsertest.

package browser

import (
	"errors"
	"time"
)

var (
	ErrTimeout     = errors.New("timed out waiting for element")
	ErrNotFound    = errors.New("element not found")
	ErrIntercepted = errors.New("click intercepted by another element")
	ErrNoWindow    = errors.New("no open window")
)

type SelectorKind int

const (
	KindCSS SelectorKind = iota
	KindXPath
)

// Selector locates elements with either CSS or XPath.
type Selector struct {
	Kind SelectorKind
	Expr string
}

func CSS(expr string) Selector {
	return Selector{Kind: KindCSS, Expr: expr}
}

func XPath(expr string) Selector {
	return Selector{Kind: KindXPath, Expr: expr}
}

// String renders the selector in Playwright's engine-prefixed syntax.
func (s Selector) String() string {
	if s.Kind == KindXPath {
		return "xpath=" + s.Expr
	}
	return "css=" + s.Expr
}

// Element is a live element on the active page.
type Element interface {
	Text() (string, error)
	Click() error
	ScrollIntoCenter() error
	// Find returns ErrNotFound when nothing matches.
	Find(sel Selector) (Element, error)
	FindAll(sel Selector) ([]Element, error)
}

// Driver is the page-level automation surface.
type Driver interface {
	Navigate(url string) error
	FindAll(sel Selector) ([]Element, error)
	// WaitInteractable blocks until sel resolves to a visible, enabled element.
	WaitInteractable(sel Selector, timeout time.Duration) (Element, error)
	// WaitAny blocks until at least one of sels is attached to the page.
	WaitAny(timeout time.Duration, sels ...Selector) error
	Reload() error
	Back() error
	// ExpectWindow runs action and makes the tab it opens the active one.
	// It returns ErrNoWindow when no tab opens within timeout.
	ExpectWindow(action func() error, timeout time.Duration) error
	// CloseExtraWindows closes every tab but the first and makes that one active.
	CloseExtraWindows() error
}

// Screenshotter is implemented by drivers that can capture the active page.
type Screenshotter interface {
	Screenshot(path string) error
}
