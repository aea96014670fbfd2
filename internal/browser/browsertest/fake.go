// Package browsertest provides an in-memory browser.Driver for unit tests.
package browsertest

import (
	"time"

	"go-shift-hunter/internal/browser"
)

// Element is a scripted element. Children and ChildErrs are keyed by Selector.String().
type Element struct {
	Label     string
	TextValue string
	TextErr   error
	ClickErr  error
	ScrollErr error
	Children  map[string][]*Element
	ChildErrs map[string]error

	Clicks  int
	Scrolls int
	// OnClick runs after a successful click, e.g. to swap the page content.
	OnClick func()
}

func (e *Element) Text() (string, error) {
	if e.TextErr != nil {
		return "", e.TextErr
	}
	return e.TextValue, nil
}

func (e *Element) Click() error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *Element) ScrollIntoCenter() error {
	if e.ScrollErr != nil {
		return e.ScrollErr
	}
	e.Scrolls++
	return nil
}

func (e *Element) Find(sel browser.Selector) (browser.Element, error) {
	els, err := e.FindAll(sel)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, browser.ErrNotFound
	}
	return els[0], nil
}

func (e *Element) FindAll(sel browser.Selector) ([]browser.Element, error) {
	if err := e.ChildErrs[sel.String()]; err != nil {
		return nil, err
	}
	return asElements(e.Children[sel.String()]), nil
}

// Driver serves page-level queries from Elements and records calls.
//
// When Routes has an entry for a URL, navigating to it, reloading it or
// opening it in a popup clears the page and runs the route to render it.
type Driver struct {
	Elements map[string][]*Element
	Errs     map[string]error
	Routes   map[string]func(d *Driver)

	URL string
	// Popup is the URL the next ExpectWindow opens; "" means no tab opens.
	Popup string

	Reloads   int
	Backs     int
	Windows   int
	Closes    int
	ReloadErr error
	Clicked   []string

	// OnReload runs after every successful reload.
	OnReload func(d *Driver)

	opener string
}

func NewDriver() *Driver {
	return &Driver{
		Elements: make(map[string][]*Element),
		Errs:     make(map[string]error),
		Routes:   make(map[string]func(d *Driver)),
	}
}

// Set replaces the elements matching sel.
func (d *Driver) Set(sel browser.Selector, els ...*Element) {
	d.Elements[sel.String()] = els
}

// Clear removes every element and query error.
func (d *Driver) Clear() {
	d.Elements = make(map[string][]*Element)
	d.Errs = make(map[string]error)
}

// Render makes url the current page and runs its route, if any.
func (d *Driver) Render(url string) {
	d.URL = url
	route, ok := d.Routes[url]
	if !ok {
		return
	}
	d.Clear()
	route(d)
}

func (d *Driver) Navigate(url string) error {
	d.Render(url)
	return nil
}

func (d *Driver) FindAll(sel browser.Selector) ([]browser.Element, error) {
	if err := d.Errs[sel.String()]; err != nil {
		return nil, err
	}
	return asElements(d.Elements[sel.String()]), nil
}

// WaitInteractable resolves immediately: the first matching element or ErrTimeout.
func (d *Driver) WaitInteractable(sel browser.Selector, _ time.Duration) (browser.Element, error) {
	if err := d.Errs[sel.String()]; err != nil {
		return nil, err
	}
	els := d.Elements[sel.String()]
	if len(els) == 0 {
		return nil, browser.ErrTimeout
	}
	return &recorder{Element: els[0], driver: d, sel: sel.String()}, nil
}

// WaitAny resolves immediately: nil when any of sels matches, ErrTimeout otherwise.
func (d *Driver) WaitAny(_ time.Duration, sels ...browser.Selector) error {
	for _, sel := range sels {
		if err := d.Errs[sel.String()]; err != nil {
			return err
		}
		if len(d.Elements[sel.String()]) > 0 {
			return nil
		}
	}
	return browser.ErrTimeout
}

func (d *Driver) Reload() error {
	if d.ReloadErr != nil {
		return d.ReloadErr
	}
	d.Reloads++
	d.Render(d.URL)
	if d.OnReload != nil {
		d.OnReload(d)
	}
	return nil
}

func (d *Driver) Back() error {
	d.Backs++
	return nil
}

// ExpectWindow runs action, then opens Popup in a new tab when one is set.
func (d *Driver) ExpectWindow(action func() error, _ time.Duration) error {
	if err := action(); err != nil {
		return err
	}
	if d.Popup == "" {
		return browser.ErrNoWindow
	}
	d.Windows++
	if d.opener == "" {
		d.opener = d.URL
	}
	d.Render(d.Popup)
	return nil
}

// CloseExtraWindows drops every popup and shows the opener again.
func (d *Driver) CloseExtraWindows() error {
	d.Closes++
	if d.opener != "" {
		d.Render(d.opener)
		d.opener = ""
	}
	return nil
}

// ScreenshotDriver adds screenshot support to Driver.
type ScreenshotDriver struct {
	*Driver
	Paths []string
}

func (d *ScreenshotDriver) Screenshot(path string) error {
	d.Paths = append(d.Paths, path)
	return nil
}

// recorder notes which selector was clicked through WaitInteractable.
type recorder struct {
	*Element
	driver *Driver
	sel    string
}

func (r *recorder) Click() error {
	if err := r.Element.Click(); err != nil {
		return err
	}
	r.driver.Clicked = append(r.driver.Clicked, r.sel)
	return nil
}

func asElements(els []*Element) []browser.Element {
	out := make([]browser.Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out
}
