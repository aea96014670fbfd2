package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// launchArgs mirror the flags the bot has always run Chromium with.
var launchArgs = []string{
	"--start-maximized",
	"--ignore-certificate-errors",
	"--no-sandbox",
	"--disable-web-security",
	"--allow-running-insecure-content",
	"--disable-blink-features=AutomationControlled",
}

// stealthScript hides the most obvious automation fingerprint.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

type LaunchOptions struct {
	Headless bool
	// Install downloads a matching Chromium build before launching.
	Install bool
}

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewPlaywright(opts LaunchOptions) (*PlaywrightManager, error) {
	if opts.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless:          playwright.Bool(opts.Headless),
		Args:              launchArgs,
		IgnoreDefaultArgs: []string{"--enable-automation"},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: browser}, nil
}

// NewContext opens a fresh, incognito-like context with the stealth script and optional cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	browserCtx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		NoViewport:        playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}

	if err := browserCtx.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("could not add stealth script: %w", err)
	}

	if len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			browserCtx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	return browserCtx, nil
}

func (pm *PlaywrightManager) Close() error {
	var errs []error
	if pm.browser != nil {
		errs = append(errs, pm.browser.Close())
	}
	if pm.pw != nil {
		errs = append(errs, pm.pw.Stop())
	}
	return errors.Join(errs...)
}

// minClickBudget keeps a click from getting Playwright's "no timeout" value of 0
// when the wait used up the whole budget.
const minClickBudget = 100 * time.Millisecond

// PlaywrightDriver implements Driver on top of a browser context.
// The active page changes when ExpectWindow opens a tab; main is the tab the hunter started in.
type PlaywrightDriver struct {
	browserCtx    playwright.BrowserContext
	main          playwright.Page
	page          playwright.Page
	actionTimeout time.Duration
}

func NewDriver(browserCtx playwright.BrowserContext, actionTimeout time.Duration) (*PlaywrightDriver, error) {
	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return &PlaywrightDriver{
		browserCtx:    browserCtx,
		main:          page,
		page:          page,
		actionTimeout: actionTimeout,
	}, nil
}

func (d *PlaywrightDriver) Navigate(url string) error {
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(30000),
	})
	return translate(err)
}

func (d *PlaywrightDriver) FindAll(sel Selector) ([]Element, error) {
	locators, err := d.page.Locator(sel.String()).All()
	if err != nil {
		return nil, translate(err)
	}
	return d.wrap(locators), nil
}

// WaitInteractable waits for sel to be visible. The returned element's actions
// get whatever is left of timeout, so a wait plus a click stays within timeout
// (plus at most minClickBudget).
func (d *PlaywrightDriver) WaitInteractable(sel Selector, timeout time.Duration) (Element, error) {
	start := time.Now()
	loc := d.page.Locator(sel.String()).First()
	if err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return nil, translate(err)
	}
	return &pwElement{loc: loc, timeout: remainingBudget(timeout, time.Since(start))}, nil
}

func (d *PlaywrightDriver) WaitAny(timeout time.Duration, sels ...Selector) error {
	if len(sels) == 0 {
		return nil
	}
	loc := d.page.Locator(sels[0].String())
	for _, sel := range sels[1:] {
		loc = loc.Or(d.page.Locator(sel.String()))
	}
	return translate(loc.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}))
}

func (d *PlaywrightDriver) Reload() error {
	_, err := d.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return translate(err)
}

func (d *PlaywrightDriver) Back() error {
	_, err := d.page.GoBack()
	return translate(err)
}

// ExpectWindow arms a popup listener before action runs, so a tab that opens
// asynchronously after the click is still caught.
func (d *PlaywrightDriver) ExpectWindow(action func() error, timeout time.Duration) error {
	var actionErr error
	popup, err := d.page.ExpectPopup(func() error {
		actionErr = action()
		return actionErr
	}, playwright.PageExpectPopupOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if actionErr != nil {
		return actionErr
	}
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return fmt.Errorf("%w: %v", ErrNoWindow, err)
		}
		return err
	}

	if err := popup.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return translate(err)
	}
	d.page = popup
	return translate(d.page.BringToFront())
}

func (d *PlaywrightDriver) CloseExtraWindows() error {
	var errs []error
	for _, p := range d.browserCtx.Pages() {
		if p == d.main {
			continue
		}
		errs = append(errs, p.Close())
	}
	d.page = d.main
	errs = append(errs, translate(d.page.BringToFront()))
	return errors.Join(errs...)
}

func (d *PlaywrightDriver) Screenshot(path string) error {
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (d *PlaywrightDriver) wrap(locators []playwright.Locator) []Element {
	els := make([]Element, len(locators))
	for i, loc := range locators {
		els[i] = &pwElement{loc: loc, timeout: d.actionTimeout}
	}
	return els
}

type pwElement struct {
	loc     playwright.Locator
	timeout time.Duration
}

func (e *pwElement) ms() *float64 {
	return playwright.Float(float64(e.timeout.Milliseconds()))
}

func (e *pwElement) Text() (string, error) {
	text, err := e.loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: e.ms()})
	return text, translate(err)
}

func (e *pwElement) Click() error {
	return translate(e.loc.Click(playwright.LocatorClickOptions{Timeout: e.ms()}))
}

func (e *pwElement) ScrollIntoCenter() error {
	_, err := e.loc.Evaluate(
		"el => el.scrollIntoView({behavior: 'auto', block: 'center', inline: 'center'})",
		nil,
		playwright.LocatorEvaluateOptions{Timeout: e.ms()},
	)
	return translate(err)
}

func (e *pwElement) Find(sel Selector) (Element, error) {
	loc := e.loc.Locator(sel.String())
	count, err := loc.Count()
	if err != nil {
		return nil, translate(err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	return &pwElement{loc: loc.First(), timeout: e.timeout}, nil
}

func (e *pwElement) FindAll(sel Selector) ([]Element, error) {
	locators, err := e.loc.Locator(sel.String()).All()
	if err != nil {
		return nil, translate(err)
	}
	els := make([]Element, len(locators))
	for i, loc := range locators {
		els[i] = &pwElement{loc: loc, timeout: e.timeout}
	}
	return els, nil
}

func remainingBudget(timeout, elapsed time.Duration) time.Duration {
	if left := timeout - elapsed; left > minClickBudget {
		return left
	}
	return minClickBudget
}

// translate maps Playwright failures onto the package's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		if strings.Contains(err.Error(), "intercepts pointer events") {
			return fmt.Errorf("%w: %v", ErrIntercepted, err)
		}
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
