package amazon

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shift-hunter/internal/browser"
	"go-shift-hunter/internal/browser/browsertest"
	"go-shift-hunter/internal/scraper"
	"go-shift-hunter/utils"
)

var flowSteps = []browser.Selector{scheduleDropdown, scheduleOption, applyButton, nextButton, createApplication}

const (
	searchPage      = "https://hiring.amazon.ca/search/warehouse-jobs#/"
	applicationPage = "https://hiring.amazon.ca/application/us/#/consent"
)

func selectorNames(sels ...browser.Selector) []string {
	out := make([]string, len(sels))
	for i, s := range sels {
		out[i] = s.String()
	}
	return out
}

type submitFixture struct {
	driver  *browsertest.ScreenshotDriver
	card    *browsertest.Element
	listing scraper.Listing
	sub     *Submitter
	shotDir string
}

// newSubmitFixture lays out a results page with one card whose detail view
// offers every application control.
func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()
	d := &browsertest.ScreenshotDriver{Driver: browsertest.NewDriver()}
	card := newCard(cardSpec{title: "Warehouse Associate", details: []string{"Type: Full Time"}, shift: "3 shifts available"})
	d.Set(jobCard, card)
	for _, sel := range flowSteps {
		d.Set(sel, &browsertest.Element{Label: sel.Expr})
	}
	d.Popup = applicationPage

	session, log, _ := newTestSession(t, d)
	cards, err := session.FindAll(jobCard)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	shotDir := filepath.Join(t.TempDir(), "shots")
	return &submitFixture{
		driver:  d,
		card:    card,
		listing: scraper.Listing{Name: "Warehouse Associate", Handle: cards[0]},
		sub:     NewSubmitter(session, searchPage, time.Second, utils.NewScreenShotDebugger(shotDir, log), log),
		shotDir: shotDir,
	}
}

func TestSubmitter_HappyPath(t *testing.T) {
	f := newSubmitFixture(t)

	err := f.sub.Submit(f.listing)

	require.NoError(t, err)
	assert.Equal(t, 1, f.card.Scrolls)
	assert.Equal(t, 1, f.card.Clicks)
	assert.Equal(t, selectorNames(flowSteps...), f.driver.Clicked)
	assert.Equal(t, 1, f.driver.Windows)
	assert.Equal(t, applicationPage, f.driver.URL)
	assert.Zero(t, f.driver.Closes)
	assert.Zero(t, f.driver.Backs)
	assert.Empty(t, f.driver.Paths)
	assert.False(t, f.listing.Handle.Valid())
}

func TestSubmitter_AbortsOnFirstFailedStep(t *testing.T) {
	tests := []struct {
		name        string
		breakStep   func(f *submitFixture)
		wantStep    string
		wantClicked []browser.Selector
		wantWindows int
	}{
		{
			name:        "schedule dropdown missing",
			breakStep:   func(f *submitFixture) { f.driver.Set(scheduleDropdown) },
			wantStep:    "open schedule dropdown",
			wantClicked: nil,
		},
		{
			name:        "apply button intercepted",
			breakStep:   func(f *submitFixture) { f.driver.Set(applyButton, &browsertest.Element{ClickErr: browser.ErrIntercepted}) },
			wantStep:    "apply",
			wantClicked: []browser.Selector{scheduleDropdown, scheduleOption},
		},
		{
			name:        "no application window",
			breakStep:   func(f *submitFixture) { f.driver.Popup = "" },
			wantStep:    "apply",
			wantClicked: []browser.Selector{scheduleDropdown, scheduleOption, applyButton},
		},
		{
			name:        "create application missing",
			breakStep:   func(f *submitFixture) { f.driver.Set(createApplication) },
			wantStep:    "create application",
			wantClicked: []browser.Selector{scheduleDropdown, scheduleOption, applyButton, nextButton},
			wantWindows: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSubmitFixture(t)
			tt.breakStep(f)

			err := f.sub.Submit(f.listing)

			var stepErr *StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, tt.wantStep, stepErr.Step)
			assert.NotErrorIs(t, err, scraper.ErrNoShift)
			if len(tt.wantClicked) == 0 {
				assert.Empty(t, f.driver.Clicked)
			} else {
				assert.Equal(t, selectorNames(tt.wantClicked...), f.driver.Clicked)
			}
			assert.Equal(t, tt.wantWindows, f.driver.Windows)
			assert.Equal(t, 1, f.driver.Closes)
			assert.Equal(t, searchPage, f.driver.URL)
			require.Len(t, f.driver.Paths, 1)
			assert.Equal(t, f.shotDir, filepath.Dir(f.driver.Paths[0]))
			assert.Contains(t, filepath.Base(f.driver.Paths[0]), "apply-failed_")
		})
	}
}

func TestSubmitter_NoShiftGoesBack(t *testing.T) {
	f := newSubmitFixture(t)
	f.driver.Set(noShiftMarker, &browsertest.Element{TextValue: "No work shift found"})

	err := f.sub.Submit(f.listing)

	assert.ErrorIs(t, err, scraper.ErrNoShift)
	assert.Equal(t, 1, f.driver.Backs)
	assert.Zero(t, f.driver.Closes)
	assert.Empty(t, f.driver.Clicked)
	assert.Empty(t, f.driver.Paths)
}

func TestSubmitter_ShiftCheckErrorContinues(t *testing.T) {
	f := newSubmitFixture(t)
	f.driver.Errs[noShiftMarker.String()] = errors.New("execution context was destroyed")

	require.NoError(t, f.sub.Submit(f.listing))
	assert.Zero(t, f.driver.Backs)
}

func TestSubmitter_StaleCard(t *testing.T) {
	f := newSubmitFixture(t)
	f.sub.session.Invalidate()

	err := f.sub.Submit(f.listing)

	assert.ErrorIs(t, err, browser.ErrStaleHandle)
	assert.Zero(t, f.card.Clicks)
	assert.Empty(t, f.driver.Clicked)
}

func TestSubmitter_CardClickFails(t *testing.T) {
	f := newSubmitFixture(t)
	f.card.ClickErr = browser.ErrIntercepted

	err := f.sub.Submit(f.listing)

	assert.ErrorIs(t, err, browser.ErrIntercepted)
	assert.Empty(t, f.driver.Clicked)
}

func TestSubmitter_WithoutScreenshots(t *testing.T) {
	d := browsertest.NewDriver()
	d.Set(jobCard, newCard(cardSpec{title: "Warehouse Associate"}))
	session, log, _ := newTestSession(t, d)
	cards, err := session.FindAll(jobCard)
	require.NoError(t, err)

	err = NewSubmitter(session, searchPage, time.Second, nil, log).Submit(scraper.Listing{Handle: cards[0]})

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "open schedule dropdown", stepErr.Step)
}

func TestSubmitter_NoWindowErrorIsTyped(t *testing.T) {
	f := newSubmitFixture(t)
	f.driver.Popup = ""

	err := f.sub.Submit(f.listing)

	assert.ErrorIs(t, err, browser.ErrNoWindow)
}

func TestSubmitter_FailureInApplicationTabClosesIt(t *testing.T) {
	f := newSubmitFixture(t)
	f.driver.Routes[searchPage] = func(d *browsertest.Driver) {
		d.Set(resultsHeading, &browsertest.Element{TextValue: "Total 1 job found"})
	}
	f.driver.Routes[applicationPage] = func(d *browsertest.Driver) {}

	err := f.sub.Submit(f.listing)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "next", stepErr.Step)
	assert.Equal(t, 1, f.driver.Windows)
	assert.Equal(t, 1, f.driver.Closes)
	assert.Equal(t, searchPage, f.driver.URL)

	back, err := f.sub.session.Exists(resultsHeading)
	require.NoError(t, err)
	assert.True(t, back)
}
