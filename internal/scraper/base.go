// Shared types for the polling loop: what a results page looks like
// and what one job card turns into.

package scraper

import (
	"errors"
	"fmt"

	"go-shift-hunter/internal/browser"
)

// ErrNoShift means an opened listing turned out to have no bookable shift.
// The submitter has already navigated back when it returns this.
var ErrNoShift = errors.New("no work shift found")

type PageState int

const (
	NoJobs PageState = iota
	JobsFound
	// Blocked is reserved for anti-bot detection; nothing produces it yet.
	Blocked
)

func (s PageState) String() string {
	switch s {
	case NoJobs:
		return "no jobs"
	case JobsFound:
		return "jobs found"
	case Blocked:
		return "blocked"
	}
	return fmt.Sprintf("PageState(%d)", int(s))
}

// StateOrNoJobs is the fail-closed fallback for page classification:
// any inspection error reads as NoJobs so the loop refreshes instead of acting.
func StateOrNoJobs(state PageState, err error) PageState {
	if err != nil {
		return NoJobs
	}
	return state
}

// Listing is one job card from a results page.
// Handle is only usable until the page navigates or reloads.
type Listing struct {
	Name              string
	EmploymentType    string
	ShiftAvailability string
	Duration          string
	PayRate           string
	Location          string
	Handle            browser.Handle
}

func (l Listing) String() string {
	return fmt.Sprintf("%s | %s | %s", l.Name, l.EmploymentType, l.ShiftAvailability)
}

// Detector classifies the current page.
type Detector interface {
	Classify() (PageState, error)
}

// Extractor parses every job card on the current page.
type Extractor interface {
	ExtractAll() []Listing
}

// Submitter drives the application form for one listing; nil means submitted.
type Submitter interface {
	Submit(l Listing) error
}
