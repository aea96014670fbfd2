package amazon

import (
	"errors"
	"time"

	"go-shift-hunter/internal/browser"
	"go-shift-hunter/internal/scraper"
)

// Detector tells a "no jobs" results page from one that lists jobs.
// wait bounds how long Classify gives the results app to render either marker.
type Detector struct {
	session *browser.Session
	wait    time.Duration
}

func NewDetector(session *browser.Session, wait time.Duration) *Detector {
	return &Detector{session: session, wait: wait}
}

// Classify gives the page up to the wait to render either marker, then checks
// the no-results marker first and the "Total" results heading second.
// A page showing neither counts as NoJobs. Errors are returned as-is;
// callers fall back with scraper.StateOrNoJobs.
func (d *Detector) Classify() (scraper.PageState, error) {
	if d.wait > 0 {
		err := d.session.WaitAny(d.wait, noJobsMarker, resultsHeading)
		if err != nil && !errors.Is(err, browser.ErrTimeout) {
			return scraper.NoJobs, err
		}
	}

	empty, err := d.session.Exists(noJobsMarker)
	if err != nil {
		return scraper.NoJobs, err
	}
	if empty {
		return scraper.NoJobs, nil
	}

	found, err := d.session.Exists(resultsHeading)
	if err != nil {
		return scraper.NoJobs, err
	}
	if found {
		return scraper.JobsFound, nil
	}
	return scraper.NoJobs, nil
}
