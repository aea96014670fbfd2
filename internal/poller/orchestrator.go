// Package poller runs the check → extract → apply → refresh loop until an
// application goes through or the process is stopped.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"go-shift-hunter/internal/browser"
	"go-shift-hunter/internal/reporter"
	"go-shift-hunter/internal/scraper"
)

type State int

const (
	Checking State = iota
	Extracting
	Applying
	Refreshing
	Done
)

func (s State) String() string {
	switch s {
	case Checking:
		return "Checking"
	case Extracting:
		return "Extracting"
	case Applying:
		return "Applying"
	case Refreshing:
		return "Refreshing"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Matcher accepts or rejects a listing; Reason is "" for accepted ones.
type Matcher interface {
	Matches(l scraper.Listing) bool
	Reason(l scraper.Listing) string
}

// Reloader reloads the current page.
type Reloader interface {
	Reload() error
}

// Sampler picks the pause before the next reload.
type Sampler interface {
	Sample() time.Duration
}

// SessionState is everything the loop remembers between polls.
type SessionState struct {
	Polls      int
	RefreshMin time.Duration
	RefreshMax time.Duration
	// MaxAttempts is carried for reporting only; the loop never stops on it.
	MaxAttempts int
	Submitted   bool
	Applied     scraper.Listing
}

type Deps struct {
	Detector  scraper.Detector
	Extractor scraper.Extractor
	Matcher   Matcher
	Submitter scraper.Submitter
	Page      Reloader
	Pause     Sampler
}

type Orchestrator struct {
	Deps
	state      SessionState
	candidates []scraper.Listing
	notifier   reporter.Notifier
	sleep      func(ctx context.Context, d time.Duration) error
	observer   func(from, to State)
	log        logrus.FieldLogger
}

type Option func(*Orchestrator)

// WithObserver registers fn to be called on every state transition.
func WithObserver(fn func(from, to State)) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

func WithNotifier(n reporter.Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithSleep replaces the context-aware sleep used before reloads.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) {
		o.sleep = fn
	}
}

func New(deps Deps, state SessionState, log logrus.FieldLogger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		Deps:     deps,
		state:    state,
		notifier: reporter.Nop{},
		sleep:    browser.Sleep,
		observer: func(State, State) {},
		log:      log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns a copy of the session state.
func (o *Orchestrator) State() SessionState {
	return o.state
}

// Run drives the loop. It returns nil once an application is submitted,
// ctx.Err() when ctx ends, or the error of a failed reload.
func (o *Orchestrator) Run(ctx context.Context) error {
	state := Checking
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var next State
		switch state {
		case Checking:
			next = o.check()
		case Extracting:
			next = o.extract()
		case Applying:
			next = o.apply()
		case Refreshing:
			if err := o.refresh(ctx); err != nil {
				return err
			}
			next = Checking
		case Done:
			o.finish()
			return nil
		}

		o.log.Debugf("%s -> %s", state, next)
		o.observer(state, next)
		state = next
	}
}

func (o *Orchestrator) check() State {
	o.state.Polls++
	o.log.Debugf("🔄 Poll #%d", o.state.Polls)

	ps, err := o.Detector.Classify()
	if err != nil {
		o.log.Warnf("⚠️ Error checking jobs availability: %v", err)
	}
	switch scraper.StateOrNoJobs(ps, err) {
	case scraper.JobsFound:
		o.log.Info("✅ Jobs found, proceeding to parse job cards...")
		return Extracting
	case scraper.Blocked:
		o.log.Warn("🛡️ Page looks blocked, refreshing anyway")
		return Refreshing
	default:
		o.log.Info("➖ No jobs available right now...")
		return Refreshing
	}
}

func (o *Orchestrator) extract() State {
	o.candidates = o.candidates[:0]
	for _, l := range o.Extractor.ExtractAll() {
		if !o.Matcher.Matches(l) {
			o.log.Infof("➖ Skipping %s: %s", l.Name, o.Matcher.Reason(l))
			continue
		}
		o.log.Infof("🎯 Found valid job: %s", l)
		o.candidates = append(o.candidates, l)
	}

	if len(o.candidates) == 0 {
		o.log.Info("➖ Target job not in current listing. Refreshing...")
		return Refreshing
	}
	return Applying
}

// apply submits candidates in extraction order. Later candidates are only
// tried while their handles survive the previous attempt.
func (o *Orchestrator) apply() State {
	defer func() { o.candidates = o.candidates[:0] }()

	for i, l := range o.candidates {
		if i > 0 && !l.Handle.Valid() {
			o.log.Info("🔁 Page changed during the last attempt, refreshing before trying other jobs")
			break
		}

		err := o.Submitter.Submit(l)
		switch {
		case err == nil:
			o.state.Applied = l
			return Done
		case errors.Is(err, scraper.ErrNoShift):
			o.log.Infof("🚫 %s has no work shift after all", l.Name)
		default:
			o.log.Warnf("⚠️ Failed processing job card %s: %v", l.Name, err)
		}
	}
	return Refreshing
}

func (o *Orchestrator) refresh(ctx context.Context) error {
	wait := o.Pause.Sample()
	o.log.Infof("⏳ Waiting %s before next check...", wait)
	if err := o.sleep(ctx, wait); err != nil {
		return err
	}
	if err := o.Page.Reload(); err != nil {
		return fmt.Errorf("refresh page: %w", err)
	}
	return nil
}

func (o *Orchestrator) finish() {
	o.state.Submitted = true
	o.log.Infof("🏁 Application submitted successfully after %d polls!", o.state.Polls)
	if err := o.notifier.NotifySubmitted(o.state.Applied); err != nil {
		o.log.Warnf("⚠️ Failed to send notification: %v", err)
	}
}
