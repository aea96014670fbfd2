package amazon

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"go-shift-hunter/internal/browser"
	"go-shift-hunter/internal/browser/browsertest"
)

type cardSpec struct {
	title   string
	details []string
	shift   string
}

// newCard builds a job card the way the results page nests it.
func newCard(c cardSpec) *browsertest.Element {
	el := &browsertest.Element{
		Label:    c.title,
		Children: map[string][]*browsertest.Element{},
	}
	if c.title != "" {
		el.Children[cardTitle.String()] = []*browsertest.Element{{TextValue: c.title}}
	}
	for _, d := range c.details {
		el.Children[cardDetail.String()] = append(el.Children[cardDetail.String()], &browsertest.Element{TextValue: d})
	}
	if c.shift != "" {
		el.Children[cardShiftText.String()] = []*browsertest.Element{{TextValue: c.shift}}
	}
	return el
}

func newTestSession(t *testing.T, d browser.Driver) (*browser.Session, *logrus.Logger, *test.Hook) {
	t.Helper()
	log, hook := test.NewNullLogger()
	return browser.NewSession(d, log, browser.WithSettleDelay(0)), log, hook
}

func countLevel(hook *test.Hook, level logrus.Level) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == level {
			n++
		}
	}
	return n
}
