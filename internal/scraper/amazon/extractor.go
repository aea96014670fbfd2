package amazon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"go-shift-hunter/internal/browser"
	"go-shift-hunter/internal/scraper"
)

var shiftAvailableRegex = regexp.MustCompile(`(?i)\bshifts?\s+available\b`)

const (
	typePrefix     = "Type:"
	durationPrefix = "Duration:"
	payRatePrefix  = "Pay rate:"
)

// Extractor turns the job cards of a results page into listings.
type Extractor struct {
	session *browser.Session
	log     logrus.FieldLogger
}

func NewExtractor(session *browser.Session, log logrus.FieldLogger) *Extractor {
	return &Extractor{session: session, log: log}
}

// ExtractAll makes one pass over the cards currently on the page.
// A card that fails to parse is logged and skipped.
func (e *Extractor) ExtractAll() []scraper.Listing {
	cards, err := e.session.FindAll(jobCard)
	if err != nil {
		e.log.Errorf("❌ Error finding job cards: %v", err)
		return nil
	}
	e.log.Infof("📦 Found %d job cards.", len(cards))

	listings := make([]scraper.Listing, 0, len(cards))
	for i, card := range cards {
		listing, err := e.parseCard(card)
		if err != nil {
			e.log.Warnf("⚠️ Skipping job card %d: %v", i+1, err)
			continue
		}
		listings = append(listings, listing)
	}
	return listings
}

func (e *Extractor) parseCard(card browser.Handle) (scraper.Listing, error) {
	titleEl, err := card.Find(cardTitle)
	if err != nil {
		return scraper.Listing{}, fmt.Errorf("title: %w", err)
	}
	name, err := titleEl.Text()
	if err != nil {
		return scraper.Listing{}, fmt.Errorf("title text: %w", err)
	}

	listing := scraper.Listing{
		Name:   strings.TrimSpace(name),
		Handle: card,
	}

	details, err := card.FindAll(cardDetail)
	if err != nil {
		return scraper.Listing{}, fmt.Errorf("details: %w", err)
	}
	for _, d := range details {
		text, err := d.Text()
		if err != nil {
			return scraper.Listing{}, fmt.Errorf("detail text: %w", err)
		}
		ParseDetail(&listing, text)
	}

	// the dedicated lookup is authoritative for shift text
	listing.ShiftAvailability = ""
	shiftEl, err := card.Find(cardShiftText)
	if err == nil {
		var text string
		text, err = shiftEl.Text()
		listing.ShiftAvailability = strings.TrimSpace(text)
	}
	if err != nil {
		e.log.Errorf("❌ No shift text for %q: %v", listing.Name, err)
	}

	return listing, nil
}

// ParseDetail files one detail line of a job card into the listing.
// Lines with no known prefix land in Location; the last one wins.
func ParseDetail(l *scraper.Listing, text string) {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, typePrefix):
		l.EmploymentType = text
	case strings.HasPrefix(text, durationPrefix):
		l.Duration = text
	case strings.HasPrefix(text, payRatePrefix):
		l.PayRate = text
	case shiftAvailableRegex.MatchString(text):
		l.ShiftAvailability = text
	case !strings.Contains(text, typePrefix) && !strings.Contains(text, durationPrefix) && !strings.Contains(text, payRatePrefix):
		l.Location = text
	}
}
