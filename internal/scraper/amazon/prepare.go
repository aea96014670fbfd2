package amazon

import (
	"time"

	"github.com/sirupsen/logrus"

	"go-shift-hunter/internal/browser"
)

// Prepare dismisses the cookie-consent dialog and the guided-search overlay
// that cover the results page on first load. All clicks are best-effort.
func Prepare(session *browser.Session, timeout time.Duration, log logrus.FieldLogger) {
	present, err := session.Exists(consentButton)
	if err != nil {
		log.Warnf("⚠️ Could not look for consent dialog: %v", err)
	}
	if present {
		log.Info("🍪 Accepting consent dialog...")
		session.SafeClick(consentButton, timeout)
		session.SafeClick(consentModalButton, timeout)
	}
	session.SafeClick(closeGuidedSearch, timeout)
}
