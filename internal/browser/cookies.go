package browser

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// Cookie is one entry of a cookies JSON file exported from a logged-in hiring session.
// Loading them can stand in for the manual login.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// CookieReport says what happened to an exported session.
type CookieReport struct {
	Total   int
	Kept    int
	Expired int
	Foreign int
}

// LoadCookies reads an exported session for targetURL. Expired cookies and
// cookies for other sites are dropped; the report counts both.
func LoadCookies(path, targetURL string, log logrus.FieldLogger) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	target, err := url.Parse(targetURL)
	if err != nil || target.Hostname() == "" {
		return nil, fmt.Errorf("invalid target url %q", targetURL)
	}

	kept, report := filterCookies(cookies, target.Hostname(), time.Now())
	if report.Expired > 0 {
		log.Warnf("⚠️ %d cookies have expired. Export a fresh session to skip the login prompt.", report.Expired)
	}
	if report.Foreign > 0 {
		log.Debugf("🍪 Ignored %d cookies for other sites", report.Foreign)
	}
	log.Infof("🍪 Kept %d of %d cookies for %s", report.Kept, report.Total, target.Hostname())

	pwCookies := make([]playwright.OptionalCookie, len(kept))
	for i, c := range kept {
		pwCookies[i] = c.ToPlaywright()
	}
	return pwCookies, nil
}

func filterCookies(cookies []Cookie, host string, now time.Time) ([]Cookie, CookieReport) {
	report := CookieReport{Total: len(cookies)}
	kept := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		switch {
		case !c.MatchesHost(host):
			report.Foreign++
		case c.ExpiredAt(now):
			report.Expired++
		default:
			kept = append(kept, c)
		}
	}
	report.Kept = len(kept)
	return kept, report
}

// MatchesHost reports whether the browser would send the cookie to host.
// A leading dot on the domain is ignored, as browsers do.
func (c Cookie) MatchesHost(host string) bool {
	domain := strings.ToLower(strings.TrimPrefix(c.Domain, "."))
	host = strings.ToLower(host)
	if domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// ExpiredAt reports whether the cookie is past its expiry. Session cookies
// (expires <= 0) never expire here.
func (c Cookie) ExpiredAt(now time.Time) bool {
	if c.Expires <= 0 {
		return false
	}
	return time.Unix(int64(c.Expires), 0).Before(now)
}

func (c Cookie) ToPlaywright() playwright.OptionalCookie {
	pwCookie := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(c.Path),
	}

	if c.Expires > 0 {
		pwCookie.Expires = playwright.Float(c.Expires)
	}
	if c.HTTPOnly {
		pwCookie.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		pwCookie.Secure = playwright.Bool(true)
	}

	switch c.SameSite {
	case "Lax":
		pwCookie.SameSite = playwright.SameSiteAttributeLax
	case "Strict":
		pwCookie.SameSite = playwright.SameSiteAttributeStrict
	case "None":
		pwCookie.SameSite = playwright.SameSiteAttributeNone
	}

	return pwCookie
}
