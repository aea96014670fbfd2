package reporter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-shift-hunter/internal/scraper"
)

func TestFormatSubmitted(t *testing.T) {
	msg := FormatSubmitted(scraper.Listing{
		Name:              "Warehouse <Associate> & Sorter",
		EmploymentType:    "Type: Full Time",
		ShiftAvailability: "3 shifts available",
		PayRate:           "Pay rate: $19.30",
		Location:          "Mississauga, ON",
	})

	lines := strings.Split(msg, "\n")
	assert.Equal(t, "✅ <b>Application submitted</b>", lines[0])
	assert.Contains(t, msg, "Warehouse &lt;Associate&gt; &amp; Sorter")
	assert.Contains(t, msg, "💰 Pay rate: $19.30")
	assert.NotContains(t, msg, "⏳")
	assert.Equal(t, "📍 Mississauga, ON", lines[len(lines)-1])
}

func TestFormatSubmitted_EmptyFields(t *testing.T) {
	msg := FormatSubmitted(scraper.Listing{})

	assert.Equal(t, 4, strings.Count(msg, "N/A"))
	assert.False(t, strings.HasSuffix(msg, "\n"))
}

func TestFormatError(t *testing.T) {
	msg := FormatError(errors.New(`refresh page: <net::ERR_FAILED>`))
	assert.Equal(t, "⚠️ <b>Shift hunter stopped</b>:\nrefresh page: &lt;net::ERR_FAILED&gt;", msg)
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	assert.NoError(t, n.NotifySubmitted(scraper.Listing{}))
	assert.NoError(t, n.NotifyError(errors.New("x")))
}
