package amazon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-shift-hunter/internal/browser/browsertest"
	"go-shift-hunter/internal/scraper"
)

func TestDetector_Classify(t *testing.T) {
	pageErr := errors.New("target closed")

	tests := []struct {
		name    string
		setup   func(d *browsertest.Driver)
		want    scraper.PageState
		wantErr error
	}{
		{
			name: "no jobs marker",
			setup: func(d *browsertest.Driver) {
				d.Set(noJobsMarker, &browsertest.Element{})
			},
			want: scraper.NoJobs,
		},
		{
			name: "marker wins over heading",
			setup: func(d *browsertest.Driver) {
				d.Set(noJobsMarker, &browsertest.Element{})
				d.Set(resultsHeading, &browsertest.Element{TextValue: "Total 3 jobs found"})
			},
			want: scraper.NoJobs,
		},
		{
			name: "results heading",
			setup: func(d *browsertest.Driver) {
				d.Set(resultsHeading, &browsertest.Element{TextValue: "Total 3 jobs found"})
			},
			want: scraper.JobsFound,
		},
		{
			name:  "neither",
			setup: func(d *browsertest.Driver) {},
			want:  scraper.NoJobs,
		},
		{
			name: "marker lookup fails",
			setup: func(d *browsertest.Driver) {
				d.Errs[noJobsMarker.String()] = pageErr
				d.Set(resultsHeading, &browsertest.Element{})
			},
			want:    scraper.NoJobs,
			wantErr: pageErr,
		},
		{
			name: "heading lookup fails",
			setup: func(d *browsertest.Driver) {
				d.Errs[resultsHeading.String()] = pageErr
			},
			want:    scraper.NoJobs,
			wantErr: pageErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := browsertest.NewDriver()
			tt.setup(d)
			session, _, _ := newTestSession(t, d)

			got, err := NewDetector(session, 0).Classify()

			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, scraper.NoJobs, scraper.StateOrNoJobs(got, err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDetector_WaitsForMarkers(t *testing.T) {
	t.Run("heading renders", func(t *testing.T) {
		d := browsertest.NewDriver()
		d.Set(resultsHeading, &browsertest.Element{TextValue: "Total 1 job found"})
		session, _, _ := newTestSession(t, d)

		got, err := NewDetector(session, time.Second).Classify()

		assert.NoError(t, err)
		assert.Equal(t, scraper.JobsFound, got)
	})

	t.Run("nothing renders in time", func(t *testing.T) {
		session, _, _ := newTestSession(t, browsertest.NewDriver())

		got, err := NewDetector(session, time.Second).Classify()

		assert.NoError(t, err)
		assert.Equal(t, scraper.NoJobs, got)
	})

	t.Run("page gone", func(t *testing.T) {
		d := browsertest.NewDriver()
		d.Errs[noJobsMarker.String()] = errors.New("target closed")
		session, _, _ := newTestSession(t, d)

		got, err := NewDetector(session, time.Second).Classify()

		assert.Error(t, err)
		assert.Equal(t, scraper.NoJobs, got)
	})
}
